package stripe

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	stripego "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rafikipets-api/internal/ports/checkout"
)

const testSecret = "whsec_test_secret"

func signedPayload(t *testing.T, payload []byte) string {
	t.Helper()
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testSecret,
		Timestamp: time.Now(),
	})
	return sp.Header
}

func eventPayload(t *testing.T, eventType string, object map[string]any) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"id":          "evt_1",
		"object":      "event",
		"type":        eventType,
		"api_version": stripego.APIVersion,
		"data":        map[string]any{"object": object},
	})
	require.NoError(t, err)
	return raw
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, checkout.ErrNotConfigured)
}

func TestParseWebhook_CheckoutCompleted(t *testing.T) {
	p, err := New(Config{APIKey: "sk_test_x", WebhookSecret: testSecret})
	require.NoError(t, err)

	payload := eventPayload(t, "checkout.session.completed", map[string]any{
		"id":             "cs_test_1",
		"object":         "checkout.session",
		"payment_status": "paid",
		"metadata":       map[string]any{"appointment_id": "apt_1", "user_id": "user_1"},
	})

	ev, err := p.ParseWebhook(context.Background(), payload, signedPayload(t, payload))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.EventID)
	assert.Equal(t, "cs_test_1", ev.SessionID)
	assert.Equal(t, checkout.PaymentStatusPaid, ev.PaymentStatus)
	assert.Equal(t, map[string]string{"appointment_id": "apt_1", "user_id": "user_1"}, ev.Metadata)
}

func TestParseWebhook_OtherEventsHaveNoSession(t *testing.T) {
	p, err := New(Config{APIKey: "sk_test_x", WebhookSecret: testSecret})
	require.NoError(t, err)

	payload := eventPayload(t, "customer.created", map[string]any{"id": "cus_1", "object": "customer"})
	ev, err := p.ParseWebhook(context.Background(), payload, signedPayload(t, payload))
	require.NoError(t, err)
	assert.Empty(t, ev.SessionID)
}

func TestParseWebhook_BadSignature(t *testing.T) {
	p, err := New(Config{APIKey: "sk_test_x", WebhookSecret: testSecret})
	require.NoError(t, err)

	payload := eventPayload(t, "checkout.session.completed", map[string]any{"id": "cs_1"})
	_, err = p.ParseWebhook(context.Background(), payload, "t=1,v1=deadbeef")
	assert.Error(t, err)

	noSecret, err := New(Config{APIKey: "sk_test_x"})
	require.NoError(t, err)
	_, err = noSecret.ParseWebhook(context.Background(), payload, signedPayload(t, payload))
	assert.ErrorIs(t, err, checkout.ErrNotConfigured)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(5000), toMinorUnits(50.0))
	assert.Equal(t, int64(1999), toMinorUnits(19.99))
}
