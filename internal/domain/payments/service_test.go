package payments_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rafikipets-api/internal/adapters/storage/memory"
	"rafikipets-api/internal/domain/appointments"
	"rafikipets-api/internal/domain/payments"
	"rafikipets-api/internal/domain/users"
	"rafikipets-api/internal/platform/apperr"
	"rafikipets-api/internal/ports/checkout"
)

// -------------------------
// Fake checkout provider
// -------------------------

type fakeCheckout struct {
	created []checkout.SessionRequest
	paid    map[string]bool
}

func newFakeCheckout() *fakeCheckout {
	return &fakeCheckout{paid: map[string]bool{}}
}

func (f *fakeCheckout) CreateSession(ctx context.Context, req checkout.SessionRequest) (checkout.Session, error) {
	f.created = append(f.created, req)
	id := "cs_test_" + req.Metadata["appointment_id"]
	return checkout.Session{ID: id, URL: "https://checkout.example/" + id}, nil
}

func (f *fakeCheckout) GetStatus(ctx context.Context, sessionID string) (checkout.Status, error) {
	st := checkout.Status{SessionID: sessionID, Status: "open", PaymentStatus: "unpaid", AmountTotal: 5000, Currency: "usd"}
	if f.paid[sessionID] {
		st.Status = "complete"
		st.PaymentStatus = checkout.PaymentStatusPaid
	}
	return st, nil
}

func (f *fakeCheckout) ParseWebhook(ctx context.Context, payload []byte, signature string) (checkout.WebhookEvent, error) {
	if signature != "valid" {
		return checkout.WebhookEvent{}, errors.New("webhook has invalid signature")
	}
	return checkout.WebhookEvent{
		EventType:     "checkout.session.completed",
		SessionID:     string(payload),
		PaymentStatus: checkout.PaymentStatusPaid,
	}, nil
}

type fixture struct {
	svc      *payments.Service
	appts    *appointments.Service
	repo     payments.Repository
	provider *fakeCheckout
	apt      appointments.Appointment
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	us := users.NewService(memory.NewUserRepo())
	appts := appointments.NewService(memory.NewAppointmentRepo(), us, nil)
	repo := memory.NewPaymentRepo()
	provider := newFakeCheckout()

	apt, err := appts.Create(ctx, "user_owner", appointments.CreateInput{
		VetID: "user_vet", Date: "2026-05-01", Time: "09:00", PetName: "Rex", PetType: "dog", Reason: "vaccine",
	})
	require.NoError(t, err)

	return fixture{
		svc:      payments.NewService(repo, appts, provider, nil),
		appts:    appts,
		repo:     repo,
		provider: provider,
		apt:      apt,
	}
}

func TestCheckout_PersistsPendingTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.svc.Checkout(ctx, "user_owner", f.apt.ID, "https://app.example/")
	require.NoError(t, err)

	require.Len(t, f.provider.created, 1)
	req := f.provider.created[0]
	assert.Equal(t, 50.0, req.Amount)
	assert.Equal(t, "usd", req.Currency)
	assert.Equal(t, "https://app.example/payment/success?session_id={CHECKOUT_SESSION_ID}", req.SuccessURL)
	assert.Equal(t, "https://app.example/appointments", req.CancelURL)
	assert.Equal(t, map[string]string{"appointment_id": f.apt.ID, "user_id": "user_owner"}, req.Metadata)

	tx, err := f.repo.GetBySessionID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, payments.StatusPending, tx.PaymentStatus)
	assert.Equal(t, f.apt.ID, tx.AppointmentID)
}

func TestCheckout_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Checkout(ctx, "user_owner", "apt_missing", "https://app.example")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.svc.Checkout(ctx, "user_owner", f.apt.ID, "javascript:alert(1)")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestStatusPoll_ReconcilesOnlyWhenPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.svc.Checkout(ctx, "user_owner", f.apt.ID, "https://app.example")
	require.NoError(t, err)

	st, err := f.svc.Status(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "unpaid", st.PaymentStatus)

	a, err := f.appts.Get(ctx, f.apt.ID)
	require.NoError(t, err)
	assert.Equal(t, appointments.PaymentPending, a.PaymentStatus)

	f.provider.paid[sess.ID] = true
	st, err = f.svc.Status(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", st.PaymentStatus)

	a, err = f.appts.Get(ctx, f.apt.ID)
	require.NoError(t, err)
	assert.Equal(t, appointments.PaymentPaid, a.PaymentStatus)
	assert.Equal(t, appointments.StatusConfirmed, a.Status)
}

func TestPollAndWebhook_BothSucceed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.svc.Checkout(ctx, "user_owner", f.apt.ID, "https://app.example")
	require.NoError(t, err)
	f.provider.paid[sess.ID] = true

	_, err = f.svc.Status(ctx, sess.ID)
	require.NoError(t, err)

	// Un cambio manual posterior no se pisa: la transacción ya está pagada.
	_, err = f.appts.SetStatus(ctx, "user_vet", f.apt.ID, appointments.StatusCompleted)
	require.NoError(t, err)

	require.NoError(t, f.svc.Webhook(ctx, []byte(sess.ID), "valid"))

	tx, err := f.repo.GetBySessionID(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, tx.Paid())

	a, err := f.appts.Get(ctx, f.apt.ID)
	require.NoError(t, err)
	assert.Equal(t, appointments.StatusCompleted, a.Status)
}

func TestWebhook_BadSignatureSurfacesProviderMessage(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Webhook(context.Background(), []byte("cs_x"), "forged")
	require.ErrorIs(t, err, apperr.ErrExternal)
	assert.EqualError(t, err, "webhook has invalid signature")
}

func TestWebhook_UnknownSessionIsIgnored(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.svc.Webhook(context.Background(), []byte("cs_unknown"), "valid"))
}

func TestProviderNotConfigured(t *testing.T) {
	f := newFixture(t)
	svc := payments.NewService(f.repo, f.appts, nil, nil)

	_, err := svc.Status(context.Background(), "cs_1")
	assert.ErrorIs(t, err, apperr.ErrExternal)
}
