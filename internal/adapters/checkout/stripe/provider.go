// Package stripe implementa checkout.Provider con Stripe Checkout.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	stripego "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
	"github.com/tidwall/gjson"

	"rafikipets-api/internal/ports/checkout"
)

type Config struct {
	APIKey        string
	WebhookSecret string
}

type Provider struct {
	api           *client.API
	webhookSecret string
}

var _ checkout.Provider = (*Provider)(nil)

// New devuelve checkout.ErrNotConfigured si falta la API key.
// Sin WebhookSecret el provider sirve checkout y status, pero rechaza webhooks.
func New(cfg Config) (*Provider, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, checkout.ErrNotConfigured
	}
	return &Provider{
		api:           client.New(key, nil),
		webhookSecret: strings.TrimSpace(cfg.WebhookSecret),
	}, nil
}

func (p *Provider) CreateSession(ctx context.Context, req checkout.SessionRequest) (checkout.Session, error) {
	if req.Amount <= 0 {
		return checkout.Session{}, errors.New("amount must be positive")
	}

	desc := req.Description
	if desc == "" {
		desc = "RafikiPets"
	}

	params := &stripego.CheckoutSessionParams{
		Mode:       stripego.String(string(stripego.CheckoutSessionModePayment)),
		SuccessURL: stripego.String(req.SuccessURL),
		CancelURL:  stripego.String(req.CancelURL),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{
				Quantity: stripego.Int64(1),
				PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripego.String(strings.ToLower(req.Currency)),
					UnitAmount: stripego.Int64(toMinorUnits(req.Amount)),
					ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripego.String(desc),
					},
				},
			},
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return checkout.Session{}, providerError(err)
	}
	return checkout.Session{ID: s.ID, URL: s.URL}, nil
}

func (p *Provider) GetStatus(ctx context.Context, sessionID string) (checkout.Status, error) {
	params := &stripego.CheckoutSessionParams{}
	params.Context = ctx

	s, err := p.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return checkout.Status{}, providerError(err)
	}
	return checkout.Status{
		SessionID:     s.ID,
		Status:        string(s.Status),
		PaymentStatus: string(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
		Metadata:      s.Metadata,
	}, nil
}

// ParseWebhook verifica la firma y extrae los campos de la sesión del evento.
// Eventos que no son de checkout vuelven con SessionID vacío.
func (p *Provider) ParseWebhook(ctx context.Context, payload []byte, signature string) (checkout.WebhookEvent, error) {
	if p.webhookSecret == "" {
		return checkout.WebhookEvent{}, fmt.Errorf("%w: missing webhook secret", checkout.ErrNotConfigured)
	}

	ev, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return checkout.WebhookEvent{}, err
	}

	out := checkout.WebhookEvent{
		EventID:   ev.ID,
		EventType: string(ev.Type),
	}
	if ev.Data == nil || !strings.HasPrefix(out.EventType, "checkout.session.") {
		return out, nil
	}

	obj := gjson.ParseBytes(ev.Data.Raw)
	out.SessionID = obj.Get("id").String()
	out.PaymentStatus = obj.Get("payment_status").String()
	if md := obj.Get("metadata"); md.IsObject() {
		out.Metadata = map[string]string{}
		md.ForEach(func(k, v gjson.Result) bool {
			out.Metadata[k.String()] = v.String()
			return true
		})
	}
	return out, nil
}

// toMinorUnits: 50.0 usd => 5000 centavos.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// providerError deja el mensaje de Stripe sin el JSON crudo.
func providerError(err error) error {
	var se *stripego.Error
	if errors.As(err, &se) && se.Msg != "" {
		return fmt.Errorf("stripe: %s", se.Msg)
	}
	return err
}
