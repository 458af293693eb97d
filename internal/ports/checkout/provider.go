package checkout

import (
	"context"
	"errors"
)

const PaymentStatusPaid = "paid"

var ErrNotConfigured = errors.New("checkout provider not configured")

type SessionRequest struct {
	Amount      float64
	Currency    string
	Description string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

type Session struct {
	ID  string
	URL string
}

// Status es el estado autoritativo de una sesión de checkout en el proveedor.
type Status struct {
	SessionID     string            `json:"session_id"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
}

type WebhookEvent struct {
	EventID       string
	EventType     string
	SessionID     string
	PaymentStatus string
	Metadata      map[string]string
}

// Provider abstrae el checkout hospedado (Stripe en prod, fake en tests).
type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (Session, error)
	GetStatus(ctx context.Context, sessionID string) (Status, error)
	ParseWebhook(ctx context.Context, payload []byte, signature string) (WebhookEvent, error)
}
