package payments

import "time"

const (
	StatusPending = "pending"
	StatusPaid    = "paid"

	Currency = "usd"
)

// Transaction es la copia local de una sesión de checkout. SessionID es el id del proveedor.
type Transaction struct {
	ID            string
	SessionID     string
	AppointmentID string
	UserID        string
	Amount        float64
	Currency      string
	PaymentStatus string

	CreatedAt time.Time
}

func (t Transaction) Paid() bool { return t.PaymentStatus == StatusPaid }
