package appointments

import "time"

// Status del turno.
// @Enum pending, confirmed, completed, cancelled
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// PaymentStatus del turno. Lo mueve payments, nunca el cliente.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// ConsultationFee es el precio fijo de toda consulta.
const ConsultationFee = 50.0

// Appointment. Date y Time son strings opacos del cliente, no se parsean.
type Appointment struct {
	ID         string
	PetOwnerID string
	VetID      string
	Date       string
	Time       string
	PetName    string
	PetType    string
	Reason     string

	Status        Status
	Amount        float64
	PaymentStatus PaymentStatus

	CreatedAt time.Time
}

// Entry es un Appointment con nombres de participantes (best-effort).
type Entry struct {
	Appointment
	VetName   string
	OwnerName string
}
