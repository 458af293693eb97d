package appointments

import "context"

const MaxList = 100

// ListFilter: exactamente uno de PetOwnerID / VetID debería venir.
type ListFilter struct {
	PetOwnerID string
	VetID      string
	Limit      int
}

type Repository interface {
	Create(ctx context.Context, a Appointment) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	List(ctx context.Context, f ListFilter) ([]Appointment, error)

	// SetStatus y SetPayment devuelven apperr.ErrNotFound si el id no existe.
	SetStatus(ctx context.Context, id string, status Status) error
	SetPayment(ctx context.Context, id string, payment PaymentStatus, status Status) error
}
