package emergencies

import "context"

const MaxList = 100

// ListFilter:
// - PetOwnerID => solicitudes de ese dueño.
// - VisibleToVet => activas + las asignadas a ese vet.
type ListFilter struct {
	PetOwnerID   string
	VisibleToVet string
	Limit        int
}

type Repository interface {
	Create(ctx context.Context, r Request) error
	GetByID(ctx context.Context, id string) (Request, error)
	List(ctx context.Context, f ListFilter) ([]Request, error)

	// Assign pisa status=accepted y assigned_vet_id sin mirar el valor previo.
	Assign(ctx context.Context, id, vetID string) error
}
