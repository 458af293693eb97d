package emergencies

import "time"

// Status de una solicitud de emergencia.
// @Enum active, accepted, completed, cancelled
type Status string

const (
	StatusActive    Status = "active"
	StatusAccepted  Status = "accepted"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Request struct {
	ID            string
	PetOwnerID    string
	Location      string
	Description   string
	PetName       string
	PetType       string
	Status        Status
	AssignedVetID *string

	CreatedAt time.Time
}

type Entry struct {
	Request
	OwnerName string
	VetName   string
}
