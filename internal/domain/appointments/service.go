package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rafikipets-api/internal/domain/users"
	"rafikipets-api/internal/platform/apperr"
	"rafikipets-api/internal/platform/ids"
	"rafikipets-api/internal/platform/logger"
)

var ErrNotFound = apperr.NotFound("Appointment not found")

type Service struct {
	repo  Repository
	users *users.Service
	log   logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, us *users.Service, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:  repo,
		users: us,
		log:   log,
		now:   time.Now,
	}
}

type CreateInput struct {
	VetID   string `json:"vet_id" validate:"required"`
	Date    string `json:"appointment_date" validate:"required"`
	Time    string `json:"appointment_time" validate:"required"`
	PetName string `json:"pet_name" validate:"required"`
	PetType string `json:"pet_type" validate:"required"`
	Reason  string `json:"reason" validate:"required"`
}

// Create no verifica que vet_id exista ni que el horario esté libre.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Appointment, error) {
	a := Appointment{
		ID:            ids.New("apt"),
		PetOwnerID:    ownerID,
		VetID:         strings.TrimSpace(in.VetID),
		Date:          in.Date,
		Time:          in.Time,
		PetName:       strings.TrimSpace(in.PetName),
		PetType:       strings.TrimSpace(in.PetType),
		Reason:        in.Reason,
		Status:        StatusPending,
		Amount:        ConsultationFee,
		PaymentStatus: PaymentPending,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (Appointment, error) {
	a, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if errors.Is(err, apperr.ErrNotFound) {
		return Appointment{}, ErrNotFound
	}
	return a, err
}

// ListFor filtra según el rol: un vet ve los suyos como vet, el resto como dueño.
func (s *Service) ListFor(ctx context.Context, userID string, role users.Role) ([]Entry, error) {
	f := ListFilter{Limit: MaxList}
	if role == users.RoleVet {
		f.VetID = userID
	} else {
		f.PetOwnerID = userID
	}

	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(items))
	for _, a := range items {
		e := Entry{Appointment: a}
		if u, ok := s.users.Lookup(ctx, a.VetID); ok {
			e.VetName = u.Name
		}
		if u, ok := s.users.Lookup(ctx, a.PetOwnerID); ok {
			e.OwnerName = u.Name
		}
		out = append(out, e)
	}
	return out, nil
}

// SetStatus no exige que actorID sea participante del turno; solo lo deja en el log.
func (s *Service) SetStatus(ctx context.Context, actorID, id string, status Status) (Appointment, error) {
	if !status.Valid() {
		return Appointment{}, apperr.Validation(fmt.Sprintf("status must be one of [pending confirmed completed cancelled], got %q", status))
	}

	a, err := s.Get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if actorID != a.PetOwnerID && actorID != a.VetID {
		s.log.Warn("appointment status changed by non-participant", map[string]any{
			"appointment_id": a.ID,
			"actor_id":       actorID,
			"status":         string(status),
		})
	}

	if err := s.repo.SetStatus(ctx, a.ID, status); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Appointment{}, ErrNotFound
		}
		return Appointment{}, err
	}
	a.Status = status
	return a, nil
}

// MarkPaid deja el turno pagado y confirmado. Idempotente.
func (s *Service) MarkPaid(ctx context.Context, id string) error {
	err := s.repo.SetPayment(ctx, id, PaymentPaid, StatusConfirmed)
	if errors.Is(err, apperr.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
