package emergencies

import (
	"context"
	"errors"
	"strings"
	"time"

	"rafikipets-api/internal/domain/users"
	"rafikipets-api/internal/platform/apperr"
	"rafikipets-api/internal/platform/ids"
	"rafikipets-api/internal/platform/logger"
)

var (
	ErrNotFound = apperr.NotFound("Emergency request not found")
	ErrOnlyVets = apperr.Forbidden("Only vets can accept emergency requests")
)

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
	Location    string `json:"location" validate:"required"`
	Description string `json:"description" validate:"required"`
	PetName     string `json:"pet_name" validate:"required"`
	PetType     string `json:"pet_type" validate:"required"`
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Request, error) {
	req := Request{
		ID:          ids.New("emr"),
		PetOwnerID:  ownerID,
		Location:    strings.TrimSpace(in.Location),
		Description: in.Description,
		PetName:     strings.TrimSpace(in.PetName),
		PetType:     strings.TrimSpace(in.PetType),
		Status:      StatusActive,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return Request{}, err
	}
	return req, nil
}

// ListFor: los vets ven todas las activas (más las que aceptaron); los dueños, las propias.
func (s *Service) ListFor(ctx context.Context, userID string, role users.Role) ([]Entry, error) {
	f := ListFilter{Limit: MaxList}
	if role == users.RoleVet {
		f.VisibleToVet = userID
	} else {
		f.PetOwnerID = userID
	}

	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(items))
	for _, req := range items {
		e := Entry{Request: req}
		if u, ok := s.users.Lookup(ctx, req.PetOwnerID); ok {
			e.OwnerName = u.Name
		}
		if req.AssignedVetID != nil {
			if u, ok := s.users.Lookup(ctx, *req.AssignedVetID); ok {
				e.VetName = u.Name
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// Accept asigna la solicitud al vet. No hay control de versión: si dos vets aceptan,
// gana la última escritura.
func (s *Service) Accept(ctx context.Context, vetID string, role users.Role, id string) (Request, error) {
	if role != users.RoleVet {
		return Request{}, ErrOnlyVets
	}

	id = strings.TrimSpace(id)
	prev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Request{}, ErrNotFound
		}
		return Request{}, err
	}
	if prev.AssignedVetID != nil && *prev.AssignedVetID != vetID {
		s.log.Warn("emergency reassigned", map[string]any{
			"request_id":   id,
			"previous_vet": *prev.AssignedVetID,
			"vet_id":       vetID,
		})
	}

	if err := s.repo.Assign(ctx, id, vetID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Request{}, ErrNotFound
		}
		return Request{}, err
	}
	return s.repo.GetByID(ctx, id)
}
