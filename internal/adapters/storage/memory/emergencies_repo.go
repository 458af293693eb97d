package memory

import (
	"context"
	"sort"
	"sync"

	"rafikipets-api/internal/domain/emergencies"
	"rafikipets-api/internal/platform/apperr"
)

type emergencyRepo struct {
	mu   sync.RWMutex
	byID map[string]emergencies.Request
}

func NewEmergencyRepo() emergencies.Repository {
	return &emergencyRepo{byID: make(map[string]emergencies.Request)}
}

func (r *emergencyRepo) Create(ctx context.Context, req emergencies.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[req.ID]; exists {
		return apperr.ErrConflict
	}
	r.byID[req.ID] = req
	return nil
}

func (r *emergencyRepo) GetByID(ctx context.Context, id string) (emergencies.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.byID[id]
	if !ok {
		return emergencies.Request{}, apperr.ErrNotFound
	}
	return req, nil
}

func (r *emergencyRepo) List(ctx context.Context, f emergencies.ListFilter) ([]emergencies.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]emergencies.Request, 0)
	for _, req := range r.byID {
		if f.PetOwnerID != "" && req.PetOwnerID != f.PetOwnerID {
			continue
		}
		if f.VisibleToVet != "" {
			mine := req.AssignedVetID != nil && *req.AssignedVetID == f.VisibleToVet
			if req.Status != emergencies.StatusActive && !mine {
				continue
			}
		}
		out = append(out, req)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return limit(out, f.Limit), nil
}

func (r *emergencyRepo) Assign(ctx context.Context, id, vetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.byID[id]
	if !ok {
		return apperr.ErrNotFound
	}
	v := vetID
	req.Status = emergencies.StatusAccepted
	req.AssignedVetID = &v
	r.byID[id] = req
	return nil
}
