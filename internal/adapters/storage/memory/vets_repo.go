package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"rafikipets-api/internal/domain/vets"
	"rafikipets-api/internal/platform/apperr"
)

type vetRepo struct {
	mu       sync.RWMutex
	byUserID map[string]vets.Profile
}

func NewVetRepo() vets.Repository {
	return &vetRepo{byUserID: make(map[string]vets.Profile)}
}

func (r *vetRepo) Create(ctx context.Context, p vets.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUserID[p.UserID]; exists {
		return apperr.ErrConflict
	}
	r.byUserID[p.UserID] = p
	return nil
}

func (r *vetRepo) GetByUserID(ctx context.Context, userID string) (vets.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byUserID[userID]
	if !ok {
		return vets.Profile{}, apperr.ErrNotFound
	}
	return p, nil
}

func (r *vetRepo) List(ctx context.Context, f vets.ListFilter) ([]vets.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]vets.Profile, 0)
	for _, p := range r.byUserID {
		if !p.Available {
			continue
		}
		if !containsFold(p.Specialty, f.Specialty) || !containsFold(p.Location, f.Location) {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return limit(out, f.Limit), nil
}

func containsFold(s, sub string) bool {
	if sub == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
