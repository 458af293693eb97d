package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"rafikipets-api/internal/domain/users"
	"rafikipets-api/internal/platform/apperr"
)

type userRepo struct {
	mu      sync.RWMutex
	byID    map[string]users.User
	byEmail map[string]string
}

func NewUserRepo() users.Repository {
	return &userRepo{
		byID:    make(map[string]users.User),
		byEmail: make(map[string]string),
	}
}

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id required")
	}
	if _, exists := r.byID[u.ID]; exists {
		return apperr.ErrConflict
	}
	if _, exists := r.byEmail[u.Email]; exists {
		return apperr.ErrConflict
	}
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return users.User{}, apperr.ErrNotFound
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return users.User{}, apperr.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, id, name string, picture *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return apperr.ErrNotFound
	}
	u.Name = name
	u.Picture = picture
	r.byID[id] = u
	return nil
}

func (r *userRepo) UpdateRole(ctx context.Context, id string, role users.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return apperr.ErrNotFound
	}
	u.Role = role
	r.byID[id] = u
	return nil
}
