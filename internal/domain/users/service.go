package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rafikipets-api/internal/platform/apperr"
	"rafikipets-api/internal/platform/ids"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// NormalizeEmail: trim + lower. El unique index se aplica sobre esta forma.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type CreateInput struct {
	Email        string
	PasswordHash string
	Name         string
	Picture      *string
	Role         Role
}

func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || strings.TrimSpace(in.Name) == "" {
		return User{}, apperr.Validation("email and name are required")
	}
	role := in.Role
	if role == "" {
		role = RolePetOwner
	}
	if !role.Valid() {
		return User{}, apperr.Validation("user_type must be pet_owner or vet")
	}

	u := User{
		ID:           ids.New("user"),
		Email:        email,
		PasswordHash: in.PasswordHash,
		Name:         strings.TrimSpace(in.Name),
		Picture:      in.Picture,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, apperr.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return User{}, apperr.ErrNotFound
	}
	return s.repo.GetByEmail(ctx, email)
}

// Lookup es best-effort: se usa para enriquecer respuestas (nombre/foto) y nunca falla el request.
func (s *Service) Lookup(ctx context.Context, id string) (User, bool) {
	if strings.TrimSpace(id) == "" {
		return User{}, false
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, false
	}
	return u, true
}

// RefreshProfile actualiza solo nombre y foto (flujo federado). Rol y password no se tocan.
func (s *Service) RefreshProfile(ctx context.Context, id, name string, picture *string) (User, error) {
	if err := s.repo.UpdateProfile(ctx, id, strings.TrimSpace(name), picture); err != nil {
		return User{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// Promote aplica la transición de rol sobre el usuario persistido.
func (s *Service) Promote(ctx context.Context, id string, to Role) (User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	next, err := NextRole(u.Role, to)
	if err != nil {
		if errors.Is(err, ErrIllegalRoleTransition) {
			return User{}, apperr.Validation(fmt.Sprintf("cannot change role from %s to %s", u.Role, to))
		}
		return User{}, err
	}
	if next == u.Role {
		return u, nil
	}

	if err := s.repo.UpdateRole(ctx, id, next); err != nil {
		return User{}, err
	}
	u.Role = next
	return u, nil
}
