package users

import "context"

// Repository es el Credential Store. Create devuelve apperr.ErrConflict si el email ya existe.
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	UpdateProfile(ctx context.Context, id, name string, picture *string) error
	UpdateRole(ctx context.Context, id string, role Role) error
}
