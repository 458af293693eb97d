package vets

import "context"

const MaxList = 100

// ListFilter: Specialty y Location son substrings case-insensitive. Vacío = sin filtro.
// List devuelve solo perfiles con Available=true.
type ListFilter struct {
	Specialty string
	Location  string
	Limit     int
}

type Repository interface {
	// Create devuelve apperr.ErrConflict si el usuario ya tiene perfil.
	Create(ctx context.Context, p Profile) error
	GetByUserID(ctx context.Context, userID string) (Profile, error)
	List(ctx context.Context, f ListFilter) ([]Profile, error)
}
