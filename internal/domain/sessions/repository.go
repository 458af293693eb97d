package sessions

import "context"

// Repository es el Session Store.
// Save es upsert por token; Delete es idempotente; Get devuelve apperr.ErrNotFound si no existe.
type Repository interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}
