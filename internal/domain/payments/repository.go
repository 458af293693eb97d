package payments

import "context"

type Repository interface {
	Create(ctx context.Context, t Transaction) error
	GetBySessionID(ctx context.Context, sessionID string) (Transaction, error)
	// MarkPaid devuelve apperr.ErrNotFound si no hay transacción para la sesión.
	MarkPaid(ctx context.Context, sessionID string) error
}
