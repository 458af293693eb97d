package memory

import (
	"context"
	"sync"

	"rafikipets-api/internal/domain/payments"
	"rafikipets-api/internal/platform/apperr"
)

type paymentRepo struct {
	mu        sync.RWMutex
	bySession map[string]payments.Transaction
}

func NewPaymentRepo() payments.Repository {
	return &paymentRepo{bySession: make(map[string]payments.Transaction)}
}

func (r *paymentRepo) Create(ctx context.Context, t payments.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bySession[t.SessionID]; exists {
		return apperr.ErrConflict
	}
	r.bySession[t.SessionID] = t
	return nil
}

func (r *paymentRepo) GetBySessionID(ctx context.Context, sessionID string) (payments.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.bySession[sessionID]
	if !ok {
		return payments.Transaction{}, apperr.ErrNotFound
	}
	return t, nil
}

func (r *paymentRepo) MarkPaid(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.bySession[sessionID]
	if !ok {
		return apperr.ErrNotFound
	}
	t.PaymentStatus = payments.StatusPaid
	r.bySession[sessionID] = t
	return nil
}
