package memory

import (
	"context"
	"sync"

	"rafikipets-api/internal/domain/sessions"
	"rafikipets-api/internal/platform/apperr"
)

type sessionRepo struct {
	mu      sync.RWMutex
	byToken map[string]sessions.Session
}

func NewSessionRepo() sessions.Repository {
	return &sessionRepo{byToken: make(map[string]sessions.Session)}
}

func (r *sessionRepo) Save(ctx context.Context, s sessions.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byToken[s.Token] = s
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, token string) (sessions.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byToken[token]
	if !ok {
		return sessions.Session{}, apperr.ErrNotFound
	}
	return s, nil
}

func (r *sessionRepo) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byToken, token)
	return nil
}
