package sessions

import (
	"context"
	"errors"
	"strings"
	"time"

	"rafikipets-api/internal/domain/users"
	"rafikipets-api/internal/platform/apperr"
	"rafikipets-api/internal/platform/ids"
	"rafikipets-api/internal/platform/logger"
	"rafikipets-api/internal/platform/metrics"
	"rafikipets-api/internal/ports/auth"
)

// UserLookup evita depender del Service completo de users.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

type Service struct {
	repo  Repository
	users UserLookup
	log   logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, users UserLookup, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:  repo,
		users: users,
		log:   log,
		now:   time.Now,
	}
}

// Issue crea una sesión para userID con vencimiento now+TTL.
// token vacío => se genera uno; si viene (flujo federado) se adopta tal cual.
func (s *Service) Issue(ctx context.Context, userID, token string) (Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Session{}, apperr.Validation("user id required")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		token = ids.Token()
	}

	now := s.now().UTC()
	sess := Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(TTL),
		CreatedAt: now,
	}
	if err := s.repo.Save(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Resolve devuelve el usuario dueño del token o apperr.ErrUnauthenticated.
// Único side effect: borrar la sesión si está vencida.
func (s *Service) Resolve(ctx context.Context, token string) (users.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return users.User{}, apperr.ErrUnauthenticated
	}

	sess, err := s.repo.Get(ctx, token)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return users.User{}, apperr.ErrUnauthenticated
		}
		return users.User{}, err
	}

	valid, shouldDelete := Evaluate(sess, s.now())
	if shouldDelete {
		if err := s.repo.Delete(ctx, token); err != nil {
			s.log.Warn("expired session cleanup failed", map[string]any{"user_id": sess.UserID, "err": err.Error()})
		} else {
			metrics.SessionExpired()
		}
	}
	if !valid {
		return users.User{}, apperr.ErrUnauthenticated
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.log.Warn("session references missing user", map[string]any{"user_id": sess.UserID})
			return users.User{}, apperr.ErrUnauthenticated
		}
		return users.User{}, err
	}
	return u, nil
}

// Verify implementa auth.AuthVerifier para el middleware.
func (s *Service) Verify(ctx context.Context, token string) (auth.Claims, error) {
	u, err := s.Resolve(ctx, token)
	if err != nil {
		return auth.Claims{}, err
	}
	return auth.Claims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   string(u.Role),
	}, nil
}

// Revoke borra la sesión (logout). Idempotente.
func (s *Service) Revoke(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.repo.Delete(ctx, token)
}
