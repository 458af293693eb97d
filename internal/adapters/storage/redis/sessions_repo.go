// Package redis guarda sesiones con expiración nativa; el resto del dominio
// sigue en el store principal.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"rafikipets-api/internal/domain/sessions"
	"rafikipets-api/internal/platform/apperr"
)

const keyPrefix = "session:"

type sessionValue struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Connect parsea una URL redis:// y verifica con PING.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	c := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

type SessionsRepo struct {
	c   goredis.Cmdable
	now func() time.Time
}

func NewSessionsRepo(c goredis.Cmdable) *SessionsRepo {
	return &SessionsRepo{c: c, now: time.Now}
}

// Save escribe con TTL = expires_at - now. Una sesión ya vencida no se guarda
// (Redis la borraría igual), pero tampoco es error.
func (r *SessionsRepo) Save(ctx context.Context, s sessions.Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return r.Delete(ctx, s.Token)
	}
	raw, err := encode(s)
	if err != nil {
		return err
	}
	return r.c.Set(ctx, key(s.Token), raw, ttl).Err()
}

func (r *SessionsRepo) Get(ctx context.Context, token string) (sessions.Session, error) {
	raw, err := r.c.Get(ctx, key(token)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return sessions.Session{}, apperr.ErrNotFound
	}
	if err != nil {
		return sessions.Session{}, err
	}
	return decode(token, raw)
}

func (r *SessionsRepo) Delete(ctx context.Context, token string) error {
	return r.c.Del(ctx, key(token)).Err()
}

func key(token string) string { return keyPrefix + token }

func encode(s sessions.Session) ([]byte, error) {
	return json.Marshal(sessionValue{
		UserID:    s.UserID,
		ExpiresAt: s.ExpiresAt.UTC(),
		CreatedAt: s.CreatedAt.UTC(),
	})
}

func decode(token string, raw []byte) (sessions.Session, error) {
	var v sessionValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return sessions.Session{}, err
	}
	return sessions.Session{
		Token:     token,
		UserID:    v.UserID,
		ExpiresAt: v.ExpiresAt,
		CreatedAt: v.CreatedAt,
	}, nil
}
