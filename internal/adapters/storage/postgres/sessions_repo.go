package postgres

import (
	"context"
	"database/sql"

	"rafikipets-api/internal/domain/sessions"
)

type SessionsRepo struct {
	db *sql.DB
}

func NewSessionsRepo(db *sql.DB) *SessionsRepo {
	return &SessionsRepo{db: db}
}

// Save es upsert por token.
func (r *SessionsRepo) Save(ctx context.Context, s sessions.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_sessions (token, user_id, expires_at, created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (token) DO UPDATE
		SET user_id = EXCLUDED.user_id,
			expires_at = EXCLUDED.expires_at,
			created_at = EXCLUDED.created_at
	`, s.Token, s.UserID, s.ExpiresAt, s.CreatedAt)
	return mapErr(err)
}

func (r *SessionsRepo) Get(ctx context.Context, token string) (sessions.Session, error) {
	var s sessions.Session
	err := r.db.QueryRowContext(ctx, `
		SELECT token, user_id, expires_at, created_at
		FROM user_sessions
		WHERE token = $1
	`, token).Scan(&s.Token, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return sessions.Session{}, mapErr(err)
	}
	return s, nil
}

func (r *SessionsRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE token = $1`, token)
	return mapErr(err)
}
