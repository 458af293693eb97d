package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"rafikipets-api/internal/domain/sessions"
)

type sessionDoc struct {
	SessionToken string    `bson:"session_token"`
	UserID       string    `bson:"user_id"`
	ExpiresAt    time.Time `bson:"expires_at"`
	CreatedAt    time.Time `bson:"created_at"`
}

type SessionsRepo struct {
	c *mongo.Collection
}

func NewSessionsRepo(db *mongo.Database) *SessionsRepo {
	return &SessionsRepo{c: db.Collection(colSessions)}
}

// Save reemplaza la sesión con el mismo token o la inserta.
func (r *SessionsRepo) Save(ctx context.Context, s sessions.Session) error {
	_, err := r.c.ReplaceOne(ctx,
		bson.M{"session_token": s.Token},
		sessionDoc{
			SessionToken: s.Token,
			UserID:       s.UserID,
			ExpiresAt:    s.ExpiresAt,
			CreatedAt:    s.CreatedAt,
		},
		options.Replace().SetUpsert(true),
	)
	return mapErr(err)
}

func (r *SessionsRepo) Get(ctx context.Context, token string) (sessions.Session, error) {
	var d sessionDoc
	if err := r.c.FindOne(ctx, bson.M{"session_token": token}).Decode(&d); err != nil {
		return sessions.Session{}, mapErr(err)
	}
	return sessions.Session{
		Token:     d.SessionToken,
		UserID:    d.UserID,
		ExpiresAt: d.ExpiresAt,
		CreatedAt: d.CreatedAt,
	}, nil
}

func (r *SessionsRepo) Delete(ctx context.Context, token string) error {
	_, err := r.c.DeleteOne(ctx, bson.M{"session_token": token})
	return mapErr(err)
}
