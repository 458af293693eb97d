// Package mongodb guarda el dominio en MongoDB, con el mismo layout de colecciones
// y nombres de campos que usa el frontend.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"rafikipets-api/internal/platform/apperr"
)

const (
	colUsers        = "users"
	colSessions     = "user_sessions"
	colVetProfiles  = "vet_profiles"
	colAppointments = "appointments"
	colEmergencies  = "emergency_requests"
	colChats        = "chats"
	colMessages     = "messages"
	colPayments     = "payment_transactions"
)

// Connect abre el cliente y verifica con un ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetConnectTimeout(5 * time.Second))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// EnsureIndexes crea los índices únicos de los que dependen los repos
// (email, token, perfil por usuario, par dueño/vet, sesión de pago).
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := []struct {
		coll   string
		models []mongo.IndexModel
	}{
		{colUsers, []mongo.IndexModel{
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{colSessions, []mongo.IndexModel{
			{Keys: bson.D{{Key: "session_token", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{colVetProfiles, []mongo.IndexModel{
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{colAppointments, []mongo.IndexModel{
			{Keys: bson.D{{Key: "appointment_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "pet_owner_id", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "vet_id", Value: 1}, {Key: "created_at", Value: 1}}},
		}},
		{colEmergencies, []mongo.IndexModel{
			{Keys: bson.D{{Key: "request_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
		}},
		{colChats, []mongo.IndexModel{
			{Keys: bson.D{{Key: "chat_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "pet_owner_id", Value: 1}, {Key: "vet_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{colMessages, []mongo.IndexModel{
			{Keys: bson.D{{Key: "chat_id", Value: 1}, {Key: "created_at", Value: 1}}},
		}},
		{colPayments, []mongo.IndexModel{
			{Keys: bson.D{{Key: "session_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
	}

	for _, s := range specs {
		if _, err := db.Collection(s.coll).Indexes().CreateMany(ctx, s.models); err != nil {
			return fmt.Errorf("indexes %s: %w", s.coll, err)
		}
	}
	return nil
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperr.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return apperr.ErrConflict
	default:
		return err
	}
}

func expectMatched(res *mongo.UpdateResult, err error) error {
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// containsFold: substring case-insensitive; el texto del usuario no se interpreta como regex.
func containsFold(s string) bson.Regex {
	return bson.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func findAsc(limit int) *options.FindOptionsBuilder {
	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))
}
