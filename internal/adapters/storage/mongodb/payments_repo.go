package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"rafikipets-api/internal/domain/payments"
)

type paymentDoc struct {
	PaymentID     string    `bson:"payment_id"`
	SessionID     string    `bson:"session_id"`
	AppointmentID string    `bson:"appointment_id"`
	UserID        string    `bson:"user_id"`
	Amount        float64   `bson:"amount"`
	Currency      string    `bson:"currency"`
	PaymentStatus string    `bson:"payment_status"`
	CreatedAt     time.Time `bson:"created_at"`
}

type PaymentsRepo struct {
	c *mongo.Collection
}

func NewPaymentsRepo(db *mongo.Database) *PaymentsRepo {
	return &PaymentsRepo{c: db.Collection(colPayments)}
}

func (r *PaymentsRepo) Create(ctx context.Context, t payments.Transaction) error {
	_, err := r.c.InsertOne(ctx, paymentDoc{
		PaymentID:     t.ID,
		SessionID:     t.SessionID,
		AppointmentID: t.AppointmentID,
		UserID:        t.UserID,
		Amount:        t.Amount,
		Currency:      t.Currency,
		PaymentStatus: t.PaymentStatus,
		CreatedAt:     t.CreatedAt,
	})
	return mapErr(err)
}

func (r *PaymentsRepo) GetBySessionID(ctx context.Context, sessionID string) (payments.Transaction, error) {
	var d paymentDoc
	if err := r.c.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&d); err != nil {
		return payments.Transaction{}, mapErr(err)
	}
	return payments.Transaction{
		ID:            d.PaymentID,
		SessionID:     d.SessionID,
		AppointmentID: d.AppointmentID,
		UserID:        d.UserID,
		Amount:        d.Amount,
		Currency:      d.Currency,
		PaymentStatus: d.PaymentStatus,
		CreatedAt:     d.CreatedAt,
	}, nil
}

func (r *PaymentsRepo) MarkPaid(ctx context.Context, sessionID string) error {
	return expectMatched(r.c.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{"payment_status": payments.StatusPaid}},
	))
}
