package postgres

import (
	"context"
	"database/sql"

	"rafikipets-api/internal/domain/payments"
)

type PaymentsRepo struct {
	db *sql.DB
}

func NewPaymentsRepo(db *sql.DB) *PaymentsRepo {
	return &PaymentsRepo{db: db}
}

func (r *PaymentsRepo) Create(ctx context.Context, t payments.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payment_transactions (
			id, session_id, appointment_id, user_id,
			amount, currency, payment_status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		t.ID,
		t.SessionID,
		t.AppointmentID,
		t.UserID,
		t.Amount,
		t.Currency,
		t.PaymentStatus,
		t.CreatedAt,
	)
	return mapErr(err)
}

func (r *PaymentsRepo) GetBySessionID(ctx context.Context, sessionID string) (payments.Transaction, error) {
	var t payments.Transaction
	err := r.db.QueryRowContext(ctx, `
		SELECT id, session_id, appointment_id, user_id, amount, currency, payment_status, created_at
		FROM payment_transactions
		WHERE session_id = $1
	`, sessionID).Scan(
		&t.ID,
		&t.SessionID,
		&t.AppointmentID,
		&t.UserID,
		&t.Amount,
		&t.Currency,
		&t.PaymentStatus,
		&t.CreatedAt,
	)
	if err != nil {
		return payments.Transaction{}, mapErr(err)
	}
	return t, nil
}

func (r *PaymentsRepo) MarkPaid(ctx context.Context, sessionID string) error {
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE payment_transactions SET payment_status = $2 WHERE session_id = $1
	`, sessionID, payments.StatusPaid))
}
