package postgres

import (
	"context"
	"database/sql"

	"rafikipets-api/internal/domain/appointments"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

const appointmentColumns = `id, pet_owner_id, vet_id, appointment_date, appointment_time,
	pet_name, pet_type, reason, status, amount, payment_status, created_at`

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (`+appointmentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		a.ID,
		a.PetOwnerID,
		a.VetID,
		a.Date,
		a.Time,
		a.PetName,
		a.PetType,
		a.Reason,
		string(a.Status),
		a.Amount,
		string(a.PaymentStatus),
		a.CreatedAt,
	)
	return mapErr(err)
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	a, err := scanAppointment(row)
	if err != nil {
		return appointments.Appointment{}, mapErr(err)
	}
	return a, nil
}

func (r *AppointmentsRepo) List(ctx context.Context, f appointments.ListFilter) ([]appointments.Appointment, error) {
	// '' como "sin filtro" para no armar SQL dinámico.
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE ($1 = '' OR pet_owner_id = $1)
		  AND ($2 = '' OR vet_id = $2)
		ORDER BY created_at ASC
		LIMIT $3
	`, f.PetOwnerID, f.VetID, limitOr(f.Limit, appointments.MaxList))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AppointmentsRepo) SetStatus(ctx context.Context, id string, status appointments.Status) error {
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE appointments SET status = $2 WHERE id = $1
	`, id, string(status)))
}

func (r *AppointmentsRepo) SetPayment(ctx context.Context, id string, payment appointments.PaymentStatus, status appointments.Status) error {
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE appointments SET payment_status = $2, status = $3 WHERE id = $1
	`, id, string(payment), string(status)))
}

func scanAppointment(s rowScanner) (appointments.Appointment, error) {
	var a appointments.Appointment
	var status, payment string
	err := s.Scan(
		&a.ID,
		&a.PetOwnerID,
		&a.VetID,
		&a.Date,
		&a.Time,
		&a.PetName,
		&a.PetType,
		&a.Reason,
		&status,
		&a.Amount,
		&payment,
		&a.CreatedAt,
	)
	a.Status = appointments.Status(status)
	a.PaymentStatus = appointments.PaymentStatus(payment)
	return a, err
}
