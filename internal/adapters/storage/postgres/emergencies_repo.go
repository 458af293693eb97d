package postgres

import (
	"context"
	"database/sql"

	"rafikipets-api/internal/domain/emergencies"
)

type EmergenciesRepo struct {
	db *sql.DB
}

func NewEmergenciesRepo(db *sql.DB) *EmergenciesRepo {
	return &EmergenciesRepo{db: db}
}

const emergencyColumns = `id, pet_owner_id, location, description, pet_name, pet_type, status, assigned_vet_id, created_at`

func (r *EmergenciesRepo) Create(ctx context.Context, e emergencies.Request) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO emergency_requests (`+emergencyColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		e.ID,
		e.PetOwnerID,
		e.Location,
		e.Description,
		e.PetName,
		e.PetType,
		string(e.Status),
		e.AssignedVetID,
		e.CreatedAt,
	)
	return mapErr(err)
}

func (r *EmergenciesRepo) GetByID(ctx context.Context, id string) (emergencies.Request, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+emergencyColumns+` FROM emergency_requests WHERE id = $1`, id)
	e, err := scanEmergency(row)
	if err != nil {
		return emergencies.Request{}, mapErr(err)
	}
	return e, nil
}

func (r *EmergenciesRepo) List(ctx context.Context, f emergencies.ListFilter) ([]emergencies.Request, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+emergencyColumns+`
		FROM emergency_requests
		WHERE ($1 = '' OR pet_owner_id = $1)
		  AND ($2 = '' OR status = 'active' OR assigned_vet_id = $2)
		ORDER BY created_at ASC
		LIMIT $3
	`, f.PetOwnerID, f.VisibleToVet, limitOr(f.Limit, emergencies.MaxList))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]emergencies.Request, 0)
	for rows.Next() {
		e, err := scanEmergency(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Assign no lleva condición sobre el estado previo: last writer wins.
func (r *EmergenciesRepo) Assign(ctx context.Context, id, vetID string) error {
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE emergency_requests
		SET status = 'accepted', assigned_vet_id = $2
		WHERE id = $1
	`, id, vetID))
}

func scanEmergency(s rowScanner) (emergencies.Request, error) {
	var e emergencies.Request
	var status string
	err := s.Scan(
		&e.ID,
		&e.PetOwnerID,
		&e.Location,
		&e.Description,
		&e.PetName,
		&e.PetType,
		&status,
		&e.AssignedVetID,
		&e.CreatedAt,
	)
	e.Status = emergencies.Status(status)
	return e, err
}
