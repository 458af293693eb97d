package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"rafikipets-api/internal/domain/vets"
)

type VetsRepo struct {
	db *sql.DB
}

func NewVetsRepo(db *sql.DB) *VetsRepo {
	return &VetsRepo{db: db}
}

const vetColumns = `user_id, license_number, specialty, location, phone, bio, experience_years, available, rating, created_at`

func (r *VetsRepo) Create(ctx context.Context, p vets.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vet_profiles (`+vetColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		p.UserID,
		p.LicenseNumber,
		p.Specialty,
		p.Location,
		p.Phone,
		p.Bio,
		p.ExperienceYears,
		p.Available,
		p.Rating,
		p.CreatedAt,
	)
	return mapErr(err)
}

func (r *VetsRepo) GetByUserID(ctx context.Context, userID string) (vets.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+vetColumns+` FROM vet_profiles WHERE user_id = $1`, userID)
	p, err := scanVet(row)
	if err != nil {
		return vets.Profile{}, mapErr(err)
	}
	return p, nil
}

func (r *VetsRepo) List(ctx context.Context, f vets.ListFilter) ([]vets.Profile, error) {
	where := []string{"available = TRUE"}
	args := []any{}

	if f.Specialty != "" {
		args = append(args, likePattern(f.Specialty))
		where = append(where, fmt.Sprintf(`specialty ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if f.Location != "" {
		args = append(args, likePattern(f.Location))
		where = append(where, fmt.Sprintf(`location ILIKE $%d ESCAPE '\'`, len(args)))
	}
	args = append(args, limitOr(f.Limit, vets.MaxList))

	q := `SELECT ` + vetColumns + ` FROM vet_profiles WHERE ` + strings.Join(where, " AND ") +
		fmt.Sprintf(` ORDER BY created_at ASC LIMIT $%d`, len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vets.Profile, 0)
	for rows.Next() {
		p, err := scanVet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVet(s rowScanner) (vets.Profile, error) {
	var p vets.Profile
	err := s.Scan(
		&p.UserID,
		&p.LicenseNumber,
		&p.Specialty,
		&p.Location,
		&p.Phone,
		&p.Bio,
		&p.ExperienceYears,
		&p.Available,
		&p.Rating,
		&p.CreatedAt,
	)
	return p, err
}
