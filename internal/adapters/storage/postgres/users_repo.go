package postgres

import (
	"context"
	"database/sql"

	"rafikipets-api/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

const userColumns = `id, email, password_hash, name, picture, role, created_at`

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.Name,
		u.Picture,
		string(u.Role),
		u.CreatedAt,
	)
	return mapErr(err)
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UsersRepo) UpdateProfile(ctx context.Context, id, name string, picture *string) error {
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE users SET name = $2, picture = $3 WHERE id = $1
	`, id, name, picture))
}

func (r *UsersRepo) UpdateRole(ctx context.Context, id string, role users.Role) error {
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE users SET role = $2 WHERE id = $1
	`, id, string(role)))
}

func (r *UsersRepo) getOne(ctx context.Context, query string, arg string) (users.User, error) {
	var u users.User
	var role string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Picture,
		&role,
		&u.CreatedAt,
	)
	if err != nil {
		return users.User{}, mapErr(err)
	}
	u.Role = users.Role(role)
	return u, nil
}
