package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
)

type Repo struct{ DB *pgxpool.Pool }

const userCols = `id, name, email, password_hash, avatar_public_id, avatar_url, role, created_at`

func (r *Repo) Create(ctx context.Context, name, email, passwordHash string) (User, error) {
	u := User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		// placeholder avatar until profile upload replaces it
		AvatarPublicID: "demoId",
		AvatarURL:      "demoUrl",
		Role:           RoleUser,
		PasswordHash:   passwordHash,
	}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO users(id, name, email, password_hash, avatar_public_id, avatar_url, role)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.AvatarPublicID, u.AvatarURL, u.Role,
	).Scan(&u.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return User{}, apperr.New(apperr.Conflict, "User already exist with this email")
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *Repo) ByEmail(ctx context.Context, email string) (User, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email=$1`, email)
	return scanUser(row)
}

func (r *Repo) ByID(ctx context.Context, id string) (User, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id)
	return scanUser(row)
}

func (r *Repo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+userCols+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateProfile changes name and/or email; empty strings leave the field as is.
func (r *Repo) UpdateProfile(ctx context.Context, id, name, email string) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE users SET
			name  = COALESCE(NULLIF($2,''), name),
			email = COALESCE(NULLIF($3,''), email)
		WHERE id=$1`, id, name, email)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.Newf(apperr.NotFound, "User doesn't exist with this id: %s", id)
	}
	return nil
}

func (r *Repo) UpdateRole(ctx context.Context, id, role string) error {
	ct, err := r.DB.Exec(ctx, `UPDATE users SET role=$2 WHERE id=$1`, id, role)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.Newf(apperr.NotFound, "User doesn't exist with this id: %s", id)
	}
	return nil
}

func (r *Repo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	ct, err := r.DB.Exec(ctx, `UPDATE users SET password_hash=$2 WHERE id=$1`, id, passwordHash)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.Newf(apperr.NotFound, "User doesn't exist with this id: %s", id)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) (User, error) {
	u, err := r.ByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if _, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id=$1`, id); err != nil {
		return User{}, err
	}
	return u, nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.AvatarPublicID, &u.AvatarURL, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.New(apperr.NotFound, "User not found")
	}
	return u, err
}
