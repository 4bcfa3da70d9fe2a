package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("users: user not found")

type Repo struct{ db *pgxpool.Pool }

func NewRepo(db *pgxpool.Pool) *Repo { return &Repo{db: db} }

const userCols = `id,subject,email,name,role,created_at,updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Subject, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *Repo) GetByID(ctx context.Context, id int64) (User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id=$1`
	return scanUser(r.db.QueryRow(ctx, q, id))
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE email=$1`
	return scanUser(r.db.QueryRow(ctx, q, email))
}

// EnsureFromToken upserts the row for an authenticated subject and returns
// it. Email/name follow whatever the provider currently reports.
func (r *Repo) EnsureFromToken(ctx context.Context, subject, email, name string) (User, error) {
	const q = `INSERT INTO users (subject, email, name, role)
	           VALUES ($1, $2, $3, 'member')
	           ON CONFLICT (subject)
	           DO UPDATE SET email=EXCLUDED.email, name=EXCLUDED.name, updated_at=NOW()
	           RETURNING ` + userCols
	return scanUser(r.db.QueryRow(ctx, q, subject, email, name))
}
