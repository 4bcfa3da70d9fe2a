package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("sessions: session not found")

type Repo struct{ db *pgxpool.Pool }

func NewRepo(db *pgxpool.Pool) *Repo { return &Repo{db: db} }

const sessionCols = `id,service,session_date,start_time,title,is_active,created_at,updated_at`

func scanSession(row pgx.Row) (Session, error) {
	var s Session
	err := row.Scan(
		&s.ID,
		&s.Service,
		&s.Date,
		&s.StartTime,
		&s.Title,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func (r *Repo) GetByID(ctx context.Context, id int64) (Session, error) {
	const q = `SELECT ` + sessionCols + ` FROM sessions WHERE id=$1`
	s, err := scanSession(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	return s, err
}

// ListActive returns active sessions, optionally narrowed to one service.
// Past sessions are kept; filtering by instant is the scheduler's job.
func (r *Repo) ListActive(ctx context.Context, service string) ([]Session, error) {
	q := `SELECT ` + sessionCols + `
	      FROM sessions
	      WHERE is_active
	      ORDER BY session_date, start_time, id`
	args := []any{}
	if service != "" {
		q = `SELECT ` + sessionCols + `
		     FROM sessions
		     WHERE is_active AND service=$1
		     ORDER BY session_date, start_time, id`
		args = append(args, service)
	}
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) ListAll(ctx context.Context) ([]Session, error) {
	const q = `SELECT ` + sessionCols + ` FROM sessions ORDER BY session_date, start_time, id`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, service string, date time.Time, startTime, title string) (Session, error) {
	const q = `INSERT INTO sessions (service, session_date, start_time, title, is_active)
	           VALUES ($1, $2, $3, $4, TRUE)
	           RETURNING ` + sessionCols
	return scanSession(r.db.QueryRow(ctx, q, service, date, startTime, title))
}

func (r *Repo) SetActive(ctx context.Context, id int64, active bool) error {
	const q = `UPDATE sessions SET is_active=$2, updated_at=NOW() WHERE id=$1`
	tag, err := r.db.Exec(ctx, q, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
