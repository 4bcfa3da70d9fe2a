package subscriptions

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("subscriptions: record not found")

type Repo struct{ db *pgxpool.Pool }

func NewRepo(db *pgxpool.Pool) *Repo { return &Repo{db: db} }

const recordCols = `id,user_id,service,start_date,end_date,active,created_at,updated_at`

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.Service,
		&r.StartDate,
		&r.EndDate,
		&r.Active,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]Record, error) {
	const q = `SELECT ` + recordCols + `
	           FROM subscriptions
	           WHERE user_id=$1
	           ORDER BY created_at`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, userID int64, service string, start time.Time, end *time.Time) (Record, error) {
	const q = `INSERT INTO subscriptions (user_id, service, start_date, end_date, active)
	           VALUES ($1, $2, $3, $4, TRUE)
	           RETURNING ` + recordCols
	return scanRecord(r.db.QueryRow(ctx, q, userID, service, start, end))
}

// Deactivate flips a record off without deleting it; history stays queryable.
func (r *Repo) Deactivate(ctx context.Context, id int64) error {
	const q = `UPDATE subscriptions SET active=FALSE, updated_at=NOW() WHERE id=$1`
	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReportRow is one line of the admin subscriptions report.
type ReportRow struct {
	Record
	UserEmail string
	UserName  string
}

func (r *Repo) ListAllWithUser(ctx context.Context) ([]ReportRow, error) {
	const q = `SELECT s.id,s.user_id,s.service,s.start_date,s.end_date,s.active,s.created_at,s.updated_at,
	                  u.email,u.name
	           FROM subscriptions s
	           JOIN users u ON u.id = s.user_id
	           ORDER BY s.created_at`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReportRow
	for rows.Next() {
		var row ReportRow
		if err := rows.Scan(
			&row.ID,
			&row.UserID,
			&row.Service,
			&row.StartDate,
			&row.EndDate,
			&row.Active,
			&row.CreatedAt,
			&row.UpdatedAt,
			&row.UserEmail,
			&row.UserName,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
