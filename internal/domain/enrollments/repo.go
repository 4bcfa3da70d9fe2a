package enrollments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound    = errors.New("enrollments: enrollment not found")
	ErrAlreadyPaid = errors.New("enrollments: enrollment already settled")
)

type Repo struct{ db *pgxpool.Pool }

func NewRepo(db *pgxpool.Pool) *Repo { return &Repo{db: db} }

const enrollmentCols = `id,reference,user_id,service,amount_usd,status,created_at,updated_at`

func scanEnrollment(row pgx.Row) (Enrollment, error) {
	var e Enrollment
	err := row.Scan(
		&e.ID,
		&e.Reference,
		&e.UserID,
		&e.Service,
		&e.AmountUSD,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Enrollment{}, ErrNotFound
	}
	return e, err
}

func (r *Repo) Create(ctx context.Context, reference string, userID int64, service string, amountUSD float64) (Enrollment, error) {
	const q = `INSERT INTO enrollments (reference, user_id, service, amount_usd, status)
	           VALUES ($1, $2, $3, $4, 'pending')
	           RETURNING ` + enrollmentCols
	return scanEnrollment(r.db.QueryRow(ctx, q, reference, userID, service, amountUSD))
}

func (r *Repo) GetByReference(ctx context.Context, reference string) (Enrollment, error) {
	const q = `SELECT ` + enrollmentCols + ` FROM enrollments WHERE reference=$1`
	return scanEnrollment(r.db.QueryRow(ctx, q, reference))
}

// MarkPaid settles a pending enrollment. The status guard makes the payment
// return call idempotent: a second call hits zero rows and reports
// ErrAlreadyPaid instead of granting access twice.
func (r *Repo) MarkPaid(ctx context.Context, reference string) (Enrollment, error) {
	const q = `UPDATE enrollments
	           SET status='paid', updated_at=NOW()
	           WHERE reference=$1 AND status='pending'
	           RETURNING ` + enrollmentCols
	e, err := scanEnrollment(r.db.QueryRow(ctx, q, reference))
	if errors.Is(err, ErrNotFound) {
		// distinguish "never existed" from "already settled"
		if _, getErr := r.GetByReference(ctx, reference); getErr == nil {
			return Enrollment{}, ErrAlreadyPaid
		}
		return Enrollment{}, ErrNotFound
	}
	return e, err
}

func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]Enrollment, error) {
	const q = `SELECT ` + enrollmentCols + ` FROM enrollments WHERE user_id=$1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
