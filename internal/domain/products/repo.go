package products

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("products: product not found")

type Repo struct{ db *pgxpool.Pool }

func NewRepo(db *pgxpool.Pool) *Repo { return &Repo{db: db} }

const productCols = `id,service,kind,name,description,price_usd,duration_days,active,created_at,updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Service,
		&p.Kind,
		&p.Name,
		&p.Description,
		&p.PriceUSD,
		&p.DurationDays,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *Repo) ListActive(ctx context.Context) ([]Product, error) {
	const q = `SELECT ` + productCols + ` FROM products WHERE active ORDER BY name`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetByService(ctx context.Context, service string) (Product, error) {
	const q = `SELECT ` + productCols + ` FROM products WHERE service=$1`
	return scanProduct(r.db.QueryRow(ctx, q, service))
}
