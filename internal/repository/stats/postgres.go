package stats

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Orders(ctx context.Context, w Window) (int64, int64, error) {
	const q = `
SELECT COALESCE(sum(total), 0)::bigint, count(*)
FROM orders
WHERE ($1::timestamptz IS NULL OR created_at >= $1)
  AND ($2::timestamptz IS NULL OR created_at < $2)
`
	from, to := bounds(w)
	var revenue, count int64
	if err := r.pool.QueryRow(ctx, q, from, to).Scan(&revenue, &count); err != nil {
		r.logger.Printf("stats repo: orders error=%v", err)
		return 0, 0, err
	}
	return revenue, count, nil
}

func (r *postgresRepo) ApprovedListings(ctx context.Context, w Window) (int64, error) {
	const q = `
SELECT count(*)
FROM products
WHERE status = 'approved'
  AND ($1::timestamptz IS NULL OR approved_at >= $1)
  AND ($2::timestamptz IS NULL OR approved_at < $2)
`
	return r.count(ctx, "approved listings", q, w)
}

func (r *postgresRepo) Users(ctx context.Context, w Window) (int64, error) {
	const q = `
SELECT count(*)
FROM users
WHERE ($1::timestamptz IS NULL OR created_at >= $1)
  AND ($2::timestamptz IS NULL OR created_at < $2)
`
	return r.count(ctx, "users", q, w)
}

func (r *postgresRepo) PendingReviews(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products WHERE status = 'pending'`).Scan(&n); err != nil {
		r.logger.Printf("stats repo: pending reviews error=%v", err)
		return 0, err
	}
	return n, nil
}

func (r *postgresRepo) MonthlyRevenue(ctx context.Context, since time.Time) ([]MonthTotal, error) {
	const q = `
SELECT date_trunc('month', created_at AT TIME ZONE 'UTC') AS month, COALESCE(sum(total), 0)::bigint, count(*)
FROM orders
WHERE created_at >= $1
GROUP BY month
ORDER BY month
`
	rows, err := r.pool.Query(ctx, q, since)
	if err != nil {
		r.logger.Printf("stats repo: monthly revenue since=%s error=%v", since.Format(time.RFC3339), err)
		return nil, err
	}
	defer rows.Close()

	var result []MonthTotal
	for rows.Next() {
		var m MonthTotal
		if err := rows.Scan(&m.Month, &m.Revenue, &m.Orders); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *postgresRepo) count(ctx context.Context, what, q string, w Window) (int64, error) {
	from, to := bounds(w)
	var n int64
	if err := r.pool.QueryRow(ctx, q, from, to).Scan(&n); err != nil {
		r.logger.Printf("stats repo: %s error=%v", what, err)
		return 0, err
	}
	return n, nil
}

func bounds(w Window) (from, to *time.Time) {
	if !w.From.IsZero() {
		from = &w.From
	}
	if !w.To.IsZero() {
		to = &w.To
	}
	return from, to
}
