package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"legato/internal/domain"
)

const productColumns = `id::text, name, COALESCE(description, ''), price, category, condition, COALESCE(image_url, ''),
       seller_name, seller_email, status, COALESCE(rejection_reason, ''), submitted_at, approved_at, rejected_at`

var sortClauses = map[string]string{
	domain.SortNewest:    "submitted_at DESC, id",
	domain.SortPriceAsc:  "price ASC, submitted_at DESC",
	domain.SortPriceDesc: "price DESC, submitted_at DESC",
}

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

// Search returns approved listings matching filter. The caller is expected to
// have normalised Limit and Sort.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *postgresRepo) Search(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var (
		where = []string{"status = 'approved'"}
		args  []any
	)
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.Condition != "" {
		add("condition = $%d", filter.Condition)
	}
	if filter.MinPrice != nil {
		add("price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add("price <= $%d", *filter.MaxPrice)
	}
	if filter.Text != "" {
		add(`(name ILIKE $%[1]d ESCAPE '\' OR description ILIKE $%[1]d ESCAPE '\')`, "%"+likeEscaper.Replace(filter.Text)+"%")
	}
	order, ok := sortClauses[filter.Sort]
	if !ok {
		order = sortClauses[domain.SortNewest]
	}
	args = append(args, filter.Limit)
	q := fmt.Sprintf("SELECT %s\nFROM products\nWHERE %s\nORDER BY %s\nLIMIT $%d",
		productColumns, strings.Join(where, " AND "), order, len(args))

	result, err := r.queryProducts(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: search category=%s text=%q error=%v", filter.Category, filter.Text, err)
		return nil, err
	}
	r.logger.Printf("product repo: search category=%s text=%q count=%d", filter.Category, filter.Text, len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Printf("product repo: get id=%s not found", id)
		} else {
			r.logger.Printf("product repo: get id=%s error=%v", id, err)
		}
		return nil, err
	}
	return p, nil
}

// Create inserts a seller submission. Status is forced to pending.
func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	q := `
INSERT INTO products (name, description, price, category, condition, image_url, seller_name, seller_email, status)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, NULLIF($6, ''), $7, lower($8), 'pending')
RETURNING ` + productColumns
	res, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.Name,
		p.Description,
		p.Price,
		p.Category,
		p.Condition,
		p.ImageURL,
		p.SellerName,
		p.SellerEmail,
	))
	if err != nil {
		r.logger.Printf("product repo: create name=%q seller=%s error=%v", p.Name, p.SellerEmail, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%s seller=%s", res.ID, res.SellerEmail)
	return res, nil
}

// Upsert inserts or updates a listing keyed by (seller_email, name). Used by
// the importer, which may set any status.
func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	status := p.Status
	if status == "" {
		status = domain.ProductApproved
	}
	q := `
INSERT INTO products (name, description, price, category, condition, image_url, seller_name, seller_email, status,
                      approved_at, rejected_at)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, NULLIF($6, ''), $7, lower($8), $9,
        CASE WHEN $9 = 'approved' THEN now() END,
        CASE WHEN $9 = 'rejected' THEN now() END)
ON CONFLICT (seller_email, name) DO UPDATE SET
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    category = EXCLUDED.category,
    condition = EXCLUDED.condition,
    image_url = EXCLUDED.image_url,
    seller_name = EXCLUDED.seller_name,
    status = EXCLUDED.status,
    approved_at = COALESCE(products.approved_at, EXCLUDED.approved_at),
    rejected_at = COALESCE(products.rejected_at, EXCLUDED.rejected_at)
RETURNING ` + productColumns
	res, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.Name,
		p.Description,
		p.Price,
		p.Category,
		p.Condition,
		p.ImageURL,
		p.SellerName,
		p.SellerEmail,
		string(status),
	))
	if err != nil {
		r.logger.Printf("product repo: upsert name=%q seller=%s error=%v", p.Name, p.SellerEmail, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted id=%s name=%q status=%s", res.ID, res.Name, res.Status)
	return res, nil
}

func (r *postgresRepo) ListByStatus(ctx context.Context, status domain.ProductStatus, limit int) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + `
FROM products
WHERE status = $1
ORDER BY COALESCE(approved_at, rejected_at, submitted_at) DESC, submitted_at DESC
LIMIT $2`
	result, err := r.queryProducts(ctx, q, string(status), limit)
	if err != nil {
		r.logger.Printf("product repo: list status=%s error=%v", status, err)
		return nil, err
	}
	r.logger.Printf("product repo: list status=%s count=%d", status, len(result))
	return result, nil
}

func (r *postgresRepo) Approve(ctx context.Context, id string) (*domain.Product, error) {
	q := `
UPDATE products
SET status = 'approved', approved_at = now(), rejection_reason = NULL
WHERE id = $1 AND status = 'pending'
RETURNING ` + productColumns
	return r.review(ctx, "approve", id, q, id)
}

func (r *postgresRepo) Reject(ctx context.Context, id, reason string) (*domain.Product, error) {
	q := `
UPDATE products
SET status = 'rejected', rejected_at = now(), rejection_reason = $2
WHERE id = $1 AND status = 'pending'
RETURNING ` + productColumns
	return r.review(ctx, "reject", id, q, id, reason)
}

// review runs a guarded status update. When nothing was updated it tells an
// unknown id apart from one that was already reviewed.
func (r *postgresRepo) review(ctx context.Context, op, id, q string, args ...any) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, q, args...))
	if err == nil {
		r.logger.Printf("product repo: %s id=%s", op, id)
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		r.logger.Printf("product repo: %s id=%s error=%v", op, id, err)
		return nil, err
	}
	current, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	status := current.Status
	r.logger.Printf("product repo: %s id=%s already %s", op, id, status)
	return nil, fmt.Errorf("product already %s: %w", status, domain.ErrConflict)
}

func (r *postgresRepo) Categories(ctx context.Context, query string) ([]domain.CategorySummary, error) {
	const q = `
SELECT category, count(*)
FROM products
WHERE status = 'approved' AND ($1 = '' OR category ILIKE '%' || $1 || '%' ESCAPE '\')
GROUP BY category
ORDER BY category
`
	rows, err := r.pool.Query(ctx, q, likeEscaper.Replace(query))
	if err != nil {
		r.logger.Printf("product repo: categories query=%q error=%v", query, err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.CategorySummary{}
	for rows.Next() {
		var c domain.CategorySummary
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) Sellers(ctx context.Context, query string) ([]domain.SellerSummary, error) {
	const q = `
SELECT seller_name, count(*)
FROM products
WHERE status = 'approved' AND ($1 = '' OR seller_name ILIKE '%' || $1 || '%' ESCAPE '\')
GROUP BY seller_name
ORDER BY count(*) DESC, seller_name
`
	rows, err := r.pool.Query(ctx, q, likeEscaper.Replace(query))
	if err != nil {
		r.logger.Printf("product repo: sellers query=%q error=%v", query, err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.SellerSummary{}
	for rows.Next() {
		var s domain.SellerSummary
		if err := rows.Scan(&s.Name, &s.Listings); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *postgresRepo) queryProducts(ctx context.Context, q string, args ...any) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var status string
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.Condition,
		&p.ImageURL,
		&p.SellerName,
		&p.SellerEmail,
		&status,
		&p.RejectionReason,
		&p.SubmittedAt,
		&p.ApprovedAt,
		&p.RejectedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, domain.ErrAlreadyExists
			case "22P02":
				// malformed uuid
				return nil, domain.ErrNotFound
			}
		}
		return nil, err
	}
	p.Status = domain.ProductStatus(status)
	return &p, nil
}
