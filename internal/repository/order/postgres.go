package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"legato/internal/domain"
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

// Create stores the order and its items in one transaction. A duplicate order
// id yields domain.ErrAlreadyExists and a negative amount a validation error.
func (r *postgresRepo) Create(ctx context.Context, o domain.Order) error {
	addrJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
INSERT INTO orders (id, session_id, status, payment_method, shipping_address, subtotal, shipping, tax, total, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`, o.ID, o.SessionID, o.Status, string(o.PaymentMethod), addrJSON,
		o.Totals.Subtotal, o.Totals.Shipping, o.Totals.Tax, o.Totals.Total, o.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				r.logger.Printf("order repo: create id=%s duplicate", o.ID)
				return domain.ErrAlreadyExists
			case "23514":
				r.logger.Printf("order repo: create id=%s rejected by %s", o.ID, pgErr.ConstraintName)
				return domain.NewValidationError("totals", "order amounts must not be negative")
			}
		}
		r.logger.Printf("order repo: create id=%s error=%v", o.ID, err)
		return err
	}

	batch := &pgx.Batch{}
	for _, item := range o.Items {
		batch.Queue(`
INSERT INTO order_items (order_id, product_id, name, price, quantity)
VALUES ($1, $2, $3, $4, $5)
`, o.ID, item.ProductID, item.Name, item.Price, item.Quantity)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		r.logger.Printf("order repo: create items id=%s error=%v", o.ID, err)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.logger.Printf("order repo: created id=%s items=%d total=%d", o.ID, len(o.Items), o.Totals.Total)
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const orderQuery = `
SELECT id, session_id, status, payment_method, shipping_address, subtotal, shipping, tax, total, created_at
FROM orders
WHERE id = $1
`
	var o domain.Order
	var method string
	var addrJSON []byte
	if err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&o.ID,
		&o.SessionID,
		&o.Status,
		&method,
		&addrJSON,
		&o.Totals.Subtotal,
		&o.Totals.Shipping,
		&o.Totals.Tax,
		&o.Totals.Total,
		&o.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get id=%s error=%v", id, err)
		return nil, err
	}
	o.PaymentMethod = domain.PaymentMethod(method)
	if err := json.Unmarshal(addrJSON, &o.ShippingAddress); err != nil {
		r.logger.Printf("order repo: decode address id=%s err=%v", id, err)
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT product_id, name, price, quantity
FROM order_items
WHERE order_id = $1
ORDER BY id
`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	o.Items = []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}
