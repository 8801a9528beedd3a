package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mfagundes/storefront/internal/domain/cart"
	domainErrors "github.com/mfagundes/storefront/internal/domain/errors"
	"github.com/mfagundes/storefront/internal/domain/order"
)

// OrderRepository implements order.Repository using PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
	txm  *TxManager
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool, txm *TxManager) *OrderRepository {
	return &OrderRepository{pool: pool, txm: txm}
}

func (r *OrderRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// NextOrderNumber allocates the next order id from a database sequence, so
// ids survive restarts and never collide across instances. Gaps are fine.
func (r *OrderRepository) NextOrderNumber(ctx context.Context) (string, error) {
	var n int64
	err := r.db(ctx).QueryRow(ctx, `SELECT nextval('order_number_seq')`).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("next order number: %w", err)
	}
	return fmt.Sprintf("ORD-%04d", n), nil
}

// Create persists the order and its line items in one transaction.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	return r.txm.WithTransaction(ctx, func(ctx context.Context) error {
		_, err := r.db(ctx).Exec(ctx,
			`INSERT INTO orders
			 (order_id, user_id, total_amount, currency, status, message, payment_id, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			o.OrderID, o.UserID, centsToNumericString(o.TotalCents), o.Currency,
			string(o.Status), o.Message, o.PaymentID, o.CreatedAt, o.UpdatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("order %s already exists: %w", o.OrderID, err)
			}
			return fmt.Errorf("insert order: %w", err)
		}

		for _, item := range o.Items {
			_, err := r.db(ctx).Exec(ctx,
				`INSERT INTO order_items
				 (order_id, product_id, product_name, unit_price, quantity)
				 VALUES ($1,$2,$3,$4,$5)`,
				o.OrderID, item.ProductID, item.ProductName,
				centsToNumericString(item.UnitPriceCents), item.Quantity,
			)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves an order with its items.
func (r *OrderRepository) GetByID(ctx context.Context, orderID string) (*order.Order, error) {
	o, err := r.scanOrder(r.db(ctx).QueryRow(ctx,
		`SELECT order_id, user_id, total_amount, currency, status, message, payment_id, created_at, updated_at
		 FROM orders WHERE order_id = $1`, orderID))
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// ListByUser retrieves a user's orders, newest first, items included.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT order_id, user_id, total_amount, currency, status, message, payment_id, created_at, updated_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*order.Order
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	for _, o := range orders {
		items, err := r.loadItems(ctx, o.OrderID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return orders, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderID string) ([]cart.LineItem, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT product_id, product_name, unit_price, quantity
		 FROM order_items WHERE order_id = $1 ORDER BY product_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	var items []cart.LineItem
	for rows.Next() {
		var (
			item     cart.LineItem
			priceStr string
		)
		if err := rows.Scan(&item.ProductID, &item.ProductName, &priceStr, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		item.UnitPriceCents, err = numericStringToCents(priceStr)
		if err != nil {
			return nil, fmt.Errorf("order item price: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *OrderRepository) scanOrder(row scanner) (*order.Order, error) {
	var (
		o         order.Order
		totalStr  string
		statusStr string
	)
	err := row.Scan(
		&o.OrderID, &o.UserID, &totalStr, &o.Currency,
		&statusStr, &o.Message, &o.PaymentID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	o.TotalCents, err = numericStringToCents(totalStr)
	if err != nil {
		return nil, fmt.Errorf("order total: %w", err)
	}
	o.Status = order.Status(statusStr)
	return &o, nil
}
