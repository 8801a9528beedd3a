package order

import (
	"context"
)

// Repository is the order ledger: the durable store of finalized orders.
// NextOrderNumber is backed by a database sequence so order ids survive
// process restarts and are safe across concurrent instances.
type Repository interface {
	NextOrderNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
}
