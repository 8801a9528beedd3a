package gateway

import (
	"context"

	"github.com/mfagundes/storefront/internal/domain/cart"
	"github.com/mfagundes/storefront/internal/domain/order"
)

// CartGateway is the interface the orchestrator consumes from the cart store.
type CartGateway interface {
	// GetCart returns the user's current cart snapshot.
	GetCart(ctx context.Context, userID string) (*cart.Snapshot, error)
	// ClearCart empties the user's cart. Clearing an already-empty cart is a
	// no-op success.
	ClearCart(ctx context.Context, userID string) error
}

// SubmitPaymentRequest contains the data needed to submit a payment.
type SubmitPaymentRequest struct {
	UserID         string
	AmountCents    int64
	Currency       string
	Method         string
	IdempotencyKey string
}

// PaymentOutcome is the processor's decision. Immutable once returned.
type PaymentOutcome struct {
	PaymentID string
	Status    order.PaymentStatus
}

// PaymentGateway is the interface the orchestrator consumes from the payment
// processor. SubmitPayment must be called at most once per checkout pass.
type PaymentGateway interface {
	SubmitPayment(ctx context.Context, req SubmitPaymentRequest) (*PaymentOutcome, error)
}

// CatalogGateway resolves product display data. Consumers treat failures as
// soft: a missing name falls back to a placeholder.
type CatalogGateway interface {
	ProductName(ctx context.Context, productID int64) (string, error)
}
