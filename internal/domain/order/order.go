package order

import (
	"time"

	"github.com/mfagundes/storefront/internal/domain/cart"
	"github.com/mfagundes/storefront/internal/domain/errors"
)

// Status represents the order status in the state machine
type Status string

const (
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
)

// PaymentStatus is the outcome reported by the payment processor.
type PaymentStatus string

const (
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
	PaymentPending  PaymentStatus = "pending"
)

// Order is the finalized record of a checkout attempt that reached a payment
// decision. Status is fixed when the checkout pass ends; later transitions
// (e.g. shipped) are driven by separate processes reading the ledger.
type Order struct {
	OrderID    string
	UserID     string
	TotalCents int64
	Currency   string
	Items      []cart.LineItem
	Status     Status
	Message    string
	PaymentID  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// New creates a pending order from a cart snapshot. Items are copied at saga
// time and never re-read from the cart service.
func New(orderID string, snapshot *cart.Snapshot) (*Order, error) {
	if orderID == "" {
		return nil, errors.NewValidationError("order_id", "cannot be empty")
	}
	if snapshot == nil || snapshot.UserID == "" {
		return nil, errors.NewValidationError("user_id", "cannot be empty")
	}

	items := make([]cart.LineItem, len(snapshot.Items))
	copy(items, snapshot.Items)

	now := time.Now()
	return &Order{
		OrderID:    orderID,
		UserID:     snapshot.UserID,
		TotalCents: snapshot.TotalCents,
		Currency:   snapshot.Currency,
		Items:      items,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// CanTransitionTo checks if the order can transition to the given status
func (o *Order) CanTransitionTo(newStatus Status) bool {
	transitions := map[Status][]Status{
		StatusPending: {
			StatusApproved,
			StatusRejected,
			StatusProcessing,
		},
		StatusProcessing: {
			// Settlement by an out-of-band reconciliation process.
			StatusApproved,
			StatusRejected,
		},
		StatusApproved: {
			// Fulfilment, not driven by checkout.
			StatusShipped,
		},
		StatusRejected: {}, // Terminal state
		StatusShipped:  {}, // Terminal state
	}

	allowed, exists := transitions[o.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == newStatus {
			return true
		}
	}
	return false
}

// TransitionTo transitions the order to a new status
func (o *Order) TransitionTo(newStatus Status) error {
	if !o.CanTransitionTo(newStatus) {
		return errors.NewDomainError(
			"invalid_transition",
			"cannot transition from "+string(o.Status)+" to "+string(newStatus),
			errors.ErrInvalidStateTransition,
		)
	}
	o.Status = newStatus
	o.UpdatedAt = time.Now()
	return nil
}

// MarkApproved records an approved payment outcome.
func (o *Order) MarkApproved(paymentID, message string) error {
	if err := o.TransitionTo(StatusApproved); err != nil {
		return err
	}
	o.PaymentID = paymentID
	o.Message = message
	return nil
}

// MarkRejected records a rejected payment outcome.
func (o *Order) MarkRejected(paymentID, message string) error {
	if err := o.TransitionTo(StatusRejected); err != nil {
		return err
	}
	o.PaymentID = paymentID
	o.Message = message
	return nil
}

// MarkProcessing records a payment outcome that is neither approved nor
// rejected (e.g. a not-yet-settled method).
func (o *Order) MarkProcessing(paymentID, message string) error {
	if err := o.TransitionTo(StatusProcessing); err != nil {
		return err
	}
	o.PaymentID = paymentID
	o.Message = message
	return nil
}

// IsTerminal reports whether the checkout pass performs no further transition
// from the current status.
func (o *Order) IsTerminal() bool {
	return o.Status == StatusApproved ||
		o.Status == StatusRejected ||
		o.Status == StatusProcessing
}

// CartCleared reports whether this order's outcome requires the cart to be
// emptied. Only approved orders clear the cart.
func (o *Order) CartCleared() bool {
	return o.Status == StatusApproved
}
