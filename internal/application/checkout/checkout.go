package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mfagundes/storefront/internal/domain/cart"
	domainErrors "github.com/mfagundes/storefront/internal/domain/errors"
	"github.com/mfagundes/storefront/internal/domain/order"
	"github.com/mfagundes/storefront/internal/gateway"
	"github.com/mfagundes/storefront/pkg/saga"
)

// Request holds the client-supplied input for a checkout.
type Request struct {
	UserID              string
	PaymentMethod       string
	ShippingSelectionID string
}

// UseCase drives the checkout saga: fetch cart, submit payment, decide the
// order outcome, clean up, persist. It is stateless between requests; every
// invocation is one saga execution.
type UseCase struct {
	carts          gateway.CartGateway
	payments       gateway.PaymentGateway
	orders         order.Repository
	locker         UserLocker
	cleanups       CartCleanupQueue
	logger         zerolog.Logger
	paymentTimeout time.Duration
}

// NewUseCase creates a new checkout UseCase.
func NewUseCase(
	carts gateway.CartGateway,
	payments gateway.PaymentGateway,
	orders order.Repository,
	locker UserLocker,
	cleanups CartCleanupQueue,
	logger zerolog.Logger,
	paymentTimeout time.Duration,
) *UseCase {
	if paymentTimeout <= 0 {
		paymentTimeout = 15 * time.Second
	}
	return &UseCase{
		carts:          carts,
		payments:       payments,
		orders:         orders,
		locker:         locker,
		cleanups:       cleanups,
		logger:         logger,
		paymentTimeout: paymentTimeout,
	}
}

// Execute runs one checkout saga for the request's user.
//
// The two remote steps before the payment decision run under the caller's
// context: cancellation there aborts with no side effects and the client may
// safely retry. Once the payment has been dispatched the pass always runs to
// an order record, even if the caller goes away, so the ledger never
// disagrees with what was charged.
func (uc *UseCase) Execute(ctx context.Context, req Request) (*order.Order, error) {
	if req.UserID == "" {
		return nil, domainErrors.NewValidationError("user_id", "cannot be empty")
	}
	if req.PaymentMethod == "" {
		return nil, domainErrors.NewValidationError("payment_method", "cannot be empty")
	}

	release, err := uc.locker.Acquire(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	defer release()

	var (
		snapshot *cart.Snapshot
		outcome  *gateway.PaymentOutcome
	)

	s := saga.New("checkout").
		AddStep(saga.Step{
			Name: "fetch-cart",
			Execute: func(ctx context.Context) error {
				snap, err := uc.carts.GetCart(ctx, req.UserID)
				if err != nil {
					return err
				}
				if snap.IsEmpty() {
					return domainErrors.ErrEmptyCart
				}
				snapshot = snap
				return nil
			},
		}).
		AddStep(saga.Step{
			// Point of no return. Deliberately no compensation: refunding an
			// approved charge is a separate, heavier saga.
			Name: "submit-payment",
			Execute: func(ctx context.Context) error {
				// Once dispatched, the call completes even if the caller is
				// gone, bounded only by the payment timeout.
				payCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.paymentTimeout)
				defer cancel()

				key := uuid.New().String()
				out, err := uc.payments.SubmitPayment(payCtx, gateway.SubmitPaymentRequest{
					UserID:         req.UserID,
					AmountCents:    snapshot.TotalCents,
					Currency:       snapshot.Currency,
					Method:         req.PaymentMethod,
					IdempotencyKey: key,
				})
				if err != nil {
					// The processor may have completed before the timeout was
					// observed; keep the key around for reconciliation.
					uc.logger.Error().
						Str("user_id", req.UserID).
						Str("idempotency_key", key).
						Err(err).
						Msg("payment submission failed")
					return err
				}
				outcome = out
				return nil
			},
		})

	if _, err := s.Execute(ctx); err != nil {
		return nil, unwrapSagaErr(err)
	}

	// A payment decision exists. From here on the caller's cancellation no
	// longer interrupts the pass.
	return uc.finalize(context.WithoutCancel(ctx), req, snapshot, outcome)
}

// finalize maps the payment outcome onto the order state machine, performs
// the post-approval cart clear, and persists the order.
func (uc *UseCase) finalize(ctx context.Context, req Request, snapshot *cart.Snapshot, outcome *gateway.PaymentOutcome) (*order.Order, error) {
	orderID, err := uc.orders.NextOrderNumber(ctx)
	if err != nil {
		return nil, uc.persistFailure(req.UserID, outcome, fmt.Errorf("allocate order number: %w", err))
	}

	o, err := order.New(orderID, snapshot)
	if err != nil {
		return nil, err
	}

	switch outcome.Status {
	case order.PaymentApproved:
		msg := fmt.Sprintf("Purchase completed successfully! Payment ID: %s. Your order is being processed.", outcome.PaymentID)
		if err := o.MarkApproved(outcome.PaymentID, msg); err != nil {
			return nil, err
		}
		uc.clearCart(ctx, req.UserID)

	case order.PaymentRejected:
		msg := "Payment was rejected. Try again or use another payment method."
		if err := o.MarkRejected(outcome.PaymentID, msg); err != nil {
			return nil, err
		}

	default:
		msg := fmt.Sprintf("Payment is %s. Your order is under review.", outcome.Status)
		if err := o.MarkProcessing(outcome.PaymentID, msg); err != nil {
			return nil, err
		}
	}

	if err := uc.orders.Create(ctx, o); err != nil {
		return nil, uc.persistFailure(req.UserID, outcome, err)
	}

	uc.logger.Info().
		Str("order_id", o.OrderID).
		Str("user_id", o.UserID).
		Str("status", string(o.Status)).
		Int64("total_cents", o.TotalCents).
		Msg("checkout completed")

	return o, nil
}

// clearCart is advisory cleanup on an already-successful purchase: its
// failure is recorded for the retry worker and never fails the saga.
func (uc *UseCase) clearCart(ctx context.Context, userID string) {
	err := uc.carts.ClearCart(ctx, userID)
	if err == nil {
		return
	}

	uc.logger.Warn().
		Str("user_id", userID).
		Err(err).
		Msg("post-approval cart clear failed, enqueueing cleanup task")

	if uc.cleanups == nil {
		return
	}
	if qErr := uc.cleanups.Enqueue(ctx, userID, err.Error()); qErr != nil {
		uc.logger.Error().
			Str("user_id", userID).
			Err(qErr).
			Msg("failed to enqueue cart cleanup task")
	}
}

// persistFailure is the most dangerous failure mode: the payment has been
// decided (and the cart may already be cleared) but no order record exists.
// It is surfaced loudly and never silently retried; operators may need to
// reconcile against the payment processor.
func (uc *UseCase) persistFailure(userID string, outcome *gateway.PaymentOutcome, err error) error {
	uc.logger.Error().
		Str("user_id", userID).
		Str("payment_id", outcome.PaymentID).
		Str("payment_status", string(outcome.Status)).
		Err(err).
		Msg("order persistence failed after payment decision, manual reconciliation may be required")
	return fmt.Errorf("%w: %v", domainErrors.ErrOrderPersistFailed, err)
}

// unwrapSagaErr strips the saga engine's step wrapping down to the domain
// taxonomy when one of its sentinels is present.
func unwrapSagaErr(err error) error {
	for _, sentinel := range []error{
		domainErrors.ErrEmptyCart,
		domainErrors.ErrCartNotFound,
		domainErrors.ErrCartUnavailable,
		domainErrors.ErrPaymentUnavailable,
	} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return err
}
