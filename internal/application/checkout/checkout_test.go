package checkout_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfagundes/storefront/internal/application/checkout"
	"github.com/mfagundes/storefront/internal/domain/cart"
	domainErrors "github.com/mfagundes/storefront/internal/domain/errors"
	"github.com/mfagundes/storefront/internal/domain/order"
	"github.com/mfagundes/storefront/internal/gateway"
	"github.com/mfagundes/storefront/internal/testutil"
)

type fixture struct {
	carts    *testutil.MockCartGateway
	payments *testutil.MockPaymentGateway
	orders   *testutil.MockOrderRepository
	locker   *testutil.MockUserLocker
	cleanups *testutil.MockCleanupQueue
	uc       *checkout.UseCase
}

func newFixture() *fixture {
	f := &fixture{
		carts:    testutil.NewMockCartGateway(),
		payments: testutil.NewMockPaymentGateway(),
		orders:   testutil.NewMockOrderRepository(),
		locker:   testutil.NewMockUserLocker(),
		cleanups: testutil.NewMockCleanupQueue(),
	}
	f.uc = checkout.NewUseCase(
		f.carts,
		f.payments,
		f.orders,
		f.locker,
		f.cleanups,
		zerolog.Nop(),
		time.Second,
	)
	return f
}

func TestExecute_ApprovedPayment(t *testing.T) {
	f := newFixture()
	f.carts.SetCart(testutil.NewTestCart("user-1",
		testutil.NewTestItem(1, "Smartphone", 1500, 1),
		testutil.NewTestItem(2, "Headphones", 250, 2),
	))

	o, err := f.uc.Execute(context.Background(), checkout.Request{
		UserID:        "user-1",
		PaymentMethod: "pix",
	})

	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, "ORD-0001", o.OrderID)
	assert.Equal(t, "user-1", o.UserID)
	assert.Equal(t, order.StatusApproved, o.Status)
	assert.Equal(t, "PAY-0001", o.PaymentID)
	assert.Equal(t, int64(2000), o.TotalCents)
	assert.Len(t, o.Items, 2)
	assert.Contains(t, o.Message, "Purchase completed successfully")
	assert.Contains(t, o.Message, "PAY-0001")

	// Approved outcome clears the cart and persists the order.
	assert.Equal(t, 1, f.carts.ClearCartCalls)
	assert.Equal(t, 1, f.orders.CreateCalls)
	assert.NotNil(t, f.orders.Stored("ORD-0001"))
	assert.Empty(t, f.cleanups.Tasks())

	req := f.payments.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, int64(2000), req.AmountCents)
	assert.Equal(t, "BRL", req.Currency)
	assert.Equal(t, "pix", req.Method)
	assert.NotEmpty(t, req.IdempotencyKey)
}

func TestExecute_RejectedPayment(t *testing.T) {
	f := newFixture()
	f.carts.SetCart(testutil.NewTestCart("user-1",
		testutil.NewTestItem(1, "Smartphone", 1500, 1),
	))
	f.payments.SubmitPaymentFunc = func(ctx context.Context, req gateway.SubmitPaymentRequest) (*gateway.PaymentOutcome, error) {
		return &gateway.PaymentOutcome{PaymentID: "PAY-0001", Status: order.PaymentRejected}, nil
	}

	o, err := f.uc.Execute(context.Background(), checkout.Request{
		UserID:        "user-1",
		PaymentMethod: "credit_card",
	})

	require.NoError(t, err)
	assert.Equal(t, order.StatusRejected, o.Status)
	assert.Contains(t, o.Message, "rejected")

	// A rejected checkout keeps the cart intact for the retry.
	assert.Equal(t, 0, f.carts.ClearCartCalls)
	assert.Equal(t, 1, f.orders.CreateCalls)
}

func TestExecute_UnsettledPaymentGoesToProcessing(t *testing.T) {
	f := newFixture()
	f.carts.SetCart(testutil.NewTestCart("user-1",
		testutil.NewTestItem(1, "Smartphone", 1500, 1),
	))
	f.payments.SubmitPaymentFunc = func(ctx context.Context, req gateway.SubmitPaymentRequest) (*gateway.PaymentOutcome, error) {
		return &gateway.PaymentOutcome{PaymentID: "PAY-0001", Status: order.PaymentPending}, nil
	}

	o, err := f.uc.Execute(context.Background(), checkout.Request{
		UserID:        "user-1",
		PaymentMethod: "boleto",
	})

	require.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, o.Status)
	assert.Contains(t, o.Message, "under review")
	assert.Equal(t, 0, f.carts.ClearCartCalls)
	assert.Equal(t, 1, f.orders.CreateCalls)
}

func TestExecute_CartServiceUnavailable(t *testing.T) {
	f := newFixture()
	f.carts.GetCartFunc = func(ctx context.Context, userID string) (*cart.Snapshot, error) {
		return nil, fmt.Errorf("%w: connection refused", domainErrors.ErrCartUnavailable)
	}

	o, err := f.uc.Execute(context.Background(), checkout.Request{
		UserID:        "user-1",
		PaymentMethod: "pix",
	})

	require.Nil(t, o)
	assert.ErrorIs(t, err, domainErrors.ErrCartUnavailable)

	// No side effects before the cart is read.
	assert.Equal(t, 0, f.payments.SubmitCalls)
	assert.Equal(t, 0, f.carts.ClearCartCalls)
	assert.Equal(t, 0, f.orders.CreateCalls)
}

func TestExecute_CartNotFound(t *testing.T) {
	f := newFixture()

	o, err := f.uc.Execute(context.Background(), checkout.Request{
		UserID:        "ghost",
		PaymentMethod: "pix",
	})

	require.Nil(t, o)
	assert.ErrorIs(t, err, domainErrors.ErrCartNotFound)
	assert.Equal(t, 0, f.payments.SubmitCalls)
}

func TestExecute_EmptyCart(t *testing.T) {
	f := newFixture()
	f.carts.SetCart(testutil.NewTestCart("user-1"))

	o, err := f.uc.Execute(context.Background(), checkout.Request{
		UserID:        "user-1",
		PaymentMethod: "pix",
	})

	require.Nil(t, o)
	assert.ErrorIs(t, err, domainErrors.ErrEmptyCart)
	assert.Equal(t, 0, f.payments.SubmitCalls)
	assert.Equal(t, 0, f.orders.CreateCalls)
}

func TestExecute_PaymentServiceUnavailable(t *testing.T) {
	f := newFixture()
	f.carts.SetCart(testutil.NewTestCart("user-1",
		testutil.NewTestItem(1, "Smartphone", 1500, 1),
	))
	f.payments.SubmitPaymentFunc = func(ctx context.Context, req gateway.SubmitPaymentRequest) (*gateway.PaymentOutcome, error) {
		return nil, fmt.Errorf("%w: dial tcp: timeout", domainErrors.ErrPaymentUnavailable)
	}

	o, err := f.uc.Execute(context.Background(), checkout.Request{
		UserID:        "user-1",
		PaymentMethod: "pix",
	})

	require.Nil(t, o)
	assert.ErrorIs(t, err, domainErrors.ErrPaymentUnavailable)

	// No payment decision means no order record and an untouched cart.
	assert.Equal(t, 0, f.carts.ClearCartCalls)
	assert.Equal(t, 0, f.orders.CreateCalls)
	assert.Equal(t, 0, f.orders.NextOrderNumberCalls)
}

func TestExecute_CartClearFailureDoesNotFailApprovedOrder(t *testing.T) {
	f := newFixture()
	f.carts.SetCart(testutil.NewTestCart("user-1",
		testutil.NewTestItem(1, "Smartphone", 1500, 1),
	))
	f.carts.ClearCartFunc = func(ctx context.Context, userID string) error {
		return fmt.Errorf("%w: status 503", domainErrors.ErrCartUnavailable)
	}

	o, err := f.uc.Execute(context.Background(), checkout.Request{
		UserID:        "user-1",
		PaymentMethod: "pix",
	})

	require.NoError(t, err)
	assert.Equal(t, order.StatusApproved, o.Status)
	assert.Equal(t, 1, f.orders.CreateCalls)

	// The failed clear is handed to the retry worker.
	tasks := f.cleanups.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "user-1", tasks[0].UserID)
	assert.Contains(t, tasks[0].Reason, "503")
}

func TestExecute_OrderPersistFailure(t *testing.T) {
	f := newFixture()
	f.carts.SetCart(testutil.NewTestCart("user-1",
		testutil.NewTestItem(1, "Smartphone", 1500, 1),
	))
	f.orders.CreateFunc = func(ctx context.Context, o *order.Order) error {
		return errors.New("pq: connection reset")
	}

	o, err := f.uc.Execute(context.Background(), checkout.Request{
		UserID:        "user-1",
		PaymentMethod: "pix",
	})

	require.Nil(t, o)
	assert.ErrorIs(t, err, domainErrors.ErrOrderPersistFailed)
	// The payment did happen; the failure is surfaced, not swallowed.
	assert.Equal(t, 1, f.payments.SubmitCalls)
}

func TestExecute_OrderNumberAllocationFailure(t *testing.T) {
	f := newFixture()
	f.carts.SetCart(testutil.NewTestCart("user-1",
		testutil.NewTestItem(1, "Smartphone", 1500, 1),
	))
	f.orders.NextOrderNumberFunc = func(ctx context.Context) (string, error) {
		return "", errors.New("pq: sequence unavailable")
	}

	o, err := f.uc.Execute(context.Background(), checkout.Request{
		UserID:        "user-1",
		PaymentMethod: "pix",
	})

	require.Nil(t, o)
	assert.ErrorIs(t, err, domainErrors.ErrOrderPersistFailed)
	assert.Equal(t, 0, f.orders.CreateCalls)
}

func TestExecute_ConcurrentCheckoutRejected(t *testing.T) {
	f := newFixture()
	f.carts.SetCart(testutil.NewTestCart("user-1",
		testutil.NewTestItem(1, "Smartphone", 1500, 1),
	))

	// Simulate another in-flight pass holding the lease.
	release, err := f.locker.Acquire(context.Background(), "user-1")
	require.NoError(t, err)
	defer release()

	o, err := f.uc.Execute(context.Background(), checkout.Request{
		UserID:        "user-1",
		PaymentMethod: "pix",
	})

	require.Nil(t, o)
	assert.ErrorIs(t, err, domainErrors.ErrCheckoutInProgress)
	assert.Equal(t, 0, f.carts.GetCartCalls)
	assert.Equal(t, 0, f.payments.SubmitCalls)
}

func TestExecute_LockReleasedAfterCompletion(t *testing.T) {
	f := newFixture()
	f.carts.SetCart(testutil.NewTestCart("user-1",
		testutil.NewTestItem(1, "Smartphone", 1500, 1),
	))

	_, err := f.uc.Execute(context.Background(), checkout.Request{
		UserID:        "user-1",
		PaymentMethod: "pix",
	})
	require.NoError(t, err)

	// The lease must come back even though the cart was cleared (and the
	// snapshot deleted from the mock), so a second pass starts cleanly.
	f.carts.SetCart(testutil.NewTestCart("user-1",
		testutil.NewTestItem(2, "Headphones", 250, 1),
	))
	o, err := f.uc.Execute(context.Background(), checkout.Request{
		UserID:        "user-1",
		PaymentMethod: "pix",
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-0002", o.OrderID)
	assert.Equal(t, 2, f.locker.ReleaseCalls)
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name  string
		req   checkout.Request
		field string
	}{
		{"missing user id", checkout.Request{PaymentMethod: "pix"}, "user_id"},
		{"missing payment method", checkout.Request{UserID: "user-1"}, "payment_method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := f.uc.Execute(context.Background(), tt.req)
			require.Nil(t, o)

			var vErr *domainErrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}

	assert.Equal(t, 0, f.locker.AcquireCalls)
	assert.Equal(t, 0, f.carts.GetCartCalls)
}

func TestExecute_FreshIdempotencyKeyPerAttempt(t *testing.T) {
	f := newFixture()
	f.carts.SetCart(testutil.NewTestCart("user-1",
		testutil.NewTestItem(1, "Smartphone", 1500, 1),
	))
	f.payments.SubmitPaymentFunc = func(ctx context.Context, req gateway.SubmitPaymentRequest) (*gateway.PaymentOutcome, error) {
		return &gateway.PaymentOutcome{PaymentID: "PAY-0001", Status: order.PaymentRejected}, nil
	}

	for i := 0; i < 2; i++ {
		_, err := f.uc.Execute(context.Background(), checkout.Request{
			UserID:        "user-1",
			PaymentMethod: "pix",
		})
		require.NoError(t, err)
	}

	require.Len(t, f.payments.Requests, 2)
	assert.NotEmpty(t, f.payments.Requests[0].IdempotencyKey)
	assert.NotEqual(t, f.payments.Requests[0].IdempotencyKey, f.payments.Requests[1].IdempotencyKey)
}

func TestExecute_CancelledContextAbortsBeforeSideEffects(t *testing.T) {
	f := newFixture()
	f.carts.SetCart(testutil.NewTestCart("user-1",
		testutil.NewTestItem(1, "Smartphone", 1500, 1),
	))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o, err := f.uc.Execute(ctx, checkout.Request{
		UserID:        "user-1",
		PaymentMethod: "pix",
	})

	require.Nil(t, o)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.payments.SubmitCalls)
	assert.Equal(t, 0, f.orders.CreateCalls)
}

func TestExecute_OrderRetrievableAfterCheckout(t *testing.T) {
	f := newFixture()
	f.carts.SetCart(testutil.NewTestCart("user-1",
		testutil.NewTestItem(1, "Smartphone", 1500, 1),
	))

	o, err := f.uc.Execute(context.Background(), checkout.Request{
		UserID:        "user-1",
		PaymentMethod: "pix",
	})
	require.NoError(t, err)

	got, err := f.orders.GetByID(context.Background(), o.OrderID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderID, got.OrderID)
	assert.Equal(t, o.Status, got.Status)
}
