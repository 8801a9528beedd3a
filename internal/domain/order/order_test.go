package order_test

import (
	"errors"
	"testing"

	"github.com/mfagundes/storefront/internal/domain/cart"
	domainErrors "github.com/mfagundes/storefront/internal/domain/errors"
	"github.com/mfagundes/storefront/internal/domain/order"
)

func testSnapshot() *cart.Snapshot {
	return &cart.Snapshot{
		UserID: "user-1",
		Items: []cart.LineItem{
			{ProductID: 7, ProductName: "Headphones", UnitPriceCents: 10_00, Quantity: 2},
		},
		TotalCents: 20_00,
		Currency:   "BRL",
	}
}

func TestNew_CopiesSnapshot(t *testing.T) {
	snap := testSnapshot()
	o, err := order.New("ORD-0001", snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if o.Status != order.StatusPending {
		t.Errorf("expected pending status, got %s", o.Status)
	}
	if o.TotalCents != 20_00 {
		t.Errorf("expected total 2000, got %d", o.TotalCents)
	}

	// Mutating the snapshot must not affect the order's copied items.
	snap.Items[0].Quantity = 99
	if o.Items[0].Quantity != 2 {
		t.Error("order items aliased the snapshot items")
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := order.New("", testSnapshot()); err == nil {
		t.Error("expected error for empty order id")
	}
	if _, err := order.New("ORD-0001", nil); err == nil {
		t.Error("expected error for nil snapshot")
	}
	if _, err := order.New("ORD-0001", &cart.Snapshot{}); err == nil {
		t.Error("expected error for empty user id")
	}
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    order.Status
		to      order.Status
		allowed bool
	}{
		{"pending to approved", order.StatusPending, order.StatusApproved, true},
		{"pending to rejected", order.StatusPending, order.StatusRejected, true},
		{"pending to processing", order.StatusPending, order.StatusProcessing, true},
		{"pending to shipped", order.StatusPending, order.StatusShipped, false},
		{"approved to shipped", order.StatusApproved, order.StatusShipped, true},
		{"approved to rejected", order.StatusApproved, order.StatusRejected, false},
		{"rejected is terminal", order.StatusRejected, order.StatusApproved, false},
		{"processing to approved", order.StatusProcessing, order.StatusApproved, true},
		{"shipped is terminal", order.StatusShipped, order.StatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, _ := order.New("ORD-0001", testSnapshot())
			o.Status = tt.from
			if got := o.CanTransitionTo(tt.to); got != tt.allowed {
				t.Errorf("CanTransitionTo(%s) from %s = %v, want %v", tt.to, tt.from, got, tt.allowed)
			}
		})
	}
}

func TestTransitionTo_InvalidReturnsDomainError(t *testing.T) {
	o, _ := order.New("ORD-0001", testSnapshot())
	o.Status = order.StatusRejected

	err := o.TransitionTo(order.StatusApproved)
	if !errors.Is(err, domainErrors.ErrInvalidStateTransition) {
		t.Errorf("expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestMarkApproved(t *testing.T) {
	o, _ := order.New("ORD-0001", testSnapshot())
	if err := o.MarkApproved("PAY-0001", "ok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.PaymentID != "PAY-0001" {
		t.Errorf("expected payment id PAY-0001, got %s", o.PaymentID)
	}
	if !o.IsTerminal() {
		t.Error("approved order should be terminal for the checkout pass")
	}
	if !o.CartCleared() {
		t.Error("approved order should clear the cart")
	}
}

func TestMarkRejected_KeepsCart(t *testing.T) {
	o, _ := order.New("ORD-0002", testSnapshot())
	if err := o.MarkRejected("PAY-0002", "rejected"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.CartCleared() {
		t.Error("rejected order must not clear the cart")
	}
}

func TestMarkProcessing(t *testing.T) {
	o, _ := order.New("ORD-0003", testSnapshot())
	if err := o.MarkProcessing("PAY-0003", "under review"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !o.IsTerminal() {
		t.Error("processing is terminal for the checkout pass")
	}
	if o.CartCleared() {
		t.Error("processing order must not clear the cart")
	}
}
