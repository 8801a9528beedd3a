package testutil

import (
	"github.com/mfagundes/storefront/internal/domain/cart"
)

// NewTestCart builds a snapshot whose total is the sum of its line subtotals.
func NewTestCart(userID string, items ...cart.LineItem) *cart.Snapshot {
	snap := &cart.Snapshot{
		UserID:   userID,
		Items:    items,
		Currency: "BRL",
	}
	snap.TotalCents = snap.ComputedTotal()
	return snap
}

// NewTestItem builds a single cart line.
func NewTestItem(productID int64, name string, unitPriceCents int64, quantity int) cart.LineItem {
	return cart.LineItem{
		ProductID:      productID,
		ProductName:    name,
		UnitPriceCents: unitPriceCents,
		Quantity:       quantity,
	}
}
