package cart

import (
	"fmt"
)

// LineItem is a single product entry in a user's cart.
type LineItem struct {
	ProductID      int64
	ProductName    string
	UnitPriceCents int64
	Quantity       int
}

// Subtotal returns the line total in cents.
func (li LineItem) Subtotal() int64 {
	return li.UnitPriceCents * int64(li.Quantity)
}

// Snapshot is a read-only view of a user's cart at a point in time.
// It is fetched fresh for every checkout attempt and never cached across attempts.
type Snapshot struct {
	UserID     string
	Items      []LineItem
	TotalCents int64
	Currency   string
}

// IsEmpty reports whether the cart has no items.
func (s *Snapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

// ComputedTotal sums line subtotals. The cart service is authoritative for
// TotalCents; this is used to sanity-check responses.
func (s *Snapshot) ComputedTotal() int64 {
	var total int64
	for _, li := range s.Items {
		total += li.Subtotal()
	}
	return total
}

// FormatAmount renders cents as a human-readable decimal string.
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
