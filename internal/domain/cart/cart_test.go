package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineItem_Subtotal(t *testing.T) {
	li := LineItem{ProductID: 1, ProductName: "Wireless Headphones", UnitPriceCents: 1050, Quantity: 3}
	assert.Equal(t, int64(3150), li.Subtotal())
}

func TestSnapshot_IsEmpty(t *testing.T) {
	empty := &Snapshot{UserID: "user-1", Currency: "BRL"}
	assert.True(t, empty.IsEmpty())

	full := &Snapshot{
		UserID:   "user-1",
		Currency: "BRL",
		Items:    []LineItem{{ProductID: 1, UnitPriceCents: 100, Quantity: 1}},
	}
	assert.False(t, full.IsEmpty())
}

func TestSnapshot_ComputedTotal(t *testing.T) {
	snap := &Snapshot{
		UserID:   "user-1",
		Currency: "BRL",
		Items: []LineItem{
			{ProductID: 1, UnitPriceCents: 1050, Quantity: 2},
			{ProductID: 2, UnitPriceCents: 499, Quantity: 1},
		},
	}
	assert.Equal(t, int64(2599), snap.ComputedTotal())

	var none *Snapshot = &Snapshot{}
	assert.Equal(t, int64(0), none.ComputedTotal())
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "25.99", FormatAmount(2599))
	assert.Equal(t, "0.05", FormatAmount(5))
	assert.Equal(t, "0.00", FormatAmount(0))
	assert.Equal(t, "-10.50", FormatAmount(-1050))
}
