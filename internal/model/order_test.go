package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTotals(t *testing.T) {
	order := Order{
		DiscountPct: 10,
		Items: []OrderItem{
			{Quantity: 2, PriceCents: 10000, SeatNumbers: "1, 2"},
			{Quantity: 1, PriceCents: 5000, SeatNumbers: "3"},
		},
	}
	// (200.00 + 50.00) - 10% = 225.00
	assert.Equal(t, int64(25000), order.TotalBeforeDiscountCents())
	assert.Equal(t, int64(2500), order.DiscountCents())
	assert.Equal(t, int64(22500), order.TotalCents())
}

func TestOrderTotalsWithoutCoupon(t *testing.T) {
	order := Order{
		Items: []OrderItem{{Quantity: 3, PriceCents: 1250, SeatNumbers: "4, 5, 6"}},
	}
	assert.Equal(t, int64(0), order.DiscountCents())
	assert.Equal(t, int64(3750), order.TotalCents())
}

func TestDiscountRoundsHalfUp(t *testing.T) {
	// 33.33 at 10% is 3.333, which rounds to 3.33.
	order := Order{DiscountPct: 10, Items: []OrderItem{{Quantity: 1, PriceCents: 3333}}}
	assert.Equal(t, int64(333), order.DiscountCents())

	// 33.35 at 10% is 3.335, which rounds up to 3.34.
	order.Items[0].PriceCents = 3335
	assert.Equal(t, int64(334), order.DiscountCents())
}

func TestOrderItemValidate(t *testing.T) {
	item := OrderItem{Quantity: 2, SeatNumbers: "7, 8"}
	require.NoError(t, item.Validate())

	item.Quantity = 0
	assert.ErrorIs(t, item.Validate(), ErrInvalidQuantity)

	item.Quantity = 6
	assert.ErrorIs(t, item.Validate(), ErrInvalidQuantity)

	// Seat list shorter than quantity.
	item.Quantity = 3
	assert.ErrorIs(t, item.Validate(), ErrInvalidQuantity)

	item.Quantity = 2
	item.SeatNumbers = "7, oops"
	assert.ErrorIs(t, item.Validate(), ErrInvalidSeatList)
}
