package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCouponValid(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	coupon := Coupon{
		Code:        "WELCOME10",
		DiscountPct: 10,
		ValidFrom:   now.Add(-24 * time.Hour),
		ValidTo:     now.Add(24 * time.Hour),
		Active:      true,
	}
	assert.True(t, coupon.Valid(now))

	// Redeemed coupons are never valid again.
	coupon.Active = false
	assert.False(t, coupon.Valid(now))

	// Outside the window.
	coupon.Active = true
	assert.False(t, coupon.Valid(coupon.ValidFrom.Add(-time.Minute)))
	assert.False(t, coupon.Valid(coupon.ValidTo.Add(time.Minute)))

	// The window bounds are exclusive.
	assert.False(t, coupon.Valid(coupon.ValidFrom))
	assert.False(t, coupon.Valid(coupon.ValidTo))
}
