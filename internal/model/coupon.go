package model

import "time"

// Coupon is a one-time-use discount code with a validity window.
// Redemption flips Active to false irreversibly; coupons are retained
// for audit and never deleted.
//
// Fields:
//  ID          – primary key identifier.
//  Code        – unique coupon code entered at checkout.
//  DiscountPct – discount percentage (0–100).
//  ValidFrom   – start of the validity window.
//  ValidTo     – end of the validity window.
//  Active      – false once redeemed.
//  CreatedAt   – creation timestamp.
type Coupon struct {
    ID          uint64    // coupons.id
    Code        string    // coupons.code
    DiscountPct uint8     // coupons.discount_pct
    ValidFrom   time.Time // coupons.valid_from
    ValidTo     time.Time // coupons.valid_to
    Active      bool      // coupons.active
    CreatedAt   time.Time // coupons.created_at
}

// Valid reports whether the coupon can still be redeemed: it must be
// active and the given time must fall strictly inside the validity
// window.
func (c *Coupon) Valid(now time.Time) bool {
    return c.Active && now.After(c.ValidFrom) && now.Before(c.ValidTo)
}
