package model

import (
    "errors"
    "time"
)

// Quantity limits for a single order item.
const (
    MinItemQuantity = 1
    MaxItemQuantity = 5
)

// ErrInvalidQuantity is returned when an order item's quantity falls
// outside the [MinItemQuantity, MaxItemQuantity] range or does not
// match the number of seat numbers attached to the item.
var ErrInvalidQuantity = errors.New("invalid item quantity")

// Order represents one purchase transaction.  An order spans one or
// two trips (outbound and optional return), owns its items and
// passengers, and is mutated exactly once from unpaid to paid by the
// confirmation protocol.  When Paid is true every seat referenced by
// the order's items is BOOKED with a passenger assigned.
//
// Fields:
//  ID          – primary key identifier.
//  PayerName   – full name of the person paying.
//  PayerEmail  – contact email for the payer.
//  Residence   – payer's country of residence (ISO 3166-1 alpha-2).
//  Paid        – whether payment has been confirmed.
//  PaymentRef  – external payment reference, set on confirmation.
//  CouponID    – coupon attached at creation time, if any.
//  DiscountPct – discount percentage snapshot taken from the coupon.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Order struct {
    ID          uint64    // orders.id
    PayerName   string    // orders.payer_name
    PayerEmail  string    // orders.payer_email
    Residence   string    // orders.residence
    Paid        bool      // orders.paid
    PaymentRef  *string   // orders.payment_ref (nullable)
    CouponID    *uint64   // orders.coupon_id (nullable)
    DiscountPct uint8     // orders.discount_pct
    CreatedAt   time.Time // orders.created_at
    UpdatedAt   time.Time // orders.updated_at

    Items      []OrderItem // insertion order
    Passengers []Passenger // insertion order, one per seat
}

// OrderItem is one trip-leg's worth of seats within an order.  The
// unit price is snapshotted from the trip at creation time and never
// trusted from the cart session again.  SeatNumbers holds the
// comma-separated list of seats reserved for this item, e.g. "1, 2";
// its length always equals Quantity.
//
// Fields:
//  ID          – primary key identifier.
//  OrderID     – order to which this item belongs.
//  TripID      – trip being travelled.
//  Quantity    – number of seats (1–5).
//  PriceCents  – unit price snapshot in cents.
//  SeatNumbers – seat-number list in text form.
//  CreatedAt   – creation timestamp.
type OrderItem struct {
    ID          uint64    // order_items.id
    OrderID     uint64    // order_items.order_id
    TripID      uint64    // order_items.trip_id
    Quantity    uint8     // order_items.quantity
    PriceCents  int64     // order_items.price_cents
    SeatNumbers string    // order_items.seat_numbers
    CreatedAt   time.Time // order_items.created_at
}

// Validate checks the structural invariants of an item: the quantity
// range and that the seat-number list length matches the quantity.
func (i *OrderItem) Validate() error {
    if i.Quantity < MinItemQuantity || i.Quantity > MaxItemQuantity {
        return ErrInvalidQuantity
    }
    nums, err := ParseSeatNumbers(i.SeatNumbers)
    if err != nil {
        return err
    }
    if len(nums) != int(i.Quantity) {
        return ErrInvalidQuantity
    }
    return nil
}

// TotalBeforeDiscountCents sums price × quantity over all items.
func (o *Order) TotalBeforeDiscountCents() int64 {
    var total int64
    for _, it := range o.Items {
        total += it.PriceCents * int64(it.Quantity)
    }
    return total
}

// DiscountCents applies the snapshotted discount percentage to the
// pre-discount total, rounding half-up to the nearest cent.  It is
// zero when no coupon was attached.
func (o *Order) DiscountCents() int64 {
    if o.DiscountPct == 0 {
        return 0
    }
    return (o.TotalBeforeDiscountCents()*int64(o.DiscountPct) + 50) / 100
}

// TotalCents is the amount due: pre-discount total minus discount.
func (o *Order) TotalCents() int64 {
    return o.TotalBeforeDiscountCents() - o.DiscountCents()
}
