// Package queue defines message payloads exchanged over the message broker.
package queue

// TripLeg identifies the seats confirmed on one trip of an order.
type TripLeg struct {
    TripID      uint64   `json:"trip_id"`
    Origin      string   `json:"origin,omitempty"`
    Destination string   `json:"destination,omitempty"`
    SeatNumbers []uint32 `json:"seat_numbers"`
}

// OrderConfirmedEvent is published after an order's confirmation
// transaction commits.  It carries enough information for downstream
// consumers (ticket rendering, notification dispatch, analytics) to
// act without querying the primary database.
type OrderConfirmedEvent struct {
    OrderID       uint64    `json:"order_id"`
    PaymentRef    string    `json:"payment_ref"`
    PayerName     string    `json:"payer_name"`
    PayerEmail    string    `json:"payer_email"`
    Legs          []TripLeg `json:"legs"`
    TotalCents    int64     `json:"total_cents"`
    DiscountCents int64     `json:"discount_cents"`
    ConfirmedAt   string    `json:"confirmed_at"`
}
