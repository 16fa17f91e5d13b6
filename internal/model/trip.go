package model

import "time"

// TripStatus enumerates the lifecycle states of a scheduled trip.
// Only ACTIVE trips are sellable; the remaining states are set
// administratively and take the trip off sale.
type TripStatus string

const (
    TripActive    TripStatus = "ACTIVE"
    TripCancelled TripStatus = "CANCELLED"
    TripOnHold    TripStatus = "ONHOLD"
    TripDelayed   TripStatus = "DELAYED"
    TripOther     TripStatus = "OTHER"
)

// Trip represents a scheduled journey on a route.  A trip owns a
// fixed collection of seats created in bulk when it is scheduled.
// Trips are created administratively and are never deleted once a
// seat on them has been sold.
//
// Fields:
//  ID         – primary key identifier.
//  Origin     – departure location name.
//  Destination – arrival location name.
//  Departure  – when the trip departs (UTC).
//  Arrival    – when the trip arrives (UTC).
//  PriceCents – per-seat price in cents.
//  Status     – lifecycle status (ACTIVE, CANCELLED, ONHOLD, DELAYED, OTHER).
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Trip struct {
    ID         uint64     // trips.id
    Origin     string     // trips.origin
    Destination string    // trips.destination
    Departure  time.Time  // trips.departure
    Arrival    time.Time  // trips.arrival
    PriceCents int64      // trips.price_cents
    Status     TripStatus // trips.status
    CreatedAt  time.Time  // trips.created_at
    UpdatedAt  time.Time  // trips.updated_at
}

// Sellable reports whether seats on this trip may still be sold:
// the trip must be ACTIVE and its departure must be in the future.
func (t *Trip) Sellable(now time.Time) bool {
    return t.Status == TripActive && t.Departure.After(now)
}
