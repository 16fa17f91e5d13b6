package model

import "time"

// SeatStatus enumerates the states of the seat state machine:
//
//	AVAILABLE → ONHOLD → BOOKED
//	ONHOLD    → AVAILABLE   (release or expiry)
//
// BOOKED is terminal for the booking flow.  RESERVED is an
// administrative terminal state that is never entered through the
// hold/release/book operations.
type SeatStatus string

const (
    SeatAvailable SeatStatus = "AVAILABLE"
    SeatOnHold    SeatStatus = "ONHOLD"
    SeatBooked    SeatStatus = "BOOKED"
    SeatReserved  SeatStatus = "RESERVED"
)

// Seat is one seat on a trip.  Identity is (TripID, SeatNumber),
// unique together and immutable after creation; status and the
// passenger reference are the only mutable fields.  PassengerID is
// non-nil iff Status is BOOKED.
//
// Fields:
//  ID          – primary key identifier.
//  TripID      – trip to which this seat belongs.
//  SeatNumber  – position of the seat on the bus (1-based).
//  Status      – availability status (AVAILABLE, ONHOLD, BOOKED, RESERVED).
//  PassengerID – passenger assigned to the seat, set on booking.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Seat struct {
    ID          uint64     // seats.id
    TripID      uint64     // seats.trip_id
    SeatNumber  uint32     // seats.seat_number
    Status      SeatStatus // seats.status
    PassengerID *uint64    // seats.passenger_id (nullable)
    CreatedAt   time.Time  // seats.created_at
    UpdatedAt   time.Time  // seats.updated_at
}
