package model

import (
    "errors"
    "time"
)

// Passenger age bounds in whole years, inclusive.
const (
    MinPassengerAge = 1
    MaxPassengerAge = 99
)

// ErrInvalidBirthDate is returned when a passenger's birth date puts
// their age outside the [1, 99] year range.
var ErrInvalidBirthDate = errors.New("birth date outside allowed age range")

// Passenger holds the identification data collected at checkout for
// one traveller.  A passenger belongs to an order and, once the order
// is confirmed, is assigned to a seat on a trip.  Passenger records
// are never mutated; they are removed only when the owning order is
// deleted.
//
// Fields:
//  ID             – primary key identifier.
//  OrderID        – order under which the passenger was submitted.
//  TripID         – trip the passenger travels on, set on booking.
//  SeatNumber     – seat assigned on booking.
//  DocumentType   – identity document kind (e.g. DNI, PASSPORT).
//  DocumentNumber – identity document number.
//  Nationality    – passenger nationality.
//  FirstName      – given name.
//  LastName       – family name.
//  Gender         – declared gender (F, M, O).
//  BirthDate      – date of birth.
//  Phone          – contact phone number.
type Passenger struct {
    ID             uint64    // passengers.id
    OrderID        uint64    // passengers.order_id
    TripID         *uint64   // passengers.trip_id (nullable)
    SeatNumber     *uint32   // passengers.seat_number (nullable)
    DocumentType   string    // passengers.document_type
    DocumentNumber string    // passengers.document_number
    Nationality    string    // passengers.nationality
    FirstName      string    // passengers.first_name
    LastName       string    // passengers.last_name
    Gender         string    // passengers.gender
    BirthDate      time.Time // passengers.birth_date
    Phone          string    // passengers.phone
}

// AgeAt returns the passenger's age in whole years at the given time.
func (p *Passenger) AgeAt(now time.Time) int {
    years := now.Year() - p.BirthDate.Year()
    anniversary := p.BirthDate.AddDate(years, 0, 0)
    if anniversary.After(now) {
        years--
    }
    return years
}

// Validate checks that the passenger's age falls within the allowed
// range at the given time.
func (p *Passenger) Validate(now time.Time) error {
    age := p.AgeAt(now)
    if age < MinPassengerAge || age > MaxPassengerAge {
        return ErrInvalidBirthDate
    }
    return nil
}
