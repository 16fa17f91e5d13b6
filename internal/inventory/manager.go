// Package inventory implements the trip-scoped seat inventory
// manager.  It wraps the seat repository's conditional-update
// primitives with trip-level validation (the trip must be sellable,
// seats must belong to the trip) and exposes the read projections
// used by seat-map collaborators.  Seat membership is enforced by the
// (trip_id, seat_number) filter inside every statement, so a seat
// number belonging to a different trip simply never matches.
package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gurupratap-matharu/falcon-sub000/internal/model"
	"github.com/gurupratap-matharu/falcon-sub000/internal/repository"
)

// ErrTripNotSellable is returned when a hold or booking targets a
// trip that is not ACTIVE or has already departed.
var ErrTripNotSellable = errors.New("trip is not sellable")

// ErrSeatPassengerMismatch is returned when a booking batch resolves
// a different number of seats than passengers.  By the time a batch
// booking runs the seats are expected to already be ONHOLD for the
// same order, so a mismatch means the hold expired or was tampered
// with, not a per-seat race.
var ErrSeatPassengerMismatch = errors.New("seat count does not match passenger count")

// ErrSeatNotAvailable is returned by single-seat booking when the
// seat exists but is not AVAILABLE.
var ErrSeatNotAvailable = errors.New("seat not available")

// SeatsUnavailableError reports a partial-hold failure: fewer seats
// were transitioned to ONHOLD than requested.  Unavailable lists the
// requested seat numbers that were not AVAILABLE at hold time.  The
// caller may retry with a corrected selection.
type SeatsUnavailableError struct {
	TripID      uint64
	Unavailable []uint32
}

func (e *SeatsUnavailableError) Error() string {
	return fmt.Sprintf("trip %d: seats unavailable: %v", e.TripID, e.Unavailable)
}

// HoldResult describes a successful hold batch.
type HoldResult struct {
	HoldToken string   // opaque token for client correlation
	Held      []uint32 // seat numbers transitioned to ONHOLD
}

// Manager performs hold, release and booking operations scoped to a
// single trip.  All mutation goes through the seat repository's
// atomic conditional updates; the manager adds transaction ownership,
// trip validation and cache invalidation.
type Manager struct {
	trips *repository.TripRepo
	seats *repository.SeatRepo
	cache *Cache
	now   func() time.Time
}

// NewManager constructs a Manager.  The cache may be nil.
func NewManager(trips *repository.TripRepo, seats *repository.SeatRepo, cache *Cache) *Manager {
	if trips == nil || seats == nil {
		panic("nil repository passed to NewManager")
	}
	return &Manager{trips: trips, seats: seats, cache: cache, now: func() time.Time { return time.Now().UTC() }}
}

// dedupe drops zero and repeated seat numbers, preserving order.
func dedupe(nums []uint32) []uint32 {
	unique := make([]uint32, 0, len(nums))
	seen := make(map[uint32]struct{}, len(nums))
	for _, n := range nums {
		if n == 0 {
			continue
		}
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			unique = append(unique, n)
		}
	}
	return unique
}

// ErrInvalidSchedule is returned when a trip being scheduled has no
// seats, a departure in the past or an arrival before departure.
var ErrInvalidSchedule = errors.New("invalid trip schedule")

// ScheduleTrip creates a trip together with its fixed seat
// collection, numbered 1..seatCount and all AVAILABLE, in one
// transaction.  The seat collection never changes for the life of the
// trip.
func (m *Manager) ScheduleTrip(ctx context.Context, trip *model.Trip, seatCount uint32) error {
	if seatCount == 0 || !trip.Arrival.After(trip.Departure) || !trip.Departure.After(m.now()) {
		return ErrInvalidSchedule
	}
	tx, err := m.seats.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := m.trips.CreateTx(ctx, tx, trip); err != nil {
		return err
	}
	seats := make([]model.Seat, 0, seatCount)
	for n := uint32(1); n <= seatCount; n++ {
		seats = append(seats, model.Seat{TripID: trip.ID, SeatNumber: n, Status: model.SeatAvailable})
	}
	if err := m.seats.CreateBulkTx(ctx, tx, seats); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// SetTripStatus changes a trip's lifecycle status (cancel, delay,
// reactivate).  Status drives sellability, so the projections are
// dropped as well.
func (m *Manager) SetTripStatus(ctx context.Context, tripID uint64, status model.TripStatus) error {
	if err := m.trips.UpdateStatus(ctx, tripID, status); err != nil {
		return err
	}
	m.cache.Invalidate(ctx, tripID)
	return nil
}

// HoldSeats places a hold on the given seat numbers in its own
// transaction.  Either every requested seat transitions to ONHOLD or
// none does: a shortfall in the affected count rolls the transaction
// back and returns a SeatsUnavailableError naming the seats that
// could not be held.
func (m *Manager) HoldSeats(ctx context.Context, tripID uint64, nums []uint32) (*HoldResult, error) {
	nums = dedupe(nums)
	if len(nums) == 0 {
		return nil, &SeatsUnavailableError{TripID: tripID}
	}
	tx, err := m.seats.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	trip, err := m.trips.GetTx(ctx, tx, tripID)
	if err != nil {
		return nil, err
	}
	if err := m.HoldSeatsTx(ctx, tx, trip, nums); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	m.cache.Invalidate(ctx, tripID)
	return &HoldResult{HoldToken: uuid.NewString(), Held: nums}, nil
}

// HoldSeatsTx places a hold inside a caller-owned transaction.  The
// trip must already be loaded; seat numbers must already be deduped.
// Used by the order-creation flow so the hold commits or rolls back
// together with the order aggregate.
func (m *Manager) HoldSeatsTx(ctx context.Context, tx *sql.Tx, trip *model.Trip, nums []uint32) error {
	if !trip.Sellable(m.now()) {
		return ErrTripNotSellable
	}
	affected, err := m.seats.HoldTx(ctx, tx, trip.ID, nums)
	if err != nil {
		return err
	}
	if affected == int64(len(nums)) {
		return nil
	}
	// Partial hold: the conditional update skipped seats that were
	// not AVAILABLE.  Report which ones; the transaction rolls back
	// above, so the partial transition never persists.
	available, err := m.seats.AvailableNumbersTx(ctx, tx, trip.ID, nums)
	if err != nil {
		return err
	}
	held := make(map[uint32]struct{}, len(available))
	for _, n := range available {
		held[n] = struct{}{}
	}
	unavailable := make([]uint32, 0, len(nums))
	for _, n := range nums {
		if _, ok := held[n]; !ok {
			unavailable = append(unavailable, n)
		}
	}
	return &SeatsUnavailableError{TripID: trip.ID, Unavailable: unavailable}
}

// ReleaseSeats transitions the given seats from ONHOLD back to
// AVAILABLE in its own transaction and returns how many were
// released.  It is idempotent: seats that are no longer ONHOLD are
// skipped rather than reported as an error, so cancellation paths and
// expiry sweeps may call it at any time.
func (m *Manager) ReleaseSeats(ctx context.Context, tripID uint64, nums []uint32) (int64, error) {
	nums = dedupe(nums)
	tx, err := m.seats.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	released, err := m.seats.ReleaseTx(ctx, tx, tripID, nums)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	m.cache.Invalidate(ctx, tripID)
	return released, nil
}

// ReleaseSeatsTx releases seats inside a caller-owned transaction.
func (m *Manager) ReleaseSeatsTx(ctx context.Context, tx *sql.Tx, tripID uint64, nums []uint32) (int64, error) {
	return m.seats.ReleaseTx(ctx, tx, tripID, nums)
}

// ReleaseAll releases every ONHOLD seat of a trip (administrative
// cleanup path).
func (m *Manager) ReleaseAll(ctx context.Context, tripID uint64) (int64, error) {
	tx, err := m.seats.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	released, err := m.seats.ReleaseAllTx(ctx, tx, tripID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	m.cache.Invalidate(ctx, tripID)
	return released, nil
}

// BookWithPassengersTx books a batch of seats and assigns passengers
// inside a caller-owned transaction.  Seat numbers and passenger ids
// are paired positionally.  Every pair is a single conditional update
// (ONHOLD or AVAILABLE → BOOKED + passenger); if the total affected
// count differs from the passenger count the batch fails with
// ErrSeatPassengerMismatch and the caller must roll back.
func (m *Manager) BookWithPassengersTx(ctx context.Context, tx *sql.Tx, tripID uint64, nums []uint32, passengerIDs []uint64) error {
	if len(nums) != len(passengerIDs) {
		return ErrSeatPassengerMismatch
	}
	var booked int64
	for i, n := range nums {
		affected, err := m.seats.BookTx(ctx, tx, tripID, n, passengerIDs[i])
		if err != nil {
			return err
		}
		booked += affected
	}
	if booked != int64(len(passengerIDs)) {
		return ErrSeatPassengerMismatch
	}
	return nil
}

// BookSingle books one AVAILABLE seat directly, outside the hold
// flow.  It fails when the trip is not sellable, the seat does not
// belong to the trip, or the seat is not AVAILABLE.
func (m *Manager) BookSingle(ctx context.Context, tripID uint64, seatNumber uint32, passengerID uint64) error {
	tx, err := m.seats.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	trip, err := m.trips.GetTx(ctx, tx, tripID)
	if err != nil {
		return err
	}
	if !trip.Sellable(m.now()) {
		return ErrTripNotSellable
	}
	affected, err := m.seats.BookAvailableTx(ctx, tx, tripID, seatNumber, passengerID)
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := m.seats.GetByNumber(ctx, tripID, seatNumber); err != nil {
			return err
		}
		return ErrSeatNotAvailable
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	m.cache.Invalidate(ctx, tripID)
	return nil
}

// SeatsAvailable returns the count of AVAILABLE seats on a trip,
// served from the projection cache when possible.
func (m *Manager) SeatsAvailable(ctx context.Context, tripID uint64) (int, error) {
	if n, ok := m.cache.GetAvailable(ctx, tripID); ok {
		return n, nil
	}
	n, err := m.seats.CountAvailable(ctx, tripID)
	if err != nil {
		return 0, err
	}
	m.cache.SetAvailable(ctx, tripID, n)
	return n, nil
}

// BookedPositions returns the occupied seat positions of a trip for
// seat-map rendering, served from the projection cache when possible.
func (m *Manager) BookedPositions(ctx context.Context, tripID uint64) ([]uint32, error) {
	if nums, ok := m.cache.GetBooked(ctx, tripID); ok {
		return nums, nil
	}
	nums, err := m.seats.BookedNumbers(ctx, tripID)
	if err != nil {
		return nil, err
	}
	m.cache.SetBooked(ctx, tripID, nums)
	return nums, nil
}

// Invalidate drops the trip's cached projections.  Exposed for the
// confirmation orchestrator, which mutates seats inside its own
// transaction.
func (m *Manager) Invalidate(ctx context.Context, tripID uint64) {
	m.cache.Invalidate(ctx, tripID)
}
