package repository // repository defines data access for trip seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel definitions
	"strings"      // strings builds IN (...) placeholder lists

	"github.com/gurupratap-matharu/falcon-sub000/internal/model"
)

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// SeatRepo provides methods to work with seats in the database.  The
// hold, release and book operations are each a single conditional
// UPDATE (filter-and-set) returning the affected-row count.  They
// never read first and write second, so two concurrent callers
// contending for the same seat can never both succeed.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *SeatRepo) DB() *sql.DB { return r.db }

// placeholders returns a "?, ?, ?" list of n placeholders.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// seatArgs prepends tripID to the seat numbers as query arguments.
func seatArgs(tripID uint64, nums []uint32) []interface{} {
	args := make([]interface{}, 0, len(nums)+1)
	args = append(args, tripID)
	for _, n := range nums {
		args = append(args, n)
	}
	return args
}

// CreateBulkTx inserts multiple seats in a single statement within an
// existing transaction.  Seats are created AVAILABLE when a trip is
// scheduled and are never deleted while the trip exists.
func (r *SeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (trip_id, seat_number, status) VALUES `
	args := make([]interface{}, 0, len(seats)*3)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		status := s.Status
		if status == "" {
			status = model.SeatAvailable
		}
		args = append(args, s.TripID, s.SeatNumber, string(status))
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// HoldTx transitions the given seats from AVAILABLE to ONHOLD in one
// conditional bulk update and returns the number of rows affected.
// Seats already held or booked by someone else are silently excluded;
// the caller must compare the returned count against the requested
// count and treat a shortfall as a partial-hold failure.  This is the
// race-prevention primitive of the whole inventory.
func (r *SeatRepo) HoldTx(ctx context.Context, tx *sql.Tx, tripID uint64, nums []uint32) (int64, error) {
	if len(nums) == 0 {
		return 0, nil
	}
	query := `UPDATE seats SET status = 'ONHOLD', updated_at = CURRENT_TIMESTAMP
	          WHERE trip_id = ? AND status = 'AVAILABLE' AND seat_number IN (` + placeholders(len(nums)) + `)`
	res, err := tx.ExecContext(ctx, query, seatArgs(tripID, nums)...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReleaseTx transitions the given seats from ONHOLD back to AVAILABLE
// and clears any passenger reference.  Seats that are no longer
// ONHOLD (already released, or booked by the rightful order) are left
// untouched, which makes release idempotent and safe to call at any
// time.  Returns the number of seats actually released.
func (r *SeatRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, tripID uint64, nums []uint32) (int64, error) {
	if len(nums) == 0 {
		return 0, nil
	}
	query := `UPDATE seats SET status = 'AVAILABLE', passenger_id = NULL, updated_at = CURRENT_TIMESTAMP
	          WHERE trip_id = ? AND status = 'ONHOLD' AND seat_number IN (` + placeholders(len(nums)) + `)`
	res, err := tx.ExecContext(ctx, query, seatArgs(tripID, nums)...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReleaseAllTx releases every ONHOLD seat of a trip.  Used by the
// administrative cleanup path when a checkout session sweep decides
// to clear a whole trip.
func (r *SeatRepo) ReleaseAllTx(ctx context.Context, tx *sql.Tx, tripID uint64) (int64, error) {
	const q = `UPDATE seats SET status = 'AVAILABLE', passenger_id = NULL, updated_at = CURRENT_TIMESTAMP
	           WHERE trip_id = ? AND status = 'ONHOLD'`
	res, err := tx.ExecContext(ctx, q, tripID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// BookTx transitions a single seat to BOOKED and assigns its
// passenger in one conditional update.  The seat must currently be
// ONHOLD (held earlier by the same order) or still AVAILABLE.
// Returns the affected-row count: 0 means the seat was missing,
// booked by someone else, or administratively reserved.
func (r *SeatRepo) BookTx(ctx context.Context, tx *sql.Tx, tripID uint64, seatNumber uint32, passengerID uint64) (int64, error) {
	const q = `UPDATE seats SET status = 'BOOKED', passenger_id = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE trip_id = ? AND seat_number = ? AND status IN ('AVAILABLE', 'ONHOLD')`
	res, err := tx.ExecContext(ctx, q, passengerID, tripID, seatNumber)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// BookAvailableTx is the direct single-seat booking used outside the
// hold flow.  It only matches a seat that is currently AVAILABLE.
func (r *SeatRepo) BookAvailableTx(ctx context.Context, tx *sql.Tx, tripID uint64, seatNumber uint32, passengerID uint64) (int64, error) {
	const q = `UPDATE seats SET status = 'BOOKED', passenger_id = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE trip_id = ? AND seat_number = ? AND status = 'AVAILABLE'`
	res, err := tx.ExecContext(ctx, q, passengerID, tripID, seatNumber)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// AvailableNumbersTx returns the subset of the given seat numbers
// that are currently AVAILABLE on the trip.  Callers diff the result
// against the requested set to report which seats could not be held.
func (r *SeatRepo) AvailableNumbersTx(ctx context.Context, tx *sql.Tx, tripID uint64, nums []uint32) ([]uint32, error) {
	if len(nums) == 0 {
		return []uint32{}, nil
	}
	query := `SELECT seat_number FROM seats
	          WHERE trip_id = ? AND status = 'AVAILABLE' AND seat_number IN (` + placeholders(len(nums)) + `)`
	rows, err := tx.QueryContext(ctx, query, seatArgs(tripID, nums)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var available []uint32
	for rows.Next() {
		var n uint32
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		available = append(available, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return available, nil
}

// GetByNumber retrieves one seat by its (trip, seat_number) identity.
func (r *SeatRepo) GetByNumber(ctx context.Context, tripID uint64, seatNumber uint32) (*model.Seat, error) {
	const q = `SELECT id, trip_id, seat_number, status, passenger_id, created_at, updated_at
	           FROM seats WHERE trip_id = ? AND seat_number = ?`
	var s model.Seat
	var passengerID sql.NullInt64
	var status string
	err := r.db.QueryRowContext(ctx, q, tripID, seatNumber).
		Scan(&s.ID, &s.TripID, &s.SeatNumber, &status, &passengerID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	s.Status = model.SeatStatus(status)
	if passengerID.Valid {
		pid := uint64(passengerID.Int64)
		s.PassengerID = &pid
	}
	return &s, nil
}

// CountAvailable returns the number of AVAILABLE seats on a trip.
func (r *SeatRepo) CountAvailable(ctx context.Context, tripID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM seats WHERE trip_id = ? AND status = 'AVAILABLE'`
	var n int
	if err := r.db.QueryRowContext(ctx, q, tripID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// BookedNumbers returns the occupied seat positions of a trip (seats
// booked to a passenger or administratively reserved), ordered by
// seat number for deterministic output.
func (r *SeatRepo) BookedNumbers(ctx context.Context, tripID uint64) ([]uint32, error) {
	const q = `SELECT seat_number FROM seats
	           WHERE trip_id = ? AND status IN ('BOOKED', 'RESERVED')
	           ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	booked := make([]uint32, 0)
	for rows.Next() {
		var n uint32
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		booked = append(booked, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return booked, nil
}
