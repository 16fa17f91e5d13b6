// Package repository contains data access logic for the booking core.
// Repositories expose plain parameterized queries; methods suffixed
// with Tx participate in a caller-owned transaction, which the caller
// must commit or roll back.  All timestamps are stored in UTC.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gurupratap-matharu/falcon-sub000/internal/model"
)

// ErrTripNotFound indicates that a trip was not located in the DB.
var ErrTripNotFound = errors.New("trip not found")

// TripRepo manages persistence for trips.
type TripRepo struct {
	db *sql.DB
}

// NewTripRepo returns a new TripRepo bound to the given database.
func NewTripRepo(db *sql.DB) *TripRepo { return &TripRepo{db: db} }

// DB exposes the underlying sql.DB for transactions spanning
// multiple repositories.
func (r *TripRepo) DB() *sql.DB { return r.db }

const tripColumns = `id, origin, destination, departure, arrival, price_cents, status, created_at, updated_at`

func scanTrip(row *sql.Row) (*model.Trip, error) {
	var t model.Trip
	var status string
	err := row.Scan(&t.ID, &t.Origin, &t.Destination, &t.Departure, &t.Arrival, &t.PriceCents, &status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	t.Status = model.TripStatus(status)
	return &t, nil
}

// GetByID retrieves a trip by its id.
func (r *TripRepo) GetByID(ctx context.Context, id uint64) (*model.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = ?`
	return scanTrip(r.db.QueryRowContext(ctx, q, id))
}

// GetTx retrieves a trip within an existing transaction.
func (r *TripRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = ?`
	return scanTrip(tx.QueryRowContext(ctx, q, id))
}

// CreateTx inserts a new trip within an existing transaction and
// populates its generated ID and DB-default fields on the given
// struct.  Trip creation always runs in a transaction so the trip and
// its seat collection persist together.
func (r *TripRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Trip) error {
	const q = `INSERT INTO trips (origin, destination, departure, arrival, price_cents, status)
	           VALUES (?, ?, ?, ?, ?, ?)`
	status := t.Status
	if status == "" {
		status = model.TripActive
	}
	res, err := tx.ExecContext(ctx, q, t.Origin, t.Destination, t.Departure, t.Arrival, t.PriceCents, string(status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT ` + tripColumns + ` FROM trips WHERE id = ?`
	got, err := scanTrip(tx.QueryRowContext(ctx, sel, t.ID))
	if err != nil {
		return err
	}
	*t = *got
	return nil
}

// UpdateStatus changes a trip's lifecycle status.  Returns
// ErrTripNotFound when no row matches.
func (r *TripRepo) UpdateStatus(ctx context.Context, id uint64, status model.TripStatus) error {
	const q = `UPDATE trips SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTripNotFound
	}
	return nil
}
