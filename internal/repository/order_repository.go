package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gurupratap-matharu/falcon-sub000/internal/model"
)

// ErrOrderNotFound indicates that an order was not located in the DB.
var ErrOrderNotFound = errors.New("order not found")

// ErrOrderAlreadyPaid indicates an attempt to confirm an order whose
// paid flag is already set.  Re-confirming is rejected rather than
// treated as a no-op so that double-processed payment references
// surface as bugs instead of being silently absorbed.
var ErrOrderAlreadyPaid = errors.New("order already paid")

// OrderRepo provides persistence for orders, their items and their
// passengers.  An order and its children are always written inside
// one caller-owned transaction so the aggregate either exists
// completely or not at all.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying sql.DB for transactions spanning
// multiple repositories.
func (r *OrderRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new unpaid order within the scope of an existing
// transaction and populates the generated ID and DB defaults on the
// provided struct.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	const q = `INSERT INTO orders (payer_name, payer_email, residence, coupon_id, discount_pct)
	           VALUES (?, ?, ?, ?, ?)`
	var couponID interface{}
	if o.CouponID != nil {
		couponID = *o.CouponID
	}
	res, err := tx.ExecContext(ctx, q, o.PayerName, o.PayerEmail, o.Residence, couponID, o.DiscountPct)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	const sel = `SELECT paid, created_at, updated_at FROM orders WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, o.ID).Scan(&o.Paid, &o.CreatedAt, &o.UpdatedAt)
}

// CreateItemsBulkTx inserts multiple order_items rows in a single
// statement.  The caller must supply the owning order ID in each
// item.  Passing an empty slice has no effect and returns nil.
func (r *OrderRepo) CreateItemsBulkTx(ctx context.Context, tx *sql.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO order_items (order_id, trip_id, quantity, price_cents, seat_numbers) VALUES `
	args := make([]interface{}, 0, len(items)*5)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, it.OrderID, it.TripID, it.Quantity, it.PriceCents, it.SeatNumbers)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// CreatePassengersBulkTx inserts multiple passengers rows in a single
// statement.  Insertion order is preserved by auto-increment ids, so
// reading passengers back ordered by id reproduces the order in which
// they were attached to the order.
func (r *OrderRepo) CreatePassengersBulkTx(ctx context.Context, tx *sql.Tx, passengers []model.Passenger) error {
	if len(passengers) == 0 {
		return nil
	}
	query := `INSERT INTO passengers
	          (order_id, document_type, document_number, nationality, first_name, last_name, gender, birth_date, phone) VALUES `
	args := make([]interface{}, 0, len(passengers)*9)
	for i, p := range passengers {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args, p.OrderID, p.DocumentType, p.DocumentNumber, p.Nationality,
			p.FirstName, p.LastName, p.Gender, p.BirthDate, p.Phone)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

const orderColumns = `id, payer_name, payer_email, residence, paid, payment_ref, coupon_id, discount_pct, created_at, updated_at`

func scanOrder(scan func(dest ...interface{}) error) (*model.Order, error) {
	var o model.Order
	var paymentRef sql.NullString
	var couponID sql.NullInt64
	err := scan(&o.ID, &o.PayerName, &o.PayerEmail, &o.Residence, &o.Paid,
		&paymentRef, &couponID, &o.DiscountPct, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if paymentRef.Valid {
		ref := paymentRef.String
		o.PaymentRef = &ref
	}
	if couponID.Valid {
		cid := uint64(couponID.Int64)
		o.CouponID = &cid
	}
	return &o, nil
}

// GetAggregateTx loads an order with its items and passengers, both
// in insertion order, within an existing transaction.  The order row
// is locked with FOR UPDATE so that two concurrent confirmations of
// the same order serialize on it.
func (r *OrderRepo) GetAggregateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = ? FOR UPDATE`
	o, err := scanOrder(tx.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		return nil, err
	}
	if o.Items, err = r.itemsByOrder(ctx, tx.QueryContext, id); err != nil {
		return nil, err
	}
	if o.Passengers, err = r.passengersByOrder(ctx, tx.QueryContext, id); err != nil {
		return nil, err
	}
	return o, nil
}

// GetAggregate is the read-only variant of GetAggregateTx for
// collaborators outside a transaction.
func (r *OrderRepo) GetAggregate(ctx context.Context, id uint64) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		return nil, err
	}
	if o.Items, err = r.itemsByOrder(ctx, r.db.QueryContext, id); err != nil {
		return nil, err
	}
	if o.Passengers, err = r.passengersByOrder(ctx, r.db.QueryContext, id); err != nil {
		return nil, err
	}
	return o, nil
}

type queryFn func(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)

func (r *OrderRepo) itemsByOrder(ctx context.Context, query queryFn, orderID uint64) ([]model.OrderItem, error) {
	const q = `SELECT id, order_id, trip_id, quantity, price_cents, seat_numbers, created_at
	           FROM order_items WHERE order_id = ? ORDER BY id`
	rows, err := query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.OrderItem, 0)
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.TripID, &it.Quantity, &it.PriceCents, &it.SeatNumbers, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *OrderRepo) passengersByOrder(ctx context.Context, query queryFn, orderID uint64) ([]model.Passenger, error) {
	const q = `SELECT id, order_id, trip_id, seat_number, document_type, document_number, nationality,
	                  first_name, last_name, gender, birth_date, phone
	           FROM passengers WHERE order_id = ? ORDER BY id`
	rows, err := query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	passengers := make([]model.Passenger, 0)
	for rows.Next() {
		var p model.Passenger
		var tripID sql.NullInt64
		var seatNumber sql.NullInt64
		if err := rows.Scan(&p.ID, &p.OrderID, &tripID, &seatNumber, &p.DocumentType, &p.DocumentNumber,
			&p.Nationality, &p.FirstName, &p.LastName, &p.Gender, &p.BirthDate, &p.Phone); err != nil {
			return nil, err
		}
		if tripID.Valid {
			tid := uint64(tripID.Int64)
			p.TripID = &tid
		}
		if seatNumber.Valid {
			sn := uint32(seatNumber.Int64)
			p.SeatNumber = &sn
		}
		passengers = append(passengers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return passengers, nil
}

// MarkPaidTx flips the order from unpaid to paid and stores the
// payment reference.  The update is conditional on paid = FALSE, so a
// second confirmation attempt affects zero rows and is rejected with
// ErrOrderAlreadyPaid.
func (r *OrderRepo) MarkPaidTx(ctx context.Context, tx *sql.Tx, id uint64, paymentRef string) error {
	const q = `UPDATE orders SET paid = TRUE, payment_ref = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND paid = FALSE`
	res, err := tx.ExecContext(ctx, q, paymentRef, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderAlreadyPaid
	}
	return nil
}

// AssignPassengerSeatTx records the trip and seat a passenger was
// booked onto.  Called by the orchestrator as each seat/passenger
// pair is booked.
func (r *OrderRepo) AssignPassengerSeatTx(ctx context.Context, tx *sql.Tx, passengerID, tripID uint64, seatNumber uint32) error {
	const q = `UPDATE passengers SET trip_id = ?, seat_number = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, tripID, seatNumber, passengerID)
	return err
}
