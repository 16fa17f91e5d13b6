package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurupratap-matharu/falcon-sub000/internal/inventory"
	"github.com/gurupratap-matharu/falcon-sub000/internal/model"
	"github.com/gurupratap-matharu/falcon-sub000/internal/repository"
)

func newService(t *testing.T) (*Service, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	orders := repository.NewOrderRepo(db)
	trips := repository.NewTripRepo(db)
	coupons := repository.NewCouponRepo(db)
	inv := inventory.NewManager(trips, repository.NewSeatRepo(db), nil)
	return NewService(orders, trips, coupons, inv, quietLogger()), mock, func() { _ = db.Close() }
}

func testPayer() PayerInfo {
	return PayerInfo{Name: "Ada Lovelace", Email: "ada@example.com", Residence: "AR"}
}

func testPassengers(n int) []model.Passenger {
	birth := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	passengers := make([]model.Passenger, n)
	for i := range passengers {
		passengers[i] = model.Passenger{
			DocumentType:   "DNI",
			DocumentNumber: "11111111",
			Nationality:    "AR",
			FirstName:      "Ada",
			LastName:       "Lovelace",
			Gender:         "F",
			BirthDate:      birth,
			Phone:          "+54911111111",
		}
	}
	return passengers
}

func TestCreateOrderValidation(t *testing.T) {
	s, _, done := newService(t)
	defer done()
	ctx := context.Background()

	// No items.
	_, err := s.CreateOrder(ctx, testPayer(), nil, nil, "")
	require.ErrorIs(t, err, model.ErrInvalidQuantity)

	// Quantity out of range.
	items := []ItemRequest{{TripID: 1, SeatNumbers: []uint32{1, 2, 3, 4, 5, 6}, Quantity: 6}}
	_, err = s.CreateOrder(ctx, testPayer(), items, testPassengers(6), "")
	require.ErrorIs(t, err, model.ErrInvalidQuantity)

	// Seat count disagrees with quantity.
	items = []ItemRequest{{TripID: 1, SeatNumbers: []uint32{1}, Quantity: 2}}
	_, err = s.CreateOrder(ctx, testPayer(), items, testPassengers(2), "")
	require.ErrorIs(t, err, model.ErrInvalidQuantity)

	// Zero seat number.
	items = []ItemRequest{{TripID: 1, SeatNumbers: []uint32{0}, Quantity: 1}}
	_, err = s.CreateOrder(ctx, testPayer(), items, testPassengers(1), "")
	require.ErrorIs(t, err, model.ErrInvalidSeatList)

	// Passenger count disagrees with total seats.
	items = []ItemRequest{{TripID: 1, SeatNumbers: []uint32{1, 2}, Quantity: 2}}
	_, err = s.CreateOrder(ctx, testPayer(), items, testPassengers(1), "")
	require.ErrorIs(t, err, ErrPassengerCount)

	// Passenger age out of range.
	items = []ItemRequest{{TripID: 1, SeatNumbers: []uint32{1}, Quantity: 1}}
	tooYoung := testPassengers(1)
	tooYoung[0].BirthDate = time.Now().UTC().AddDate(0, -6, 0)
	_, err = s.CreateOrder(ctx, testPayer(), items, tooYoung, "")
	require.ErrorIs(t, err, model.ErrInvalidBirthDate)
}

func TestCreateOrder(t *testing.T) {
	s, mock, done := newService(t)
	defer done()

	now := time.Now().UTC()
	dep := now.Add(24 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM trips WHERE id").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "origin", "destination", "departure", "arrival", "price_cents", "status", "created_at", "updated_at"}).
			AddRow(uint64(1), "Buenos Aires", "Mendoza", dep, dep.Add(12*time.Hour), int64(10000), "ACTIVE", now, now))
	mock.ExpectExec("UPDATE seats SET status = 'ONHOLD'").
		WithArgs(uint64(1), uint32(5), uint32(6)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO orders").
		WithArgs("Ada Lovelace", "ada@example.com", "AR", nil, uint8(0)).
		WillReturnResult(sqlmock.NewResult(40, 1))
	mock.ExpectQuery("SELECT paid, created_at, updated_at FROM orders WHERE id").
		WithArgs(uint64(40)).
		WillReturnRows(sqlmock.NewRows([]string{"paid", "created_at", "updated_at"}).AddRow(false, now, now))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnResult(sqlmock.NewResult(70, 1))
	mock.ExpectExec("INSERT INTO passengers").
		WillReturnResult(sqlmock.NewResult(100, 2))
	mock.ExpectCommit()

	items := []ItemRequest{{TripID: 1, SeatNumbers: []uint32{5, 6}, Quantity: 2}}
	order, err := s.CreateOrder(context.Background(), testPayer(), items, testPassengers(2), "")
	require.NoError(t, err)
	assert.Equal(t, uint64(40), order.ID)
	assert.False(t, order.Paid)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(10000), order.Items[0].PriceCents)
	assert.Equal(t, "5, 6", order.Items[0].SeatNumbers)
	assert.Equal(t, int64(20000), order.TotalCents())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderSnapshotsValidCoupon(t *testing.T) {
	s, mock, done := newService(t)
	defer done()

	now := time.Now().UTC()
	dep := now.Add(24 * time.Hour)
	mock.ExpectQuery("FROM coupons WHERE code").
		WithArgs("SAVE10").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "discount_pct", "valid_from", "valid_to", "active", "created_at"}).
			AddRow(uint64(12), "SAVE10", uint8(10), now.Add(-time.Hour), now.Add(time.Hour), true, now))
	mock.ExpectBegin()
	mock.ExpectQuery("FROM trips WHERE id").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "origin", "destination", "departure", "arrival", "price_cents", "status", "created_at", "updated_at"}).
			AddRow(uint64(1), "Buenos Aires", "Mendoza", dep, dep.Add(12*time.Hour), int64(10000), "ACTIVE", now, now))
	mock.ExpectExec("UPDATE seats SET status = 'ONHOLD'").
		WithArgs(uint64(1), uint32(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO orders").
		WithArgs("Ada Lovelace", "ada@example.com", "AR", uint64(12), uint8(10)).
		WillReturnResult(sqlmock.NewResult(41, 1))
	mock.ExpectQuery("SELECT paid, created_at, updated_at FROM orders WHERE id").
		WithArgs(uint64(41)).
		WillReturnRows(sqlmock.NewRows([]string{"paid", "created_at", "updated_at"}).AddRow(false, now, now))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnResult(sqlmock.NewResult(71, 1))
	mock.ExpectExec("INSERT INTO passengers").
		WillReturnResult(sqlmock.NewResult(102, 1))
	mock.ExpectCommit()

	items := []ItemRequest{{TripID: 1, SeatNumbers: []uint32{5}, Quantity: 1}}
	order, err := s.CreateOrder(context.Background(), testPayer(), items, testPassengers(1), "SAVE10")
	require.NoError(t, err)
	require.NotNil(t, order.CouponID)
	assert.Equal(t, uint64(12), *order.CouponID)
	assert.Equal(t, uint8(10), order.DiscountPct)
	assert.Equal(t, int64(9000), order.TotalCents())
}

func TestCreateOrderIgnoresUnknownCoupon(t *testing.T) {
	s, mock, done := newService(t)
	defer done()

	now := time.Now().UTC()
	dep := now.Add(24 * time.Hour)
	mock.ExpectQuery("FROM coupons WHERE code").
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "discount_pct", "valid_from", "valid_to", "active", "created_at"}))
	mock.ExpectBegin()
	mock.ExpectQuery("FROM trips WHERE id").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "origin", "destination", "departure", "arrival", "price_cents", "status", "created_at", "updated_at"}).
			AddRow(uint64(1), "Buenos Aires", "Mendoza", dep, dep.Add(12*time.Hour), int64(10000), "ACTIVE", now, now))
	mock.ExpectExec("UPDATE seats SET status = 'ONHOLD'").
		WithArgs(uint64(1), uint32(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO orders").
		WithArgs("Ada Lovelace", "ada@example.com", "AR", nil, uint8(0)).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery("SELECT paid, created_at, updated_at FROM orders WHERE id").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"paid", "created_at", "updated_at"}).AddRow(false, now, now))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnResult(sqlmock.NewResult(72, 1))
	mock.ExpectExec("INSERT INTO passengers").
		WillReturnResult(sqlmock.NewResult(103, 1))
	mock.ExpectCommit()

	items := []ItemRequest{{TripID: 1, SeatNumbers: []uint32{5}, Quantity: 1}}
	order, err := s.CreateOrder(context.Background(), testPayer(), items, testPassengers(1), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, order.CouponID)
	assert.Equal(t, uint8(0), order.DiscountPct)
}

func TestCreateOrderRollsBackOnPartialHold(t *testing.T) {
	s, mock, done := newService(t)
	defer done()

	// One of the two requested seats is gone, so no order row, no
	// items and no passengers may persist.
	now := time.Now().UTC()
	dep := now.Add(24 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM trips WHERE id").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "origin", "destination", "departure", "arrival", "price_cents", "status", "created_at", "updated_at"}).
			AddRow(uint64(1), "Buenos Aires", "Mendoza", dep, dep.Add(12*time.Hour), int64(10000), "ACTIVE", now, now))
	mock.ExpectExec("UPDATE seats SET status = 'ONHOLD'").
		WithArgs(uint64(1), uint32(5), uint32(6)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT seat_number FROM seats").
		WithArgs(uint64(1), uint32(5), uint32(6)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).AddRow(5))
	mock.ExpectRollback()

	items := []ItemRequest{{TripID: 1, SeatNumbers: []uint32{5, 6}, Quantity: 2}}
	_, err := s.CreateOrder(context.Background(), testPayer(), items, testPassengers(2), "")
	var unavailable *inventory.SeatsUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []uint32{6}, unavailable.Unavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}
