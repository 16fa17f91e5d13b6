// Package booking owns the order aggregate lifecycle: creation of an
// order with its items and passengers as one transactional unit, and
// the payment-confirmation protocol that turns held seats into booked
// ones.  Inventory mutation always happens through the inventory
// manager's conditional-update primitives.
package booking

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gurupratap-matharu/falcon-sub000/internal/inventory"
	"github.com/gurupratap-matharu/falcon-sub000/internal/model"
	"github.com/gurupratap-matharu/falcon-sub000/internal/repository"
)

// ErrPassengerCount is returned at the order-creation boundary when
// the number of submitted passengers does not equal the total number
// of seats across all items.
var ErrPassengerCount = errors.New("passenger count does not match seat count")

// PayerInfo is the contact data of the person paying for an order.
type PayerInfo struct {
	Name      string
	Email     string
	Residence string // ISO 3166-1 alpha-2
}

// ItemRequest is one cart line handed into order creation: a trip, a
// seat selection and a quantity.  The price is never taken from the
// cart; it is snapshotted from the trip at creation time.
type ItemRequest struct {
	TripID      uint64
	SeatNumbers []uint32
	Quantity    uint8
}

// Service creates order aggregates.  Creation validates the request,
// places the seat holds and writes the order, its items and its
// passengers inside a single transaction, so a failed hold leaves no
// partial aggregate behind.
type Service struct {
	orders    *repository.OrderRepo
	trips     *repository.TripRepo
	coupons   *repository.CouponRepo
	inventory *inventory.Manager
	log       *logrus.Logger
	now       func() time.Time
}

// NewService constructs a Service.  All dependencies except the
// logger must be non-nil.
func NewService(orders *repository.OrderRepo, trips *repository.TripRepo, coupons *repository.CouponRepo, inv *inventory.Manager, log *logrus.Logger) *Service {
	if orders == nil || trips == nil || coupons == nil || inv == nil {
		panic("nil dependency passed to NewService")
	}
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		orders:    orders,
		trips:     trips,
		coupons:   coupons,
		inventory: inv,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// validate runs the boundary checks that must never reach inventory
// mutation: quantity ranges, seat-list/quantity agreement and
// passenger ages.
func (s *Service) validate(items []ItemRequest, passengers []model.Passenger) error {
	if len(items) == 0 {
		return model.ErrInvalidQuantity
	}
	totalSeats := 0
	for _, it := range items {
		if it.Quantity < model.MinItemQuantity || it.Quantity > model.MaxItemQuantity {
			return model.ErrInvalidQuantity
		}
		if len(it.SeatNumbers) != int(it.Quantity) {
			return model.ErrInvalidQuantity
		}
		for _, n := range it.SeatNumbers {
			if n == 0 {
				return model.ErrInvalidSeatList
			}
		}
		totalSeats += len(it.SeatNumbers)
	}
	if totalSeats != len(passengers) {
		return ErrPassengerCount
	}
	now := s.now()
	for i := range passengers {
		if err := passengers[i].Validate(now); err != nil {
			return err
		}
	}
	return nil
}

// CreateOrder builds the order aggregate: it holds the requested
// seats, snapshots trip prices onto the items and, when a valid
// coupon code is supplied, snapshots its discount percentage onto the
// order.  The coupon itself is redeemed later, at confirmation.  An
// unknown or no-longer-valid coupon code is ignored with a warning
// rather than failing checkout.
func (s *Service) CreateOrder(ctx context.Context, payer PayerInfo, items []ItemRequest, passengers []model.Passenger, couponCode string) (*model.Order, error) {
	if err := s.validate(items, passengers); err != nil {
		return nil, err
	}

	order := &model.Order{
		PayerName:  payer.Name,
		PayerEmail: payer.Email,
		Residence:  payer.Residence,
	}
	if couponCode != "" {
		coupon, err := s.coupons.GetByCode(ctx, couponCode)
		switch {
		case err == nil && coupon.Valid(s.now()):
			order.CouponID = &coupon.ID
			order.DiscountPct = coupon.DiscountPct
		case err != nil && !errors.Is(err, repository.ErrCouponNotFound):
			return nil, err
		default:
			s.log.WithField("coupon_code", couponCode).Warn("ignoring invalid coupon code")
		}
	}

	tx, err := s.orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	tripIDs := make([]uint64, 0, len(items))
	orderItems := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		trip, err := s.trips.GetTx(ctx, tx, it.TripID)
		if err != nil {
			return nil, err
		}
		if err := s.inventory.HoldSeatsTx(ctx, tx, trip, it.SeatNumbers); err != nil {
			return nil, err
		}
		tripIDs = append(tripIDs, trip.ID)
		orderItems = append(orderItems, model.OrderItem{
			TripID:      trip.ID,
			Quantity:    it.Quantity,
			PriceCents:  trip.PriceCents,
			SeatNumbers: model.FormatSeatNumbers(it.SeatNumbers),
		})
	}

	if err := s.orders.CreateTx(ctx, tx, order); err != nil {
		return nil, err
	}
	for i := range orderItems {
		orderItems[i].OrderID = order.ID
	}
	if err := s.orders.CreateItemsBulkTx(ctx, tx, orderItems); err != nil {
		return nil, err
	}
	for i := range passengers {
		passengers[i].OrderID = order.ID
	}
	if err := s.orders.CreatePassengersBulkTx(ctx, tx, passengers); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	for _, tid := range tripIDs {
		s.inventory.Invalidate(ctx, tid)
	}
	order.Items = orderItems
	order.Passengers = passengers
	s.log.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"trip_ids":    tripIDs,
		"total_cents": order.TotalCents(),
	}).Info("order created")
	return order, nil
}

// GetOrder loads the full order aggregate for read-only callers.
func (s *Service) GetOrder(ctx context.Context, id uint64) (*model.Order, error) {
	return s.orders.GetAggregate(ctx, id)
}
