package booking

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gurupratap-matharu/falcon-sub000/internal/inventory"
	"github.com/gurupratap-matharu/falcon-sub000/internal/model"
	"github.com/gurupratap-matharu/falcon-sub000/internal/queue"
	"github.com/gurupratap-matharu/falcon-sub000/internal/repository"
)

// EventPublisher dispatches confirmation events to downstream
// collaborators (ticket rendering, notification).  Publishing happens
// after the inventory transaction commits; a publish failure is
// logged and never rolls anything back.
type EventPublisher interface {
	PublishOrderConfirmed(ctx context.Context, event queue.OrderConfirmedEvent) error
}

// Orchestrator runs the order confirmation protocol triggered by an
// external payment notification, and the symmetric cancellation path.
// Steps 1–4 of confirmation (load order, book seats with passengers,
// mark paid, redeem coupon) execute inside one transaction and are
// all-or-nothing; the event dispatch in step 5 is fire-and-forget.
type Orchestrator struct {
	orders    *repository.OrderRepo
	trips     *repository.TripRepo
	coupons   *repository.CouponRepo
	inventory *inventory.Manager
	publisher EventPublisher
	log       *logrus.Logger
	now       func() time.Time
}

// NewOrchestrator constructs an Orchestrator.  The publisher may be
// nil when no broker is configured; the logger defaults when nil.
func NewOrchestrator(orders *repository.OrderRepo, trips *repository.TripRepo, coupons *repository.CouponRepo, inv *inventory.Manager, publisher EventPublisher, log *logrus.Logger) *Orchestrator {
	if orders == nil || trips == nil || coupons == nil || inv == nil {
		panic("nil dependency passed to NewOrchestrator")
	}
	if log == nil {
		log = logrus.New()
	}
	return &Orchestrator{
		orders:    orders,
		trips:     trips,
		coupons:   coupons,
		inventory: inv,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ConfirmOrder finalises an order after a successful payment
// notification.  Within one transaction it books every seat of every
// item with its passenger, marks the order paid with the payment
// reference, and redeems the attached coupon if any.  Any failure
// rolls the whole transaction back, leaving the order unpaid and the
// seats exactly as they were, so the notification can be retried
// after manual correction.  A second confirmation of an already-paid
// order is rejected with repository.ErrOrderAlreadyPaid.
func (o *Orchestrator) ConfirmOrder(ctx context.Context, orderID uint64, paymentRef string) (*model.Order, error) {
	tx, err := o.orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	order, err := o.orders.GetAggregateTx(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Paid {
		return nil, repository.ErrOrderAlreadyPaid
	}

	// Book each item's seats, consuming passengers in the order they
	// were attached to the order.  Pairing is strictly positional.
	legs := make([]queue.TripLeg, 0, len(order.Items))
	next := 0
	for _, item := range order.Items {
		nums, err := model.ParseSeatNumbers(item.SeatNumbers)
		if err != nil {
			return nil, err
		}
		if next+len(nums) > len(order.Passengers) {
			return nil, inventory.ErrSeatPassengerMismatch
		}
		passengerIDs := make([]uint64, 0, len(nums))
		for _, p := range order.Passengers[next : next+len(nums)] {
			passengerIDs = append(passengerIDs, p.ID)
		}
		if err := o.inventory.BookWithPassengersTx(ctx, tx, item.TripID, nums, passengerIDs); err != nil {
			return nil, err
		}
		for i, n := range nums {
			if err := o.orders.AssignPassengerSeatTx(ctx, tx, passengerIDs[i], item.TripID, n); err != nil {
				return nil, err
			}
		}
		next += len(nums)
		legs = append(legs, queue.TripLeg{TripID: item.TripID, SeatNumbers: nums})
	}

	if err := o.orders.MarkPaidTx(ctx, tx, order.ID, paymentRef); err != nil {
		return nil, err
	}
	if order.CouponID != nil {
		if err := o.coupons.RedeemTx(ctx, tx, *order.CouponID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	order.Paid = true
	order.PaymentRef = &paymentRef
	for _, leg := range legs {
		o.inventory.Invalidate(ctx, leg.TripID)
	}
	o.log.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"payment_ref": paymentRef,
	}).Info("order confirmed")

	o.publish(ctx, order, legs, paymentRef)
	return order, nil
}

// publish emits the confirmation event.  Failures are logged only:
// the inventory and payment state have already committed.
func (o *Orchestrator) publish(ctx context.Context, order *model.Order, legs []queue.TripLeg, paymentRef string) {
	if o.publisher == nil {
		return
	}
	for i := range legs {
		trip, err := o.trips.GetByID(ctx, legs[i].TripID)
		if err != nil {
			continue
		}
		legs[i].Origin = trip.Origin
		legs[i].Destination = trip.Destination
	}
	event := queue.OrderConfirmedEvent{
		OrderID:       order.ID,
		PaymentRef:    paymentRef,
		PayerName:     order.PayerName,
		PayerEmail:    order.PayerEmail,
		Legs:          legs,
		TotalCents:    order.TotalCents(),
		DiscountCents: order.DiscountCents(),
		ConfirmedAt:   o.now().Format(time.RFC3339),
	}
	if err := o.publisher.PublishOrderConfirmed(ctx, event); err != nil {
		o.log.WithError(err).WithField("order_id", order.ID).Error("failed to publish confirmation event")
	}
}

// CancelOrder releases every held seat referenced by the order's
// items back to AVAILABLE and leaves the order unpaid.  Cancellation
// is represented purely as inventory release: the release primitive
// only matches ONHOLD rows, so repeating a cancellation, or
// cancelling after the seats were legitimately booked, is a no-op.
func (o *Orchestrator) CancelOrder(ctx context.Context, orderID uint64) error {
	tx, err := o.orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	order, err := o.orders.GetAggregateTx(ctx, tx, orderID)
	if err != nil {
		return err
	}
	tripIDs := make([]uint64, 0, len(order.Items))
	for _, item := range order.Items {
		nums, err := model.ParseSeatNumbers(item.SeatNumbers)
		if err != nil {
			return err
		}
		if _, err := o.inventory.ReleaseSeatsTx(ctx, tx, item.TripID, nums); err != nil {
			return err
		}
		tripIDs = append(tripIDs, item.TripID)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	for _, tid := range tripIDs {
		o.inventory.Invalidate(ctx, tid)
	}
	o.log.WithField("order_id", orderID).Info("order cancelled, seats released")
	return nil
}
