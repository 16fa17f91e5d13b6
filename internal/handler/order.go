package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gurupratap-matharu/falcon-sub000/internal/booking"
	"github.com/gurupratap-matharu/falcon-sub000/internal/inventory"
	"github.com/gurupratap-matharu/falcon-sub000/internal/model"
	"github.com/gurupratap-matharu/falcon-sub000/internal/repository"
)

// OrderHandler exposes order creation, lookup, cancellation and the
// payment-notification webhook.  The webhook is the entry point for
// the external payment collaborator: a success notification drives
// the confirmation protocol, a failure notification releases the held
// seats.
type OrderHandler struct {
	Service      *booking.Service
	Orchestrator *booking.Orchestrator
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(svc *booking.Service, orc *booking.Orchestrator) *OrderHandler {
	if svc == nil || orc == nil {
		panic("nil dependency passed to NewOrderHandler")
	}
	return &OrderHandler{Service: svc, Orchestrator: orc}
}

type passengerRequest struct {
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	Nationality    string `json:"nationality"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Gender         string `json:"gender"`
	BirthDate      string `json:"birth_date"` // YYYY-MM-DD
	Phone          string `json:"phone"`
}

type createOrderRequest struct {
	PayerName  string `json:"payer_name"`
	PayerEmail string `json:"payer_email"`
	Residence  string `json:"residence"`
	CouponCode string `json:"coupon_code"`
	Items      []struct {
		TripID      uint64   `json:"trip_id"`
		SeatNumbers []uint32 `json:"seat_numbers"`
		Quantity    uint8    `json:"quantity"`
	} `json:"items"`
	Passengers []passengerRequest `json:"passengers"`
}

type orderResponse struct {
	ID            uint64  `json:"id"`
	Paid          bool    `json:"paid"`
	PaymentRef    *string `json:"payment_ref,omitempty"`
	DiscountPct   uint8   `json:"discount_pct"`
	TotalCents    int64   `json:"total_cents"`
	DiscountCents int64   `json:"discount_cents"`
	Items         []struct {
		TripID      uint64 `json:"trip_id"`
		Quantity    uint8  `json:"quantity"`
		PriceCents  int64  `json:"price_cents"`
		SeatNumbers string `json:"seat_numbers"`
	} `json:"items"`
}

func toOrderResponse(o *model.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		Paid:          o.Paid,
		PaymentRef:    o.PaymentRef,
		DiscountPct:   o.DiscountPct,
		TotalCents:    o.TotalCents(),
		DiscountCents: o.DiscountCents(),
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, struct {
			TripID      uint64 `json:"trip_id"`
			Quantity    uint8  `json:"quantity"`
			PriceCents  int64  `json:"price_cents"`
			SeatNumbers string `json:"seat_numbers"`
		}{TripID: it.TripID, Quantity: it.Quantity, PriceCents: it.PriceCents, SeatNumbers: it.SeatNumbers})
	}
	return resp
}

// CreateOrder handles POST /v1/orders.  It validates the checkout
// submission, holds the requested seats and creates the order
// aggregate in one transaction.  Returns 201 with the order summary.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var body createOrderRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	items := make([]booking.ItemRequest, 0, len(body.Items))
	for _, it := range body.Items {
		items = append(items, booking.ItemRequest{TripID: it.TripID, SeatNumbers: it.SeatNumbers, Quantity: it.Quantity})
	}
	passengers := make([]model.Passenger, 0, len(body.Passengers))
	for _, p := range body.Passengers {
		birth, err := time.Parse("2006-01-02", p.BirthDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid birth_date, want YYYY-MM-DD"})
		}
		passengers = append(passengers, model.Passenger{
			DocumentType:   p.DocumentType,
			DocumentNumber: p.DocumentNumber,
			Nationality:    p.Nationality,
			FirstName:      p.FirstName,
			LastName:       p.LastName,
			Gender:         p.Gender,
			BirthDate:      birth,
			Phone:          p.Phone,
		})
	}
	payer := booking.PayerInfo{Name: body.PayerName, Email: body.PayerEmail, Residence: body.Residence}
	order, err := h.Service.CreateOrder(c.Request().Context(), payer, items, passengers, body.CouponCode)
	if err != nil {
		var unavailable *inventory.SeatsUnavailableError
		switch {
		case errors.Is(err, model.ErrInvalidQuantity),
			errors.Is(err, model.ErrInvalidSeatList),
			errors.Is(err, model.ErrInvalidBirthDate),
			errors.Is(err, booking.ErrPassengerCount):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.As(err, &unavailable):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":       "some seats are unavailable",
				"unavailable": unavailable.Unavailable,
			})
		case errors.Is(err, repository.ErrTripNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
		case errors.Is(err, inventory.ErrTripNotSellable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "trip is not sellable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
	}
	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

// GetOrder handles GET /v1/orders/:id.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	order, err := h.Service.GetOrder(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch order"})
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// CancelOrder handles DELETE /v1/orders/:id.  It releases the
// order's held seats; the order itself stays unpaid.
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	if err := h.Orchestrator.CancelOrder(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel order"})
	}
	return c.NoContent(http.StatusNoContent)
}

// PaymentNotification handles POST /v1/payments/notifications, the
// webhook called by the payment collaborator.  A success notification
// triggers the confirmation protocol; a failure notification cancels
// the order and releases its seats.
func (h *OrderHandler) PaymentNotification(c echo.Context) error {
	var body struct {
		OrderID    uint64 `json:"order_id"`
		PaymentRef string `json:"payment_ref"`
		Success    bool   `json:"success"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.OrderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id is required"})
	}
	ctx := c.Request().Context()
	if !body.Success {
		if err := h.Orchestrator.CancelOrder(ctx, body.OrderID); err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel order"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "cancelled"})
	}
	order, err := h.Orchestrator.ConfirmOrder(ctx, body.OrderID, body.PaymentRef)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		case errors.Is(err, repository.ErrOrderAlreadyPaid):
			return c.JSON(http.StatusConflict, echo.Map{"error": "order already paid"})
		case errors.Is(err, inventory.ErrSeatPassengerMismatch):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat inventory mismatch, order left unpaid"})
		case errors.Is(err, repository.ErrCouponNotRedeemable), errors.Is(err, repository.ErrCouponNotFound):
			return c.JSON(http.StatusConflict, echo.Map{"error": "coupon cannot be redeemed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm order"})
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}
