package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gurupratap-matharu/falcon-sub000/internal/inventory"
	"github.com/gurupratap-matharu/falcon-sub000/internal/model"
	"github.com/gurupratap-matharu/falcon-sub000/internal/repository"
)

// TripHandler exposes the administrative trip operations: scheduling
// a trip with its seat collection, changing its lifecycle status and
// sweeping every held seat of a trip.
type TripHandler struct {
	Inventory *inventory.Manager
}

// NewTripHandler constructs a TripHandler.
func NewTripHandler(inv *inventory.Manager) *TripHandler {
	if inv == nil {
		panic("nil manager passed to NewTripHandler")
	}
	return &TripHandler{Inventory: inv}
}

// Create handles POST /v1/trips.  It schedules a trip together with
// its fixed seat collection (seats 1..seat_count, all available) in
// one transaction.
func (h *TripHandler) Create(c echo.Context) error {
	var body struct {
		Origin      string `json:"origin"`
		Destination string `json:"destination"`
		Departure   string `json:"departure"` // RFC 3339
		Arrival     string `json:"arrival"`   // RFC 3339
		PriceCents  int64  `json:"price_cents"`
		SeatCount   uint32 `json:"seat_count"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Origin == "" || body.Destination == "" || body.PriceCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin, destination and price_cents are required"})
	}
	departure, err := time.Parse(time.RFC3339, body.Departure)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid departure, want RFC 3339"})
	}
	arrival, err := time.Parse(time.RFC3339, body.Arrival)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid arrival, want RFC 3339"})
	}
	trip := &model.Trip{
		Origin:      body.Origin,
		Destination: body.Destination,
		Departure:   departure.UTC(),
		Arrival:     arrival.UTC(),
		PriceCents:  body.PriceCents,
		Status:      model.TripActive,
	}
	if err := h.Inventory.ScheduleTrip(c.Request().Context(), trip, body.SeatCount); err != nil {
		if errors.Is(err, inventory.ErrInvalidSchedule) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to schedule trip"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":          trip.ID,
		"origin":      trip.Origin,
		"destination": trip.Destination,
		"departure":   trip.Departure,
		"arrival":     trip.Arrival,
		"price_cents": trip.PriceCents,
		"status":      trip.Status,
		"seat_count":  body.SeatCount,
	})
}

// UpdateStatus handles PATCH /v1/trips/:id/status with a body of
// {"status": "CANCELLED"}.
func (h *TripHandler) UpdateStatus(c echo.Context) error {
	tripID, err := tripIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := model.TripStatus(body.Status)
	switch status {
	case model.TripActive, model.TripCancelled, model.TripOnHold, model.TripDelayed, model.TripOther:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown trip status"})
	}
	if err := h.Inventory.SetTripStatus(c.Request().Context(), tripID, status); err != nil {
		if errors.Is(err, repository.ErrTripNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update trip status"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": tripID, "status": status})
}

// ReleaseAllHolds handles DELETE /v1/trips/:id/holds.  It sweeps
// every held seat of the trip back to available, an administrative
// cleanup used when a checkout session is abandoned wholesale.
func (h *TripHandler) ReleaseAllHolds(c echo.Context) error {
	tripID, err := tripIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
	}
	released, err := h.Inventory.ReleaseAll(c.Request().Context(), tripID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release holds"})
	}
	return c.JSON(http.StatusOK, echo.Map{"released": released})
}
