package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/gurupratap-matharu/falcon-sub000/internal/inventory"
	"github.com/gurupratap-matharu/falcon-sub000/internal/repository"
)

// InventoryHandler exposes the seat inventory operations over HTTP.
// Handlers only parse parameters and translate errors; all inventory
// logic lives in the inventory manager.
type InventoryHandler struct {
	Inventory *inventory.Manager
}

// NewInventoryHandler constructs an InventoryHandler.
func NewInventoryHandler(inv *inventory.Manager) *InventoryHandler {
	if inv == nil {
		panic("nil manager passed to NewInventoryHandler")
	}
	return &InventoryHandler{Inventory: inv}
}

func tripIDParam(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid trip id")
	}
	return id, nil
}

// HoldSeats handles POST /v1/trips/:id/hold.  The request body must
// contain a "seat_numbers" array.  On success it returns 201 with the
// hold token and the held seats; when any requested seat is not
// available it returns 400 with the list of unavailable seat numbers.
func (h *InventoryHandler) HoldSeats(c echo.Context) error {
	tripID, err := tripIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
	}
	var body struct {
		SeatNumbers []uint32 `json:"seat_numbers"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.SeatNumbers) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_numbers is required"})
	}
	res, err := h.Inventory.HoldSeats(c.Request().Context(), tripID, body.SeatNumbers)
	if err != nil {
		var unavailable *inventory.SeatsUnavailableError
		switch {
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
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to hold seats"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"hold_token":   res.HoldToken,
		"seat_numbers": res.Held,
	})
}

// ReleaseSeats handles DELETE /v1/trips/:id/hold.  It releases the
// given held seats back to available.  Releasing seats that are no
// longer held is a no-op, so the endpoint always returns 200 with the
// number of seats actually released.
func (h *InventoryHandler) ReleaseSeats(c echo.Context) error {
	tripID, err := tripIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
	}
	var body struct {
		SeatNumbers []uint32 `json:"seat_numbers"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	released, err := h.Inventory.ReleaseSeats(c.Request().Context(), tripID, body.SeatNumbers)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release seats"})
	}
	return c.JSON(http.StatusOK, echo.Map{"released": released})
}

// SeatsAvailable handles GET /v1/trips/:id/seats/available and
// returns the count of seats still open for sale.
func (h *InventoryHandler) SeatsAvailable(c echo.Context) error {
	tripID, err := tripIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
	}
	n, err := h.Inventory.SeatsAvailable(c.Request().Context(), tripID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to count seats"})
	}
	return c.JSON(http.StatusOK, echo.Map{"available": n})
}

// BookedPositions handles GET /v1/trips/:id/seats/booked and returns
// the occupied seat positions for seat-map rendering.
func (h *InventoryHandler) BookedPositions(c echo.Context) error {
	tripID, err := tripIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
	}
	nums, err := h.Inventory.BookedPositions(c.Request().Context(), tripID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list booked seats"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booked": nums})
}
