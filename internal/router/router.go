// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/gurupratap-matharu/falcon-sub000/internal/handler"
)

// RegisterRoutes wires the health check, the seat inventory
// operations and the order endpoints onto the provided Echo
// instance.  The payment-notification webhook lives under
// /v1/payments and is called by the external payment collaborator.
func RegisterRoutes(e *echo.Echo, trips *handler.TripHandler, inv *handler.InventoryHandler, orders *handler.OrderHandler, coupons *handler.CouponHandler) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Administrative trip operations.
	e.POST("/v1/trips", trips.Create)
	e.PATCH("/v1/trips/:id/status", trips.UpdateStatus)
	e.DELETE("/v1/trips/:id/holds", trips.ReleaseAllHolds)

	// Seat inventory operations, scoped to one trip.
	e.POST("/v1/trips/:id/hold", inv.HoldSeats)
	e.DELETE("/v1/trips/:id/hold", inv.ReleaseSeats)
	e.GET("/v1/trips/:id/seats/available", inv.SeatsAvailable)
	e.GET("/v1/trips/:id/seats/booked", inv.BookedPositions)

	// Order lifecycle.
	e.POST("/v1/orders", orders.CreateOrder)
	e.GET("/v1/orders/:id", orders.GetOrder)
	e.DELETE("/v1/orders/:id", orders.CancelOrder)

	// Administrative coupon operations.
	e.POST("/v1/coupons", coupons.Create)
	e.GET("/v1/coupons/:code", coupons.Get)

	// Payment collaborator webhook.
	e.POST("/v1/payments/notifications", orders.PaymentNotification)
}
