package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gurupratap-matharu/falcon-sub000/internal/model"
	"github.com/gurupratap-matharu/falcon-sub000/internal/repository"
)

// CouponHandler exposes the administrative coupon operations.
// Redemption is not here: coupons are redeemed only by the
// confirmation protocol.
type CouponHandler struct {
	Coupons *repository.CouponRepo
}

// NewCouponHandler constructs a CouponHandler.
func NewCouponHandler(coupons *repository.CouponRepo) *CouponHandler {
	if coupons == nil {
		panic("nil repository passed to NewCouponHandler")
	}
	return &CouponHandler{Coupons: coupons}
}

// Create handles POST /v1/coupons.  New coupons are active and become
// valid strictly inside their (valid_from, valid_to) window.
func (h *CouponHandler) Create(c echo.Context) error {
	var body struct {
		Code        string `json:"code"`
		DiscountPct uint8  `json:"discount_pct"`
		ValidFrom   string `json:"valid_from"` // RFC 3339
		ValidTo     string `json:"valid_to"`   // RFC 3339
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Code == "" || body.DiscountPct == 0 || body.DiscountPct > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code and a discount_pct between 1 and 100 are required"})
	}
	validFrom, err := time.Parse(time.RFC3339, body.ValidFrom)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid valid_from, want RFC 3339"})
	}
	validTo, err := time.Parse(time.RFC3339, body.ValidTo)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid valid_to, want RFC 3339"})
	}
	if !validTo.After(validFrom) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid_to must be after valid_from"})
	}
	coupon := &model.Coupon{
		Code:        body.Code,
		DiscountPct: body.DiscountPct,
		ValidFrom:   validFrom.UTC(),
		ValidTo:     validTo.UTC(),
		Active:      true,
	}
	if err := h.Coupons.Create(c.Request().Context(), coupon); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create coupon"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":           coupon.ID,
		"code":         coupon.Code,
		"discount_pct": coupon.DiscountPct,
		"valid_from":   coupon.ValidFrom,
		"valid_to":     coupon.ValidTo,
		"active":       coupon.Active,
	})
}

// Get handles GET /v1/coupons/:code and reports the coupon's current
// redeemability alongside its data.
func (h *CouponHandler) Get(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "coupon code is required"})
	}
	coupon, err := h.Coupons.GetByCode(c.Request().Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "coupon not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch coupon"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":           coupon.ID,
		"code":         coupon.Code,
		"discount_pct": coupon.DiscountPct,
		"valid_from":   coupon.ValidFrom,
		"valid_to":     coupon.ValidTo,
		"active":       coupon.Active,
		"redeemable":   coupon.Valid(time.Now().UTC()),
	})
}
