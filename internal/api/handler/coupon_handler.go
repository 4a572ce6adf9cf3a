package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abhiya492/ecommerce-api/internal/core/ports"
)

type CouponHandler struct {
	couponService ports.CouponService
}

func NewCouponHandler(couponService ports.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

type validateCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

// GetActive returns the user's active coupon, or null when none exists.
//
// @Summary      Get the active coupon
// @Tags         coupons
// @Produce      json
// @Success      200  {object}  domain.Coupon
// @Router       /api/coupons [get]
func (h *CouponHandler) GetActive(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	coupon, err := h.couponService.GetActive(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coupon)
}

// Validate checks a presented coupon code for the user.
//
// @Summary      Validate a coupon code
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Param        body  body      validateCouponRequest  true  "Coupon code"
// @Success      200   {object}  domain.Coupon
// @Failure      404   {object}  map[string]string
// @Router       /api/coupons/validate [post]
func (h *CouponHandler) Validate(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req validateCouponRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	coupon, err := h.couponService.Validate(c.Request().Context(), req.Code, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coupon)
}
