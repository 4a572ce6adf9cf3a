package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abhiya492/ecommerce-api/internal/api/metrics"
	"github.com/abhiya492/ecommerce-api/internal/core/ports"
)

type PaymentHandler struct {
	checkoutService ports.CheckoutService
}

func NewPaymentHandler(checkoutService ports.CheckoutService) *PaymentHandler {
	return &PaymentHandler{checkoutService: checkoutService}
}

type checkoutItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type createSessionRequest struct {
	Items      []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
	CouponCode string                `json:"coupon_code"`
}

type checkoutSuccessRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// CreateSession opens a hosted payment session for the requested items.
//
// @Summary      Create a checkout session
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      createSessionRequest  true  "Items and optional coupon"
// @Success      200   {object}  ports.CheckoutSessionResult
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/payments/create-checkout-session [post]
func (h *PaymentHandler) CreateSession(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	items := make([]ports.CheckoutItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.CheckoutItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	result, err := h.checkoutService.CreateSession(c.Request().Context(), user, items, req.CouponCode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// CheckoutSuccess finalises a paid session: records the order, consumes the
// coupon, and gifts a new one on qualifying totals.
//
// @Summary      Complete a checkout session
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      checkoutSuccessRequest  true  "Provider session id"
// @Success      200   {object}  domain.Order
// @Failure      400   {object}  map[string]string
// @Router       /api/payments/checkout-success [post]
func (h *PaymentHandler) CheckoutSuccess(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req checkoutSuccessRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.checkoutService.CompleteSession(c.Request().Context(), user, req.SessionID)
	if err != nil {
		return err
	}

	metrics.OrdersTotal.Inc()
	return c.JSON(http.StatusOK, order)
}
