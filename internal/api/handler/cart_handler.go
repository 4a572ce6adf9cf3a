package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abhiya492/ecommerce-api/internal/core/ports"
)

type CartHandler struct {
	cartService ports.CartService
}

func NewCartHandler(cartService ports.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

type cartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// Get returns the cart joined with product details.
//
// @Summary      Get the cart
// @Tags         cart
// @Produce      json
// @Success      200  {array}  ports.CartLine
// @Router       /api/cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	lines, err := h.cartService.Get(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lines)
}

// Add puts a product in the cart, incrementing the line when already present.
//
// @Summary      Add a product to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body      cartItemRequest  true  "Product id"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/cart [post]
func (h *CartHandler) Add(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.cartService.Add(c.Request().Context(), user, req.ProductID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "added to cart"})
}

// UpdateQuantity sets a cart line's quantity; zero removes the line.
//
// @Summary      Update a cart line quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Product id"
// @Param        body  body      cartQuantityRequest  true  "New quantity"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/cart/{id} [put]
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req cartQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.cartService.UpdateQuantity(c.Request().Context(), user, c.Param("id"), req.Quantity); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "cart updated"})
}

// Remove deletes one product line, or clears the whole cart when the body
// carries no product id.
//
// @Summary      Remove from the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/cart [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	// Bind errors are tolerated here: an empty body means "clear the cart".
	var req cartItemRequest
	_ = c.Bind(&req)

	if err := h.cartService.Remove(c.Request().Context(), user, req.ProductID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "removed from cart"})
}
