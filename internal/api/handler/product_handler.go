package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abhiya492/ecommerce-api/internal/core/ports"
)

type ProductHandler struct {
	productService ports.ProductService
}

func NewProductHandler(productService ports.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

type createProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Image       string  `json:"image"`
	Category    string  `json:"category" validate:"required"`
}

type productListResponse struct {
	Products any `json:"products"`
}

// GetAll lists the full catalog.
//
// @Summary      List all products
// @Tags         products
// @Produce      json
// @Success      200  {object}  productListResponse
// @Router       /api/products [get]
func (h *ProductHandler) GetAll(c echo.Context) error {
	products, err := h.productService.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productListResponse{Products: products})
}

// GetFeatured serves the featured list, cache first.
//
// @Summary      List featured products
// @Tags         products
// @Produce      json
// @Success      200  {object}  productListResponse
// @Router       /api/products/featured [get]
func (h *ProductHandler) GetFeatured(c echo.Context) error {
	products, err := h.productService.GetFeatured(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productListResponse{Products: products})
}

// GetRecommended returns a random product sample.
//
// @Summary      Recommended products
// @Tags         products
// @Produce      json
// @Success      200  {object}  productListResponse
// @Router       /api/products/recommendations [get]
func (h *ProductHandler) GetRecommended(c echo.Context) error {
	products, err := h.productService.GetRecommended(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productListResponse{Products: products})
}

// GetByCategory lists products in one category.
//
// @Summary      Products by category
// @Tags         products
// @Produce      json
// @Param        category  path      string  true  "Category name"
// @Success      200       {object}  productListResponse
// @Router       /api/products/category/{category} [get]
func (h *ProductHandler) GetByCategory(c echo.Context) error {
	products, err := h.productService.GetByCategory(c.Request().Context(), c.Param("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productListResponse{Products: products})
}

// Create adds a catalog entry.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body      createProductRequest  true  "Product details"
// @Success      201   {object}  domain.Product
// @Failure      400   {object}  map[string]string
// @Router       /api/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.productService.Create(c.Request().Context(), ports.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

// ToggleFeatured flips the featured flag on a product.
//
// @Summary      Toggle a product's featured flag
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  domain.Product
// @Failure      404  {object}  map[string]string
// @Router       /api/products/{id} [patch]
func (h *ProductHandler) ToggleFeatured(c echo.Context) error {
	product, err := h.productService.ToggleFeatured(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// Delete removes a product and, best-effort, its hosted image.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.productService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "product deleted"})
}
