package ports

import (
	"context"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
)

// CartLine is a product joined with its quantity in the user's cart.
type CartLine struct {
	domain.Product
	Quantity int `json:"quantity"`
}

type CartService interface {
	Get(ctx context.Context, user *domain.User) ([]CartLine, error)
	// Add increments the quantity when the product is already in the cart.
	Add(ctx context.Context, user *domain.User, productID string) error
	// UpdateQuantity sets the quantity for a cart line; zero removes it.
	UpdateQuantity(ctx context.Context, user *domain.User, productID string, quantity int) error
	// Remove deletes one product line, or clears the cart when productID is
	// empty.
	Remove(ctx context.Context, user *domain.User, productID string) error
}
