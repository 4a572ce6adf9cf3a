package ports

import (
	"context"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
)

// CheckoutItem is one product the client wants to purchase.
type CheckoutItem struct {
	ProductID string
	Quantity  int
}

// CheckoutSessionResult is returned to the client to redirect to the hosted
// payment page.
type CheckoutSessionResult struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	// TotalAmount is the discounted total in cents.
	TotalAmount int64 `json:"total_amount"`
}

type CheckoutService interface {
	CreateSession(ctx context.Context, user *domain.User, items []CheckoutItem, couponCode string) (*CheckoutSessionResult, error)
	// CompleteSession verifies payment, records the order, consumes the
	// coupon, and gifts a new one on qualifying totals.
	CompleteSession(ctx context.Context, user *domain.User, sessionID string) (*domain.Order, error)
}
