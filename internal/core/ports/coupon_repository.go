package ports

import (
	"context"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
)

// CouponRepository defines the interface for discount code persistence.
type CouponRepository interface {
	// Replace stores coupon as the single coupon for its user, removing any
	// previous one.
	Replace(ctx context.Context, coupon *domain.Coupon) (*domain.Coupon, error)
	FindActiveByUser(ctx context.Context, userID string) (*domain.Coupon, error)
	FindByCode(ctx context.Context, code, userID string) (*domain.Coupon, error)
	Deactivate(ctx context.Context, id string) error
}
