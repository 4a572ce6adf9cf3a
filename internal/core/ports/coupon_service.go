package ports

import (
	"context"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
)

type CouponService interface {
	// GetActive returns the user's active coupon, or nil when none exists.
	GetActive(ctx context.Context, userID string) (*domain.Coupon, error)
	// Validate checks a presented code for the user. Expired coupons are
	// deactivated on read and reported as ErrCouponExpired.
	Validate(ctx context.Context, code, userID string) (*domain.Coupon, error)
}
