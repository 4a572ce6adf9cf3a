package service

import (
	"context"
	"errors"
	"time"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
	"github.com/abhiya492/ecommerce-api/internal/core/ports"
)

// CouponService handles lookup and validation of per-user discount codes.
type CouponService struct {
	repo ports.CouponRepository
	now  func() time.Time
}

func NewCouponService(repo ports.CouponRepository) *CouponService {
	return &CouponService{repo: repo, now: time.Now}
}

// GetActive returns the user's active coupon, or nil when none exists.
func (s *CouponService) GetActive(ctx context.Context, userID string) (*domain.Coupon, error) {
	coupon, err := s.repo.FindActiveByUser(ctx, userID)
	if errors.Is(err, domain.ErrCouponNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return coupon, nil
}

// Validate checks a presented code for the user. An expired coupon is
// deactivated on read and reported as expired.
func (s *CouponService) Validate(ctx context.Context, code, userID string) (*domain.Coupon, error) {
	coupon, err := s.repo.FindByCode(ctx, code, userID)
	if err != nil {
		return nil, err
	}
	if coupon.Expired(s.now()) {
		if err := s.repo.Deactivate(ctx, coupon.ID); err != nil {
			return nil, err
		}
		return nil, domain.ErrCouponExpired
	}
	return coupon, nil
}
