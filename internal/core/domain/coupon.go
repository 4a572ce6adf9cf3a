package domain

import "time"

// Coupon is a per-user discount code. At most one active coupon per user is
// maintained; gifting a new one replaces the previous.
type Coupon struct {
	ID                 string    `json:"id"`
	Code               string    `json:"code"`
	DiscountPercentage int       `json:"discount_percentage"`
	ExpirationDate     time.Time `json:"expiration_date"`
	IsActive           bool      `json:"is_active"`
	UserID             string    `json:"user_id"`
}

// Expired reports whether the coupon's validity window has passed.
func (c *Coupon) Expired(now time.Time) bool {
	return now.After(c.ExpirationDate)
}
