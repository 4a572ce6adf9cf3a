package domain

import "errors"

// Authentication and session errors.
var (
	// ErrInvalidCredentials is deliberately generic: callers must not be able
	// to distinguish "no such user" from "wrong password".
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidOtp      = errors.New("invalid verification code")
	ErrNotVerified     = errors.New("email not verified")
	ErrMissingToken    = errors.New("no refresh token provided")
	ErrInvalidToken    = errors.New("invalid token")
	ErrSessionMismatch = errors.New("refresh token does not match active session")
)

// Catalog and checkout errors.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponExpired   = errors.New("coupon expired")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrPaymentPending  = errors.New("payment not completed")
)

// ErrUpstream wraps failures of external collaborators (mail, payment) that
// have no more specific mapping.
var ErrUpstream = errors.New("upstream dependency failure")
