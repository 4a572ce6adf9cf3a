package domain

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// CartItem is a single cart line stored on the user record.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// User models a storefront account. The password is only ever held as a
// bcrypt hash; the plaintext credential never leaves the signup/login
// request scope.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CartItems    []CartItem `json:"cart_items,omitempty"`

	// Verified is false while an email verification code is outstanding
	// (OTP-enabled signup variant only).
	Verified bool `json:"verified"`

	// VerificationCode and VerificationExpiry hold the pending 6-digit code.
	// Cleared on successful verification.
	VerificationCode   string    `json:"-"`
	VerificationExpiry time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenPair carries the two bearer credentials issued on authentication.
// Only the refresh token string is ever persisted, inside the session record.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
