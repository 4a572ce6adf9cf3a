package ports

import (
	"context"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
)

// SignupInput is the validated signup payload.
type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult is returned by every flow that establishes a session.
type AuthResult struct {
	User   *domain.User
	Tokens domain.TokenPair
}

// SignupResult carries the created account. Tokens is nil while email
// verification is pending (OTP-enabled variant).
type SignupResult struct {
	User   *domain.User
	Tokens *domain.TokenPair
}

// AuthService orchestrates the session lifecycle: signup, verification,
// login, refresh, logout.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*SignupResult, error)
	VerifyOtp(ctx context.Context, email, code string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Refresh mints a new access token; the refresh token is not rotated.
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// Logout is terminal and idempotent: revocation of an absent or
	// malformed token is not an error.
	Logout(ctx context.Context, refreshToken string)
	Profile(ctx context.Context, userID string) (*domain.User, error)
}

// SessionStore tracks the single currently-valid refresh token per user.
type SessionStore interface {
	// Put records token as the live refresh token for userID, superseding
	// (and thereby revoking) any prior one.
	Put(ctx context.Context, userID, token string) error
	// Validate reports whether presented exactly matches the stored token.
	// An absent record means false, never an error.
	Validate(ctx context.Context, userID, presented string) (bool, error)
	Revoke(ctx context.Context, userID string) error
}
