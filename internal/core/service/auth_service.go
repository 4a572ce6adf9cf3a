package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
	"github.com/abhiya492/ecommerce-api/internal/core/ports"
)

// otpTTL is the validity window of a mailed verification code.
const otpTTL = 10 * time.Minute

// TokenIssuer is the signing collaborator consumed by the auth service.
type TokenIssuer interface {
	Issue(userID string) (domain.TokenPair, error)
	IssueAccess(userID string) (string, error)
	VerifyRefresh(tokenString string) (string, error)
}

// Notifier accepts best-effort notification mail (welcome messages);
// delivery failures never surface to the request.
type Notifier interface {
	Enqueue(job ports.MailJob)
}

// AuthService implements the session lifecycle over the user store, the
// token issuer and the session store.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionStore
	issuer     TokenIssuer
	mailer     ports.Mailer
	notifier   Notifier
	otpEnabled bool
	log        zerolog.Logger
	now        func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionStore,
	issuer TokenIssuer,
	mailer ports.Mailer,
	notifier Notifier,
	otpEnabled bool,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		issuer:     issuer,
		mailer:     mailer,
		notifier:   notifier,
		otpEnabled: otpEnabled,
		log:        log,
		now:        time.Now,
	}
}

// Signup creates an account. In the default variant the session is
// established immediately; with OTP enabled a verification code is mailed
// and token issuance is deferred until VerifyOtp succeeds.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.SignupResult, error) {
	email := normalizeEmail(in.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Name:         strings.TrimSpace(in.FirstName + " " + in.LastName),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		Verified:     !s.otpEnabled,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var code string
	if s.otpEnabled {
		code, err = generateOtp()
		if err != nil {
			return nil, err
		}
		user.VerificationCode = code
		user.VerificationExpiry = now.Add(otpTTL)
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if s.otpEnabled {
		body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(otpTTL.Minutes()))
		if err := s.mailer.Send(ctx, created.Email, "Verify your email", body); err != nil {
			// Dispatch failure aborts the signup but the unverified record
			// stays behind; there is no resend path, so the address is
			// reserved until the record is cleaned up out of band.
			s.log.Error().Err(err).Str("email", created.Email).Msg("verification mail dispatch failed")
			return nil, fmt.Errorf("%w: mail dispatch failed", domain.ErrUpstream)
		}
		s.log.Info().Str("user_id", created.ID).Msg("signup pending email verification")
		return &ports.SignupResult{User: created}, nil
	}

	pair, err := s.establishSession(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	s.welcome(created)
	s.log.Info().Str("user_id", created.ID).Msg("user signed up")
	return &ports.SignupResult{User: created, Tokens: &pair}, nil
}

// VerifyOtp confirms email ownership and activates the session.
func (s *AuthService) VerifyOtp(ctx context.Context, email, code string) (*ports.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user.VerificationCode == "" {
		// Already verified, or never entered the OTP flow.
		return nil, domain.ErrUserNotFound
	}
	if s.now().After(user.VerificationExpiry) {
		return nil, domain.ErrInvalidOtp
	}
	if subtle.ConstantTimeCompare([]byte(user.VerificationCode), []byte(code)) != 1 {
		return nil, domain.ErrInvalidOtp
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return nil, err
	}
	user.Verified = true
	user.VerificationCode = ""

	pair, err := s.establishSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	s.welcome(user)
	s.log.Info().Str("user_id", user.ID).Msg("email verified, session established")
	return &ports.AuthResult{User: user, Tokens: pair}, nil
}

// Login verifies credentials and establishes a session, superseding any
// prior one for the user. Lookup and password failures are deliberately
// indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	// With OTP enabled, a session only ever starts through VerifyOtp; until
	// then the account holds no token-issuing power.
	if s.otpEnabled && !user.Verified {
		return nil, domain.ErrNotVerified
	}

	pair, err := s.establishSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.AuthResult{User: user, Tokens: pair}, nil
}

// Refresh validates the presented refresh token against the session store
// and mints a fresh access token. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", domain.ErrMissingToken
	}
	userID, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return "", domain.ErrInvalidToken
	}
	ok, err := s.sessions.Validate(ctx, userID, refreshToken)
	if err != nil {
		return "", err
	}
	if !ok {
		// Logged out elsewhere, superseded by a newer login, or expired.
		return "", domain.ErrSessionMismatch
	}
	return s.issuer.IssueAccess(userID)
}

// Logout revokes the session best-effort. It is terminal and idempotent:
// malformed or already-revoked tokens are not errors.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	userID, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		s.log.Debug().Msg("logout with unverifiable refresh token")
		return
	}
	if err := s.sessions.Revoke(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("session revoke failed")
		return
	}
	s.log.Info().Str("user_id", userID).Msg("user logged out")
}

// Profile returns the account for an authenticated user id.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) establishSession(ctx context.Context, userID string) (domain.TokenPair, error) {
	pair, err := s.issuer.Issue(userID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if err := s.sessions.Put(ctx, userID, pair.RefreshToken); err != nil {
		return domain.TokenPair{}, err
	}
	return pair, nil
}

func (s *AuthService) welcome(user *domain.User) {
	if s.notifier == nil {
		return
	}
	s.notifier.Enqueue(ports.MailJob{
		To:      user.Email,
		Subject: "Welcome to the store",
		Body:    fmt.Sprintf("Hi %s, your account is ready.", user.Name),
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateOtp returns a random 6-digit numeric code.
func generateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
