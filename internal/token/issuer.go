// Package token issues and verifies the signed bearer credentials of the
// session lifecycle: short-lived access tokens and long-lived refresh
// tokens, bound to a user id and signed with distinct HS256 secrets.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
)

const (
	// AccessTTL is the access token validity window.
	AccessTTL = 15 * time.Minute
	// RefreshTTL is the refresh token validity window. Session records share
	// this TTL so a stored token never outlives its signature.
	RefreshTTL = 7 * 24 * time.Hour
)

// Issuer mints and verifies token pairs. It performs no I/O: the only
// failure mode besides a bad token is missing secrets, rejected at
// construction so the process fails fast at startup.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	// now is stubbed in tests.
	now func() time.Time
}

// NewIssuer validates the two signing secrets and returns an Issuer.
func NewIssuer(accessSecret, refreshSecret string) (*Issuer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("token: both signing secrets are required")
	}
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		now:           time.Now,
	}, nil
}

// Issue creates a fresh access/refresh token pair for the user.
func (i *Issuer) Issue(userID string) (domain.TokenPair, error) {
	access, err := i.sign(userID, i.accessSecret, AccessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := i.sign(userID, i.refreshSecret, RefreshTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueAccess mints an access token only. Used by the refresh flow, which
// does not rotate the refresh token.
func (i *Issuer) IssueAccess(userID string) (string, error) {
	return i.sign(userID, i.accessSecret, AccessTTL)
}

// VerifyAccess validates an access token and returns the embedded user id.
func (i *Issuer) VerifyAccess(tokenString string) (string, error) {
	return i.verify(tokenString, i.accessSecret)
}

// VerifyRefresh validates a refresh token and returns the embedded user id.
func (i *Issuer) VerifyRefresh(tokenString string) (string, error) {
	return i.verify(tokenString, i.refreshSecret)
}

func (i *Issuer) sign(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := i.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// verify collapses every failure (bad signature, expiry, wrong algorithm,
// malformed input) into domain.ErrInvalidToken so callers cannot leak the
// distinction to clients.
func (i *Issuer) verify(tokenString string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return i.now() }))
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}
