package service

import (
	"context"
	"crypto/subtle"

	"github.com/abhiya492/ecommerce-api/internal/core/ports"
	"github.com/abhiya492/ecommerce-api/internal/token"
)

const sessionKeyPrefix = "refresh_token:"

// SessionStore persists the single currently-valid refresh token per user in
// the key-value cache. Writing a new token silently supersedes the previous
// one, which is the whole revocation mechanism: there is no separate
// blacklist.
type SessionStore struct {
	cache ports.KeyValueCache
}

func NewSessionStore(cache ports.KeyValueCache) *SessionStore {
	return &SessionStore{cache: cache}
}

// Put records token as the live refresh token for userID. Last write wins:
// a concurrent login race resolves to whichever write lands last, matching
// the business rule that only the most recent login stays valid.
func (s *SessionStore) Put(ctx context.Context, userID, tok string) error {
	return s.cache.Set(ctx, sessionKey(userID), tok, token.RefreshTTL)
}

// Validate reports whether presented exactly matches the stored token.
// Absent records (never issued, logged out, superseded, or expired) are
// false, never an error.
func (s *SessionStore) Validate(ctx context.Context, userID, presented string) (bool, error) {
	stored, ok, err := s.cache.Get(ctx, sessionKey(userID))
	if err != nil {
		return false, err
	}
	if !ok || presented == "" {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1, nil
}

// Revoke deletes the session record. Idempotent: revoking an absent session
// is not an error.
func (s *SessionStore) Revoke(ctx context.Context, userID string) error {
	_, err := s.cache.Delete(ctx, sessionKey(userID))
	return err
}

func sessionKey(userID string) string {
	return sessionKeyPrefix + userID
}
