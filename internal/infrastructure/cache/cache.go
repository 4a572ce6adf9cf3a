// Package cache implements the key-value store backing session records and
// catalog caching. It fronts a remote Redis instance and transparently
// degrades to an in-process map when Redis is or becomes unreachable, so
// authentication never hard-fails because an optional dependency is down.
//
// The swap is one-directional for the process lifetime: once in fallback
// mode the store never redials on its own. Reinitialize forces a fresh dial
// for operators and tests.
//
// Known limitation: the fallback map is process-local. In a multi-instance
// deployment, refresh-token validation during fallback mode only succeeds
// against the instance that issued the token.
package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultDialAttempts  = 3
	defaultRetryDelay    = 100 * time.Millisecond
	defaultMaxRetryDelay = 3 * time.Second
	defaultOpTimeout     = 5 * time.Second
)

// Config captures the settings for the remote cache connection.
type Config struct {
	Addr string
	DB   int
	// DialAttempts bounds the startup connection budget (default 3).
	DialAttempts int
	// RetryDelay is the base backoff between dial attempts, growing linearly
	// per attempt and capped at MaxRetryDelay.
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
	// OpTimeout bounds every remote operation so no caller ever hangs on the
	// cache.
	OpTimeout time.Duration
	// OnFallback, when set, is invoked once per swap to the in-memory
	// backend with a short reason. Observability hook; must not block.
	OnFallback func(reason string)
}

func (c Config) withDefaults() Config {
	if c.DialAttempts <= 0 {
		c.DialAttempts = defaultDialAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = defaultRetryDelay
	}
	if c.MaxRetryDelay <= 0 {
		c.MaxRetryDelay = defaultMaxRetryDelay
	}
	if c.OpTimeout <= 0 {
		c.OpTimeout = defaultOpTimeout
	}
	return c
}

// backend is the internal two-state variant: connected Redis or in-process
// map. Exactly one is active at a time, guarded by Store.mu so every call
// observes one consistent backend.
type backend interface {
	set(ctx context.Context, key, value string, ttl time.Duration) error
	get(ctx context.Context, key string) (string, bool, error)
	del(ctx context.Context, key string) (bool, error)
	close()
}

// Store implements ports.KeyValueCache.
type Store struct {
	cfg Config
	log zerolog.Logger

	mu       sync.RWMutex
	be       backend
	degraded bool
}

// New dials Redis with a bounded, increasing backoff. When the attempt
// budget is exhausted the store starts in fallback mode; it never fails.
func New(ctx context.Context, cfg Config, log zerolog.Logger) *Store {
	s := &Store{cfg: cfg.withDefaults(), log: log}

	if be, err := s.dial(ctx); err != nil {
		s.be = newMemoryStore()
		s.degraded = true
		s.notifyFallback(fmt.Sprintf("dial: %v", err))
	} else {
		s.be = be
		log.Info().Str("addr", s.cfg.Addr).Msg("cache: connected to redis")
	}
	return s
}

// dial attempts the configured number of connections, sleeping between
// attempts with linearly increasing, capped delay.
func (s *Store) dial(ctx context.Context) (backend, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.DialAttempts; attempt++ {
		client := redis.NewClient(&redis.Options{
			Addr:            s.cfg.Addr,
			DB:              s.cfg.DB,
			DialTimeout:     s.cfg.OpTimeout,
			ReadTimeout:     s.cfg.OpTimeout,
			WriteTimeout:    s.cfg.OpTimeout,
			MaxRetries:      -1, // retrying is handled here, not per command
			MinRetryBackoff: -1,
			MaxRetryBackoff: -1,
		})

		pingCtx, cancel := context.WithTimeout(ctx, s.cfg.OpTimeout)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return &redisBackend{client: client}, nil
		}
		_ = client.Close()
		lastErr = err

		if attempt < s.cfg.DialAttempts {
			delay := time.Duration(attempt) * s.cfg.RetryDelay
			if delay > s.cfg.MaxRetryDelay {
				delay = s.cfg.MaxRetryDelay
			}
			s.log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", delay).Msg("cache: redis dial failed")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return nil, lastErr
}

// Set stores value under key. ttl <= 0 means no expiry.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	opCtx, cancel := context.WithTimeout(ctx, s.cfg.OpTimeout)
	err := s.backend().set(opCtx, key, value, ttl)
	cancel()
	if err == nil || !isUnreachable(err) {
		return err
	}
	s.fallbackTo(err)
	return s.backend().set(ctx, key, value, ttl)
}

// Get returns the value and true when present and unexpired.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.cfg.OpTimeout)
	v, ok, err := s.backend().get(opCtx, key)
	cancel()
	if err == nil || !isUnreachable(err) {
		return v, ok, err
	}
	s.fallbackTo(err)
	return s.backend().get(ctx, key)
}

// Delete removes key, reporting whether it was present.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.cfg.OpTimeout)
	ok, err := s.backend().del(opCtx, key)
	cancel()
	if err == nil || !isUnreachable(err) {
		return ok, err
	}
	s.fallbackTo(err)
	return s.backend().del(ctx, key)
}

// Degraded reports whether the store is serving from the in-process
// fallback.
func (s *Store) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// Reinitialize closes the current backend and redials from scratch. This is
// the only way back to Redis after a swap. Entries held by the fallback map
// are discarded; on dial failure the store stays in (fresh) fallback mode.
func (s *Store) Reinitialize(ctx context.Context) error {
	be, err := s.dial(ctx)

	s.mu.Lock()
	s.be.close()
	if err != nil {
		s.be = newMemoryStore()
		s.degraded = true
	} else {
		s.be = be
		s.degraded = false
	}
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("cache reinitialize: %w", err)
	}
	s.log.Info().Str("addr", s.cfg.Addr).Msg("cache: reconnected to redis")
	return nil
}

// Close releases the remote connection if one is held.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.be.close()
}

func (s *Store) backend() backend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.be
}

// fallbackTo performs the one-way swap to the in-memory backend. Idempotent:
// a concurrent swap already performed by another request wins.
func (s *Store) fallbackTo(cause error) {
	s.mu.Lock()
	if s.degraded {
		s.mu.Unlock()
		return
	}
	old := s.be
	s.be = newMemoryStore()
	s.degraded = true
	s.mu.Unlock()

	// Close the dead connection off the lock; errors here are meaningless.
	old.close()
	s.notifyFallback(cause.Error())
}

func (s *Store) notifyFallback(reason string) {
	s.log.Warn().Str("reason", reason).Msg("cache: redis unreachable, switched to in-memory fallback")
	if s.cfg.OnFallback != nil {
		s.cfg.OnFallback(reason)
	}
}

// isUnreachable classifies errors that indicate the remote cache is gone
// (refused connection, unreachable host, timeout) as opposed to errors of
// the caller's making such as an already-cancelled context.
func isUnreachable(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, redis.ErrClosed)
}

// redisBackend adapts go-redis to the backend contract.
type redisBackend struct {
	client *redis.Client
}

func (r *redisBackend) set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisBackend) get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *redisBackend) del(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *redisBackend) close() {
	_ = r.client.Close()
}
