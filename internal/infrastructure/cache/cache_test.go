package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
)

func testConfig(addr string) Config {
	return Config{
		Addr:          addr,
		DialAttempts:  3,
		RetryDelay:    time.Millisecond,
		MaxRetryDelay: 5 * time.Millisecond,
		OpTimeout:     time.Second,
	}
}

func newRedisStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	s := New(context.Background(), testConfig(mr.Addr()), zerolog.Nop())
	t.Cleanup(s.Close)
	if s.Degraded() {
		t.Fatalf("expected connected store, got fallback")
	}
	return s, mr
}

func TestStore_SetGetDelete(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	v, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("Get = (%q, %v, %v), want (v, true, nil)", v, ok, err)
	}

	was, err := s.Delete(ctx, "k")
	if err != nil || !was {
		t.Fatalf("Delete = (%v, %v), want (true, nil)", was, err)
	}
	if was, _ := s.Delete(ctx, "k"); was {
		t.Fatalf("second Delete should report absent")
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("deleted key should be absent")
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "k", "v", time.Second); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); !ok {
		t.Fatalf("value should be readable before expiry")
	}

	mr.FastForward(2 * time.Second)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("value should be absent after expiry")
	}
}

func TestStore_FallbackAtStartup(t *testing.T) {
	// Nothing listens here; the dial budget must exhaust and the store must
	// still serve the full contract.
	s := New(context.Background(), testConfig("127.0.0.1:1"), zerolog.Nop())
	defer s.Close()

	if !s.Degraded() {
		t.Fatalf("expected fallback mode")
	}

	ctx := context.Background()
	if err := s.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("Set in fallback returned error: %v", err)
	}
	if v, ok, err := s.Get(ctx, "k"); err != nil || !ok || v != "v" {
		t.Fatalf("Get in fallback = (%q, %v, %v)", v, ok, err)
	}
	if was, err := s.Delete(ctx, "k"); err != nil || !was {
		t.Fatalf("Delete in fallback = (%v, %v)", was, err)
	}
}

func TestStore_FallbackOnLostConnection(t *testing.T) {
	var reason string
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	cfg := testConfig(mr.Addr())
	cfg.OnFallback = func(r string) { reason = r }

	s := New(context.Background(), cfg, zerolog.Nop())
	defer s.Close()

	ctx := context.Background()
	if err := s.Set(ctx, "before", "1", 0); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	mr.Close()

	// The same call contract keeps holding: no operation raises.
	if err := s.Set(ctx, "after", "2", 0); err != nil {
		t.Fatalf("Set after redis loss returned error: %v", err)
	}
	if !s.Degraded() {
		t.Fatalf("expected store to have swapped to fallback")
	}
	if reason == "" {
		t.Fatalf("expected fallback hook to fire")
	}

	// Entries written before the swap are gone (process-local fallback);
	// entries written after are served.
	if _, ok, _ := s.Get(ctx, "before"); ok {
		t.Fatalf("pre-swap entry should not survive the swap")
	}
	if v, ok, _ := s.Get(ctx, "after"); !ok || v != "2" {
		t.Fatalf("post-swap entry should be served, got (%q, %v)", v, ok)
	}
}

func TestStore_NoAutomaticReconnect(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	addr := mr.Addr()

	s := New(context.Background(), testConfig(addr), zerolog.Nop())
	defer s.Close()

	mr.Close()
	_ = s.Set(context.Background(), "k", "v", 0)
	if !s.Degraded() {
		t.Fatalf("expected fallback mode")
	}

	// Redis comes back, but the swap is one-directional.
	mr2, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis restart failed: %v", err)
	}
	defer mr2.Close()

	_ = s.Set(context.Background(), "k2", "v2", 0)
	if !s.Degraded() {
		t.Fatalf("store must stay in fallback until explicitly reinitialised")
	}

	// Explicit reinitialisation against the new instance restores Redis.
	cfg := testConfig(mr2.Addr())
	s2 := New(context.Background(), testConfig("127.0.0.1:1"), zerolog.Nop())
	defer s2.Close()
	s2.cfg = cfg
	if err := s2.Reinitialize(context.Background()); err != nil {
		t.Fatalf("Reinitialize returned error: %v", err)
	}
	if s2.Degraded() {
		t.Fatalf("expected store to be connected after Reinitialize")
	}
}

func TestMemoryStore_LazyExpiry(t *testing.T) {
	m := newMemoryStore()
	ctx := context.Background()

	_ = m.set(ctx, "k", "v", 10*time.Millisecond)
	if v, ok, _ := m.get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("immediate read should see the value, got (%q, %v)", v, ok)
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok, _ := m.get(ctx, "k"); ok {
		t.Fatalf("read past the deadline should be absent")
	}
	// Lazy expiry removed the entry entirely.
	m.mu.Lock()
	_, present := m.entries["k"]
	m.mu.Unlock()
	if present {
		t.Fatalf("expired entry should have been removed on read")
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	m := newMemoryStore()
	ctx := context.Background()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				_ = m.set(ctx, "shared", "v", time.Minute)
				_, _, _ = m.get(ctx, "shared")
				_, _ = m.del(ctx, "shared")
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
