package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
	"github.com/abhiya492/ecommerce-api/internal/core/service"
	"github.com/abhiya492/ecommerce-api/internal/infrastructure/cache"
	"github.com/abhiya492/ecommerce-api/internal/token"
)

// memUserRepo is an in-memory UserRepository for end-to-end routing tests.
type memUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	nextID  int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (r *memUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := *u
	stored.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = &stored
	return &stored, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byEmail[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) MarkVerified(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		u.Verified = true
		u.VerificationCode = ""
		return nil
	}
	return domain.ErrUserNotFound
}

func (r *memUserRepo) UpdateCart(ctx context.Context, id string, items []domain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		u.CartItems = items
		return nil
	}
	return domain.ErrUserNotFound
}

func (r *memUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

type noopMailer struct{}

func (noopMailer) Send(ctx context.Context, to, subject, body string) error { return nil }

type noopPinger struct{}

func (noopPinger) Ping(ctx context.Context) error { return nil }

// newTestRouter assembles the real auth stack over in-memory collaborators.
// The cache store is dialed against a closed port so it runs on its
// in-process fallback, which must serve the session contract transparently.
func newTestRouter(t *testing.T) (http.Handler, *cache.Store) {
	t.Helper()

	store := cache.New(context.Background(), cache.Config{
		Addr:         "127.0.0.1:1",
		DialAttempts: 1,
		RetryDelay:   1,
	}, zerolog.Nop())
	t.Cleanup(store.Close)

	issuer, err := token.NewIssuer("e2e-access-secret", "e2e-refresh-secret")
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	users := newMemUserRepo()
	sessions := service.NewSessionStore(store)
	auth := service.NewAuthService(users, sessions, issuer, noopMailer{}, nil, false, zerolog.Nop())

	e := NewRouter(Deps{
		Auth:       auth,
		Users:      users,
		Verifier:   issuer,
		DB:         noopPinger{},
		Cache:      store,
		Log:        zerolog.Nop(),
		Registerer: prometheus.NewRegistry(),
	})
	return e, store
}

func do(t *testing.T, h http.Handler, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRouter_SessionLifecycle(t *testing.T) {
	h, store := newTestRouter(t)
	if !store.Degraded() {
		t.Fatalf("store should run on the in-process fallback")
	}

	// Signup establishes the account and the first session.
	rec := do(t, h, http.MethodPost, "/api/auth/signup",
		`{"email":"a@b.com","password":"secret1","first_name":"A","last_name":"B"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Login supersedes the signup session and returns the user.
	rec = do(t, h, http.MethodPost, "/api/auth/login",
		`{"email":"a@b.com","password":"secret1"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var loginBody struct {
		User *domain.User `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &loginBody); err != nil {
		t.Fatalf("decode login body: %v", err)
	}
	if loginBody.User == nil || loginBody.User.ID == "" {
		t.Fatalf("login body missing user id: %s", rec.Body.String())
	}
	if loginBody.User.Role != domain.RoleCustomer {
		t.Fatalf("expected role customer, got %q", loginBody.User.Role)
	}

	access := findCookie(rec, "accessToken")
	refresh := findCookie(rec, "refreshToken")
	if access == nil || refresh == nil {
		t.Fatalf("login must set both cookies")
	}

	// The access cookie authenticates protected routes.
	rec = do(t, h, http.MethodGet, "/api/auth/profile", "", []*http.Cookie{access})
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Refresh succeeds against the live session and mints a new access token.
	rec = do(t, h, http.MethodPost, "/api/auth/refresh-token", "", []*http.Cookie{refresh})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if findCookie(rec, "accessToken") == nil {
		t.Fatalf("refresh must set a new access cookie")
	}
	if findCookie(rec, "refreshToken") != nil {
		t.Fatalf("refresh must not rotate the refresh token")
	}

	// Logout revokes the session and clears both cookies.
	rec = do(t, h, http.MethodPost, "/api/auth/logout", "", []*http.Cookie{refresh})
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	for _, name := range []string{"accessToken", "refreshToken"} {
		ck := findCookie(rec, name)
		if ck == nil || ck.MaxAge >= 0 {
			t.Fatalf("logout must clear cookie %s", name)
		}
	}

	// The revoked refresh token is rejected with a session mismatch.
	rec = do(t, h, http.MethodPost, "/api/auth/refresh-token", "", []*http.Cookie{refresh})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout: expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "session no longer valid") {
		t.Fatalf("expected session mismatch message, got %s", rec.Body.String())
	}

	// A second logout with the dead cookie still succeeds.
	rec = do(t, h, http.MethodPost, "/api/auth/logout", "", []*http.Cookie{refresh})
	if rec.Code != http.StatusOK {
		t.Fatalf("second logout: expected 200, got %d", rec.Code)
	}
}

func TestRouter_RefreshWithoutCookie(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/auth/refresh-token", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "missing refresh token") {
		t.Fatalf("expected missing token message, got %s", rec.Body.String())
	}
}

func TestRouter_LoginSupersedesSession(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/auth/signup",
		`{"email":"c@d.com","password":"secret1","first_name":"C","last_name":"D"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", rec.Code)
	}
	firstRefresh := findCookie(rec, "refreshToken")
	if firstRefresh == nil {
		t.Fatalf("signup must set a refresh cookie")
	}

	rec = do(t, h, http.MethodPost, "/api/auth/login",
		`{"email":"c@d.com","password":"secret1"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rec.Code)
	}

	// The signup-era refresh token was superseded by the login.
	rec = do(t, h, http.MethodPost, "/api/auth/refresh-token", "", []*http.Cookie{firstRefresh})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("superseded refresh: expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_HealthAndValidationErrors(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/health/ready", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("readiness: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"fallback"`) {
		t.Fatalf("readiness must report cache fallback mode: %s", rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/api/auth/signup",
		`{"email":"not-an-email","password":"secret1","first_name":"A","last_name":"B"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("validation: expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "email must be a valid email") {
		t.Fatalf("expected field message, got %s", rec.Body.String())
	}
}
