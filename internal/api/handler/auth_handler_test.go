package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
	"github.com/abhiya492/ecommerce-api/internal/core/ports"
)

type stubAuthService struct {
	signupResult *ports.SignupResult
	signupErr    error
	loginResult  *ports.AuthResult
	loginErr     error
	refreshToken string
	refreshErr   error
	loggedOut    []string
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.SignupResult, error) {
	return s.signupResult, s.signupErr
}

func (s *stubAuthService) VerifyOtp(ctx context.Context, email, code string) (*ports.AuthResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return s.refreshToken, s.refreshErr
}

func (s *stubAuthService) Logout(ctx context.Context, refreshToken string) {
	s.loggedOut = append(s.loggedOut, refreshToken)
}

func (s *stubAuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandler_SignupSetsCookies(t *testing.T) {
	svc := &stubAuthService{
		signupResult: &ports.SignupResult{
			User:   &domain.User{ID: "u1", Email: "a@b.com", Role: domain.RoleCustomer},
			Tokens: &domain.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
		},
	}
	h := NewAuthHandler(svc, false)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/signup",
		`{"email":"a@b.com","password":"secret1","first_name":"A","last_name":"B"}`)

	if err := h.Signup(c); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	access := cookieByName(rec, "accessToken")
	refresh := cookieByName(rec, "refreshToken")
	if access == nil || refresh == nil {
		t.Fatalf("expected both auth cookies, got %v", rec.Result().Cookies())
	}
	if access.Value != "acc" || refresh.Value != "ref" {
		t.Fatalf("cookie values wrong: %q %q", access.Value, refresh.Value)
	}
	for _, ck := range []*http.Cookie{access, refresh} {
		if !ck.HttpOnly {
			t.Fatalf("cookie %s not httpOnly", ck.Name)
		}
		if ck.SameSite != http.SameSiteStrictMode {
			t.Fatalf("cookie %s not SameSite=Strict", ck.Name)
		}
	}
	if access.MaxAge != 15*60 {
		t.Fatalf("access cookie MaxAge = %d, want %d", access.MaxAge, 15*60)
	}
	if refresh.MaxAge != 7*24*3600 {
		t.Fatalf("refresh cookie MaxAge = %d, want %d", refresh.MaxAge, 7*24*3600)
	}
}

func TestAuthHandler_SignupPendingVerification(t *testing.T) {
	svc := &stubAuthService{
		signupResult: &ports.SignupResult{
			User: &domain.User{ID: "u1", Email: "a@b.com"},
		},
	}
	h := NewAuthHandler(svc, false)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/signup",
		`{"email":"a@b.com","password":"secret1","first_name":"A","last_name":"B"}`)

	if err := h.Signup(c); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if cookieByName(rec, "accessToken") != nil {
		t.Fatalf("no cookies must be set while verification is pending")
	}
	if !strings.Contains(rec.Body.String(), "verification code sent") {
		t.Fatalf("expected pending message, got %s", rec.Body.String())
	}
}

func TestAuthHandler_SignupValidation(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)

	cases := []struct {
		name string
		body string
	}{
		{"bad email", `{"email":"nope","password":"secret1","first_name":"A","last_name":"B"}`},
		{"short password", `{"email":"a@b.com","password":"abc","first_name":"A","last_name":"B"}`},
		{"missing name", `{"email":"a@b.com","password":"secret1"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestContext(t, http.MethodPost, "/api/auth/signup", tc.body)
			err := h.Signup(c)
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 validation error, got %v", err)
			}
		})
	}
}

func TestAuthHandler_LoginFailurePassesThrough(t *testing.T) {
	svc := &stubAuthService{loginErr: domain.ErrInvalidCredentials}
	h := NewAuthHandler(svc, false)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login",
		`{"email":"a@b.com","password":"wrong-pass"}`)

	err := h.Login(c)
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if cookieByName(rec, "accessToken") != nil {
		t.Fatalf("no cookies on failed login")
	}
}

func TestAuthHandler_RefreshUsesCookie(t *testing.T) {
	svc := &stubAuthService{refreshToken: "new-access"}
	h := NewAuthHandler(svc, false)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/refresh-token", "")
	c.Request().AddCookie(&http.Cookie{Name: "refreshToken", Value: "ref"})

	if err := h.Refresh(c); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	access := cookieByName(rec, "accessToken")
	if access == nil || access.Value != "new-access" {
		t.Fatalf("expected refreshed access cookie, got %v", access)
	}
	// The refresh token is not rotated, so no refreshToken cookie is set.
	if cookieByName(rec, "refreshToken") != nil {
		t.Fatalf("refresh token must not be reissued")
	}
}

func TestAuthHandler_RefreshMissingCookie(t *testing.T) {
	svc := &stubAuthService{refreshErr: domain.ErrMissingToken}
	h := NewAuthHandler(svc, false)

	c, _ := newTestContext(t, http.MethodPost, "/api/auth/refresh-token", "")
	if err := h.Refresh(c); err != domain.ErrMissingToken {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestAuthHandler_LogoutAlwaysClears(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc, false)

	// No cookie at all: still 200, still clears.
	c, rec := newTestContext(t, http.MethodPost, "/api/auth/logout", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	access := cookieByName(rec, "accessToken")
	refresh := cookieByName(rec, "refreshToken")
	if access == nil || refresh == nil {
		t.Fatalf("expected clearing cookies")
	}
	if access.MaxAge >= 0 || refresh.MaxAge >= 0 {
		t.Fatalf("expected negative MaxAge, got %d %d", access.MaxAge, refresh.MaxAge)
	}
	if len(svc.loggedOut) != 1 || svc.loggedOut[0] != "" {
		t.Fatalf("logout must run best-effort even without a cookie: %v", svc.loggedOut)
	}
}
