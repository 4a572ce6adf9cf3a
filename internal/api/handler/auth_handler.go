package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abhiya492/ecommerce-api/internal/api/metrics"
	"github.com/abhiya492/ecommerce-api/internal/core/domain"
	"github.com/abhiya492/ecommerce-api/internal/core/ports"
)

// AuthHandler exposes the session lifecycle and owns the cookie contract:
// every flow that issues tokens also emits them as scoped cookies.
type AuthHandler struct {
	authService ports.AuthService
	// secureCookies flips the Secure attribute in production.
	secureCookies bool
}

func NewAuthHandler(authService ports.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookies: secureCookies}
}

type signupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

type verifyOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User    *domain.User `json:"user,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Signup creates a new account.
//
// @Summary      Create an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	metrics.SignupsTotal.Inc()

	// Tokens are nil while email verification is pending.
	if res.Tokens == nil {
		return c.JSON(http.StatusCreated, authResponse{
			User:    res.User,
			Message: "verification code sent",
		})
	}

	setAuthCookies(c, *res.Tokens, h.secureCookies)
	return c.JSON(http.StatusCreated, authResponse{User: res.User})
}

// VerifyOtp confirms the mailed verification code and establishes the session.
//
// @Summary      Verify signup code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOtpRequest  true  "Email and 6-digit code"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/auth/verify-otp [post]
func (h *AuthHandler) VerifyOtp(c echo.Context) error {
	var req verifyOtpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.VerifyOtp(c.Request().Context(), req.Email, req.Code)
	if err != nil {
		return err
	}

	setAuthCookies(c, res.Tokens, h.secureCookies)
	return c.JSON(http.StatusOK, authResponse{User: res.User})
}

// Login authenticates a user and issues a fresh token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	setAuthCookies(c, res.Tokens, h.secureCookies)
	return c.JSON(http.StatusOK, authResponse{User: res.User})
}

// Refresh mints a new access token against the refresh cookie. The refresh
// token itself is not rotated.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/refresh-token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var presented string
	if cookie, err := c.Cookie(refreshCookie); err == nil {
		presented = cookie.Value
	}

	access, err := h.authService.Refresh(c.Request().Context(), presented)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues(refreshOutcome(err)).Inc()
		return err
	}

	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
	c.SetCookie(authCookie(accessCookie, access, accessCookieMaxAge, h.secureCookies))
	return c.JSON(http.StatusOK, authResponse{Message: "token refreshed"})
}

// Logout revokes the session. It always clears both cookies and always
// succeeds, whatever the state of the presented refresh token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var presented string
	if cookie, err := c.Cookie(refreshCookie); err == nil {
		presented = cookie.Value
	}

	h.authService.Logout(c.Request().Context(), presented)

	clearAuthCookies(c, h.secureCookies)
	return c.JSON(http.StatusOK, authResponse{Message: "logged out"})
}

// Profile returns the authenticated account.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func refreshOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, domain.ErrSessionMismatch):
		return "session_mismatch"
	default:
		return "invalid_token"
	}
}
