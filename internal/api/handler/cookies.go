package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
	"github.com/abhiya492/ecommerce-api/internal/token"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"

	accessCookieMaxAge  = int(token.AccessTTL / time.Second)
	refreshCookieMaxAge = int(token.RefreshTTL / time.Second)
)

// setAuthCookies emits both bearer tokens as scoped cookies. MaxAge mirrors
// each token's validity so the browser drops them together with their
// signatures.
func setAuthCookies(c echo.Context, pair domain.TokenPair, secure bool) {
	c.SetCookie(authCookie(accessCookie, pair.AccessToken, accessCookieMaxAge, secure))
	c.SetCookie(authCookie(refreshCookie, pair.RefreshToken, refreshCookieMaxAge, secure))
}

// clearAuthCookies instructs the browser to drop both token cookies.
func clearAuthCookies(c echo.Context, secure bool) {
	c.SetCookie(authCookie(accessCookie, "", -1, secure))
	c.SetCookie(authCookie(refreshCookie, "", -1, secure))
}

func authCookie(name, value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}
