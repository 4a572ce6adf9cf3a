package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/abhiya492/ecommerce-api/internal/core/ports"
)

// accessCookie is the cookie carrying the short-lived access token. The
// Authorization header is accepted as an alternative for non-browser clients.
const accessCookie = "accessToken"

// AccessVerifier validates an access token and returns the embedded user id.
type AccessVerifier interface {
	VerifyAccess(token string) (string, error)
}

// Auth validates the access token, loads the account, and injects it into
// the request context under "user".
func Auth(verifier AccessVerifier, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFromRequest(c)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}

			userID, err := verifier.VerifyAccess(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown account")
			}

			c.Set("user", user)
			return next(c)
		}
	}
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(accessCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
