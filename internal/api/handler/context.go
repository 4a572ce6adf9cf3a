package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
)

// ctxUser extracts the account injected by the Auth middleware. Its absence
// means the route was registered without the middleware, which is a wiring
// bug surfaced as 401 rather than a panic.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get("user").(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}
