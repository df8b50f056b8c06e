package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldsales/sales-api/internal/api/middleware"
	"github.com/fieldsales/sales-api/internal/core/domain"
)

const unknownUserAgent = "Unknown"

// currentUser returns the user injected by the Auth middleware. Its absence
// means the route was mounted without the gate; fail closed.
func currentUser(c echo.Context) (*domain.PublicUser, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}

// clientMeta captures the user agent and caller IP recorded on new sessions.
func clientMeta(c echo.Context) domain.ClientMeta {
	ua := c.Request().UserAgent()
	if ua == "" {
		ua = unknownUserAgent
	}
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	return domain.ClientMeta{UserAgent: ua, IPAddress: ip}
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
