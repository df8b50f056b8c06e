package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/fieldsales/sales-api/internal/api/metrics"
	"github.com/fieldsales/sales-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth; a request
// without an authenticated user is rejected as unauthenticated.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				metrics.AuthRejectionsTotal.WithLabelValues("session").Inc()
				return domain.ErrUnauthenticated
			}
			if !domain.Authorize(user.Role, allowedRoles...) {
				metrics.AuthRejectionsTotal.WithLabelValues("role").Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// RequireAction is RBAC driven by the action policy table.
func RequireAction(action domain.Action) echo.MiddlewareFunc {
	return RBAC(domain.RolesFor(action)...)
}
