package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fieldsales/sales-api/internal/api/metrics"
	"github.com/fieldsales/sales-api/internal/core/domain"
	"github.com/fieldsales/sales-api/internal/core/ports"
)

const (
	userKey  = "user"
	tokenKey = "token"
)

// Auth resolves the bearer token to a live session and injects the public
// user and the raw token into the context. A missing header, a malformed
// header and an unknown or expired token all yield domain.ErrUnauthenticated.
func Auth(verifier ports.SessionVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.AuthRejectionsTotal.WithLabelValues("session").Inc()
				return domain.ErrUnauthenticated
			}

			user, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					metrics.AuthRejectionsTotal.WithLabelValues("session").Inc()
				}
				return err
			}

			SetIdentity(c, user, token)
			return next(c)
		}
	}
}

// CurrentUser returns the user injected by Auth.
func CurrentUser(c echo.Context) (*domain.PublicUser, bool) {
	u, ok := c.Get(userKey).(*domain.PublicUser)
	return u, ok && u != nil
}

// CurrentToken returns the bearer token injected by Auth.
func CurrentToken(c echo.Context) string {
	t, _ := c.Get(tokenKey).(string)
	return t
}

// SetIdentity stores the authenticated user and its bearer token on c.
func SetIdentity(c echo.Context, user *domain.PublicUser, token string) {
	c.Set(userKey, user)
	c.Set(tokenKey, token)
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
