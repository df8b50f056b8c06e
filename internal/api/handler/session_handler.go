package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldsales/sales-api/internal/api/metrics"
	"github.com/fieldsales/sales-api/internal/api/middleware"
	"github.com/fieldsales/sales-api/internal/core/domain"
	"github.com/fieldsales/sales-api/internal/core/ports"
)

// SessionHandler exposes the caller's own sessions.
type SessionHandler struct {
	sessions ports.SessionService
}

func NewSessionHandler(sessions ports.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// List handles GET /api/sessions.
//
// @Summary      List active sessions
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/sessions [get]
func (h *SessionHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	views, err := h.sessions.List(c.Request().Context(), user.ID, middleware.CurrentToken(c))
	if err != nil {
		return err
	}

	out := make([]sessionResponse, 0, len(views))
	for _, v := range views {
		out = append(out, sessionResponse{
			ID:           v.ID,
			Token:        v.Token,
			CreatedAt:    v.CreatedAt,
			LastAccessed: v.LastAccessedAt,
			UserAgent:    v.UserAgent,
			IPAddress:    v.IPAddress,
			ExpiresAt:    v.ExpiresAt,
			Current:      v.Current,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Extend handles POST /api/sessions.
//
// @Summary      Extend the current session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      extendSessionRequest  false  "Hours to extend by (default 24)"
// @Success      200   {object}  extendSessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/sessions [post]
func (h *SessionHandler) Extend(c echo.Context) error {
	var req extendSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	expiresAt, ok, err := h.sessions.Extend(c.Request().Context(), middleware.CurrentToken(c), req.Hours)
	if err != nil {
		return err
	}
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to extend session")
	}

	metrics.SessionsExtendedTotal.Inc()
	return c.JSON(http.StatusOK, extendSessionResponse{
		Message:   "Session extended successfully",
		ExpiresAt: expiresAt,
	})
}

// Revoke handles DELETE /api/sessions. With ?all=true every session of the
// caller is removed; otherwise only the one carrying the request.
//
// @Summary      Log out
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        all  query     bool  false  "Log out from every device"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/sessions [delete]
func (h *SessionHandler) Revoke(c echo.Context) error {
	if c.QueryParam("all") == "true" {
		return h.LogoutAll(c)
	}

	ok, err := h.sessions.RevokeOne(c.Request().Context(), middleware.CurrentToken(c))
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrSessionNotFound
	}

	metrics.SessionsRevokedTotal.WithLabelValues("one").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// RevokeByID handles DELETE /api/sessions/:id.
//
// @Summary      Revoke one of the caller's sessions
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/sessions/{id} [delete]
func (h *SessionHandler) RevokeByID(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	ok, err := h.sessions.RevokeByID(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrSessionNotFound
	}

	metrics.SessionsRevokedTotal.WithLabelValues("by_id").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Session revoked successfully"})
}

// LogoutAll handles POST /api/logout-all.
//
// @Summary      Log out from every device
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  revokeAllResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/logout-all [post]
func (h *SessionHandler) LogoutAll(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	n, err := h.sessions.RevokeAll(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	metrics.SessionsRevokedTotal.WithLabelValues("all").Add(float64(n))
	return c.JSON(http.StatusOK, revokeAllResponse{
		Message: fmt.Sprintf("Logged out from %d devices successfully", n),
		Count:   n,
	})
}

// Me handles GET /api/me.
//
// @Summary      Current user
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.PublicUser
// @Failure      401  {object}  errorResponse
// @Router       /api/me [get]
func (h *SessionHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
