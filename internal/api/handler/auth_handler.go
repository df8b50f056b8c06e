package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldsales/sales-api/internal/api/metrics"
	"github.com/fieldsales/sales-api/internal/core/domain"
	"github.com/fieldsales/sales-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and opens a new session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.login(c, req)
}

// Signup creates a user account and logs it in.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "New account"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return err
	}
	return h.signup(c, req)
}

// Auth dispatches on the "type" field to login or signup.
//
// @Summary      Login or sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authRequest  true  "type is login or signup"
// @Success      200   {object}  authResponse
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/auth [post]
func (h *AuthHandler) Auth(c echo.Context) error {
	var req authRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	switch req.Type {
	case "login":
		login := loginRequest{Email: req.Email, Password: req.Password}
		if err := c.Validate(&login); err != nil {
			return err
		}
		return h.login(c, login)
	case "signup":
		signup := signupRequest{Name: req.Name, Email: req.Email, Password: req.Password, Role: req.Role, Code: req.Code}
		if err := c.Validate(&signup); err != nil {
			metrics.SignupsTotal.WithLabelValues("invalid").Inc()
			return err
		}
		return h.signup(c, signup)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported type")
	}
}

func (h *AuthHandler) login(c echo.Context, req loginRequest) error {
	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Client:   clientMeta(c),
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.SessionsIssuedTotal.WithLabelValues("login").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: res.Token, User: res.User})
}

func (h *AuthHandler) signup(c echo.Context, req signupRequest) error {
	res, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Code:     req.Code,
		Client:   clientMeta(c),
	})
	if err != nil {
		metrics.SignupsTotal.WithLabelValues(signupResult(err)).Inc()
		return err
	}

	metrics.SignupsTotal.WithLabelValues("success").Inc()
	metrics.SessionsIssuedTotal.WithLabelValues("signup").Inc()
	return c.JSON(http.StatusCreated, authResponse{Token: res.Token, User: res.User})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}

func signupResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserExists), errors.Is(err, domain.ErrCodeTaken):
		return "conflict"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
