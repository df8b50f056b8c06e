package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fieldsales/sales-api/internal/api/middleware"
	"github.com/fieldsales/sales-api/internal/core/domain"
	"github.com/fieldsales/sales-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn     func(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error)
	signupFn    func(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error)
	listUsersFn func(ctx context.Context) ([]*domain.PublicUser, error)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) ListUsers(ctx context.Context) ([]*domain.PublicUser, error) {
	return s.listUsersFn(ctx)
}

type stubSessionService struct {
	listFn       func(ctx context.Context, userID, currentToken string) ([]ports.SessionView, error)
	extendFn     func(ctx context.Context, token string, hours int) (time.Time, bool, error)
	revokeOneFn  func(ctx context.Context, token string) (bool, error)
	revokeByIDFn func(ctx context.Context, userID, sessionID string) (bool, error)
	revokeAllFn  func(ctx context.Context, userID string) (int64, error)
}

func (s *stubSessionService) Issue(context.Context, *domain.User, domain.ClientMeta) (*ports.IssuedSession, error) {
	panic("not used by handlers")
}

func (s *stubSessionService) Verify(context.Context, string) (*domain.PublicUser, error) {
	panic("not used by handlers")
}

func (s *stubSessionService) List(ctx context.Context, userID, currentToken string) ([]ports.SessionView, error) {
	return s.listFn(ctx, userID, currentToken)
}

func (s *stubSessionService) Extend(ctx context.Context, token string, hours int) (time.Time, bool, error) {
	return s.extendFn(ctx, token, hours)
}

func (s *stubSessionService) RevokeOne(ctx context.Context, token string) (bool, error) {
	return s.revokeOneFn(ctx, token)
}

func (s *stubSessionService) RevokeByID(ctx context.Context, userID, sessionID string) (bool, error) {
	return s.revokeByIDFn(ctx, userID, sessionID)
}

func (s *stubSessionService) RevokeAll(ctx context.Context, userID string) (int64, error) {
	return s.revokeAllFn(ctx, userID)
}

func (s *stubSessionService) PurgeExpired(context.Context) (int64, error) {
	panic("not used by handlers")
}

var alice = &domain.PublicUser{ID: "u-alice", Name: "Alice", Role: domain.RoleSales, Code: "SS001", Email: "alice@x.io"}

// newContext builds an echo context with the validator installed. A non-empty
// body is sent as JSON.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authed marks c as carrying an authenticated session for user.
func authed(c echo.Context, user *domain.PublicUser, token string) echo.Context {
	middleware.SetIdentity(c, user, token)
	return c
}
