package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/fieldsales/sales-api/internal/api/handler"
	"github.com/fieldsales/sales-api/internal/api/middleware"
	"github.com/fieldsales/sales-api/internal/core/domain"
	"github.com/fieldsales/sales-api/internal/core/ports"

	_ "github.com/fieldsales/sales-api/docs"
)

// Deps carries everything the router needs. Registerer and Gatherer default
// to the global Prometheus registry when nil.
type Deps struct {
	Auth     ports.AuthService
	Sessions ports.SessionService
	Checks   map[string]handler.Checker
	Logger   zerolog.Logger

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "salesapi",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	sessionHandler := handler.NewSessionHandler(d.Sessions)
	userHandler := handler.NewUserHandler(d.Auth)
	requireAuth := middleware.Auth(d.Sessions)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/login", authHandler.Login)
	api.POST("/signup", authHandler.Signup)
	api.POST("/auth", authHandler.Auth)

	// --- Session routes ---
	sessions := api.Group("/sessions", requireAuth)
	sessions.GET("", sessionHandler.List)
	sessions.POST("", sessionHandler.Extend)
	sessions.DELETE("", sessionHandler.Revoke)
	sessions.DELETE("/:id", sessionHandler.RevokeByID)

	api.POST("/logout-all", sessionHandler.LogoutAll, requireAuth)
	api.GET("/me", sessionHandler.Me, requireAuth)

	// --- Directory (admin, manager) ---
	api.GET("/users", userHandler.List, requireAuth, middleware.RequireAction(domain.ActionUserList))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
