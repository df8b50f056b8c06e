// @title           Field Sales API
// @version         1.0
// @description     Session and role-based access for the field sales backend.
// @BasePath        /
//
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the session token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldsales/sales-api/internal/api"
	"github.com/fieldsales/sales-api/internal/api/handler"
	"github.com/fieldsales/sales-api/internal/core/service"
	mongostore "github.com/fieldsales/sales-api/internal/infrastructure/db/mongo"
	redisstore "github.com/fieldsales/sales-api/internal/infrastructure/db/redis"
	"github.com/fieldsales/sales-api/internal/infrastructure/janitor"
	"github.com/fieldsales/sales-api/internal/pkg/config"
	"github.com/fieldsales/sales-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "sales-api",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- MongoDB ---
	connector := mongostore.NewConnector(mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	db, err := connector.Database(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := connector.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	users := mongostore.NewUserRepository(db, cfg.Mongo.Timeout)
	sessions := mongostore.NewSessionRepository(db, cfg.Mongo.Timeout)
	codes := mongostore.NewCounterRepository(db, cfg.Mongo.Timeout)

	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := sessions.EnsureIndexes(ctx); err != nil {
		return err
	}

	// --- Redis ---
	// Redis only backs the login throttle, which fails open. Boot without it
	// and let the client connect once the server is reachable.
	redisCfg := redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	rdb := redisstore.NewClient(redisCfg)
	defer rdb.Close()
	if err := redisstore.Ping(ctx, rdb, redisCfg); err != nil {
		log.Warn().Err(err).Msg("redis unreachable at startup, login throttle disabled until it recovers")
	}

	limiter := redisstore.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.LockoutWindow)

	// --- Services ---
	sessionService := service.NewSessionService(sessions, users, service.SessionConfig{
		TTL:                cfg.Session.TTL,
		TokenBytes:         cfg.Session.TokenBytes,
		DefaultExtendHours: cfg.Session.DefaultExtendHours,
		MaxExtendHours:     cfg.Session.MaxExtendHours,
	}, logger.Component("session"))

	authService := service.NewAuthService(
		users,
		codes,
		sessionService,
		service.NewPasswordHasher(cfg.Login.BcryptCost),
		limiter,
		logger.Component("auth"),
	)

	if cfg.SeedDemoUsers {
		if _, err := authService.SeedDemoUsers(ctx, service.DemoUsers); err != nil {
			return err
		}
	}

	janitor.New(sessionService, cfg.Session.SweepInterval, logger.Component("janitor")).Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Auth:     authService,
		Sessions: sessionService,
		Checks: map[string]handler.Checker{
			"mongodb": connector.Ping,
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Logger: logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
