package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string `env:"PORT,            default=8080"`
	Env           string `env:"ENV,             default=development"`
	LogLevel      string `env:"LOG_LEVEL,       default=info"`
	SeedDemoUsers bool   `env:"SEED_DEMO_USERS, default=false"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Session SessionConfig
	Login   LoginConfig
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=sales_app"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type SessionConfig struct {
	TTL                time.Duration `env:"SESSION_TTL,                  default=24h"`
	TokenBytes         int           `env:"SESSION_TOKEN_BYTES,          default=32"`
	DefaultExtendHours int           `env:"SESSION_EXTEND_DEFAULT_HOURS, default=24"`
	MaxExtendHours     int           `env:"SESSION_EXTEND_MAX_HOURS,     default=720"`
	SweepInterval      time.Duration `env:"SESSION_SWEEP_INTERVAL,       default=15m"`
}

type LoginConfig struct {
	BcryptCost    int           `env:"BCRYPT_COST,          default=10"`
	MaxAttempts   int           `env:"LOGIN_MAX_ATTEMPTS,   default=5"`
	LockoutWindow time.Duration `env:"LOGIN_LOCKOUT_WINDOW, default=15m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration through l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the services cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("MONGO_URI must not be empty"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.Session.TokenBytes < 32 {
		errs = append(errs, errors.New("SESSION_TOKEN_BYTES must be at least 32"))
	}
	if c.Session.DefaultExtendHours <= 0 || c.Session.DefaultExtendHours > c.Session.MaxExtendHours {
		errs = append(errs, errors.New("SESSION_EXTEND_DEFAULT_HOURS must be in (0, SESSION_EXTEND_MAX_HOURS]"))
	}
	if c.Session.SweepInterval <= 0 {
		errs = append(errs, errors.New("SESSION_SWEEP_INTERVAL must be positive"))
	}
	if c.Login.BcryptCost < 4 || c.Login.BcryptCost > 31 {
		errs = append(errs, errors.New("BCRYPT_COST must be between 4 and 31"))
	}
	if c.Login.MaxAttempts <= 0 {
		errs = append(errs, errors.New("LOGIN_MAX_ATTEMPTS must be positive"))
	}
	return errors.Join(errs...)
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev" || c.Env == "local"
}
