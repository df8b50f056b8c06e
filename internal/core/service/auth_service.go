package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldsales/sales-api/internal/core/domain"
	"github.com/fieldsales/sales-api/internal/core/ports"
)

// AuthService implements signup, login and the user directory.
type AuthService struct {
	users    ports.UserRepository
	codes    ports.CodeSequence
	issuer   ports.SessionIssuer
	hasher   *PasswordHasher
	throttle ports.LoginThrottle
	log      zerolog.Logger
}

// NewAuthService wires the login and signup flows. throttle may be nil.
func NewAuthService(
	users ports.UserRepository,
	codes ports.CodeSequence,
	issuer ports.SessionIssuer,
	hasher *PasswordHasher,
	throttle ports.LoginThrottle,
	log zerolog.Logger,
) *AuthService {
	if throttle == nil {
		throttle = noopThrottle{}
	}
	return &AuthService{
		users:    users,
		codes:    codes,
		issuer:   issuer,
		hasher:   hasher,
		throttle: throttle,
		log:      log,
	}
}

// Login verifies credentials and issues a new session. An unknown email and a
// wrong password produce the same domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	if err := s.throttle.Check(ctx, email); err != nil {
		if errors.Is(err, domain.ErrTooManyAttempts) {
			s.log.Warn().Str("email", email).Msg("login rejected by throttle")
			return nil, err
		}
		s.log.Warn().Err(err).Msg("login throttle check failed, continuing")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.burn(in.Password)
			s.recordFailure(ctx, email)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, persistence("login", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login throttle")
	}

	issued, err := s.issuer.Issue(ctx, user, in.Client)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login succeeded")
	return &ports.AuthResult{Token: issued.Token, User: issued.User}, nil
}

// Signup creates a user and logs them in immediately.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", domain.ErrValidation)
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, persistence("signup", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, name, email, hash, role, in.Code)
	if err != nil {
		return nil, err
	}

	issued, err := s.issuer.Issue(ctx, user, in.Client)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("code", user.Code).Msg("user signed up")
	return &ports.AuthResult{Token: issued.Token, User: issued.User}, nil
}

// ListUsers returns the public view of every user.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, persistence("list users", err)
	}
	out := make([]*domain.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// DemoUser is an account created by SeedDemoUsers.
type DemoUser struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// DemoUsers is the default demo roster.
var DemoUsers = []DemoUser{
	{Name: "Admin User", Email: "admin@example.com", Password: "Admin#123", Role: domain.RoleAdmin},
	{Name: "Manager User", Email: "manager@example.com", Password: "Manager#123", Role: domain.RoleManager},
	{Name: "Sales Rep 1", Email: "rep1@example.com", Password: "Rep#123", Role: domain.RoleSales},
	{Name: "Sales Rep 2", Email: "rep2@example.com", Password: "Rep#123", Role: domain.RoleSales},
}

// SeedDemoUsers creates the given accounts when the user store is empty.
// It returns the number of users created.
func (s *AuthService) SeedDemoUsers(ctx context.Context, demo []DemoUser) (int, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return 0, persistence("seed users", err)
	}
	if n > 0 {
		s.log.Debug().Int64("existing", n).Msg("user store not empty, skipping seed")
		return 0, nil
	}

	created := 0
	for _, d := range demo {
		hash, err := s.hasher.Hash(d.Password)
		if err != nil {
			return created, err
		}
		if _, err := s.createUser(ctx, d.Name, domain.NormalizeEmail(d.Email), hash, d.Role, ""); err != nil {
			return created, fmt.Errorf("seed %s: %w", d.Email, err)
		}
		created++
	}

	s.log.Info().Int("count", created).Msg("demo users seeded")
	return created, nil
}

// maxCodeAttempts bounds how many counter values createUser tries when
// auto-assigned codes collide with hand-picked ones.
const maxCodeAttempts = 5

// createUser assigns the user code exactly once, here, before the insert.
// A supplied code is final; a collision on it surfaces as domain.ErrCodeTaken.
// An auto-assigned code that collides is skipped and the next counter value used.
func (s *AuthService) createUser(ctx context.Context, name, email, hash string, role domain.Role, code string) (*domain.User, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	supplied := code != ""

	for attempt := 1; ; attempt++ {
		if !supplied {
			seq, err := s.codes.Next(ctx, role.CodePrefix())
			if err != nil {
				return nil, persistence("assign user code", err)
			}
			code = domain.FormatCode(role, seq)
		}

		now := time.Now().UTC()
		created, err := s.users.Create(ctx, &domain.User{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Role:         role,
			Code:         code,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		switch {
		case err == nil:
			return created, nil
		case errors.Is(err, domain.ErrCodeTaken) && !supplied && attempt < maxCodeAttempts:
			s.log.Debug().Str("code", code).Msg("generated code already taken, advancing counter")
			continue
		case errors.Is(err, domain.ErrCodeTaken) && !supplied:
			return nil, fmt.Errorf("assign user code: %w: no free %s code after %d attempts", domain.ErrPersistence, role.CodePrefix(), maxCodeAttempts)
		case errors.Is(err, domain.ErrUserExists), errors.Is(err, domain.ErrCodeTaken):
			return nil, err
		default:
			return nil, persistence("create user", err)
		}
	}
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

type noopThrottle struct{}

func (noopThrottle) Check(context.Context, string) error         { return nil }
func (noopThrottle) RecordFailure(context.Context, string) error { return nil }
func (noopThrottle) Reset(context.Context, string) error         { return nil }
