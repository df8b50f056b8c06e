package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldsales/sales-api/internal/core/domain"
	"github.com/fieldsales/sales-api/internal/core/ports"
)

const (
	defaultSessionTTL  = 24 * time.Hour
	minTokenBytes      = 32
	defaultExtendHours = 24
	defaultMaxExtend   = 24 * 30
)

// SessionConfig tunes session issuance and extension.
type SessionConfig struct {
	TTL                time.Duration
	TokenBytes         int
	DefaultExtendHours int
	MaxExtendHours     int
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.TTL <= 0 {
		c.TTL = defaultSessionTTL
	}
	if c.TokenBytes < minTokenBytes {
		c.TokenBytes = minTokenBytes
	}
	if c.DefaultExtendHours <= 0 {
		c.DefaultExtendHours = defaultExtendHours
	}
	if c.MaxExtendHours <= 0 {
		c.MaxExtendHours = defaultMaxExtend
	}
	return c
}

// SessionService implements issuance, verification, extension and revocation
// of opaque bearer sessions.
type SessionService struct {
	sessions ports.SessionRepository
	users    ports.UserRepository
	cfg      SessionConfig
	log      zerolog.Logger

	now    func() time.Time
	random io.Reader
}

func NewSessionService(sessions ports.SessionRepository, users ports.UserRepository, cfg SessionConfig, log zerolog.Logger) *SessionService {
	return &SessionService{
		sessions: sessions,
		users:    users,
		cfg:      cfg.withDefaults(),
		log:      log,
		now:      time.Now,
		random:   rand.Reader,
	}
}

// Issue persists a new session for user. No other session of the user is touched.
func (s *SessionService) Issue(ctx context.Context, user *domain.User, client domain.ClientMeta) (*ports.IssuedSession, error) {
	token, err := s.newToken()
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	now := s.now().UTC()
	created, err := s.sessions.Create(ctx, &domain.Session{
		Token:          token,
		UserID:         user.ID,
		CreatedAt:      now,
		LastAccessedAt: now,
		ExpiresAt:      now.Add(s.cfg.TTL),
		UserAgent:      client.UserAgent,
		IPAddress:      client.IPAddress,
	})
	if err != nil {
		return nil, persistence("issue session", err)
	}

	s.log.Info().
		Str("user_id", user.ID).
		Str("session_id", created.ID).
		Time("expires_at", created.ExpiresAt).
		Msg("session issued")

	return &ports.IssuedSession{
		Token:     created.Token,
		ExpiresAt: created.ExpiresAt,
		User:      user.Public(),
	}, nil
}

// Verify resolves token to the owning user. Missing, expired and orphaned
// sessions all yield domain.ErrUnauthenticated.
func (s *SessionService) Verify(ctx context.Context, token string) (*domain.PublicUser, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	now := s.now().UTC()
	sess, err := s.sessions.FindLiveByToken(ctx, token, now)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, persistence("verify session", err)
	}
	if !sess.LiveAt(now) {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("session_id", sess.ID).Msg("session references a missing user")
			return nil, domain.ErrUnauthenticated
		}
		return nil, persistence("verify session", err)
	}

	if err := s.sessions.Touch(ctx, token, now); err != nil {
		s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to update last access")
	}

	return user.Public(), nil
}

// List returns the live sessions of userID, most recently used first.
func (s *SessionService) List(ctx context.Context, userID, currentToken string) ([]ports.SessionView, error) {
	sessions, err := s.sessions.ListLiveByUser(ctx, userID, s.now().UTC())
	if err != nil {
		return nil, persistence("list sessions", err)
	}

	slices.SortStableFunc(sessions, func(a, b *domain.Session) int {
		return b.LastAccessedAt.Compare(a.LastAccessedAt)
	})

	views := make([]ports.SessionView, 0, len(sessions))
	for _, sess := range sessions {
		views = append(views, ports.SessionView{
			ID:             sess.ID,
			Token:          sess.MaskedToken(),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			ExpiresAt:      sess.ExpiresAt,
			UserAgent:      sess.UserAgent,
			IPAddress:      sess.IPAddress,
			Current:        currentToken != "" && sess.Token == currentToken,
		})
	}
	return views, nil
}

// Extend pushes the expiry of a live session to now + hours. A zero value
// selects the configured default. The token itself is not rotated.
func (s *SessionService) Extend(ctx context.Context, token string, hours int) (time.Time, bool, error) {
	if hours == 0 {
		hours = s.cfg.DefaultExtendHours
	}
	if hours < 0 || hours > s.cfg.MaxExtendHours {
		return time.Time{}, false, fmt.Errorf("%w: hours must be between 1 and %d", domain.ErrValidation, s.cfg.MaxExtendHours)
	}
	if token == "" {
		return time.Time{}, false, nil
	}

	now := s.now().UTC()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	ok, err := s.sessions.Extend(ctx, token, now, expiresAt)
	if err != nil {
		return time.Time{}, false, persistence("extend session", err)
	}
	if !ok {
		return time.Time{}, false, nil
	}
	return expiresAt, true, nil
}

// RevokeOne deletes the session bound to token. Revoking an unknown token
// reports false without error.
func (s *SessionService) RevokeOne(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	ok, err := s.sessions.DeleteByToken(ctx, token)
	if err != nil {
		return false, persistence("revoke session", err)
	}
	return ok, nil
}

// RevokeByID deletes one session of userID identified by its id.
func (s *SessionService) RevokeByID(ctx context.Context, userID, sessionID string) (bool, error) {
	ok, err := s.sessions.DeleteByIDForUser(ctx, sessionID, userID)
	if err != nil {
		return false, persistence("revoke session", err)
	}
	return ok, nil
}

// RevokeAll deletes every session of userID and returns how many were removed.
func (s *SessionService) RevokeAll(ctx context.Context, userID string) (int64, error) {
	n, err := s.sessions.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, persistence("revoke all sessions", err)
	}
	s.log.Info().Str("user_id", userID).Int64("count", n).Msg("all sessions revoked")
	return n, nil
}

// PurgeExpired removes sessions whose expiry has passed.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, persistence("purge sessions", err)
	}
	return n, nil
}

func (s *SessionService) newToken() (string, error) {
	b := make([]byte, s.cfg.TokenBytes)
	if _, err := io.ReadFull(s.random, b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// persistence tags a store failure so the transport layer answers 500
// without exposing the driver message.
func persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
}
