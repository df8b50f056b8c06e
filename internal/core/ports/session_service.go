package ports

import (
	"context"
	"time"

	"github.com/fieldsales/sales-api/internal/core/domain"
)

// IssuedSession is the result of creating a session.
type IssuedSession struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.PublicUser
}

// SessionView is a session as shown to its owner. Token is truncated.
type SessionView struct {
	ID             string
	Token          string
	CreatedAt      time.Time
	LastAccessedAt time.Time
	ExpiresAt      time.Time
	UserAgent      string
	IPAddress      string
	Current        bool
}

// SessionIssuer creates sessions for already authenticated users.
type SessionIssuer interface {
	Issue(ctx context.Context, user *domain.User, client domain.ClientMeta) (*IssuedSession, error)
}

// SessionVerifier resolves a bearer token to its user.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*domain.PublicUser, error)
}

// SessionService is the full session lifecycle used by the HTTP layer.
type SessionService interface {
	SessionIssuer
	SessionVerifier
	List(ctx context.Context, userID, currentToken string) ([]SessionView, error)
	Extend(ctx context.Context, token string, hours int) (time.Time, bool, error)
	RevokeOne(ctx context.Context, token string) (bool, error)
	RevokeByID(ctx context.Context, userID, sessionID string) (bool, error)
	RevokeAll(ctx context.Context, userID string) (int64, error)
	PurgeExpired(ctx context.Context) (int64, error)
}
