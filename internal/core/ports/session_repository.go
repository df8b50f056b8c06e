package ports

import (
	"context"
	"time"

	"github.com/fieldsales/sales-api/internal/core/domain"
)

// SessionRepository persists sessions. Every lookup treats sessions whose
// expires_at is not after now as absent.
type SessionRepository interface {
	Create(ctx context.Context, s *domain.Session) (*domain.Session, error)
	FindLiveByToken(ctx context.Context, token string, now time.Time) (*domain.Session, error)
	ListLiveByUser(ctx context.Context, userID string, now time.Time) ([]*domain.Session, error)

	// Touch sets last_accessed_at on a live session.
	Touch(ctx context.Context, token string, now time.Time) error

	// Extend sets expires_at and last_accessed_at in one conditional update.
	// It reports false when no live session matched.
	Extend(ctx context.Context, token string, now, expiresAt time.Time) (bool, error)

	DeleteByToken(ctx context.Context, token string) (bool, error)
	DeleteByIDForUser(ctx context.Context, id, userID string) (bool, error)

	// DeleteByUser removes every session of userID in a single bulk delete.
	DeleteByUser(ctx context.Context, userID string) (int64, error)

	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
