package ports

import (
	"context"

	"github.com/fieldsales/sales-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
// There is deliberately no operation that rewrites a user's code.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
}

// CodeSequence hands out monotonically increasing numbers per key.
// Numbers are never reused, even after the owning user is deleted.
type CodeSequence interface {
	Next(ctx context.Context, key string) (int64, error)
}

// LoginThrottle counts failed logins per identity.
type LoginThrottle interface {
	// Check returns domain.ErrTooManyAttempts once the identity is locked out.
	Check(ctx context.Context, identity string) error
	RecordFailure(ctx context.Context, identity string) error
	Reset(ctx context.Context, identity string) error
}
