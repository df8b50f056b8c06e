package ports

import (
	"context"

	"github.com/fieldsales/sales-api/internal/core/domain"
)

// LoginInput carries credentials plus the client metadata of the request.
type LoginInput struct {
	Email    string
	Password string
	Client   domain.ClientMeta
}

// SignupInput carries a new account. Role and Code are optional.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Code     string
	Client   domain.ClientMeta
}

// AuthResult is returned by a successful login or signup.
type AuthResult struct {
	Token string
	User  *domain.PublicUser
}

type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	ListUsers(ctx context.Context) ([]*domain.PublicUser, error)
}
