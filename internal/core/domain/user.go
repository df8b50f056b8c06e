package domain

import (
	"strings"
	"time"
)

// User models an account in the field sales system.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Code         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the projection of a User that may leave the service.
// It never carries the password hash.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
	Code  string `json:"code"`
	Email string `json:"email"`
}

// Public returns the externally visible view of u.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Role:  u.Role,
		Code:  u.Code,
		Email: u.Email,
	}
}

// NormalizeEmail trims and lowercases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
