package handler

import (
	"time"

	"github.com/fieldsales/sales-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"omitempty,role"`
	Code     string `json:"code"     validate:"omitempty,max=16"`
}

// authRequest is the combined body accepted by POST /api/auth.
type authRequest struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Code     string `json:"code"`
}

type authResponse struct {
	Token string             `json:"token"`
	User  *domain.PublicUser `json:"user"`
}

type extendSessionRequest struct {
	Hours int `json:"hours" validate:"gte=0"`
}

type extendSessionResponse struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type sessionResponse struct {
	ID           string    `json:"id"`
	Token        string    `json:"token"`
	CreatedAt    time.Time `json:"createdAt"`
	LastAccessed time.Time `json:"lastAccessed"`
	UserAgent    string    `json:"userAgent"`
	IPAddress    string    `json:"ipAddress"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Current      bool      `json:"current"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type revokeAllResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}
