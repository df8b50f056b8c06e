package domain

import "time"

// Session is a server-side record bound to an opaque bearer token.
type Session struct {
	ID             string
	Token          string
	UserID         string
	CreatedAt      time.Time
	LastAccessedAt time.Time
	ExpiresAt      time.Time
	UserAgent      string
	IPAddress      string
}

// LiveAt reports whether the session may still authorize requests at t.
// A session is dead at exactly ExpiresAt.
func (s *Session) LiveAt(t time.Time) bool {
	return t.Before(s.ExpiresAt)
}

// MaskedToken returns the first eight characters of the token for display.
func (s *Session) MaskedToken() string {
	if len(s.Token) <= 8 {
		return s.Token + "..."
	}
	return s.Token[:8] + "..."
}

// ClientMeta is audit metadata captured when a session is issued.
// It is never used for authorization decisions.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}
