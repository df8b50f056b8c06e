package api

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fieldsales/sales-api/internal/core/domain"
)

// memStore is an in-memory user, session and counter store used to drive
// the router end to end without MongoDB.
type memStore struct {
	mu       sync.Mutex
	users    []*domain.User
	sessions []*domain.Session
	counters map[string]int64
	seq      int
}

func newMemStore() *memStore {
	return &memStore{counters: map[string]int64{}}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s%04d", prefix, m.seq)
}

// --- users ---

type memUsers struct{ *memStore }

func (r memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrUserExists
		}
		if u.Code == user.Code {
			return nil, domain.ErrCodeTaken
		}
	}
	cp := *user
	cp.ID = r.nextID("u")
	r.users = append(r.users, &cp)
	out := cp
	return &out, nil
}

func (r memUsers) List(context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r memUsers) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

// --- codes ---

type memCodes struct{ *memStore }

func (r memCodes) Next(_ context.Context, key string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[key]++
	return r.counters[key], nil
}

// --- sessions ---

type memSessions struct{ *memStore }

func (r memSessions) Create(_ context.Context, s *domain.Session) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.sessions {
		if existing.Token == s.Token {
			return nil, fmt.Errorf("duplicate token")
		}
	}
	cp := *s
	cp.ID = r.nextID("s")
	r.sessions = append(r.sessions, &cp)
	out := cp
	return &out, nil
}

func (r memSessions) live(token string, now time.Time) *domain.Session {
	for _, s := range r.sessions {
		if s.Token == token && s.LiveAt(now) {
			return s
		}
	}
	return nil
}

func (r memSessions) FindLiveByToken(_ context.Context, token string, now time.Time) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s := r.live(token, now); s != nil {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (r memSessions) ListLiveByUser(_ context.Context, userID string, now time.Time) ([]*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Session
	for _, s := range r.sessions {
		if s.UserID == userID && s.LiveAt(now) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memSessions) Touch(_ context.Context, token string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s := r.live(token, now); s != nil {
		s.LastAccessedAt = now
	}
	return nil
}

func (r memSessions) Extend(_ context.Context, token string, now, expiresAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.live(token, now)
	if s == nil {
		return false, nil
	}
	s.ExpiresAt = expiresAt
	s.LastAccessedAt = now
	return true, nil
}

func (r memSessions) deleteWhere(match func(*domain.Session) bool) int64 {
	kept := r.sessions[:0]
	var n int64
	for _, s := range r.sessions {
		if match(s) {
			n++
			continue
		}
		kept = append(kept, s)
	}
	r.sessions = kept
	return n
}

func (r memSessions) DeleteByToken(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deleteWhere(func(s *domain.Session) bool { return s.Token == token }) > 0, nil
}

func (r memSessions) DeleteByIDForUser(_ context.Context, id, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deleteWhere(func(s *domain.Session) bool { return s.ID == id && s.UserID == userID }) > 0, nil
}

func (r memSessions) DeleteByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deleteWhere(func(s *domain.Session) bool { return s.UserID == userID }), nil
}

func (r memSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deleteWhere(func(s *domain.Session) bool { return !s.LiveAt(now) }), nil
}
