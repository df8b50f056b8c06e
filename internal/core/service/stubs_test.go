package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fieldsales/sales-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	nextID  int
	listErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
		if u.Code == user.Code {
			return nil, domain.ErrCodeTaken
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byID[copy.ID] = copy
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

func (r *stubUserRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

type stubCodeSequence struct {
	mu   sync.Mutex
	seqs map[string]int64
	err  error
}

func newStubCodeSequence() *stubCodeSequence {
	return &stubCodeSequence{seqs: make(map[string]int64)}
}

func (c *stubCodeSequence) Next(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	c.seqs[key]++
	return c.seqs[key], nil
}

type stubSessionRepo struct {
	mu        sync.Mutex
	byToken   map[string]*domain.Session
	nextID    int
	createErr error
	touchErr  error
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{byToken: make(map[string]*domain.Session)}
}

func cloneSession(s *domain.Session) *domain.Session {
	clone := *s
	return &clone
}

func (r *stubSessionRepo) Create(_ context.Context, s *domain.Session) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.byToken[s.Token]; exists {
		return nil, errors.New("duplicate token")
	}
	r.nextID++
	copy := cloneSession(s)
	copy.ID = fmt.Sprintf("sess-%d", r.nextID)
	r.byToken[copy.Token] = copy
	return cloneSession(copy), nil
}

func (r *stubSessionRepo) FindLiveByToken(_ context.Context, token string, now time.Time) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byToken[token]
	if !ok || !s.ExpiresAt.After(now) {
		return nil, domain.ErrSessionNotFound
	}
	return cloneSession(s), nil
}

func (r *stubSessionRepo) ListLiveByUser(_ context.Context, userID string, now time.Time) ([]*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Session
	for _, s := range r.byToken {
		if s.UserID == userID && s.ExpiresAt.After(now) {
			out = append(out, cloneSession(s))
		}
	}
	return out, nil
}

func (r *stubSessionRepo) Touch(_ context.Context, token string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.touchErr != nil {
		return r.touchErr
	}
	if s, ok := r.byToken[token]; ok && s.ExpiresAt.After(now) {
		s.LastAccessedAt = now
	}
	return nil
}

func (r *stubSessionRepo) Extend(_ context.Context, token string, now, expiresAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byToken[token]
	if !ok || !s.ExpiresAt.After(now) {
		return false, nil
	}
	s.ExpiresAt = expiresAt
	s.LastAccessedAt = now
	return true, nil
}

func (r *stubSessionRepo) DeleteByToken(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byToken[token]; !ok {
		return false, nil
	}
	delete(r.byToken, token)
	return true, nil
}

func (r *stubSessionRepo) DeleteByIDForUser(_ context.Context, id, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, s := range r.byToken {
		if s.ID == id && s.UserID == userID {
			delete(r.byToken, token)
			return true, nil
		}
	}
	return false, nil
}

func (r *stubSessionRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for token, s := range r.byToken {
		if s.UserID == userID {
			delete(r.byToken, token)
			n++
		}
	}
	return n, nil
}

func (r *stubSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for token, s := range r.byToken {
		if s.ExpiresAt.Before(now) {
			delete(r.byToken, token)
			n++
		}
	}
	return n, nil
}

func (r *stubSessionRepo) countFor(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.byToken {
		if s.UserID == userID {
			n++
		}
	}
	return n
}

func (r *stubSessionRepo) get(token string) *domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byToken[token]
	if !ok {
		return nil
	}
	return cloneSession(s)
}

type stubThrottle struct {
	failures map[string]int
	max      int
	checkErr error
}

func newStubThrottle(max int) *stubThrottle {
	return &stubThrottle{failures: make(map[string]int), max: max}
}

func (t *stubThrottle) Check(_ context.Context, identity string) error {
	if t.checkErr != nil {
		return t.checkErr
	}
	if t.failures[identity] >= t.max {
		return domain.ErrTooManyAttempts
	}
	return nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, identity string) error {
	t.failures[identity]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, identity string) error {
	delete(t.failures, identity)
	return nil
}
