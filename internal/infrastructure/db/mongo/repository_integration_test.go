package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fieldsales/sales-api/internal/core/domain"
)

// These tests run against a real server when MONGO_TEST_URI is set.
func testDatabase(t *testing.T) (*UserRepository, *SessionRepository, *CounterRepository) {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	name := fmt.Sprintf("sales_test_%d", time.Now().UnixNano())
	client, db, err := Connect(ctx, Config{URI: uri, Database: name, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	users := NewUserRepository(db, 0)
	sessions := NewSessionRepository(db, 0)
	if err := users.EnsureIndexes(ctx); err != nil {
		t.Fatalf("user indexes: %v", err)
	}
	if err := sessions.EnsureIndexes(ctx); err != nil {
		t.Fatalf("session indexes: %v", err)
	}
	return users, sessions, NewCounterRepository(db, 0)
}

func TestUserRepository_Uniqueness(t *testing.T) {
	users, _, _ := testDatabase(t)
	ctx := context.Background()

	u := &domain.User{Name: "A", Email: "a@example.com", PasswordHash: "h", Role: domain.RoleSales, Code: "SS001"}
	created, err := users.Create(ctx, u)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := primitive.ObjectIDFromHex(created.ID); err != nil {
		t.Fatalf("id is not an ObjectID: %q", created.ID)
	}

	dupEmail := *u
	dupEmail.Code = "SS002"
	if _, err := users.Create(ctx, &dupEmail); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	dupCode := *u
	dupCode.Email = "b@example.com"
	if _, err := users.Create(ctx, &dupCode); !errors.Is(err, domain.ErrCodeTaken) {
		t.Fatalf("expected ErrCodeTaken, got %v", err)
	}

	found, err := users.FindByID(ctx, created.ID)
	if err != nil || found.Email != "a@example.com" {
		t.Fatalf("find by id: %+v %v", found, err)
	}
	if _, err := users.FindByID(ctx, "not-an-id"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCounterRepository_Next(t *testing.T) {
	_, _, counters := testDatabase(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := counters.Next(ctx, "SS")
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}
	if got, _ := counters.Next(ctx, "AA"); got != 1 {
		t.Fatalf("counters must be independent per key, got %d", got)
	}
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	_, sessions, _ := testDatabase(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	userA := primitive.NewObjectID().Hex()
	userB := primitive.NewObjectID().Hex()

	mk := func(token, user string, expires time.Time) {
		t.Helper()
		_, err := sessions.Create(ctx, &domain.Session{
			Token: token, UserID: user, CreatedAt: now, LastAccessedAt: now, ExpiresAt: expires,
		})
		if err != nil {
			t.Fatalf("create %s: %v", token, err)
		}
	}
	mk("a1", userA, now.Add(time.Hour))
	mk("a2", userA, now.Add(time.Hour))
	mk("b1", userB, now.Add(time.Hour))
	mk("old", userB, now.Add(-time.Minute))

	if _, err := sessions.FindLiveByToken(ctx, "old", now); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expired session must be absent, got %v", err)
	}

	ok, err := sessions.Extend(ctx, "a1", now, now.Add(48*time.Hour))
	if err != nil || !ok {
		t.Fatalf("extend: %v %v", ok, err)
	}
	if ok, _ := sessions.Extend(ctx, "old", now, now.Add(48*time.Hour)); ok {
		t.Fatalf("expired session must not be extended")
	}

	live, err := sessions.ListLiveByUser(ctx, userA, now)
	if err != nil || len(live) != 2 {
		t.Fatalf("list: %d %v", len(live), err)
	}

	n, err := sessions.DeleteByUser(ctx, userA)
	if err != nil || n != 2 {
		t.Fatalf("delete by user: %d %v", n, err)
	}
	if _, err := sessions.FindLiveByToken(ctx, "b1", now); err != nil {
		t.Fatalf("other user's session affected: %v", err)
	}

	if ok, _ := sessions.DeleteByToken(ctx, "b1"); !ok {
		t.Fatalf("first delete should report true")
	}
	if ok, _ := sessions.DeleteByToken(ctx, "b1"); ok {
		t.Fatalf("second delete should report false")
	}

	purged, err := sessions.DeleteExpired(ctx, now)
	if err != nil || purged != 1 {
		t.Fatalf("purge: %d %v", purged, err)
	}
}
