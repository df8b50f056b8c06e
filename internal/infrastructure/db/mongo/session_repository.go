package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fieldsales/sales-api/internal/core/domain"
)

const sessionsCollection = "sessions"

// SessionRepository implements ports.SessionRepository. Expiry is enforced in
// every query filter; the TTL index only reclaims storage.
type SessionRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewSessionRepository(db *mongo.Database, timeout time.Duration) *SessionRepository {
	return &SessionRepository{coll: db.Collection(sessionsCollection), timeout: opTimeout(timeout)}
}

type mongoSession struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Token          string             `bson:"token"`
	UserID         primitive.ObjectID `bson:"user_id"`
	CreatedAt      time.Time          `bson:"created_at"`
	LastAccessedAt time.Time          `bson:"last_accessed_at"`
	ExpiresAt      time.Time          `bson:"expires_at"`
	UserAgent      string             `bson:"user_agent,omitempty"`
	IPAddress      string             `bson:"ip_address,omitempty"`
}

func (ms *mongoSession) toDomain() *domain.Session {
	return &domain.Session{
		ID:             ms.ID.Hex(),
		Token:          ms.Token,
		UserID:         ms.UserID.Hex(),
		CreatedAt:      ms.CreatedAt.UTC(),
		LastAccessedAt: ms.LastAccessedAt.UTC(),
		ExpiresAt:      ms.ExpiresAt.UTC(),
		UserAgent:      ms.UserAgent,
		IPAddress:      ms.IPAddress,
	}
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	userID, err := primitive.ObjectIDFromHex(s.UserID)
	if err != nil {
		return nil, fmt.Errorf("insert session: invalid user id %q: %w", s.UserID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := mongoSession{
		ID:             primitive.NewObjectID(),
		Token:          s.Token,
		UserID:         userID,
		CreatedAt:      s.CreatedAt,
		LastAccessedAt: s.LastAccessedAt,
		ExpiresAt:      s.ExpiresAt,
		UserAgent:      s.UserAgent,
		IPAddress:      s.IPAddress,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *SessionRepository) FindLiveByToken(ctx context.Context, token string, now time.Time) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var ms mongoSession
	err := r.coll.FindOne(ctx, liveFilter(bson.M{"token": token}, now)).Decode(&ms)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return ms.toDomain(), nil
}

// ListLiveByUser returns live sessions of userID, most recently used first.
func (r *SessionRepository) ListLiveByUser(ctx context.Context, userID string, now time.Time) ([]*domain.Session, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "last_accessed_at", Value: -1}})
	cur, err := r.coll.Find(ctx, liveFilter(bson.M{"user_id": oid}, now), opts)
	if err != nil {
		return nil, fmt.Errorf("find sessions: %w", err)
	}
	var docs []mongoSession
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}

	out := make([]*domain.Session, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *SessionRepository) Touch(ctx context.Context, token string, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx,
		liveFilter(bson.M{"token": token}, now),
		bson.M{"$set": bson.M{"last_accessed_at": now}},
	)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// Extend is a single conditional update; a session that lapsed between the
// caller's check and this write is left untouched.
func (r *SessionRepository) Extend(ctx context.Context, token string, now, expiresAt time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		liveFilter(bson.M{"token": token}, now),
		bson.M{"$set": bson.M{"expires_at": expiresAt, "last_accessed_at": now}},
	)
	if err != nil {
		return false, fmt.Errorf("extend session: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"token": token})
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *SessionRepository) DeleteByIDForUser(ctx context.Context, id, userID string) (bool, error) {
	sid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": sid, "user_id": uid})
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *SessionRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"user_id": uid})
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now}})
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the token uniqueness constraint, the per-user lookup
// index and the TTL index that reclaims lapsed sessions.
func (r *SessionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true).SetName("token_unique")},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "expires_at", Value: 1}}},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_at_ttl")},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func liveFilter(filter bson.M, now time.Time) bson.M {
	filter["expires_at"] = bson.M{"$gt": now}
	return filter
}
