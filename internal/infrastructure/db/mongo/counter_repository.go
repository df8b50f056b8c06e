package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const countersCollection = "counters"

// CounterRepository implements ports.CodeSequence with an atomic $inc upsert,
// so concurrent signups of the same role never draw the same number.
type CounterRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewCounterRepository(db *mongo.Database, timeout time.Duration) *CounterRepository {
	return &CounterRepository{coll: db.Collection(countersCollection), timeout: opTimeout(timeout)}
}

type counterDoc struct {
	Key string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// Next increments and returns the counter stored under key.
func (r *CounterRepository) Next(ctx context.Context, key string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc counterDoc
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": key}, bson.M{"$inc": bson.M{"seq": int64(1)}}, opts).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s: %w", key, err)
	}
	return doc.Seq, nil
}
