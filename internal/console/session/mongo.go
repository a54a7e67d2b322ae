package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const MongoCollection = "console_sessions"

type mongoItem struct {
	SID       string    `bson:"sid"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// MongoBackend stores one document per session key. Expiry relies on the
// TTL index over expires_at.
type MongoBackend struct {
	coll *mongo.Collection
	ttl  time.Duration
}

func NewMongoBackend(db *mongo.Database, ttl time.Duration) *MongoBackend {
	return &MongoBackend{coll: db.Collection(MongoCollection), ttl: ttl}
}

func (m *MongoBackend) Get(ctx context.Context, sid, key string) (string, bool, error) {
	var item mongoItem
	err := m.coll.FindOne(ctx, bson.M{"sid": sid, "key": key}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("mongo find %s: %w", key, err)
	}
	if !item.ExpiresAt.IsZero() && time.Now().After(item.ExpiresAt) {
		return "", false, nil
	}
	return item.Value, true, nil
}

func (m *MongoBackend) Set(ctx context.Context, sid, key, value string) error {
	update := bson.M{"$set": bson.M{
		"value":      value,
		"expires_at": time.Now().Add(m.ttl),
	}}
	_, err := m.coll.UpdateOne(ctx, bson.M{"sid": sid, "key": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo upsert %s: %w", key, err)
	}
	return nil
}

func (m *MongoBackend) Remove(ctx context.Context, sid, key string) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"sid": sid, "key": key}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", key, err)
	}
	return nil
}

func (m *MongoBackend) Clear(ctx context.Context, sid string) error {
	_, err := m.coll.DeleteMany(ctx, bson.M{"sid": sid})
	return err
}
