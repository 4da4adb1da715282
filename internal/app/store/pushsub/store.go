// Package pushsub persists Web Push subscriptions for the admin's
// browsers. One record exists per endpoint; re-registering the same
// endpoint refreshes its payload and last_used timestamp instead of
// duplicating it.
package pushsub

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMaxIdle is how long a subscription may go unused before the
// cleanup sweep removes it.
const DefaultMaxIdle = 30 * 24 * time.Hour

// Keys are the client encryption keys from the browser's PushSubscription.
type Keys struct {
	P256dh string `bson:"p256dh" json:"p256dh"`
	Auth   string `bson:"auth" json:"auth"`
}

// Subscription mirrors the browser PushSubscription JSON.
type Subscription struct {
	Endpoint string `bson:"endpoint" json:"endpoint"`
	Keys     Keys   `bson:"keys" json:"keys"`
}

// Record is a stored subscription.
type Record struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Subscription Subscription       `bson:"subscription" json:"subscription"`
	UserAgent    string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	LastUsed     time.Time          `bson:"last_used" json:"last_used"`
}

// Store provides push subscription persistence.
type Store struct {
	c *mongo.Collection
}

// New creates a pushsub Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("push_subscriptions")}
}

// Save upserts by endpoint. A new endpoint gets a fresh record; a known
// one has its keys and last_used refreshed.
func (s *Store) Save(ctx context.Context, sub Subscription, userAgent string) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"subscription.endpoint": sub.Endpoint},
		bson.M{
			"$set": bson.M{
				"subscription": sub,
				"user_agent":   userAgent,
				"last_used":    now,
			},
			"$setOnInsert": bson.M{
				"created_at": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// List returns every stored subscription.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	records := []Record{}
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Touch refreshes last_used on an endpoint after a successful delivery.
func (s *Store) Touch(ctx context.Context, endpoint string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"subscription.endpoint": endpoint},
		bson.M{"$set": bson.M{"last_used": time.Now().UTC()}},
	)
	return err
}

// DeleteByEndpoint removes a subscription, typically after the push
// service reported it gone (404/410).
func (s *Store) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"subscription.endpoint": endpoint})
	return err
}

// DeleteInactive removes subscriptions whose last_used is older than
// maxIdle and reports how many were removed.
func (s *Store) DeleteInactive(ctx context.Context, maxIdle time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxIdle)
	res, err := s.c.DeleteMany(ctx, bson.M{"last_used": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
