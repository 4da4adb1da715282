// Package content implements the shared persistence engine behind the
// portfolio collections (music, art, testimonials, bookings).
//
// Documents are schema-free: whatever fields the dashboard submits are
// stored as-is, except for the engine-managed keys _id, is_favorite, and
// created_at, which callers can never set or overwrite directly.
package content

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/larabeck/atelier/internal/app/store/storeutil"
)

// Errors callers are expected to branch on. Unknown collections and
// malformed ids map to 400 at the API layer.
var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidID         = errors.New("invalid document id")
)

// Collections is the closed set of portfolio collections the engine
// serves. Anything else is rejected, so the admin API can never be used
// to write arbitrary collections.
var Collections = []string{"music", "art", "testimonials", "bookings"}

var allowed = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Collections))
	for _, c := range Collections {
		m[c] = struct{}{}
	}
	return m
}()

// Allowed reports whether name is a known portfolio collection.
func Allowed(name string) bool {
	_, ok := allowed[name]
	return ok
}

// reserved keys are managed by the engine and stripped from caller input.
var reserved = map[string]struct{}{
	"_id":         {},
	"is_favorite": {},
	"created_at":  {},
}

// Store is the generic document engine over one Mongo database.
type Store struct {
	db *mongo.Database
}

// New creates a content Store backed by db.
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) coll(name string) (*mongo.Collection, error) {
	if !Allowed(name) {
		return nil, ErrUnknownCollection
	}
	return s.db.Collection(name), nil
}

// parseID converts a 24-hex-char id into an ObjectID.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// sanitize copies fields without the engine-managed keys. A nil or empty
// input yields an empty map, never nil.
func sanitize(fields bson.M) bson.M {
	out := bson.M{}
	for k, v := range fields {
		if _, managed := reserved[k]; managed {
			continue
		}
		out[k] = v
	}
	return out
}

// List returns documents in the collection, newest first, optionally
// restricted to favorites. The result is never nil.
func (s *Store) List(ctx context.Context, collection string, onlyFavorites bool) ([]bson.M, error) {
	c, err := s.coll(collection)
	if err != nil {
		return nil, err
	}

	filter := bson.M{}
	sort := storeutil.NewestFirst()
	if onlyFavorites {
		filter["is_favorite"] = true
		sort = storeutil.FavoritesFirst()
	}

	cur, err := c.Find(ctx, filter, sort)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := []bson.M{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// GetByID returns one document, or (nil, nil) if no document has that id.
func (s *Store) GetByID(ctx context.Context, collection, id string) (bson.M, error) {
	c, err := s.coll(collection)
	if err != nil {
		return nil, err
	}
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc bson.M
	err = c.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Add inserts a new document. Engine-managed keys in fields are silently
// dropped; the stored document gets a fresh id, is_favorite false, and
// the insertion timestamp. Returns the document as stored.
func (s *Store) Add(ctx context.Context, collection string, fields bson.M) (bson.M, error) {
	c, err := s.coll(collection)
	if err != nil {
		return nil, err
	}

	doc := sanitize(fields)
	doc["_id"] = primitive.NewObjectID()
	doc["is_favorite"] = false
	doc["created_at"] = time.Now().UTC()

	if _, err := c.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Update merges fields into an existing document and returns the updated
// state, or (nil, nil) if no document has that id. Engine-managed keys in
// fields are dropped; an update can therefore never flip is_favorite or
// rewrite timestamps.
func (s *Store) Update(ctx context.Context, collection, id string, fields bson.M) (bson.M, error) {
	c, err := s.coll(collection)
	if err != nil {
		return nil, err
	}
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := sanitize(fields)
	if len(set) == 0 {
		// Nothing to change; report current state.
		return s.GetByID(ctx, collection, id)
	}

	var doc bson.M
	err = c.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// SetFavorite writes the favorite flag to an explicit value and returns
// the updated document, or (nil, nil) if absent. Setting the flag to its
// current value is a no-op that still succeeds.
func (s *Store) SetFavorite(ctx context.Context, collection, id string, favorite bool) (bson.M, error) {
	c, err := s.coll(collection)
	if err != nil {
		return nil, err
	}
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc bson.M
	err = c.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"is_favorite": favorite}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes a document and returns its last stored state, or
// (nil, nil) if no document had that id. Deleting twice is therefore
// safe and the second call reports absence rather than failing.
func (s *Store) Delete(ctx context.Context, collection, id string) (bson.M, error) {
	c, err := s.coll(collection)
	if err != nil {
		return nil, err
	}
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc bson.M
	err = c.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}
