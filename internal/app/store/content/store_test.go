package content

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/larabeck/atelier/internal/testutil"
)

func TestAllowed(t *testing.T) {
	for _, name := range Collections {
		if !Allowed(name) {
			t.Errorf("Allowed(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"", "users", "blogs", "Music", "music "} {
		if Allowed(name) {
			t.Errorf("Allowed(%q) = true, want false", name)
		}
	}
}

func TestAddDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	doc, err := store.Add(ctx, "music", bson.M{
		"title": "Night Drive",
		"album": "City Lights",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, ok := doc["_id"].(primitive.ObjectID); !ok {
		t.Errorf("_id = %T, want ObjectID", doc["_id"])
	}
	if fav, _ := doc["is_favorite"].(bool); fav {
		t.Error("new document is_favorite = true, want false")
	}
	if doc["created_at"] == nil {
		t.Error("created_at not set")
	}
	if doc["title"] != "Night Drive" {
		t.Errorf("title = %v, want Night Drive", doc["title"])
	}
}

func TestAddStripsManagedKeys(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	forged := primitive.NewObjectID()
	doc, err := store.Add(ctx, "art", bson.M{
		"title":       "Untitled",
		"_id":         forged,
		"is_favorite": true,
		"created_at":  "yesterday",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if doc["_id"] == forged {
		t.Error("caller-supplied _id was honored")
	}
	if fav, _ := doc["is_favorite"].(bool); fav {
		t.Error("caller-supplied is_favorite was honored")
	}
	if doc["created_at"] == "yesterday" {
		t.Error("caller-supplied created_at was honored")
	}
}

func TestUnknownCollection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	if _, err := store.List(ctx, "users", false); err != ErrUnknownCollection {
		t.Errorf("List error = %v, want ErrUnknownCollection", err)
	}
	if _, err := store.Add(ctx, "secrets", bson.M{"x": 1}); err != ErrUnknownCollection {
		t.Errorf("Add error = %v, want ErrUnknownCollection", err)
	}
	if _, err := store.Delete(ctx, "blogs", primitive.NewObjectID().Hex()); err != ErrUnknownCollection {
		t.Errorf("Delete error = %v, want ErrUnknownCollection", err)
	}
}

func TestInvalidID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	for _, id := range []string{"", "not-hex", "12345", "ZZZZZZZZZZZZZZZZZZZZZZZZ"} {
		if _, err := store.GetByID(ctx, "music", id); err != ErrInvalidID {
			t.Errorf("GetByID(%q) error = %v, want ErrInvalidID", id, err)
		}
	}
}

func TestGetByIDAbsent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	doc, err := store.GetByID(ctx, "music", primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc != nil {
		t.Errorf("doc = %v, want nil for absent id", doc)
	}
}

func TestUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	doc, err := store.Add(ctx, "testimonials", bson.M{
		"author": "A. Client",
		"quote":  "Wonderful show",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	id := doc["_id"].(primitive.ObjectID).Hex()

	updated, err := store.Update(ctx, "testimonials", id, bson.M{
		"quote":       "Unforgettable show",
		"is_favorite": true, // must be dropped
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated["quote"] != "Unforgettable show" {
		t.Errorf("quote = %v, want updated value", updated["quote"])
	}
	if updated["author"] != "A. Client" {
		t.Errorf("author = %v, untouched field changed", updated["author"])
	}
	if fav, _ := updated["is_favorite"].(bool); fav {
		t.Error("Update flipped is_favorite")
	}

	absent, err := store.Update(ctx, "testimonials", primitive.NewObjectID().Hex(), bson.M{"quote": "x"})
	if err != nil {
		t.Fatalf("Update absent: %v", err)
	}
	if absent != nil {
		t.Errorf("Update absent = %v, want nil", absent)
	}
}

func TestSetFavorite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	doc, err := store.Add(ctx, "art", bson.M{"title": "Blue Study"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	id := doc["_id"].(primitive.ObjectID).Hex()

	// Setting the same value twice is idempotent.
	for i := 0; i < 2; i++ {
		got, err := store.SetFavorite(ctx, "art", id, true)
		if err != nil {
			t.Fatalf("SetFavorite #%d: %v", i, err)
		}
		if fav, _ := got["is_favorite"].(bool); !fav {
			t.Fatalf("SetFavorite #%d: is_favorite = false, want true", i)
		}
	}

	got, err := store.SetFavorite(ctx, "art", id, false)
	if err != nil {
		t.Fatalf("SetFavorite off: %v", err)
	}
	if fav, _ := got["is_favorite"].(bool); fav {
		t.Error("is_favorite = true after clearing")
	}

	absent, err := store.SetFavorite(ctx, "art", primitive.NewObjectID().Hex(), true)
	if err != nil {
		t.Fatalf("SetFavorite absent: %v", err)
	}
	if absent != nil {
		t.Errorf("SetFavorite absent = %v, want nil", absent)
	}
}

func TestDeleteReturnsPriorState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	doc, err := store.Add(ctx, "music", bson.M{"title": "Departure"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	id := doc["_id"].(primitive.ObjectID).Hex()

	deleted, err := store.Delete(ctx, "music", id)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted == nil || deleted["title"] != "Departure" {
		t.Errorf("Delete returned %v, want prior document", deleted)
	}

	// Second delete reports absence, not failure.
	again, err := store.Delete(ctx, "music", id)
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if again != nil {
		t.Errorf("second Delete = %v, want nil", again)
	}
}

func TestListOrdering(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	first, err := store.Add(ctx, "music", bson.M{"title": "first"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := store.Add(ctx, "music", bson.M{"title": "second"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := store.SetFavorite(ctx, "music", first["_id"].(primitive.ObjectID).Hex(), true); err != nil {
		t.Fatalf("SetFavorite: %v", err)
	}

	docs, err := store.List(ctx, "music", false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("len = %d, want 2", len(docs))
	}
	if docs[0]["title"] != "second" {
		t.Errorf("first listed = %v, want the newest", docs[0]["title"])
	}

	favs, err := store.List(ctx, "music", true)
	if err != nil {
		t.Fatalf("List favorites: %v", err)
	}
	if len(favs) != 1 || favs[0]["title"] != "first" {
		t.Errorf("favorites = %v, want just the favorite", favs)
	}

	// Collections are isolated.
	artDocs, err := store.List(ctx, "art", false)
	if err != nil {
		t.Fatalf("List art: %v", err)
	}
	if len(artDocs) != 0 {
		t.Errorf("art has %d docs, want 0", len(artDocs))
	}
}
