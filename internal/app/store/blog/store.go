// Package blog persists posts and their publish lifecycle.
//
// A post is created as an unpublished draft, may be published and
// unpublished any number of times, and carries a slug derived from its
// title. Slugs are unique across all posts: when the derived slug is
// taken, a numeric suffix is probed (-1, -2, ...) until a free one is
// found. The public site only ever sees published posts.
package blog

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/larabeck/atelier/internal/app/system/slug"
)

// FeaturedLimit caps the featured listing on the public landing page.
const FeaturedLimit = 4

// Post is a blog entry.
type Post struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Slug       string             `bson:"slug" json:"slug"`
	Excerpt    string             `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Content    string             `bson:"content" json:"content"`
	CoverImage string             `bson:"cover_image,omitempty" json:"cover_image,omitempty"`
	Tags       []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Published  bool               `bson:"published" json:"published"`
	IsDraft    bool               `bson:"is_draft" json:"is_draft"`
	IsFavorite bool               `bson:"is_favorite" json:"is_favorite"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// CreateInput holds the fields for a new post. Content is expected to be
// sanitized before it reaches the store. Published requests immediate
// publication instead of the default draft state.
type CreateInput struct {
	Title      string
	Excerpt    string
	Content    string
	CoverImage string
	Tags       []string
	Published  bool
}

// UpdateInput holds optional updates; nil fields are left unchanged.
// Changing the title re-derives the slug.
type UpdateInput struct {
	Title      *string
	Excerpt    *string
	Content    *string
	CoverImage *string
	Tags       *[]string
}

// Store provides post persistence.
type Store struct {
	c *mongo.Collection
}

// New creates a blog Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("blogs")}
}

// uniqueSlug derives a slug from title and probes numeric suffixes until
// no other post holds it. excludeID skips the post being renamed, so an
// unchanged title keeps its slug instead of gaining a pointless suffix.
func (s *Store) uniqueSlug(ctx context.Context, title string, excludeID primitive.ObjectID) (string, error) {
	base := slug.Make(title)
	candidate := base
	for n := 1; ; n++ {
		filter := bson.M{"slug": candidate}
		if excludeID != primitive.NilObjectID {
			filter["_id"] = bson.M{"$ne": excludeID}
		}
		count, err := s.c.CountDocuments(ctx, filter)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = slug.WithSuffix(base, n)
	}
}

// Create inserts a new post, an unpublished draft unless in.Published
// asks for immediate publication. Concurrent creates with the same title
// can race past the probe; the unique index catches that and the slug is
// re-derived.
func (s *Store) Create(ctx context.Context, in CreateInput) (*Post, error) {
	now := time.Now().UTC()
	post := &Post{
		ID:         primitive.NewObjectID(),
		Title:      in.Title,
		Excerpt:    in.Excerpt,
		Content:    in.Content,
		CoverImage: in.CoverImage,
		Tags:       in.Tags,
		Published:  in.Published,
		IsDraft:    !in.Published,
		IsFavorite: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	for attempt := 0; attempt < 3; attempt++ {
		sl, err := s.uniqueSlug(ctx, in.Title, primitive.NilObjectID)
		if err != nil {
			return nil, err
		}
		post.Slug = sl

		_, err = s.c.InsertOne(ctx, post)
		if err == nil {
			return post, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, err
		}
	}
	return nil, errors.New("blog: could not derive a unique slug")
}

// Update applies partial changes and returns the updated post, or
// (nil, nil) if no post has that id.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*Post, error) {
	set := bson.M{"updated_at": time.Now().UTC()}

	if in.Title != nil {
		sl, err := s.uniqueSlug(ctx, *in.Title, id)
		if err != nil {
			return nil, err
		}
		set["title"] = *in.Title
		set["slug"] = sl
	}
	if in.Excerpt != nil {
		set["excerpt"] = *in.Excerpt
	}
	if in.Content != nil {
		set["content"] = *in.Content
	}
	if in.CoverImage != nil {
		set["cover_image"] = *in.CoverImage
	}
	if in.Tags != nil {
		set["tags"] = *in.Tags
	}

	return s.findOneAndSet(ctx, id, set)
}

// Publish makes a post publicly visible and clears its draft flag.
// Publishing an already published post is a no-op that succeeds.
func (s *Store) Publish(ctx context.Context, id primitive.ObjectID) (*Post, error) {
	return s.findOneAndSet(ctx, id, bson.M{
		"published":  true,
		"is_draft":   false,
		"updated_at": time.Now().UTC(),
	})
}

// Unpublish removes a post from public view. Only the published flag is
// cleared; the draft flag keeps whatever history it had, so unpublishing
// does not turn a once-published post back into a draft.
func (s *Store) Unpublish(ctx context.Context, id primitive.ObjectID) (*Post, error) {
	return s.findOneAndSet(ctx, id, bson.M{
		"published":  false,
		"updated_at": time.Now().UTC(),
	})
}

// SetFavorite writes the favorite flag to an explicit value.
func (s *Store) SetFavorite(ctx context.Context, id primitive.ObjectID, favorite bool) (*Post, error) {
	return s.findOneAndSet(ctx, id, bson.M{
		"is_favorite": favorite,
		"updated_at":  time.Now().UTC(),
	})
}

func (s *Store) findOneAndSet(ctx context.Context, id primitive.ObjectID, set bson.M) (*Post, error) {
	var post Post
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetByID returns a post regardless of publish state, or (nil, nil).
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*Post, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetBySlug returns a post by slug regardless of publish state.
func (s *Store) GetBySlug(ctx context.Context, sl string) (*Post, error) {
	return s.findOne(ctx, bson.M{"slug": sl})
}

// GetPublishedBySlug returns a publicly visible post by slug. A draft or
// unpublished post is reported as absent, indistinguishable from one
// that never existed.
func (s *Store) GetPublishedBySlug(ctx context.Context, sl string) (*Post, error) {
	return s.findOne(ctx, bson.M{"slug": sl, "published": true, "is_draft": false})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*Post, error) {
	var post Post
	err := s.c.FindOne(ctx, filter).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns every post, newest first. Admin only.
func (s *Store) List(ctx context.Context) ([]Post, error) {
	return s.find(ctx, bson.M{}, nil)
}

// ListPublished returns publicly visible posts, newest first.
func (s *Store) ListPublished(ctx context.Context) ([]Post, error) {
	return s.find(ctx, bson.M{"published": true, "is_draft": false}, nil)
}

// ListFeatured returns up to FeaturedLimit publicly visible favorites,
// newest first.
func (s *Store) ListFeatured(ctx context.Context) ([]Post, error) {
	limit := int64(FeaturedLimit)
	return s.find(ctx, bson.M{"published": true, "is_draft": false, "is_favorite": true}, &limit)
}

func (s *Store) find(ctx context.Context, filter bson.M, limit *int64) ([]Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit != nil {
		opts.SetLimit(*limit)
	}

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	posts := []Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Delete removes a post and returns its last state, or (nil, nil) if no
// post had that id.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (*Post, error) {
	var post Post
	err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}
