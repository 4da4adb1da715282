// Package blogapi exposes blog posts over JSON.
//
// Public endpoints (mounted at /api/blog):
//   - GET /api/blog            - published posts, newest first
//   - GET /api/blog/featured   - published favorites, capped
//   - GET /api/blog/slug/{slug} - one published post
//
// Admin endpoints:
//   - GET    /api/blog/all           - every post, drafts included
//   - POST   /api/blog               - create (draft unless published requested)
//   - GET    /api/blog/{id}          - fetch any post
//   - PUT    /api/blog/{id}          - partial update
//   - DELETE /api/blog/{id}          - delete, returns prior state
//   - POST   /api/blog/{id}/publish
//   - POST   /api/blog/{id}/unpublish
//   - PATCH  /api/blog/{id}/favorite - set favorite flag
//
// Unpublished posts are invisible on the public endpoints: a draft's
// slug answers 404, exactly as if no such post existed.
package blogapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/larabeck/atelier/internal/app/store/blog"
	"github.com/larabeck/atelier/internal/app/system/htmlsanitize"
	"github.com/larabeck/atelier/internal/app/system/jsonutil"
)

// Handler handles blog requests.
type Handler struct {
	store  *blog.Store
	logger *zap.Logger
}

// NewHandler creates a blogapi handler.
func NewHandler(store *blog.Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// postInput is the create/update request body. Pointer fields
// distinguish "absent" from "set to empty" on update.
type postInput struct {
	Title      *string   `json:"title"`
	Excerpt    *string   `json:"excerpt"`
	Content    *string   `json:"content"`
	CoverImage *string   `json:"cover_image"`
	Tags       *[]string `json:"tags"`
	Published  *bool     `json:"published"`
}

// ListPublishedHandler handles GET /. Only published posts appear.
func (h *Handler) ListPublishedHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListPublished(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "list published")
		return
	}
	jsonutil.OK(w, posts)
}

// ListFeaturedHandler handles GET /featured: published favorites,
// newest first, capped for the landing page.
func (h *Handler) ListFeaturedHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListFeatured(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "list featured")
		return
	}
	jsonutil.OK(w, posts)
}

// GetBySlugHandler handles GET /slug/{slug}. A draft or unpublished
// post answers 404, indistinguishable from a slug that never existed.
func (h *Handler) GetBySlugHandler(w http.ResponseWriter, r *http.Request) {
	sl := chi.URLParam(r, "slug")

	post, err := h.store.GetPublishedBySlug(r.Context(), sl)
	if err != nil {
		h.writeStoreError(w, err, "get by slug")
		return
	}
	if post == nil {
		jsonutil.NotFound(w, "post not found")
		return
	}
	jsonutil.OK(w, post)
}

// ListAllHandler handles GET /all: every post regardless of state.
func (h *Handler) ListAllHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.List(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "list all")
		return
	}
	jsonutil.OK(w, posts)
}

// GetHandler handles GET /{id} for the dashboard; drafts included.
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "get")
		return
	}
	if post == nil {
		jsonutil.NotFound(w, "post not found")
		return
	}
	jsonutil.OK(w, post)
}

// CreateHandler handles POST /. New posts start as unpublished drafts
// unless the body carries "published": true, which publishes
// immediately. HTML in content and excerpt is sanitized before storage.
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var in postInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}
	if in.Title == nil || *in.Title == "" {
		jsonutil.BadRequest(w, "title is required")
		return
	}

	create := blog.CreateInput{Title: *in.Title}
	if in.Excerpt != nil {
		create.Excerpt = htmlsanitize.StripTags(*in.Excerpt)
	}
	if in.Content != nil {
		create.Content = htmlsanitize.Sanitize(*in.Content)
	}
	if in.CoverImage != nil {
		create.CoverImage = *in.CoverImage
	}
	if in.Tags != nil {
		create.Tags = *in.Tags
	}
	if in.Published != nil {
		create.Published = *in.Published
	}

	post, err := h.store.Create(r.Context(), create)
	if err != nil {
		h.writeStoreError(w, err, "create")
		return
	}

	h.logger.Debug("post created",
		zap.String("id", post.ID.Hex()),
		zap.String("slug", post.Slug))

	jsonutil.Created(w, post)
}

// UpdateHandler handles PUT /{id}. Only supplied fields change; a new
// title re-derives the slug.
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	var in postInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}

	update := blog.UpdateInput{
		Title:      in.Title,
		CoverImage: in.CoverImage,
		Tags:       in.Tags,
	}
	if in.Excerpt != nil {
		clean := htmlsanitize.StripTags(*in.Excerpt)
		update.Excerpt = &clean
	}
	if in.Content != nil {
		clean := htmlsanitize.Sanitize(*in.Content)
		update.Content = &clean
	}

	post, err := h.store.Update(r.Context(), id, update)
	if err != nil {
		h.writeStoreError(w, err, "update")
		return
	}
	if post == nil {
		jsonutil.NotFound(w, "post not found")
		return
	}
	jsonutil.OK(w, post)
}

// PublishHandler handles POST /{id}/publish.
func (h *Handler) PublishHandler(w http.ResponseWriter, r *http.Request) {
	h.setState(w, r, "publish", h.store.Publish)
}

// UnpublishHandler handles POST /{id}/unpublish. The draft flag is left
// alone: unpublishing a published post yields Unpublished, not Draft.
func (h *Handler) UnpublishHandler(w http.ResponseWriter, r *http.Request) {
	h.setState(w, r, "unpublish", h.store.Unpublish)
}

// FavoriteHandler handles PATCH /{id}/favorite.
//
// Request body:
//
//	{ "status": true }
func (h *Handler) FavoriteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	var in struct {
		Status bool `json:"status"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}

	post, err := h.store.SetFavorite(r.Context(), id, in.Status)
	if err != nil {
		h.writeStoreError(w, err, "favorite")
		return
	}
	if post == nil {
		jsonutil.NotFound(w, "post not found")
		return
	}
	jsonutil.OK(w, post)
}

// DeleteHandler handles DELETE /{id} and returns the deleted post.
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "delete")
		return
	}
	if post == nil {
		jsonutil.NotFound(w, "post not found")
		return
	}

	h.logger.Debug("post deleted",
		zap.String("id", post.ID.Hex()),
		zap.String("slug", post.Slug))

	jsonutil.OK(w, post)
}

// setState applies a publish-state transition shared by publish and
// unpublish.
func (h *Handler) setState(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, primitive.ObjectID) (*blog.Post, error)) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := fn(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, op)
		return
	}
	if post == nil {
		jsonutil.NotFound(w, "post not found")
		return
	}

	h.logger.Info("post state changed",
		zap.String("op", op),
		zap.String("id", post.ID.Hex()),
		zap.Bool("published", post.Published))

	jsonutil.OK(w, post)
}

// postID parses the {id} route parameter, answering 400 on malformed
// values before any store access.
func (h *Handler) postID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.BadRequest(w, "invalid post id")
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error, op string) {
	h.logger.Error("blog store operation failed",
		zap.String("op", op),
		zap.Error(err))
	jsonutil.InternalError(w, "operation failed")
}
