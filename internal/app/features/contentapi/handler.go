// Package contentapi exposes the portfolio collections (music, art,
// testimonials, bookings) over a uniform JSON API.
//
// Endpoints (mounted at /api):
//   - GET    /api/{collection}        - list, newest first (?favorites=true)
//   - GET    /api/{collection}/{id}   - fetch one document
//   - POST   /api/{collection}        - create (admin)
//   - PUT    /api/{collection}/{id}   - merge-update (admin)
//   - PATCH  /api/manage              - set favorite flag (admin)
//   - DELETE /api/manage              - delete, returns prior state (admin)
//
// Unknown collections and malformed ids answer 400; a well-formed id
// with no document answers 404.
package contentapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/larabeck/atelier/internal/app/store/content"
	"github.com/larabeck/atelier/internal/app/system/jsonutil"
	"github.com/larabeck/atelier/internal/app/system/notify"
)

// Handler handles portfolio collection requests.
type Handler struct {
	store    *content.Store
	notifier *notify.Notifier // nil disables creation announcements
	logger   *zap.Logger
}

// NewHandler creates a contentapi handler. notifier may be nil.
func NewHandler(store *content.Store, notifier *notify.Notifier, logger *zap.Logger) *Handler {
	return &Handler{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// ListHandler handles GET /{collection}. Pass ?favorites=true to
// restrict the result to favorites.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	onlyFavorites := r.URL.Query().Get("favorites") == "true"

	docs, err := h.store.List(r.Context(), collection, onlyFavorites)
	if err != nil {
		h.writeStoreError(w, r, err, "list", collection)
		return
	}

	out := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		out = append(out, renderDoc(doc))
	}
	jsonutil.OK(w, out)
}

// GetHandler handles GET /{collection}/{id}.
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	doc, err := h.store.GetByID(r.Context(), collection, id)
	if err != nil {
		h.writeStoreError(w, r, err, "get", collection)
		return
	}
	if doc == nil {
		jsonutil.NotFound(w, "document not found")
		return
	}
	jsonutil.OK(w, renderDoc(doc))
}

// AddHandler handles POST /{collection}. The body is stored as-is apart
// from the engine-managed keys. New art entries are announced over push.
func (h *Handler) AddHandler(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	var fields bson.M
	if err := jsonutil.Decode(r, &fields); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}

	doc, err := h.store.Add(r.Context(), collection, fields)
	if err != nil {
		h.writeStoreError(w, r, err, "add", collection)
		return
	}

	h.logger.Debug("document created",
		zap.String("collection", collection),
		zap.String("id", docID(doc)))

	if h.notifier != nil && collection == "art" {
		title, _ := doc["title"].(string)
		h.notifier.ContentCreated(collection, title)
	}

	jsonutil.Created(w, renderDoc(doc))
}

// UpdateHandler handles PUT /{collection}/{id}. Supplied fields are
// merged into the document; omitted fields keep their stored values.
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	var fields bson.M
	if err := jsonutil.Decode(r, &fields); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}

	doc, err := h.store.Update(r.Context(), collection, id, fields)
	if err != nil {
		h.writeStoreError(w, r, err, "update", collection)
		return
	}
	if doc == nil {
		jsonutil.NotFound(w, "document not found")
		return
	}
	jsonutil.OK(w, renderDoc(doc))
}

// FavoriteHandler handles PATCH /manage.
//
// Request body:
//
//	{ "collection": "music", "id": "<24 hex>", "status": true }
//
// The favorite flag is set to exactly the supplied status; sending the
// current value again succeeds without changing anything.
func (h *Handler) FavoriteHandler(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Collection string `json:"collection"`
		ID         string `json:"id"`
		Status     bool   `json:"status"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}

	doc, err := h.store.SetFavorite(r.Context(), in.Collection, in.ID, in.Status)
	if err != nil {
		h.writeStoreError(w, r, err, "favorite", in.Collection)
		return
	}
	if doc == nil {
		jsonutil.NotFound(w, "document not found")
		return
	}
	jsonutil.OK(w, renderDoc(doc))
}

// DeleteHandler handles DELETE /manage?collection=music&id=<24 hex>.
// The response carries the document's last stored state; deleting an
// already-deleted document answers 404.
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	collection := r.URL.Query().Get("collection")
	id := r.URL.Query().Get("id")

	doc, err := h.store.Delete(r.Context(), collection, id)
	if err != nil {
		h.writeStoreError(w, r, err, "delete", collection)
		return
	}
	if doc == nil {
		jsonutil.NotFound(w, "document not found")
		return
	}

	h.logger.Debug("document deleted",
		zap.String("collection", collection),
		zap.String("id", id))

	jsonutil.OK(w, renderDoc(doc))
}

// writeStoreError maps engine errors onto the API taxonomy.
func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error, op, collection string) {
	switch {
	case errors.Is(err, content.ErrUnknownCollection):
		jsonutil.BadRequest(w, "unknown collection")
	case errors.Is(err, content.ErrInvalidID):
		jsonutil.BadRequest(w, "invalid document id")
	default:
		h.logger.Error("content store operation failed",
			zap.String("op", op),
			zap.String("collection", collection),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		jsonutil.InternalError(w, "operation failed")
	}
}

// renderDoc shapes a stored document for JSON: _id becomes a hex "id"
// and Mongo datetimes become time values.
func renderDoc(doc bson.M) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		if dt, ok := v.(primitive.DateTime); ok {
			out[k] = dt.Time().UTC()
			continue
		}
		out[k] = v
	}
	out["id"] = docID(doc)
	return out
}

func docID(doc bson.M) string {
	if oid, ok := doc["_id"].(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}
