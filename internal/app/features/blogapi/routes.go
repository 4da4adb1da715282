package blogapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/larabeck/atelier/internal/app/system/auth"
)

// Routes returns a router with the blog endpoints. The public site only
// gets the published surface; everything else requires the admin
// session.
func Routes(h *Handler, sessions *auth.SessionManager) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListPublishedHandler)
	r.Get("/featured", h.ListFeaturedHandler)
	r.Get("/slug/{slug}", h.GetBySlugHandler)

	r.Group(func(ar chi.Router) {
		ar.Use(sessions.RequireAdmin)
		ar.Get("/all", h.ListAllHandler)
		ar.Post("/", h.CreateHandler)
		ar.Get("/{id}", h.GetHandler)
		ar.Put("/{id}", h.UpdateHandler)
		ar.Delete("/{id}", h.DeleteHandler)
		ar.Post("/{id}/publish", h.PublishHandler)
		ar.Post("/{id}/unpublish", h.UnpublishHandler)
		ar.Patch("/{id}/favorite", h.FavoriteHandler)
	})

	return r
}
