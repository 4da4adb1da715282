package contentapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/larabeck/atelier/internal/app/system/auth"
)

// Routes returns a router with the portfolio collection endpoints.
// Reads are public; every mutation requires the admin session.
func Routes(h *Handler, sessions *auth.SessionManager) http.Handler {
	r := chi.NewRouter()

	r.Get("/{collection}", h.ListHandler)
	r.Get("/{collection}/{id}", h.GetHandler)

	r.Group(func(ar chi.Router) {
		ar.Use(sessions.RequireAdmin)
		ar.Post("/{collection}", h.AddHandler)
		ar.Put("/{collection}/{id}", h.UpdateHandler)
		ar.Patch("/manage", h.FavoriteHandler)
		ar.Delete("/manage", h.DeleteHandler)
	})

	return r
}
