package pushapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the push subscription endpoints. The
// subscribe/unsubscribe handlers gate themselves on the session plus
// the admin token header; cleanup needs the plain admin session.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/key", h.KeyHandler)
	r.Post("/subscribe", h.SubscribeHandler)
	r.Delete("/subscribe", h.UnsubscribeHandler)
	r.With(h.sessions.RequireAdmin).Post("/cleanup", h.CleanupHandler)

	return r
}
