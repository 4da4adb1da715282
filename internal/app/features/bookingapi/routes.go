package bookingapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/larabeck/atelier/internal/app/system/auth"
)

// Routes returns a router with the booking endpoints. Submission is
// public; reading requires the admin session.
func Routes(h *Handler, sessions *auth.SessionManager) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.CreateHandler)
	r.With(sessions.RequireAdmin).Get("/", h.ListHandler)
	r.With(sessions.RequireAdmin).Get("/{id}", h.GetHandler)

	return r
}
