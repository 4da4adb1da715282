package uploadapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/larabeck/atelier/internal/app/system/auth"
)

// Routes returns a router with the upload endpoint, admin only.
func Routes(h *Handler, sessions *auth.SessionManager) http.Handler {
	r := chi.NewRouter()

	r.With(sessions.RequireAdmin).Post("/", h.UploadHandler)

	return r
}
