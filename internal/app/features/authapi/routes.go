package authapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the authentication endpoints.
//
// When mounted at /api/auth:
//   - POST /api/auth/login  - password login
//   - POST /api/auth/logout - end session
//   - GET  /api/auth/verify - session status
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/login", h.LoginHandler)
	r.Post("/logout", h.LogoutHandler)
	r.Get("/verify", h.VerifyHandler)

	return r
}
