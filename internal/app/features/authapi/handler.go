// Package authapi provides the admin authentication endpoints.
//
// Endpoints:
//   - POST /login  - password login, issues the admin session + token
//   - POST /logout - terminates the session
//   - GET  /verify - reports the session status without mutating it
//
// Login is rate limited per client IP when a rate limit store is
// configured; lockouts answer 429.
package authapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/larabeck/atelier/internal/app/store/ratelimit"
	"github.com/larabeck/atelier/internal/app/system/auth"
	"github.com/larabeck/atelier/internal/app/system/jsonutil"
	"github.com/larabeck/atelier/internal/app/system/network"
	"go.uber.org/zap"
)

// Handler handles admin authentication requests.
type Handler struct {
	sessions *auth.SessionManager
	password auth.PasswordChecker
	limiter  *ratelimit.Store // nil if rate limiting disabled
	logger   *zap.Logger
}

// NewHandler creates an authapi handler. limiter may be nil.
func NewHandler(sessions *auth.SessionManager, password auth.PasswordChecker, limiter *ratelimit.Store, logger *zap.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		password: password,
		limiter:  limiter,
		logger:   logger,
	}
}

// LoginHandler handles POST /login.
//
// Request body:
//
//	{ "password": "..." }
//
// Response (200 OK):
//
//	{ "authenticated": true, "token": "<64 hex chars>" }
//
// A wrong password answers 401 without setting a cookie. A locked-out
// client answers 429.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}
	if in.Password == "" {
		jsonutil.BadRequest(w, "password is required")
		return
	}

	clientKey := network.GetClientIP(r)

	if h.limiter != nil {
		allowed, _, lockedUntil := h.limiter.CheckAllowed(r.Context(), clientKey)
		if !allowed {
			h.logger.Warn("login rate limited",
				zap.String("client", clientKey))
			jsonutil.TooManyRequests(w, lockoutMessage(lockedUntil))
			return
		}
	}

	if !h.password.Check(in.Password) {
		if h.limiter != nil {
			lockedOut, lockedUntil := h.limiter.RecordFailure(r.Context(), clientKey)
			if lockedOut {
				h.logger.Warn("login locked out",
					zap.String("client", clientKey))
				jsonutil.TooManyRequests(w, lockoutMessage(lockedUntil))
				return
			}
		}
		h.logger.Info("login failed",
			zap.String("client", clientKey))
		jsonutil.Unauthorized(w, "invalid password")
		return
	}

	if h.limiter != nil {
		_ = h.limiter.ClearOnSuccess(r.Context(), clientKey)
	}

	token, err := h.sessions.Issue(w, r)
	if err != nil {
		h.logger.Error("failed to issue session", zap.Error(err))
		jsonutil.InternalError(w, "failed to establish session")
		return
	}

	h.logger.Info("admin logged in",
		zap.String("client", clientKey))

	jsonutil.OK(w, map[string]any{
		"authenticated": true,
		"token":         token,
	})
}

// LogoutHandler handles POST /logout. Always answers 200, whether or
// not a session existed.
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(w, r)
	jsonutil.OK(w, map[string]any{"authenticated": false})
}

// VerifyHandler handles GET /verify. It reports the current session
// status without side effects; checking an expired session any number
// of times keeps answering the same way.
func (h *Handler) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, h.sessions.Verify(r))
}

// lockoutMessage renders the time remaining on a lockout, if known.
func lockoutMessage(lockedUntil *time.Time) string {
	if lockedUntil == nil {
		return "too many failed login attempts; try again later"
	}
	remaining := time.Until(*lockedUntil)
	if remaining > time.Minute {
		return fmt.Sprintf("too many failed login attempts; try again in %d minute(s)", int(remaining.Minutes())+1)
	}
	return fmt.Sprintf("too many failed login attempts; try again in %d second(s)", int(remaining.Seconds())+1)
}
