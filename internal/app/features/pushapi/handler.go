// Package pushapi manages Web Push subscriptions for the admin
// dashboard.
//
// Endpoints (mounted at /api/push):
//   - GET    /api/push/key       - VAPID public key (public)
//   - POST   /api/push/subscribe - register a browser subscription
//   - DELETE /api/push/subscribe - remove a subscription by endpoint
//   - POST   /api/push/cleanup   - purge long-inactive subscriptions (admin)
//
// Registering and removing a subscription require both the admin
// session and a well-formed admin token header; subscriptions push
// straight to the owner's devices, so the bar is higher than for
// ordinary dashboard calls.
package pushapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/larabeck/atelier/internal/app/store/pushsub"
	"github.com/larabeck/atelier/internal/app/system/auth"
	"github.com/larabeck/atelier/internal/app/system/jsonutil"
)

// Handler handles push subscription requests.
type Handler struct {
	subs           *pushsub.Store
	sessions       *auth.SessionManager
	vapidPublicKey string
	maxIdle        time.Duration
	logger         *zap.Logger
}

// NewHandler creates a pushapi handler. maxIdle zero falls back to the
// store default.
func NewHandler(subs *pushsub.Store, sessions *auth.SessionManager, vapidPublicKey string, maxIdle time.Duration, logger *zap.Logger) *Handler {
	if maxIdle <= 0 {
		maxIdle = pushsub.DefaultMaxIdle
	}
	return &Handler{
		subs:           subs,
		sessions:       sessions,
		vapidPublicKey: vapidPublicKey,
		maxIdle:        maxIdle,
		logger:         logger,
	}
}

// KeyHandler handles GET /key. Answers 404 when push is not configured
// so the dashboard can skip registration cleanly.
func (h *Handler) KeyHandler(w http.ResponseWriter, r *http.Request) {
	if h.vapidPublicKey == "" {
		jsonutil.NotFound(w, "push notifications not configured")
		return
	}
	jsonutil.OK(w, map[string]string{"key": h.vapidPublicKey})
}

// SubscribeHandler handles POST /subscribe.
//
// Request body (browser PushSubscription shape):
//
//	{
//	    "endpoint": "https://fcm.googleapis.com/...",
//	    "keys": { "p256dh": "...", "auth": "..." }
//	}
//
// Re-registering a known endpoint refreshes it rather than duplicating.
func (h *Handler) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.AuthorizePrivileged(r) {
		jsonutil.Unauthorized(w, "unauthorized")
		return
	}

	var sub pushsub.Subscription
	if err := jsonutil.Decode(r, &sub); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}
	if sub.Endpoint == "" || sub.Keys.P256dh == "" || sub.Keys.Auth == "" {
		jsonutil.BadRequest(w, "endpoint and keys are required")
		return
	}

	if err := h.subs.Save(r.Context(), sub, r.UserAgent()); err != nil {
		h.logger.Error("failed to save push subscription", zap.Error(err))
		jsonutil.InternalError(w, "failed to save subscription")
		return
	}

	h.logger.Info("push subscription registered",
		zap.String("endpoint", sub.Endpoint))

	jsonutil.Created(w, map[string]bool{"subscribed": true})
}

// UnsubscribeHandler handles DELETE /subscribe.
//
// Request body:
//
//	{ "endpoint": "https://fcm.googleapis.com/..." }
//
// Removing an unknown endpoint still answers 200.
func (h *Handler) UnsubscribeHandler(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.AuthorizePrivileged(r) {
		jsonutil.Unauthorized(w, "unauthorized")
		return
	}

	var in struct {
		Endpoint string `json:"endpoint"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}
	if in.Endpoint == "" {
		jsonutil.BadRequest(w, "endpoint is required")
		return
	}

	if err := h.subs.DeleteByEndpoint(r.Context(), in.Endpoint); err != nil {
		h.logger.Error("failed to delete push subscription", zap.Error(err))
		jsonutil.InternalError(w, "failed to delete subscription")
		return
	}
	jsonutil.OK(w, map[string]bool{"subscribed": false})
}

// CleanupHandler handles POST /cleanup: removes subscriptions idle past
// the configured window and reports how many were dropped. Cleanup is a
// deliberate maintenance action, never an automatic side effect of
// other requests.
func (h *Handler) CleanupHandler(w http.ResponseWriter, r *http.Request) {
	removed, err := h.subs.DeleteInactive(r.Context(), h.maxIdle)
	if err != nil {
		h.logger.Error("push subscription cleanup failed", zap.Error(err))
		jsonutil.InternalError(w, "cleanup failed")
		return
	}

	h.logger.Info("push subscription cleanup",
		zap.Int64("removed", removed))

	jsonutil.OK(w, map[string]int64{"removed": removed})
}
