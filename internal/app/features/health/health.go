// Package health answers liveness and readiness probes for load
// balancers and orchestrators. Readiness depends on MongoDB; liveness
// only proves the process is serving.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/larabeck/atelier/internal/app/system/jsonutil"
)

// pingTimeout bounds the MongoDB ping so a stuck database cannot hang
// a probe past the orchestrator's own deadline.
const pingTimeout = 5 * time.Second

// Handler answers health probes.
type Handler struct {
	service     string
	mongoClient *mongo.Client
	logger      *zap.Logger
}

// NewHandler creates a health Handler. service names the instance in
// the full check response.
func NewHandler(service string, mongoClient *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{
		service:     service,
		mongoClient: mongoClient,
		logger:      logger,
	}
}

// Response is the body of the full health check.
type Response struct {
	Service  string            `json:"service"`
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// Routes returns a router with /, /ready, and /live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountRootEndpoints adds the probe paths Kubernetes conventionally
// hits at the root: /ready, /readyz, and /livez.
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

// Check reports overall status with per-dependency detail. A degraded
// instance answers 503 so load balancers rotate it out.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	resp := Response{
		Service:  h.service,
		Status:   "ok",
		Services: map[string]string{"mongodb": "ok"},
	}

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		h.logger.Warn("health check: mongodb ping failed", zap.Error(err))
		resp.Status = "degraded"
		resp.Services["mongodb"] = "unavailable"
		jsonutil.JSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	jsonutil.OK(w, resp)
}

// Ready reports whether the service can take traffic.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		jsonutil.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}

	jsonutil.OK(w, map[string]string{"status": "ready"})
}

// Live reports that the process is serving requests.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, map[string]string{"status": "alive"})
}
