// Package bookingapi accepts booking requests from the public contact
// form and lists them for the dashboard.
//
// Endpoints (mounted at /api/bookings):
//   - POST /api/bookings      - submit a request (public)
//   - GET  /api/bookings      - list requests (admin)
//   - GET  /api/bookings/{id} - fetch one request (admin)
//
// A successful submission notifies the site owner by email and Web
// Push after the response is sent; notification failures never surface
// to the submitter.
package bookingapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/larabeck/atelier/internal/app/store/booking"
	"github.com/larabeck/atelier/internal/app/system/jsonutil"
	"github.com/larabeck/atelier/internal/app/system/notify"
)

// Handler handles booking requests.
type Handler struct {
	store    *booking.Store
	notifier *notify.Notifier // nil disables notifications
	logger   *zap.Logger
}

// NewHandler creates a bookingapi handler. notifier may be nil.
func NewHandler(store *booking.Store, notifier *notify.Notifier, logger *zap.Logger) *Handler {
	return &Handler{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateHandler handles POST /.
//
// Request body:
//
//	{
//	    "name": "...",
//	    "email": "...",
//	    "phone": "+1 555 0100",       // optional
//	    "interest": "commission",     // optional
//	    "event_date": "2026-09-12",   // optional
//	    "event_type": "wedding",      // optional
//	    "message": "..."
//	}
//
// The request is stored as pending and answered 201 before any
// notification work happens.
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		Interest  string `json:"interest"`
		EventDate string `json:"event_date"`
		EventType string `json:"event_type"`
		Message   string `json:"message"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" {
		jsonutil.BadRequest(w, "name and email are required")
		return
	}
	if !strings.Contains(in.Email, "@") {
		jsonutil.BadRequest(w, "invalid email address")
		return
	}

	b, err := h.store.Create(r.Context(), booking.CreateInput{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     strings.TrimSpace(in.Phone),
		Interest:  in.Interest,
		EventDate: in.EventDate,
		EventType: in.EventType,
		Message:   in.Message,
	})
	if err != nil {
		h.logger.Error("failed to create booking", zap.Error(err))
		jsonutil.InternalError(w, "failed to save booking request")
		return
	}

	h.logger.Info("booking request received",
		zap.String("id", b.ID.Hex()),
		zap.String("event_type", b.EventType))

	if h.notifier != nil {
		h.notifier.BookingCreated(b)
	}

	jsonutil.Created(w, b)
}

// GetHandler handles GET /{id} for the dashboard.
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.BadRequest(w, "invalid booking id")
		return
	}

	b, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load booking", zap.Error(err))
		jsonutil.InternalError(w, "failed to load booking")
		return
	}
	if b == nil {
		jsonutil.NotFound(w, "booking not found")
		return
	}
	jsonutil.OK(w, b)
}

// ListHandler handles GET / for the dashboard, newest first.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list bookings", zap.Error(err))
		jsonutil.InternalError(w, "failed to list bookings")
		return
	}
	jsonutil.OK(w, bookings)
}
