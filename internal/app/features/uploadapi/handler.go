// Package uploadapi stores files uploaded from the dashboard (cover
// images, artwork scans, audio snippets) and hands back a public URL.
//
// Endpoints (mounted at /api/uploads):
//   - POST /api/uploads - multipart upload, "file" field (admin)
package uploadapi

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/larabeck/atelier/internal/app/system/jsonutil"
)

// maxUploadSize caps a single upload at 32MB.
const maxUploadSize = 32 << 20

// Handler handles file uploads.
type Handler struct {
	fileStorage storage.Store
	logger      *zap.Logger
}

// NewHandler creates an uploadapi handler.
func NewHandler(fileStorage storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		fileStorage: fileStorage,
		logger:      logger,
	}
}

// UploadHandler handles POST /.
//
// Response (201 Created):
//
//	{
//	    "url": "/uploads/2026/08/1a2b3c4d.png",
//	    "path": "uploads/2026/08/1a2b3c4d.png",
//	    "name": "cover.png",
//	    "size": 48213,
//	    "content_type": "image/png"
//	}
func (h *Handler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		jsonutil.BadRequest(w, "file too large (max 32MB)")
		return
	}

	uploadedFile, header, err := r.FormFile("file")
	if err != nil {
		jsonutil.BadRequest(w, "missing file field")
		return
	}
	defer uploadedFile.Close()

	// Storage path: uploads/YYYY/MM/uuid-fragment + original extension
	now := time.Now().UTC()
	ext := filepath.Ext(header.Filename)
	uniqueName := uuid.New().String()[:8] + ext
	storagePath := fmt.Sprintf("uploads/%04d/%02d/%s", now.Year(), int(now.Month()), uniqueName)

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	opts := &storage.PutOptions{ContentType: contentType}
	if err := h.fileStorage.Put(r.Context(), storagePath, uploadedFile, opts); err != nil {
		h.logger.Error("failed to store upload",
			zap.String("path", storagePath),
			zap.Error(err))
		jsonutil.InternalError(w, "failed to store file")
		return
	}

	h.logger.Info("file uploaded",
		zap.String("path", storagePath),
		zap.String("name", header.Filename),
		zap.Int64("size", header.Size))

	jsonutil.Created(w, map[string]any{
		"url":          h.fileStorage.URL(storagePath),
		"path":         storagePath,
		"name":         header.Filename,
		"size":         header.Size,
		"content_type": contentType,
	})
}
