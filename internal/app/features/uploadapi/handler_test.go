package uploadapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"

	"github.com/larabeck/atelier/internal/app/system/auth"
)

const testSessionKey = "0123456789abcdef0123456789abcdef"

func newTestRouter(t *testing.T) (http.Handler, []*http.Cookie, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.NewLocal(storage.LocalConfig{
		BasePath: dir,
		BaseURL:  "/uploads",
	})
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	sm, err := auth.NewSessionManager(testSessionKey, "", "", 0, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	router := Routes(NewHandler(store, zap.NewNop()), sm)

	rec := httptest.NewRecorder()
	if _, err := sm.Issue(rec, httptest.NewRequest(http.MethodPost, "/login", nil)); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return router, rec.Result().Cookies(), dir
}

func multipartUpload(t *testing.T, fieldName, fileName, contents string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(fieldName, fileName)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte(contents)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUploadHandler(t *testing.T) {
	router, cookies, dir := newTestRouter(t)

	body, contentType := multipartUpload(t, "file", "cover.png", "fake image bytes")
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp struct {
		URL  string `json:"url"`
		Path string `json:"path"`
		Name string `json:"name"`
		Size int64  `json:"size"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !strings.HasPrefix(resp.URL, "/uploads/") {
		t.Errorf("url = %q, want /uploads/ prefix", resp.URL)
	}
	if !strings.HasSuffix(resp.Path, ".png") {
		t.Errorf("path = %q, want original extension kept", resp.Path)
	}
	if resp.Name != "cover.png" {
		t.Errorf("name = %q, want %q", resp.Name, "cover.png")
	}

	// The bytes actually landed on disk.
	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(resp.Path)))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(stored) != "fake image bytes" {
		t.Errorf("stored contents = %q, want original bytes", stored)
	}
}

func TestUploadHandler_RequiresAdmin(t *testing.T) {
	router, _, _ := newTestRouter(t)

	body, contentType := multipartUpload(t, "file", "cover.png", "x")
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestUploadHandler_MissingFile(t *testing.T) {
	router, cookies, _ := newTestRouter(t)

	body, contentType := multipartUpload(t, "wrongfield", "cover.png", "x")
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
