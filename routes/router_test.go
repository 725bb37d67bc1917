package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/plabs/showwall/config"
	"github.com/plabs/showwall/repository"
	"github.com/plabs/showwall/utils"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	config.Reset()
	t.Setenv("GIN_MODE", "test")
	t.Setenv("GIN_PATH", filepath.Join(t.TempDir(), "gin.log"))
	t.Setenv("UPLOAD_DIR", t.TempDir())
	t.Cleanup(config.Reset)

	if utils.Sugar == nil {
		_ = utils.InitLogger(config.AppConfig{LogLevel: "error"})
	}

	return SetupRouter(repository.NewMemorySubmissionRepository(), repository.NewMemoryUploadLedger())
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d want %d", rec.Code, http.StatusOK)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["status"] != "ok" {
		t.Errorf("unexpected health body: %s", rec.Body.String())
	}
}

func TestUnknownRouteReturnsJSONError(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("got %d want %d", rec.Code, http.StatusNotFound)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
		t.Errorf("expected error envelope, got %s", rec.Body.String())
	}
}

func TestListRouteWiredToController(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/submissions", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "[]" {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestUploadsServedStatically(t *testing.T) {
	config.Reset()
	uploadDir := t.TempDir()
	t.Setenv("GIN_MODE", "test")
	t.Setenv("GIN_PATH", filepath.Join(t.TempDir(), "gin.log"))
	t.Setenv("UPLOAD_DIR", uploadDir)
	t.Cleanup(config.Reset)
	if utils.Sugar == nil {
		_ = utils.InitLogger(config.AppConfig{LogLevel: "error"})
	}

	if err := os.WriteFile(filepath.Join(uploadDir, "pic.png"), []byte("png-bytes"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	r := SetupRouter(repository.NewMemorySubmissionRepository(), repository.NewMemoryUploadLedger())

	req := httptest.NewRequest(http.MethodGet, "/uploads/pic.png", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "png-bytes" {
		t.Errorf("unexpected file body: %q", rec.Body.String())
	}
}
