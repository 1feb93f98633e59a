package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kvasny/stampcam/assets"
	"github.com/kvasny/stampcam/settings"
)

func newVideoRouter(t *testing.T, videoDir string, store settings.Store) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := NewVideoHandler(nil, assets.NewRetention(nil, videoDir), store, videoDir)
	router.GET("/api/videos", h.List)
	router.POST("/api/videos/cleanup", h.Cleanup)
	return router
}

func TestListVideos(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.mp4"), make([]byte, 1024), 0644); err != nil {
		t.Fatalf("failed to write video: %v", err)
	}

	router := newVideoRouter(t, dir, &mockSettingsStore{current: settings.Defaults()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Videos    []assets.VideoFile `json:"videos"`
		TotalSize int64              `json:"total_size"`
		Human     string             `json:"total_size_human"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(body.Videos) != 1 || body.TotalSize != 1024 {
		t.Errorf("unexpected listing %+v", body)
	}
	if body.Human != "1 KB" {
		t.Errorf("expected 1 KB, got %s", body.Human)
	}
}

func TestCleanupUsesSettingsDefault(t *testing.T) {
	dir := t.TempDir()

	old := filepath.Join(dir, "old.mp4")
	if err := os.WriteFile(old, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write video: %v", err)
	}
	aged := time.Now().Add(-60 * 24 * time.Hour)
	if err := os.Chtimes(old, aged, aged); err != nil {
		t.Fatalf("failed to age video: %v", err)
	}

	store := &mockSettingsStore{current: settings.Defaults()} // autoDeleteDays 30
	router := newVideoRouter(t, dir, store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/videos/cleanup", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["deleted_count"] != 1 || body["max_age_days"] != 30 {
		t.Errorf("unexpected cleanup result %v", body)
	}
}

func TestCleanupDaysOverride(t *testing.T) {
	router := newVideoRouter(t, t.TempDir(), &mockSettingsStore{current: settings.Defaults()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/videos/cleanup?days=5", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["max_age_days"] != 5 {
		t.Errorf("expected the override honored, got %v", body)
	}
}

func TestCleanupInvalidDays(t *testing.T) {
	router := newVideoRouter(t, t.TempDir(), &mockSettingsStore{current: settings.Defaults()})

	for _, query := range []string{"days=zero", "days=-3", "days=0"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/videos/cleanup?"+query, nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", query, w.Code)
		}
	}
}
