package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSidecarPath(t *testing.T) {
	tests := []struct {
		video   string
		sidecar string
	}{
		{"/data/TestCam_2026-05-17_10-30-00.mp4", "/data/TestCam_2026-05-17_10-30-00_metadata.json"},
		{"clip.mp4", "clip_metadata.json"},
		{"noext", "noext_metadata.json"},
	}

	for _, tt := range tests {
		if got := SidecarPath(tt.video); got != tt.sidecar {
			t.Errorf("SidecarPath(%s): expected %s, got %s", tt.video, tt.sidecar, got)
		}
	}
}

func TestListVideosFiltersNonVideos(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.mp4", "b.mp4", "a_metadata.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.mp4"), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}

	files, err := ListVideos(dir)
	if err != nil {
		t.Fatalf("ListVideos failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(files))
	}
	for _, f := range files {
		if f.Size != 1 {
			t.Errorf("expected size 1 for %s, got %d", f.Name, f.Size)
		}
		if f.Path != filepath.Join(dir, f.Name) {
			t.Errorf("expected absolute path, got %s", f.Path)
		}
	}
}

func TestListVideosMissingFolder(t *testing.T) {
	files, err := ListVideos(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("expected missing folder treated as empty, got %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected empty list, got %d", len(files))
	}
}

func TestFolderSize(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.mp4"), make([]byte, 100), 0644); err != nil {
		t.Fatalf("failed to write video: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.mp4"), make([]byte, 200), 0644); err != nil {
		t.Fatalf("failed to write video: %v", err)
	}

	total, err := FolderSize(dir)
	if err != nil {
		t.Fatalf("FolderSize failed: %v", err)
	}
	if total != 300 {
		t.Errorf("expected 300 bytes, got %d", total)
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{13107200, "12.5 MB"},
		{1073741824, "1 GB"},
	}

	for _, tt := range tests {
		if got := FormatFileSize(tt.bytes); got != tt.expected {
			t.Errorf("FormatFileSize(%d): expected %s, got %s", tt.bytes, tt.expected, got)
		}
	}
}
