package assets

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// VideoFile is one persisted asset as seen in the app-private folder.
type VideoFile struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modificationTime"`
}

// SidecarPath returns the metadata sidecar path for a video file:
// same basename, "_metadata.json" suffix.
func SidecarPath(videoPath string) string {
	return strings.TrimSuffix(videoPath, ".mp4") + "_metadata.json"
}

// ListVideos returns the .mp4 files in the app-private folder. A
// missing folder yields an empty list, not an error.
func ListVideos(dir string) ([]VideoFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []VideoFile{}, nil
		}
		return nil, fmt.Errorf("failed to read video folder: %w", err)
	}

	files := make([]VideoFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".mp4") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, VideoFile{
			Path:    filepath.Join(dir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return files, nil
}

// FolderSize returns the total size in bytes of all videos in the
// folder.
func FolderSize(dir string) (int64, error) {
	files, err := ListVideos(dir)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, f := range files {
		total += f.Size
	}
	return total, nil
}

// FormatFileSize renders a byte count for display, e.g. "12.5 MB".
func FormatFileSize(bytes int64) string {
	if bytes == 0 {
		return "0 B"
	}

	units := []string{"B", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}

	value := float64(bytes) / math.Pow(1024, float64(i))
	return fmt.Sprintf("%s %s", trimZeros(value), units[i])
}

// trimZeros trims trailing zeros from a two-decimal rendering, matching
// the display format used elsewhere.
func trimZeros(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}
