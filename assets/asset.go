package assets

import (
	"time"

	"github.com/kvasny/stampcam/location"
	"github.com/kvasny/stampcam/quality"
	"github.com/kvasny/stampcam/settings"
)

// Save methods recorded in the metadata sidecar.
const (
	MethodGallery     = "gallery"
	MethodAlternative = "alternative"
)

// Metadata is the caller-supplied context for one finished recording.
type Metadata struct {
	Timestamp      time.Time          `json:"timestamp"`
	Resolution     string             `json:"resolution"` // tier name
	Duration       int                `json:"duration"`   // elapsed seconds
	Settings       settings.Settings  `json:"settings"`
	Location       *location.Snapshot `json:"location,omitempty"`
	VideoSettings  quality.Profile    `json:"videoSettings"`
	ExpectedSizeMB float64            `json:"expectedSize"`
}

// Sidecar is the JSON document written next to each saved asset. Field
// names follow the on-disk format consumed by existing tooling.
type Sidecar struct {
	Metadata

	OriginalPath   string    `json:"originalPath"`
	SavedToGallery bool      `json:"savedToGallery"`
	GalleryPath    string    `json:"galleryPath,omitempty"`
	PublicPath     string    `json:"publicPath,omitempty"`
	SavedAt        time.Time `json:"savedAt"`
	Method         string    `json:"method,omitempty"`
	Note           string    `json:"note,omitempty"`

	// Probed from the actual output when ffmpeg is available.
	ActualWidth    int     `json:"actualWidth,omitempty"`
	ActualHeight   int     `json:"actualHeight,omitempty"`
	ActualDuration float64 `json:"actualDuration,omitempty"`
	ActualSizeMB   float64 `json:"actualSizeMB,omitempty"`
}

// SavedAsset describes where a persisted recording ended up. Zero, one
// or two durable copies may exist; SavedToGallery false with a non-nil
// asset means the degraded path was taken.
type SavedAsset struct {
	FileName       string `json:"file_name"`
	AppPath        string `json:"app_path,omitempty"`
	GalleryHandle  string `json:"gallery_handle,omitempty"`
	PublicPath     string `json:"public_path,omitempty"`
	SidecarPath    string `json:"sidecar_path,omitempty"`
	SavedToGallery bool   `json:"saved_to_gallery"`
	Method         string `json:"method"`
	Note           string `json:"note,omitempty"`
}
