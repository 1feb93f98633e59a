// Package quality maps named video quality tiers to concrete encoder
// parameters. The mapping is a static table; it is never derived from
// device capability.
package quality

// DefaultTier is used whenever an unknown or empty tier name is given.
const DefaultTier = "1080p"

// Profile holds the encoder parameters for one quality tier.
type Profile struct {
	Name         string  `json:"name"`
	Label        string  `json:"label"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	FrameRate    float64 `json:"frame_rate"`
	VideoBitRate int     `json:"video_bit_rate"` // bits per second
	AudioBitRate int     `json:"audio_bit_rate"` // bits per second
	Codec        string  `json:"codec"`
	Container    string  `json:"container"`
}

// Bitrates are chosen so a 180-second recording lands in a ~40-55 MB
// envelope at the lowest tier (2 Mbps video + 128 kbps audio predicts
// ~45.7 MB). Higher tiers scale the video bitrate with resolution.
var profiles = map[string]Profile{
	"720p": {
		Name:         "720p",
		Label:        "720p",
		Width:        1280,
		Height:       720,
		FrameRate:    30,
		VideoBitRate: 2_000_000,
		AudioBitRate: 128_000,
		Codec:        "h264",
		Container:    "mp4",
	},
	"1080p": {
		Name:         "1080p",
		Label:        "1080p",
		Width:        1920,
		Height:       1080,
		FrameRate:    30,
		VideoBitRate: 4_000_000,
		AudioBitRate: 128_000,
		Codec:        "h264",
		Container:    "mp4",
	},
	"4K": {
		Name:         "4K",
		Label:        "4K",
		Width:        3840,
		Height:       2160,
		FrameRate:    30,
		VideoBitRate: 10_000_000,
		AudioBitRate: 128_000,
		Codec:        "h264",
		Container:    "mp4",
	},
}

// Tiers returns the supported tier names.
func Tiers() []string {
	return []string{"720p", "1080p", "4K", "Auto"}
}

// Resolve maps a tier name to its Profile. Unknown names (and "Auto")
// resolve to the default tier; Resolve never fails.
func Resolve(tier string) Profile {
	if p, ok := profiles[tier]; ok {
		return p
	}
	p := profiles[DefaultTier]
	if tier == "Auto" {
		p.Label = "Auto"
	}
	return p
}

// PredictSizeMB estimates the output file size in megabytes for a
// recording of the given tier and duration. The estimate is advisory;
// actual encoder output may deviate.
func PredictSizeMB(tier string, durationSeconds int) float64 {
	p := Resolve(tier)
	totalBits := float64(p.VideoBitRate+p.AudioBitRate) * float64(durationSeconds)
	return totalBits / (8 * 1024 * 1024)
}
