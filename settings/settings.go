// Package settings holds the process-wide user configuration and its
// persistence. Reads always return a complete record: missing keys are
// backfilled from the default table before a Settings value is exposed.
package settings

// StorageKey is the single key the settings blob is stored under.
const StorageKey = "camera_app_settings"

// Theme values.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// Location display formats.
const (
	LocationFormatCoordinates = "coordinates"
	LocationFormatCity        = "city"
)

// Time formats.
const (
	TimeFormat12Hour = "12_HOUR"
	TimeFormat24Hour = "24_HOUR"
)

// Settings is the full user-facing configuration record.
type Settings struct {
	Theme           string `json:"theme"`
	VideoQuality    string `json:"videoQuality"`
	DateFormat      string `json:"dateFormat"`
	TimeFormat      string `json:"timeFormat"`
	Timezone        string `json:"timezone"`
	LocationEnabled bool   `json:"locationEnabled"`
	LocationFormat  string `json:"locationFormat"`
	AutoDeleteDays  int    `json:"autoDeleteDays"`
}

// Defaults returns the default settings record.
func Defaults() Settings {
	return Settings{
		Theme:           ThemeSystem,
		VideoQuality:    "1080p",
		DateFormat:      "DD/MM/YYYY",
		TimeFormat:      TimeFormat12Hour,
		Timezone:        "device",
		LocationEnabled: true,
		LocationFormat:  LocationFormatCoordinates,
		AutoDeleteDays:  30,
	}
}

// knownKeys are the JSON keys accepted by single-key updates.
var knownKeys = map[string]bool{
	"theme":           true,
	"videoQuality":    true,
	"dateFormat":      true,
	"timeFormat":      true,
	"timezone":        true,
	"locationEnabled": true,
	"locationFormat":  true,
	"autoDeleteDays":  true,
}

// IsKnownKey reports whether key is a valid settings key.
func IsKnownKey(key string) bool {
	return knownKeys[key]
}
