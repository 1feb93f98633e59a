package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// KV backends selectable via the "kv_backend" setting.
const (
	KVBackendSQLite = "sqlite"
	KVBackendRedis  = "redis"
)

// Config holds the application configuration
type Config struct {
	CameraDevice string `json:"camera_device"`

	// Storage layout
	VideoDir   string `json:"video_dir"`   // app-private video folder
	PublicDir  string `json:"public_dir"`  // base for the public Movies/<album> fallback
	AlbumName  string `json:"album_name"`  // gallery album / public subfolder name
	FilePrefix string `json:"file_prefix"` // filename prefix for saved assets

	// HTTP control API
	WebAddr string `json:"web_addr"`
	WebPort int    `json:"web_port"`

	// Settings key-value backend
	KVBackend     string `json:"kv_backend"` // "sqlite" or "redis"
	DatabasePath  string `json:"database_path"`
	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`

	// Gallery (S3-backed durable media store)
	GalleryEnabled  bool   `json:"gallery_enabled"`
	S3Region        string `json:"s3_region"`
	S3Bucket        string `json:"s3_bucket"`
	S3AccessKeyID   string `json:"s3_access_key_id"`
	S3SecretAccess  string `json:"s3_secret_access_key"`

	// Upper bound on one persistence run. Zero means unbounded.
	PersistTimeoutSeconds int `json:"persist_timeout_seconds"`

	LogPath  string `json:"log_path"`
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	baseDir := "."

	homeDir, err := os.UserHomeDir()
	if err == nil && homeDir != "" {
		baseDir = filepath.Join(homeDir, "stampcam")

		// Ensure the directory exists
		if err := os.MkdirAll(baseDir, 0755); err != nil {
			baseDir = "."
		}
	}

	return &Config{
		CameraDevice: "0",
		VideoDir:     filepath.Join(baseDir, "CameraApp_Videos"),
		PublicDir:    homeDir,
		AlbumName:    "StampCam Videos",
		FilePrefix:   "StampCam",
		WebAddr:      "127.0.0.1",
		WebPort:      8080,
		KVBackend:    KVBackendSQLite,
		DatabasePath: filepath.Join(baseDir, "stampcam.db"),
		RedisAddr:    "localhost:6379",
		LogPath:      filepath.Join(baseDir, "logs"),
		LogLevel:     "info",
	}
}

// LoadConfig loads the configuration from a JSON file. A missing file is
// not an error; the defaults are returned so a fresh install works out
// of the box. AWS and Redis credentials may come from a .env file.
func LoadConfig(path string) (*Config, error) {
	// Best-effort; credentials can also come from the process environment.
	_ = godotenv.Load()

	config := DefaultConfig()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if config.S3AccessKeyID == "" {
		config.S3AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	}
	if config.S3SecretAccess == "" {
		config.S3SecretAccess = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}

	return config, nil
}

// ConfigOverrides holds potential override values for configuration
type ConfigOverrides struct {
	CameraDevice *string
	VideoDir     *string
	WebPort      *int
	KVBackend    *string
	LogLevel     *string
}

// Override allows overriding specific configuration values using ConfigOverrides struct
func (c *Config) Override(overrides ConfigOverrides) {
	if overrides.CameraDevice != nil && *overrides.CameraDevice != "" {
		c.CameraDevice = *overrides.CameraDevice
	}
	if overrides.VideoDir != nil && *overrides.VideoDir != "" {
		c.VideoDir = *overrides.VideoDir
	}
	if overrides.WebPort != nil && *overrides.WebPort > 0 {
		c.WebPort = *overrides.WebPort
	}
	if overrides.KVBackend != nil && *overrides.KVBackend != "" {
		c.KVBackend = *overrides.KVBackend
	}
	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		c.LogLevel = *overrides.LogLevel
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.WebPort <= 0 || c.WebPort > 65535 {
		return fmt.Errorf("invalid web port: %d", c.WebPort)
	}
	if c.KVBackend != KVBackendSQLite && c.KVBackend != KVBackendRedis {
		return fmt.Errorf("invalid kv backend: %s", c.KVBackend)
	}
	if c.VideoDir == "" {
		return fmt.Errorf("video_dir must not be empty")
	}
	if c.GalleryEnabled && c.S3Bucket == "" {
		return fmt.Errorf("gallery enabled but s3_bucket is not set")
	}
	if c.PersistTimeoutSeconds < 0 {
		return fmt.Errorf("persist_timeout_seconds must not be negative")
	}
	return nil
}

// SaveConfig saves the configuration to a JSON file
func (c *Config) SaveConfig(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config file: %w", err)
	}

	return nil
}
