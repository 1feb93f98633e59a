package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kvasny/stampcam/ccc/logging"
	"github.com/kvasny/stampcam/kvstore"
)

// Store is the injectable settings service. Every mutation is persisted
// immediately; there is no batching and no dirty flag.
type Store interface {
	// Get returns the current settings with any missing keys backfilled
	// from the defaults. It never returns a partial record.
	Get(ctx context.Context) (Settings, error)

	// Save replaces the whole settings record.
	Save(ctx context.Context, s Settings) error

	// UpdateKey sets a single key to the given JSON value, keeping all
	// other keys as they are.
	UpdateKey(ctx context.Context, key string, value json.RawMessage) (Settings, error)

	// Reset removes the stored record so Get falls back to defaults.
	Reset(ctx context.Context) error
}

type store struct {
	logger logging.Logger
	kv     kvstore.Store
}

// NewStore creates a settings store on top of the given key-value
// backend.
func NewStore(logger logging.Logger, kv kvstore.Store) *store {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &store{
		logger: logger,
		kv:     kv,
	}
}

func (s *store) Get(ctx context.Context) (Settings, error) {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	if !ok {
		return Defaults(), nil
	}

	// Unmarshalling over a defaults-initialized value merges the stored
	// keys onto the default table, so absent keys stay at their
	// defaults.
	merged := Defaults()
	if err := json.Unmarshal([]byte(raw), &merged); err != nil {
		s.logger.Warn("stored settings are corrupt, falling back to defaults", "error", err)
		return Defaults(), nil
	}

	return merged, nil
}

func (s *store) Save(ctx context.Context, settings Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// Durable first; the caller only sees the new value once the write
	// succeeded.
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}

	s.logger.Info("settings saved", "video_quality", settings.VideoQuality,
		"auto_delete_days", settings.AutoDeleteDays)
	return nil
}

func (s *store) UpdateKey(ctx context.Context, key string, value json.RawMessage) (Settings, error) {
	if !IsKnownKey(key) {
		return Settings{}, fmt.Errorf("unknown settings key: %s", key)
	}

	current, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}

	// Merge the single key through the JSON representation so type
	// mismatches surface as errors instead of silent zero values.
	patch, err := json.Marshal(map[string]json.RawMessage{key: value})
	if err != nil {
		return Settings{}, fmt.Errorf("failed to build settings patch: %w", err)
	}
	if err := json.Unmarshal(patch, &current); err != nil {
		return Settings{}, fmt.Errorf("invalid value for key %s: %w", key, err)
	}

	if err := s.Save(ctx, current); err != nil {
		return Settings{}, err
	}

	return current, nil
}

func (s *store) Reset(ctx context.Context) error {
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}

	s.logger.Info("settings reset to defaults")
	return nil
}
