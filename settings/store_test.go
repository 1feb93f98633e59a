package settings

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

// memoryKV is an in-memory kvstore.Store for tests.
type memoryKV struct {
	data   map[string]string
	getErr error
	setErr error
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string]string)}
}

func (m *memoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *memoryKV) Set(ctx context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *memoryKV) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestGetEmptyStoreReturnsDefaults(t *testing.T) {
	store := NewStore(nil, newMemoryKV())

	got, err := store.Get(context.Background())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != Defaults() {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	store := NewStore(nil, newMemoryKV())
	ctx := context.Background()

	want := Defaults()
	want.VideoQuality = "4K"
	want.AutoDeleteDays = 7
	want.LocationEnabled = false

	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch: expected %+v, got %+v", want, got)
	}
}

func TestGetBackfillsMissingKeys(t *testing.T) {
	kv := newMemoryKV()
	kv.data[StorageKey] = `{"videoQuality":"720p"}`
	store := NewStore(nil, kv)

	got, err := store.Get(context.Background())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if got.VideoQuality != "720p" {
		t.Errorf("expected stored videoQuality kept, got %s", got.VideoQuality)
	}
	def := Defaults()
	if got.Theme != def.Theme || got.AutoDeleteDays != def.AutoDeleteDays {
		t.Errorf("expected missing keys backfilled from defaults, got %+v", got)
	}
}

func TestGetCorruptRecordFallsBackToDefaults(t *testing.T) {
	kv := newMemoryKV()
	kv.data[StorageKey] = `{not json`
	store := NewStore(nil, kv)

	got, err := store.Get(context.Background())
	if err != nil {
		t.Fatalf("expected corrupt record handled, got %v", err)
	}
	if got != Defaults() {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestGetBackendFailure(t *testing.T) {
	kv := newMemoryKV()
	kv.getErr = errors.New("backend down")
	store := NewStore(nil, kv)

	if _, err := store.Get(context.Background()); err == nil {
		t.Errorf("expected an error when the backend fails")
	}
}

func TestUpdateKey(t *testing.T) {
	kv := newMemoryKV()
	store := NewStore(nil, kv)
	ctx := context.Background()

	got, err := store.UpdateKey(ctx, "autoDeleteDays", json.RawMessage(`7`))
	if err != nil {
		t.Fatalf("UpdateKey failed: %v", err)
	}
	if got.AutoDeleteDays != 7 {
		t.Errorf("expected autoDeleteDays 7, got %d", got.AutoDeleteDays)
	}
	if got.VideoQuality != Defaults().VideoQuality {
		t.Errorf("expected other keys untouched, got %+v", got)
	}

	// The change is persisted, not just returned.
	reloaded, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if reloaded.AutoDeleteDays != 7 {
		t.Errorf("expected persisted autoDeleteDays 7, got %d", reloaded.AutoDeleteDays)
	}
}

func TestUpdateKeyUnknownKey(t *testing.T) {
	store := NewStore(nil, newMemoryKV())

	if _, err := store.UpdateKey(context.Background(), "brightness", json.RawMessage(`1`)); err == nil {
		t.Errorf("expected an error for an unknown key")
	}
}

func TestUpdateKeyTypeMismatch(t *testing.T) {
	kv := newMemoryKV()
	store := NewStore(nil, kv)
	ctx := context.Background()

	if _, err := store.UpdateKey(ctx, "autoDeleteDays", json.RawMessage(`"soon"`)); err == nil {
		t.Fatalf("expected an error for a type mismatch")
	}

	// The stored record is untouched by the failed update.
	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.AutoDeleteDays != Defaults().AutoDeleteDays {
		t.Errorf("expected stored value untouched, got %d", got.AutoDeleteDays)
	}
}

func TestReset(t *testing.T) {
	store := NewStore(nil, newMemoryKV())
	ctx := context.Background()

	custom := Defaults()
	custom.Theme = ThemeDark
	if err := store.Save(ctx, custom); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != Defaults() {
		t.Errorf("expected defaults after reset, got %+v", got)
	}
}

func TestIsKnownKey(t *testing.T) {
	for _, key := range []string{"theme", "videoQuality", "autoDeleteDays", "locationFormat"} {
		if !IsKnownKey(key) {
			t.Errorf("expected %s to be known", key)
		}
	}
	for _, key := range []string{"", "Theme", "brightness"} {
		if IsKnownKey(key) {
			t.Errorf("expected %s to be unknown", key)
		}
	}
}
