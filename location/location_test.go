package location

import (
	"context"
	"testing"
)

func TestFormatCoordinates(t *testing.T) {
	tests := []struct {
		lat, lon float64
		expected string
	}{
		{48.8584, 2.2945, "48.8584°N, 2.2945°E"},
		{-33.8688, 151.2093, "33.8688°S, 151.2093°E"},
		{40.7128, -74.0060, "40.7128°N, 74.0060°W"},
		{0, 0, "0.0000°N, 0.0000°E"},
	}

	for _, tt := range tests {
		if got := FormatCoordinates(tt.lat, tt.lon); got != tt.expected {
			t.Errorf("FormatCoordinates(%v, %v): expected %s, got %s", tt.lat, tt.lon, tt.expected, got)
		}
	}
}

func TestFormatForDisplayNilSnapshot(t *testing.T) {
	if got := FormatForDisplay(nil, "city"); got != "" {
		t.Errorf("expected empty string for nil snapshot, got %q", got)
	}
}

func TestFormatForDisplayCoordinates(t *testing.T) {
	snapshot := &Snapshot{Position: Position{Latitude: 48.8584, Longitude: 2.2945}}

	if got := FormatForDisplay(snapshot, "coordinates"); got != "48.8584°N, 2.2945°E" {
		t.Errorf("unexpected coordinate rendering %q", got)
	}
}

func TestFormatForDisplayWithAddress(t *testing.T) {
	snapshot := &Snapshot{
		Position: Position{Latitude: 48.8584, Longitude: 2.2945},
		Address:  &Address{Full: "5 Avenue Anatole France, Paris", Short: "Paris"},
	}

	if got := FormatForDisplay(snapshot, "city"); got != "Paris" {
		t.Errorf("expected short address for city format, got %q", got)
	}
	if got := FormatForDisplay(snapshot, "full_address"); got != "5 Avenue Anatole France, Paris" {
		t.Errorf("expected full address, got %q", got)
	}
}

func TestFormatForDisplayFallsBackToCoordinates(t *testing.T) {
	snapshot := &Snapshot{Position: Position{Latitude: 1, Longitude: 2}}

	// No address known: every format degrades to coordinates.
	for _, format := range []string{"city", "address", "full_address", "", "bogus"} {
		if got := FormatForDisplay(snapshot, format); got != "1.0000°N, 2.0000°E" {
			t.Errorf("format %q: expected coordinate fallback, got %q", format, got)
		}
	}
}

func TestNopProvider(t *testing.T) {
	if _, err := NopProvider.Current(context.Background()); err == nil {
		t.Errorf("expected the nop provider to report no fix")
	}
}
