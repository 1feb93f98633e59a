// Package location defines the one-shot geolocation boundary and the
// formatting helpers for the video stamp. Actual geocoding backends
// live outside this module.
package location

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Position is a single geolocation fix.
type Position struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// Address is a reverse-geocoded place description.
type Address struct {
	Full  string `json:"full"`
	Short string `json:"short"`
}

// Snapshot is the location record attached to a saved asset: the fix
// plus an optional human-readable place name.
type Snapshot struct {
	Position
	Address *Address `json:"address,omitempty"`
}

// Provider delivers a one-shot position fix. It may fail or time out;
// callers treat a missing location as non-fatal.
type Provider interface {
	Current(ctx context.Context) (*Position, error)
}

// Geocoder resolves coordinates to a place description.
type Geocoder interface {
	Reverse(ctx context.Context, latitude, longitude float64) (*Address, error)
}

// nopProvider always reports that no fix is available.
type nopProvider struct{}

// NopProvider is a Provider for deployments without any location
// source.
var NopProvider Provider = &nopProvider{}

func (p *nopProvider) Current(ctx context.Context) (*Position, error) {
	return nil, fmt.Errorf("no location provider configured")
}

// FormatCoordinates renders a fix as e.g. "48.8584°N, 2.2945°E".
func FormatCoordinates(latitude, longitude float64) string {
	latDirection := "N"
	if latitude < 0 {
		latDirection = "S"
	}
	lonDirection := "E"
	if longitude < 0 {
		lonDirection = "W"
	}

	return fmt.Sprintf("%.4f°%s, %.4f°%s",
		math.Abs(latitude), latDirection, math.Abs(longitude), lonDirection)
}

// FormatForDisplay renders a snapshot according to the user's location
// format setting. Falls back to coordinates when no address is known.
func FormatForDisplay(snapshot *Snapshot, format string) string {
	if snapshot == nil {
		return ""
	}

	switch format {
	case "city", "address", "full_address":
		if snapshot.Address != nil && snapshot.Address.Short != "" {
			if format == "full_address" && snapshot.Address.Full != "" {
				return snapshot.Address.Full
			}
			return snapshot.Address.Short
		}
		return FormatCoordinates(snapshot.Latitude, snapshot.Longitude)
	default:
		return FormatCoordinates(snapshot.Latitude, snapshot.Longitude)
	}
}
