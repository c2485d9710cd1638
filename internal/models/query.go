package models

import "fmt"

// MapStyle enumerates the supported map visualization styles.
type MapStyle string

const (
	// StyleHeatDensity renders the filtered locations as a heat layer.
	StyleHeatDensity MapStyle = "Heat Density"
	// StyleClusters renders the filtered locations as clustered markers.
	StyleClusters MapStyle = "Clusters"
	// StyleProximity renders plain markers with distance popups and a
	// polyline to the nearest location.
	StyleProximity MapStyle = "Proximity"
)

// ParseMapStyle validates a user-submitted style name.
func ParseMapStyle(s string) (MapStyle, error) {
	switch MapStyle(s) {
	case StyleHeatDensity, StyleClusters, StyleProximity:
		return MapStyle(s), nil
	default:
		return "", fmt.Errorf("unsupported map style: %q", s)
	}
}

// Query holds one user submission. It is created per request and discarded
// after the corresponding map is rendered.
type Query struct {
	Address     string   // Address is the free-text address typed by the user.
	ThresholdKm float64  // ThresholdKm is the proximity threshold in kilometers.
	Style       MapStyle // Style is the requested map visualization style.
}
