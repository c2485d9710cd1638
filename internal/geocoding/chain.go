package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lamppost-labs/geomap/internal/models"
)

// ErrOutsideRegion is returned when both providers resolve the query, but
// neither coordinate falls inside the supported region.
var ErrOutsideRegion = errors.New("resolved coordinates are outside the supported region")

// Chain resolves a query against a primary provider and falls back to a
// secondary provider exactly once when the primary fails or returns a
// coordinate outside the accepted region. A coordinate is only ever handed
// back to the caller when it lies inside the region.
type Chain struct {
	primary  Provider
	fallback Provider
	region   models.Region
	log      *slog.Logger

	// OnFallback, when set, is invoked every time the fallback provider
	// resolves a query. Used for metrics.
	OnFallback func()
}

// NewChain builds a two-tier geocoder over the given providers and region.
func NewChain(primary, fallback Provider, region models.Region, log *slog.Logger) *Chain {
	return &Chain{
		primary:  primary,
		fallback: fallback,
		region:   region,
		log:      log,
	}
}

// Geocode resolves the query through the chain.
func (c *Chain) Geocode(ctx context.Context, query string) (*models.Coordinates, error) {
	coords, primaryErr := c.primary.Geocode(ctx, query)
	if primaryErr == nil && c.region.Contains(*coords) {
		return coords, nil
	}

	if primaryErr != nil {
		c.log.WarnContext(ctx, "Primary geocoder failed, trying fallback", "query", query, "error", primaryErr)
	} else {
		c.log.WarnContext(ctx, "Primary geocoder resolved outside supported region, trying fallback",
			"query", query, "lat", coords.Latitude, "lon", coords.Longitude)
	}

	fallbackCoords, fallbackErr := c.fallback.Geocode(ctx, query)
	if fallbackErr != nil {
		if primaryErr != nil {
			return nil, fmt.Errorf("both geocoders failed: %w", fallbackErr)
		}
		// Primary resolved but out of region, fallback could not resolve at all.
		return nil, ErrOutsideRegion
	}

	if !c.region.Contains(*fallbackCoords) {
		return nil, ErrOutsideRegion
	}

	c.log.InfoContext(ctx, "Fallback geocoder resolved the query",
		"query", query, "lat", fallbackCoords.Latitude, "lon", fallbackCoords.Longitude)

	if c.OnFallback != nil {
		c.OnFallback()
	}

	return fallbackCoords, nil
}
