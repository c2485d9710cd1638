// Package service wires the proximity query pipeline together: input
// validation, postal-code extraction, two-tier geocoding, distance filtering
// and map rendering.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lamppost-labs/geomap/internal/geo"
	"github.com/lamppost-labs/geomap/internal/geocoding"
	"github.com/lamppost-labs/geomap/internal/metrics"
	"github.com/lamppost-labs/geomap/internal/models"
)

// User-visible failure kinds. Handlers map these onto dialog messages.
var (
	ErrEmptyAddress      = errors.New("address must not be empty")
	ErrInvalidThreshold  = errors.New("proximity threshold must be a positive number")
	ErrInvalidStyle      = errors.New("unsupported map style")
	ErrAddressUnresolved = errors.New("unable to retrieve coordinates for the address")
)

// NoLocationsNotice is surfaced when a query resolves but matches nothing.
const NoLocationsNotice = "No locations found within the specified proximity."

// PostalExtractor recognizes a postal code in free-text input.
type PostalExtractor interface {
	Extract(text string) (string, error)
}

// MapRenderer writes a map file for a finished query and returns its name.
type MapRenderer interface {
	Render(query models.Query, origin models.Coordinates, results []models.Result) (string, error)
}

// QueryService processes proximity queries against the in-memory location
// table. The table is read-only after construction; the service keeps no
// other state across queries.
type QueryService struct {
	log          *slog.Logger       // Logger for logging service activities
	table        []models.Location  // Immutable location table loaded at startup
	extractor    PostalExtractor    // Postal-code entity recognizer
	geocoder     geocoding.Provider // Two-tier geocoding chain
	providerName string             // Name of the primary provider for metrics labeling
	renderer     MapRenderer        // Map file renderer
	metrics      *metrics.Metrics   // Metrics for tracking service performance
}

// Outcome carries everything a finished query produced.
type Outcome struct {
	PostalCode string             // PostalCode extracted from the input address.
	Origin     models.Coordinates // Origin is the resolved query coordinate.
	Results    []models.Result    // Results within the threshold, sorted by distance.
	MapFile    string             // MapFile is the rendered map file name.
	Notice     string             // Notice is an informational message, empty unless the result set is empty.
}

// NewQueryService creates a new instance of QueryService over the given
// location table and collaborators.
func NewQueryService(
	log *slog.Logger,
	table []models.Location,
	extractor PostalExtractor,
	geocoder geocoding.Provider,
	providerName string,
	renderer MapRenderer,
	metrics *metrics.Metrics,
) *QueryService {
	return &QueryService{
		log:          log,
		table:        table,
		extractor:    extractor,
		geocoder:     geocoder,
		providerName: providerName,
		renderer:     renderer,
		metrics:      metrics,
	}
}

// TableSize returns the number of records in the loaded location table.
func (s *QueryService) TableSize() int {
	return len(s.table)
}

// Process runs one proximity query end to end. Validation failures are
// reported before any geocoding call is made.
func (s *QueryService) Process(ctx context.Context, query models.Query) (*Outcome, error) {
	if err := validate(query); err != nil {
		s.metrics.QueriesProcessed.WithLabelValues("rejected").Inc()
		return nil, err
	}

	postalCode, err := s.extractor.Extract(query.Address)
	if err != nil {
		s.log.WarnContext(ctx, "No postal code recognized in input", "address", query.Address, "error", err)
		s.metrics.QueriesProcessed.WithLabelValues("unresolved").Inc()
		return nil, fmt.Errorf("%w: %w", ErrAddressUnresolved, err)
	}

	startTime := time.Now()
	origin, err := s.geocoder.Geocode(ctx, postalCode)
	s.metrics.GeocodeSeconds.WithLabelValues(s.providerName).Observe(time.Since(startTime).Seconds())

	if err != nil {
		s.log.WarnContext(ctx, "Failed to geocode postal code", "postal_code", postalCode, "error", err)
		s.metrics.QueriesProcessed.WithLabelValues("unresolved").Inc()
		if errors.Is(err, geocoding.ErrOutsideRegion) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrAddressUnresolved, err)
	}

	s.log.InfoContext(ctx, "Query coordinate resolved",
		"postal_code", postalCode, "lat", origin.Latitude, "lon", origin.Longitude)

	results := geo.FilterByProximity(s.table, *origin, query.ThresholdKm)
	s.metrics.LocationsMatched.Observe(float64(len(results)))
	s.logResults(ctx, results, query.ThresholdKm)

	mapFile, err := s.renderer.Render(query, *origin, results)
	if err != nil {
		s.metrics.QueriesProcessed.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("failed to render map: %w", err)
	}
	s.metrics.MapsRendered.WithLabelValues(string(query.Style)).Inc()

	outcome := &Outcome{
		PostalCode: postalCode,
		Origin:     *origin,
		Results:    results,
		MapFile:    mapFile,
	}
	if len(results) == 0 {
		outcome.Notice = NoLocationsNotice
	}

	s.metrics.QueriesProcessed.WithLabelValues("success").Inc()

	return outcome, nil
}

// validate checks a query before any external call is made.
func validate(query models.Query) error {
	if strings.TrimSpace(query.Address) == "" {
		return ErrEmptyAddress
	}
	if query.ThresholdKm <= 0 {
		return ErrInvalidThreshold
	}
	if _, err := models.ParseMapStyle(string(query.Style)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidStyle, err)
	}

	return nil
}

// logResults lists the filtered addresses, mirroring the console listing the
// tool has always produced.
func (s *QueryService) logResults(ctx context.Context, results []models.Result, thresholdKm float64) {
	s.log.InfoContext(ctx, "Locations found within proximity",
		"threshold_km", thresholdKm, "count", len(results))

	for _, res := range results {
		s.log.DebugContext(ctx, "Filtered location",
			"address", res.Address, "distance_km", res.DistanceKm)
	}
}
