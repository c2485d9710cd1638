package geocoding

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/lamppost-labs/geomap/internal/models"
)

// PostalTableProvider implements the Provider interface with an offline
// postal-code dataset loaded from a local CSV file. It needs no network and
// serves as the fallback when the online provider fails or returns a
// coordinate outside the supported region.
//
// Expected columns: postal_code, latitude, longitude (header row required).
type PostalTableProvider struct {
	codes map[string]models.Coordinates
	log   *slog.Logger
}

// Common errors for the postal table provider.
var (
	ErrPostalCodeUnknown = errors.New("postal code not present in offline dataset")
	ErrPostalTableEmpty  = errors.New("offline postal dataset contains no rows")
)

// NewPostalTableProvider loads the offline dataset into memory.
// The dataset is read once and held immutable for the life of the provider.
func NewPostalTableProvider(path string, log *slog.Logger) (*PostalTableProvider, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open postal dataset %q: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	codes := make(map[string]models.Coordinates)
	line := 0
	for {
		record, errRead := reader.Read()
		if errors.Is(errRead, io.EOF) {
			break
		}
		if errRead != nil {
			return nil, fmt.Errorf("failed to read postal dataset %q: %w", path, errRead)
		}

		line++
		if line == 1 {
			continue // header
		}
		if len(record) < 3 {
			log.Warn("Skipping short row in postal dataset", "line", line)
			continue
		}

		lat, errLat := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if errLat != nil || errLon != nil {
			log.Warn("Skipping row with invalid coordinates in postal dataset", "line", line)
			continue
		}

		codes[strings.TrimSpace(record[0])] = models.Coordinates{Latitude: lat, Longitude: lon}
	}

	if len(codes) == 0 {
		return nil, ErrPostalTableEmpty
	}

	log.Debug("Offline postal dataset loaded", "path", path, "codes", len(codes))

	return &PostalTableProvider{codes: codes, log: log}, nil
}

// Geocode looks the postal code up in the in-memory dataset.
func (pp *PostalTableProvider) Geocode(ctx context.Context, query string) (*models.Coordinates, error) {
	pp.log.DebugContext(ctx, "Geocoding using offline postal table", "query", query)

	coords, ok := pp.codes[strings.TrimSpace(query)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPostalCodeUnknown, query)
	}

	pp.log.DebugContext(ctx, "Offline postal table found result",
		"query", query, "lat", coords.Latitude, "lon", coords.Longitude)

	return &coords, nil
}
