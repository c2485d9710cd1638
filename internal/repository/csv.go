package repository

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

// ErrNoLocations is returned when a source yields an empty location table.
var ErrNoLocations = errors.New("location source contains no usable records")

// CSVSource reads the location table from a CSV file with the columns
// address, postal_code, latitude, longitude (header row required).
type CSVSource struct {
	path string
	log  *slog.Logger
}

// NewCSVSource creates a CSV-backed location table source.
func NewCSVSource(path string, log *slog.Logger) *CSVSource {
	return &CSVSource{path: path, log: log}
}

// LoadLocations reads every usable record from the file. Rows with missing
// columns or unparseable coordinates are skipped with a warning rather than
// failing the whole load.
func (s *CSVSource) LoadLocations(ctx context.Context) ([]models.Location, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open location dataset %q: %w", s.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var locations []models.Location
	line := 0
	for {
		record, errRead := reader.Read()
		if errors.Is(errRead, io.EOF) {
			break
		}
		if errRead != nil {
			return nil, fmt.Errorf("failed to read location dataset %q: %w", s.path, errRead)
		}

		line++
		if line == 1 {
			continue // header
		}

		loc, ok := parseLocationRow(record)
		if !ok {
			s.log.WarnContext(ctx, "Skipping invalid row in location dataset", "line", line)
			continue
		}
		locations = append(locations, loc)
	}

	if len(locations) == 0 {
		return nil, ErrNoLocations
	}

	s.log.InfoContext(ctx, "Location table loaded", "source", "csv", "records", len(locations))

	return locations, nil
}

// parseLocationRow converts one tabular row (address, postal_code, latitude,
// longitude) into a location record.
func parseLocationRow(record []string) (models.Location, bool) {
	const columns = 4
	if len(record) < columns {
		return models.Location{}, false
	}

	lat, errLat := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if errLat != nil || errLon != nil {
		return models.Location{}, false
	}

	return models.Location{
		Address:    strings.TrimSpace(record[0]),
		PostalCode: strings.TrimSpace(record[1]),
		Latitude:   lat,
		Longitude:  lon,
	}, true
}
