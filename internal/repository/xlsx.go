package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lamppost-labs/geomap/internal/models"
	"github.com/xuri/excelize/v2"
)

// XLSXSource reads the location table from the first sheet of an Excel
// workbook, with the same columns as the CSV source.
type XLSXSource struct {
	path string
	log  *slog.Logger
}

// NewXLSXSource creates an Excel-backed location table source.
func NewXLSXSource(path string, log *slog.Logger) *XLSXSource {
	return &XLSXSource{path: path, log: log}
}

// LoadLocations reads every usable record from the workbook's first sheet.
// Invalid rows are skipped with a warning, matching the CSV source.
func (s *XLSXSource) LoadLocations(ctx context.Context) ([]models.Location, error) {
	file, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open location workbook %q: %w", s.path, err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoLocations
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var locations []models.Location
	for i, row := range rows {
		if i == 0 {
			continue // header
		}

		loc, ok := parseLocationRow(row)
		if !ok {
			s.log.WarnContext(ctx, "Skipping invalid row in location workbook", "sheet", sheets[0], "row", i+1)
			continue
		}
		locations = append(locations, loc)
	}

	if len(locations) == 0 {
		return nil, ErrNoLocations
	}

	s.log.InfoContext(ctx, "Location table loaded", "source", "xlsx", "records", len(locations))

	return locations, nil
}
