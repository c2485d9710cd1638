// Package repository loads the read-only location table the proximity filter
// runs against. The table is loaded once at startup and never written back.
package repository

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/lamppost-labs/geomap/internal/models"
)

// Source is the interface every location table source implements.
type Source interface {
	LoadLocations(ctx context.Context) ([]models.Location, error)
}

// SourceType represents the kind of location table source.
type SourceType string

const (
	// SourceTypeCSV reads the table from a CSV file.
	SourceTypeCSV SourceType = "csv"
	// SourceTypeXLSX reads the table from an Excel workbook.
	SourceTypeXLSX SourceType = "xlsx"
	// SourceTypePostgres reads the table from a PostgreSQL database.
	SourceTypePostgres SourceType = "postgres"
)

// SourceConfig holds configuration for creating a location table source.
type SourceConfig struct {
	Type   SourceType   // Type of source to create
	Path   string       // Dataset path (csv and xlsx sources)
	DB     Database     // Database handle (postgres source)
	Logger *slog.Logger // Logger for the source
}

// NewSource creates a location table source based on the provided
// configuration. When the type is empty it is inferred from the dataset
// file extension.
func NewSource(config SourceConfig) (Source, error) {
	sourceType := config.Type
	if sourceType == "" {
		sourceType = SourceType(strings.TrimPrefix(filepath.Ext(config.Path), "."))
	}

	switch sourceType {
	case SourceTypeCSV:
		return NewCSVSource(config.Path, config.Logger), nil
	case SourceTypeXLSX:
		return NewXLSXSource(config.Path, config.Logger), nil
	case SourceTypePostgres:
		if config.DB == nil {
			return nil, ErrNilDatabase
		}
		return NewPostgresSource(config.DB, config.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported location source type: %s", sourceType)
	}
}
