package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lamppost-labs/geomap/internal/models"
)

// Database is the subset of pgxpool.Pool the postgres source relies on.
// Narrowing the dependency keeps the source mockable with pgxmock.
type Database interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

// ErrNilDatabase is returned when a postgres source is requested without a
// database handle.
var ErrNilDatabase = errors.New("postgres source requires a database connection")

// NewDatabase creates a pgx connection pool for the given PostgreSQL
// credentials and verifies connectivity with a ping.
func NewDatabase(host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, password, host, port, name)

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// PostgresSource reads the location table from a PostgreSQL database.
type PostgresSource struct {
	db  Database
	log *slog.Logger
}

// NewPostgresSource creates a PostgreSQL-backed location table source.
func NewPostgresSource(db Database, log *slog.Logger) *PostgresSource {
	return &PostgresSource{db: db, log: log}
}

// LoadLocations retrieves every location record that carries usable
// coordinates and a non-empty address, in insertion order.
func (s *PostgresSource) LoadLocations(ctx context.Context) ([]models.Location, error) {
	query := `
		SELECT address, postal_code, latitude, longitude
		FROM public.locations
		WHERE
			latitude IS NOT NULL
			AND longitude IS NOT NULL
			AND address IS NOT NULL AND address <> ''
		ORDER BY id ASC;
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query location records: %w", err)
	}
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		var loc models.Location
		if errScan := rows.Scan(&loc.Address, &loc.PostalCode, &loc.Latitude, &loc.Longitude); errScan != nil {
			return nil, fmt.Errorf("failed to scan location record: %w", errScan)
		}
		locations = append(locations, loc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	if len(locations) == 0 {
		return nil, ErrNoLocations
	}

	s.log.InfoContext(ctx, "Location table loaded", "source", "postgres", "records", len(locations))

	return locations, nil
}
