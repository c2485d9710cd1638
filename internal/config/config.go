package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the configuration settings for the proximity map service.
//
// Fields:
// - Env: The current environment (e.g., local, dev, prod).
// - Port: The port for the HTTP server.
// - SourceType: The location table source to use (csv, xlsx, postgres).
// - DatasetPath: Path to the location table file (csv and xlsx sources).
// - ModelDir: Directory holding the postal-code extraction model.
// - PostalDataset: Path to the offline postal-code dataset used by the fallback geocoder.
// - ProviderType: The primary geocoding provider to use (nominatim, google).
// - APIKey: The API key for the primary provider (required for Google).
// - RateLimit: Requests per second allowed against the primary provider.
// - MapsDir: Directory rendered map files are written to.
// - Database: Configuration settings for the PostgreSQL location source.
type Config struct {
	Env           string
	Port          int
	SourceType    string
	DatasetPath   string
	ModelDir      string
	PostalDataset string
	ProviderType  string
	APIKey        string
	RateLimit     int
	MapsDir       string
	Database      PostgresConfig
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// MustLoad loads the configuration from the environment and returns a Config struct.
// It panics when a numeric value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	port, err := strconv.Atoi(setDefaultEnv("GEOMAP_PORT", "8080"))
	if err != nil {
		panic("failed to parse port for HTTP server from configuration")
	}

	rateLimit, err := strconv.Atoi(setDefaultEnv("GEOMAP_RATE_LIMIT", "1"))
	if err != nil {
		panic("failed to parse rate limit from configuration, must be an integer type")
	}

	return &Config{
		Env:           setDefaultEnv("GEOMAP_ENV", "production"),
		Port:          port,
		SourceType:    setDefaultEnv("GEOMAP_SOURCE_TYPE", "csv"),
		DatasetPath:   setDefaultEnv("GEOMAP_DATASET", "data/locations.csv"),
		ModelDir:      setDefaultEnv("GEOMAP_MODEL_DIR", "models/postal"),
		PostalDataset: setDefaultEnv("GEOMAP_POSTAL_DATASET", "data/sg_postal_codes.csv"),
		ProviderType:  setDefaultEnv("GEOMAP_PROVIDER_TYPE", "nominatim"),
		APIKey:        os.Getenv("GEOMAP_PROVIDER_KEY"),
		RateLimit:     rateLimit,
		MapsDir:       setDefaultEnv("GEOMAP_MAPS_DIR", "maps"),
		Database: PostgresConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			User:     os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
		},
	}
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}
