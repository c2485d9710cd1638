package geocoding

import (
	"context"
	"net/http"

	"github.com/lamppost-labs/geomap/internal/models"
)

// Provider is an interface that defines a method for resolving a postal code
// or address string into coordinates. The Geocode method takes a context and
// a query string as input, and returns the corresponding coordinates and an
// error if any occurs.
type Provider interface {
	Geocode(ctx context.Context, query string) (*models.Coordinates, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
