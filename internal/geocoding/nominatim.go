package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/lamppost-labs/geomap/internal/models"
	"golang.org/x/time/rate"
)

// NominatimProvider implements the Provider interface using OpenStreetMap's
// Nominatim API. This is a free geocoding service with usage limits
// (1 request/second for fair use), enforced here with a rate limiter.
type NominatimProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the Nominatim API
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter honoring the fair-use policy
	// userAgent is required by Nominatim usage policy
	userAgent string
}

// nominatimResponse represents the JSON response from Nominatim API.
type nominatimResponse struct {
	Lat string `json:"lat"` // Latitude as string
	Lon string `json:"lon"` // Longitude as string
}

// Common errors for Nominatim provider.
var (
	ErrNominatimEmptyResponse = errors.New("nominatim API returned empty response")
	ErrNominatimInvalidCoords = errors.New("nominatim API returned invalid coordinates")
)

const nominatimBaseURL = "https://nominatim.openstreetmap.org/search"

// NewNominatimProvider creates a new Nominatim geocoding provider.
// Uses the public Nominatim API endpoint by default.
func NewNominatimProvider(rateLimit int, log *slog.Logger) *NominatimProvider {
	const timeout = 10
	if rateLimit <= 0 {
		rateLimit = 1
	}
	return &NominatimProvider{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL: nominatimBaseURL,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		// User-Agent MUST include valid contact info per Nominatim usage policy:
		// https://operations.osmfoundation.org/policies/nominatim/
		userAgent: "geomap/1.0 (https://github.com/lamppost-labs/geomap)",
	}
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom
// HTTP client and limiter. Useful for testing with mocked HTTP clients.
func NewNominatimProviderWithClient(client HTTPClient, limiter *rate.Limiter, log *slog.Logger) *NominatimProvider {
	return &NominatimProvider{
		client:    client,
		baseURL:   nominatimBaseURL,
		log:       log,
		limiter:   limiter,
		userAgent: "geomap/1.0 (https://github.com/lamppost-labs/geomap)",
	}
}

// Geocode resolves a postal code to geographic coordinates using the
// Nominatim API. Queries are biased to Singapore via the countrycodes
// parameter so that a bare postal code resolves against the right country.
func (np *NominatimProvider) Geocode(ctx context.Context, query string) (*models.Coordinates, error) {
	if err := np.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	np.log.DebugContext(ctx, "Geocoding using Nominatim", "query", query)

	reqURL, err := url.Parse(np.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	params := reqURL.Query()
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1") // Only need the top result
	params.Set("countrycodes", "sg")
	reqURL.RawQuery = params.Encode()

	np.log.DebugContext(ctx, "Nominatim request URL", "url", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set required headers per Nominatim usage policy
	req.Header.Set("User-Agent", np.userAgent)

	resp, err := np.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var results []nominatimResponse
	if err = json.Unmarshal(body, &results); err != nil {
		np.log.ErrorContext(ctx, "Failed to parse Nominatim response", "error", err, "body", string(body))
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrNominatimEmptyResponse
	}

	var lat, lon float64
	if _, err = fmt.Sscanf(results[0].Lat, "%f", &lat); err != nil {
		return nil, fmt.Errorf("%w: invalid latitude: %s", ErrNominatimInvalidCoords, results[0].Lat)
	}
	if _, err = fmt.Sscanf(results[0].Lon, "%f", &lon); err != nil {
		return nil, fmt.Errorf("%w: invalid longitude: %s", ErrNominatimInvalidCoords, results[0].Lon)
	}

	np.log.DebugContext(ctx, "Nominatim found result", "query", query, "lat", lat, "lon", lon)

	return &models.Coordinates{
		Latitude:  lat,
		Longitude: lon,
	}, nil
}
