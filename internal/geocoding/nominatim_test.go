package geocoding_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/lamppost-labs/geomap/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func unlimited() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

func TestNominatimProvider_Geocode(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("successful geocoding", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				// Verify request parameters
				assert.Equal(t, "GET", req.Method)
				assert.Contains(t, req.URL.String(), "nominatim.openstreetmap.org")
				assert.Equal(t, "018956", req.URL.Query().Get("q"))
				assert.Equal(t, "json", req.URL.Query().Get("format"))
				assert.Equal(t, "1", req.URL.Query().Get("limit"))
				assert.Equal(t, "sg", req.URL.Query().Get("countrycodes"))
				assert.Equal(
					t,
					"geomap/1.0 (https://github.com/lamppost-labs/geomap)",
					req.Header.Get("User-Agent"),
				)

				// Return mock response
				responseBody := `[{"lat":"1.2834","lon":"103.8607"}]`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited(), logger)
		coords, err := provider.Geocode(ctx, "018956")

		require.NoError(t, err)
		require.NotNil(t, coords)
		assert.InEpsilon(t, 1.2834, coords.Latitude, 0.0001)
		assert.InEpsilon(t, 103.8607, coords.Longitude, 0.0001)
	})

	t.Run("empty response from API", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				responseBody := `[]`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited(), logger)
		coords, err := provider.Geocode(ctx, "000000")

		require.Error(t, err)
		require.Nil(t, coords)
		assert.ErrorIs(t, err, geocoding.ErrNominatimEmptyResponse)
	})

	t.Run("HTTP error status", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				responseBody := `{"error":"Rate limit exceeded"}`
				return &http.Response{
					StatusCode: http.StatusTooManyRequests,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited(), logger)
		coords, err := provider.Geocode(ctx, "018956")

		require.Error(t, err)
		require.Nil(t, coords)
		assert.Contains(t, err.Error(), "nominatim API returned status 429")
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				responseBody := `invalid json`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited(), logger)
		coords, err := provider.Geocode(ctx, "018956")

		require.Error(t, err)
		require.Nil(t, coords)
		assert.Contains(t, err.Error(), "failed to decode nominatim response")
	})

	t.Run("invalid latitude in response", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				responseBody := `[{"lat":"invalid","lon":"103.8607"}]`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited(), logger)
		coords, err := provider.Geocode(ctx, "018956")

		require.Error(t, err)
		require.Nil(t, coords)
		require.ErrorIs(t, err, geocoding.ErrNominatimInvalidCoords)
		assert.Contains(t, err.Error(), "invalid latitude")
	})

	t.Run("invalid longitude in response", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				responseBody := `[{"lat":"1.2834","lon":"invalid"}]`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited(), logger)
		coords, err := provider.Geocode(ctx, "018956")

		require.Error(t, err)
		require.Nil(t, coords)
		require.ErrorIs(t, err, geocoding.ErrNominatimInvalidCoords)
		assert.Contains(t, err.Error(), "invalid longitude")
	})

	t.Run("HTTP client returns error", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, assert.AnError
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited(), logger)
		coords, err := provider.Geocode(ctx, "018956")

		require.Error(t, err)
		require.Nil(t, coords)
		assert.Contains(t, err.Error(), "failed to execute geocoding request")
	})

	t.Run("context cancellation", func(t *testing.T) {
		newCtx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				return nil, req.Context().Err()
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited(), logger)
		coords, err := provider.Geocode(newCtx, "018956")

		require.Error(t, err)
		require.Nil(t, coords)
	})
}
