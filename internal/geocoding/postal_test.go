package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/Flaque/filet"
	"github.com/lamppost-labs/geomap/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePostalDataset = `postal_code,latitude,longitude
018956,1.2830,103.8585
259569,1.3138,103.8159
819666,1.3644,103.9915
bad_row
999999,not_a_number,103.9
`

func TestNewPostalTableProvider(t *testing.T) {
	defer filet.CleanUp(t)
	logger := slog.Default()

	t.Run("loads a valid dataset, skipping bad rows", func(t *testing.T) {
		path := filet.TmpFile(t, "", samplePostalDataset).Name()

		provider, err := geocoding.NewPostalTableProvider(path, logger)

		require.NoError(t, err)
		require.NotNil(t, provider)
	})

	t.Run("missing dataset file", func(t *testing.T) {
		provider, err := geocoding.NewPostalTableProvider("nonexistent.csv", logger)

		require.Error(t, err)
		require.Nil(t, provider)
		assert.Contains(t, err.Error(), "failed to open postal dataset")
	})

	t.Run("dataset with only a header", func(t *testing.T) {
		path := filet.TmpFile(t, "", "postal_code,latitude,longitude\n").Name()

		provider, err := geocoding.NewPostalTableProvider(path, logger)

		require.Error(t, err)
		require.ErrorIs(t, err, geocoding.ErrPostalTableEmpty)
		require.Nil(t, provider)
	})
}

func TestPostalTableProvider_Geocode(t *testing.T) {
	defer filet.CleanUp(t)
	logger := slog.Default()
	ctx := t.Context()

	path := filet.TmpFile(t, "", samplePostalDataset).Name()
	provider, err := geocoding.NewPostalTableProvider(path, logger)
	require.NoError(t, err)

	t.Run("known postal code", func(t *testing.T) {
		coords, err := provider.Geocode(ctx, "018956")

		require.NoError(t, err)
		require.NotNil(t, coords)
		assert.InEpsilon(t, 1.2830, coords.Latitude, 0.0001)
		assert.InEpsilon(t, 103.8585, coords.Longitude, 0.0001)
	})

	t.Run("postal code with surrounding whitespace", func(t *testing.T) {
		coords, err := provider.Geocode(ctx, " 259569 ")

		require.NoError(t, err)
		require.NotNil(t, coords)
		assert.InEpsilon(t, 1.3138, coords.Latitude, 0.0001)
	})

	t.Run("unknown postal code", func(t *testing.T) {
		coords, err := provider.Geocode(ctx, "123456")

		require.Error(t, err)
		require.Nil(t, coords)
		require.ErrorIs(t, err, geocoding.ErrPostalCodeUnknown)
	})

	t.Run("row with invalid coordinates is not loaded", func(t *testing.T) {
		coords, err := provider.Geocode(ctx, "999999")

		require.Error(t, err)
		require.Nil(t, coords)
		require.ErrorIs(t, err, geocoding.ErrPostalCodeUnknown)
	})
}
