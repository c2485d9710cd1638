package geo_test

import (
	"testing"

	"github.com/lamppost-labs/geomap/internal/geo"
	"github.com/lamppost-labs/geomap/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A few well-known Singapore landmarks used as fixtures.
var (
	marinaBay   = models.Coordinates{Latitude: 1.2834, Longitude: 103.8607}
	changi      = models.Coordinates{Latitude: 1.3644, Longitude: 103.9915}
	botanicGdns = models.Coordinates{Latitude: 1.3138, Longitude: 103.8159}
)

func TestHaversine(t *testing.T) {
	t.Parallel()

	t.Run("zero distance for identical points", func(t *testing.T) {
		t.Parallel()
		assert.Zero(t, geo.Haversine(marinaBay, marinaBay))
	})

	t.Run("symmetry", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, geo.Haversine(marinaBay, changi), geo.Haversine(changi, marinaBay), 1e-9)
	})

	t.Run("known distance", func(t *testing.T) {
		t.Parallel()
		// Marina Bay to Changi Airport is roughly 17 km.
		dist := geo.Haversine(marinaBay, changi)
		assert.InDelta(t, 17.0, dist, 1.0)
	})
}

func sampleTable() []models.Location {
	return []models.Location{
		{Address: "10 Bayfront Ave", PostalCode: "018956", Latitude: 1.2834, Longitude: 103.8600},
		{Address: "1 Cluny Rd", PostalCode: "259569", Latitude: 1.3138, Longitude: 103.8159},
		{Address: "78 Airport Blvd", PostalCode: "819666", Latitude: 1.3644, Longitude: 103.9915},
		{Address: "2 Bayfront Ave", PostalCode: "018972", Latitude: 1.2840, Longitude: 103.8590},
	}
}

func TestFilterByProximity(t *testing.T) {
	t.Parallel()

	t.Run("every result within threshold and sorted ascending", func(t *testing.T) {
		t.Parallel()
		results := geo.FilterByProximity(sampleTable(), marinaBay, 2.0)

		require.NotEmpty(t, results)
		for i, res := range results {
			assert.LessOrEqual(t, res.DistanceKm, 2.0)
			if i > 0 {
				assert.GreaterOrEqual(t, res.DistanceKm, results[i-1].DistanceKm)
			}
		}
	})

	t.Run("threshold covering the island returns the full table", func(t *testing.T) {
		t.Parallel()
		table := sampleTable()
		results := geo.FilterByProximity(table, marinaBay, 100.0)

		assert.Len(t, results, len(table))
	})

	t.Run("tight threshold returns nothing", func(t *testing.T) {
		t.Parallel()
		results := geo.FilterByProximity(sampleTable(), changi, 0.001)

		assert.Empty(t, results)
	})

	t.Run("ties keep original table order", func(t *testing.T) {
		t.Parallel()
		table := []models.Location{
			{Address: "first", Latitude: 1.30, Longitude: 103.85},
			{Address: "second", Latitude: 1.30, Longitude: 103.85},
			{Address: "third", Latitude: 1.30, Longitude: 103.85},
		}
		origin := models.Coordinates{Latitude: 1.31, Longitude: 103.85}

		results := geo.FilterByProximity(table, origin, 5.0)

		require.Len(t, results, 3)
		assert.Equal(t, "first", results[0].Address)
		assert.Equal(t, "second", results[1].Address)
		assert.Equal(t, "third", results[2].Address)
	})

	t.Run("empty table", func(t *testing.T) {
		t.Parallel()
		results := geo.FilterByProximity(nil, marinaBay, 2.0)

		assert.Empty(t, results)
	})
}

func TestNearest(t *testing.T) {
	t.Parallel()

	t.Run("single nearest", func(t *testing.T) {
		t.Parallel()
		results := []models.Result{
			{Location: models.Location{Address: "a"}, DistanceKm: 0.5},
			{Location: models.Location{Address: "b"}, DistanceKm: 1.0},
		}

		nearest := geo.Nearest(results)

		require.Len(t, nearest, 1)
		assert.Equal(t, "a", nearest[0].Address)
	})

	t.Run("all results tied for minimum", func(t *testing.T) {
		t.Parallel()
		results := []models.Result{
			{Location: models.Location{Address: "a"}, DistanceKm: 0.5},
			{Location: models.Location{Address: "b"}, DistanceKm: 0.5},
			{Location: models.Location{Address: "c"}, DistanceKm: 1.0},
		}

		nearest := geo.Nearest(results)

		require.Len(t, nearest, 2)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, geo.Nearest(nil))
	})
}

func TestZoomForRadius(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 17, geo.ZoomForRadius(0.05), "below range clamps to closest zoom")
	assert.Equal(t, 17, geo.ZoomForRadius(0.1))
	assert.Equal(t, 12, geo.ZoomForRadius(10))
	assert.Equal(t, 12, geo.ZoomForRadius(50), "above range clamps to widest zoom")

	mid := geo.ZoomForRadius(5)
	assert.GreaterOrEqual(t, mid, 12)
	assert.LessOrEqual(t, mid, 17)
}
