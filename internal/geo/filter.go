package geo

import (
	"sort"

	"github.com/lamppost-labs/geomap/internal/models"
)

// FilterByProximity returns the subset of the location table within
// thresholdKm of the origin, annotated with the computed distance and
// ordered by ascending distance. The sort is stable, so records at equal
// distance keep their original table order.
func FilterByProximity(
	table []models.Location,
	origin models.Coordinates,
	thresholdKm float64,
) []models.Result {
	results := make([]models.Result, 0, len(table))
	for _, loc := range table {
		dist := Haversine(origin, loc.Coordinates())
		if dist <= thresholdKm {
			results = append(results, models.Result{Location: loc, DistanceKm: dist})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})

	return results
}

// Nearest returns every result tied for the minimum distance. The input is
// expected to be sorted ascending, as produced by FilterByProximity.
func Nearest(results []models.Result) []models.Result {
	if len(results) == 0 {
		return nil
	}

	minDist := results[0].DistanceKm
	nearest := []models.Result{results[0]}
	for _, r := range results[1:] {
		if r.DistanceKm > minDist {
			break
		}
		nearest = append(nearest, r)
	}

	return nearest
}
