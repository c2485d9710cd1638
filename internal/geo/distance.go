// Package geo holds the great-circle math used to filter the location table.
package geo

import (
	"math"

	"github.com/lamppost-labs/geomap/internal/models"
)

// earthRadiusKm is the mean Earth radius in kilometers.
const earthRadiusKm = 6371.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Haversine computes the great-circle distance between two points in kilometers.
func Haversine(p1, p2 models.Coordinates) float64 {
	lat1 := toRadians(p1.Latitude)
	lat2 := toRadians(p2.Latitude)
	dLat := toRadians(p2.Latitude - p1.Latitude)
	dLon := toRadians(p2.Longitude - p1.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
