package models

// Location is a single record of the in-memory location table,
// loaded once at startup and never written back.
type Location struct {
	Address    string  // Address is the full street address of the record.
	PostalCode string  // PostalCode is the postal code of the record.
	Latitude   float64 // Latitude of the record.
	Longitude  float64 // Longitude of the record.
}

// Coordinates returns the geographic point of the location.
func (l Location) Coordinates() Coordinates {
	return Coordinates{Latitude: l.Latitude, Longitude: l.Longitude}
}

// Result is a location annotated with its computed great-circle distance
// from the resolved query coordinate.
type Result struct {
	Location
	DistanceKm float64 // DistanceKm is the distance from the query coordinate in kilometers.
}
