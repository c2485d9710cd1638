package models

// Coordinates represents a geographical point defined by its latitude and longitude.
type Coordinates struct {
	Latitude  float64 // Latitude of the geographical point.
	Longitude float64 // Longitude of the geographical point.
}

// Region is a rectangular geographic bounding box.
type Region struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains reports whether the given coordinates lie within the region,
// boundaries included.
func (r Region) Contains(c Coordinates) bool {
	return c.Latitude >= r.MinLat && c.Latitude <= r.MaxLat &&
		c.Longitude >= r.MinLon && c.Longitude <= r.MaxLon
}

// RegionSingapore is the bounding box every resolved coordinate must fall
// into before results are rendered.
var RegionSingapore = Region{
	MinLat: 1.15,
	MaxLat: 1.47,
	MinLon: 103.6,
	MaxLon: 104.1,
}
