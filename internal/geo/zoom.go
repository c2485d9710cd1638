package geo

// Zoom interpolation anchors: a 0.1 km radius maps to zoom 17, a 10 km
// radius to zoom 12. Thresholds outside that range clamp to the nearest edge.
const (
	minThresholdKm = 0.1
	maxThresholdKm = 10.0
	zoomAtMin      = 17.0
	zoomAtMax      = 12.0
)

// ZoomForRadius returns the initial map zoom level for a proximity radius
// in kilometers, interpolated linearly between the anchors above.
func ZoomForRadius(radiusKm float64) int {
	if radiusKm <= minThresholdKm {
		return int(zoomAtMin)
	}
	if radiusKm >= maxThresholdKm {
		return int(zoomAtMax)
	}

	fraction := (radiusKm - minThresholdKm) / (maxThresholdKm - minThresholdKm)
	return int(zoomAtMin + fraction*(zoomAtMax-zoomAtMin))
}
