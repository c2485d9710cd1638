package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	QueriesProcessed *prometheus.CounterVec
	GeocodeFallbacks prometheus.Counter
	GeocodeSeconds   *prometheus.HistogramVec
	LocationsMatched prometheus.Histogram
	MapsRendered     *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		QueriesProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geomap_queries_processed_total",
			Help: "Total number of processed proximity queries.",
		}, []string{"status"}),
		GeocodeFallbacks: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geomap_geocode_fallbacks_total",
			Help: "Total number of queries resolved by the fallback geocoder.",
		}),
		GeocodeSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geomap_geocode_request_duration_seconds",
			Help:    "Duration of requests to the geocoding providers.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		LocationsMatched: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "geomap_locations_matched",
			Help:    "Number of locations matched per proximity query.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
		MapsRendered: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geomap_maps_rendered_total",
			Help: "Total number of rendered map files.",
		}, []string{"style"}),
	}
}
