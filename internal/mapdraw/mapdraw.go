// Package mapdraw renders interactive Leaflet maps of a proximity query to
// standalone HTML files: the resolved input location, a circle marking the
// proximity boundary, and the filtered locations in the requested style.
package mapdraw

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/lamppost-labs/geomap/internal/geo"
	"github.com/lamppost-labs/geomap/internal/models"
)

//go:embed map.html.tmpl
var mapTemplate string

// Marker colors mirror the conventional colored Leaflet marker icons.
const (
	colorInput    = "red"
	colorSingle   = "blue"
	colorMultiple = "darkblue"
)

// Heat layer and cluster tuning.
const (
	heatRadius       = 15
	heatBlur         = 10
	heatMinOpacity   = 0.4
	maxClusterRadius = 150
	popupMaxWidth    = 250
)

// marker is one point rendered on the map.
type marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Popup string  `json:"popup"`
	Color string  `json:"color"`
}

// mapConfig is the JSON payload handed to the page script.
type mapConfig struct {
	Center           [2]float64      `json:"center"`
	Zoom             int             `json:"zoom"`
	Style            string          `json:"style"`
	Input            marker          `json:"input"`
	CircleRadiusM    float64         `json:"circleRadiusM"`
	Markers          []marker        `json:"markers"`
	HeatPoints       [][2]float64    `json:"heatPoints"`
	Polylines        [][2][2]float64 `json:"polylines"`
	HeatRadius       int             `json:"heatRadius"`
	HeatBlur         int             `json:"heatBlur"`
	HeatMinOpacity   float64         `json:"heatMinOpacity"`
	MaxClusterRadius int             `json:"maxClusterRadius"`
	PopupMaxWidth    int             `json:"popupMaxWidth"`
}

// Renderer writes query maps into a fixed output directory.
type Renderer struct {
	dir  string
	tmpl *template.Template
	log  *slog.Logger
}

// NewRenderer parses the embedded page template and ensures the output
// directory exists.
func NewRenderer(dir string, log *slog.Logger) (*Renderer, error) {
	tmpl, err := template.New("map").Parse(mapTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse map template: %w", err)
	}

	if err = os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create maps directory %q: %w", dir, err)
	}

	return &Renderer{dir: dir, tmpl: tmpl, log: log}, nil
}

// Dir returns the directory rendered maps are written to.
func (r *Renderer) Dir() string {
	return r.dir
}

// Render writes one map file for the query and returns its file name.
// An empty result set still renders: the map then carries only the input
// marker and the proximity circle.
func (r *Renderer) Render(
	query models.Query,
	origin models.Coordinates,
	results []models.Result,
) (string, error) {
	cfg := buildConfig(query, origin, results)

	// Popups carry <br> markup, so HTML escaping stays off here; any
	// user-supplied text has already been escaped when the popup was built.
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(cfg); err != nil {
		return "", fmt.Errorf("failed to encode map config: %w", err)
	}
	payload := bytes.TrimSpace(buf.Bytes())

	name := mapFileName(query)
	path := filepath.Join(r.dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create map file %q: %w", path, err)
	}
	defer file.Close()

	data := struct {
		Title      string
		ConfigJSON template.JS
	}{
		Title:      query.Address,
		ConfigJSON: template.JS(payload), //nolint:gosec // payload is json.Marshal output
	}

	if err = r.tmpl.Execute(file, data); err != nil {
		return "", fmt.Errorf("failed to render map file %q: %w", path, err)
	}

	r.log.Info("Map rendered", "file", name, "style", query.Style, "locations", len(results))

	return name, nil
}

// buildConfig assembles the page payload for the requested style.
func buildConfig(query models.Query, origin models.Coordinates, results []models.Result) mapConfig {
	cfg := mapConfig{
		Center: [2]float64{origin.Latitude, origin.Longitude},
		Zoom:   geo.ZoomForRadius(query.ThresholdKm),
		Style:  styleSlug(query.Style),
		Input: marker{
			Lat:   origin.Latitude,
			Lon:   origin.Longitude,
			Popup: template.HTMLEscapeString(query.Address),
			Color: colorInput,
		},
		CircleRadiusM:    query.ThresholdKm * 1000,
		HeatRadius:       heatRadius,
		HeatBlur:         heatBlur,
		HeatMinOpacity:   heatMinOpacity,
		MaxClusterRadius: maxClusterRadius,
		PopupMaxWidth:    popupMaxWidth,
	}

	if len(results) == 0 {
		return cfg
	}

	switch query.Style {
	case models.StyleHeatDensity:
		for _, res := range results {
			cfg.HeatPoints = append(cfg.HeatPoints, [2]float64{res.Latitude, res.Longitude})
		}
	case models.StyleClusters:
		for _, res := range results {
			cfg.Markers = append(cfg.Markers, marker{
				Lat:   res.Latitude,
				Lon:   res.Longitude,
				Popup: template.HTMLEscapeString(res.Address),
				Color: colorSingle,
			})
		}
	case models.StyleProximity:
		cfg.Markers = groupedMarkers(results)
		for _, nearest := range geo.Nearest(results) {
			cfg.Polylines = append(cfg.Polylines, [2][2]float64{
				{origin.Latitude, origin.Longitude},
				{nearest.Latitude, nearest.Longitude},
			})
		}
	}

	return cfg
}

// groupedMarkers merges results sharing a coordinate into one marker whose
// popup lists every address plus the distance from the input location.
// Markers with more than one address are drawn darker.
func groupedMarkers(results []models.Result) []marker {
	type group struct {
		res       models.Result
		addresses []string
	}

	var order []string
	groups := make(map[string]*group)
	for _, res := range results {
		key := fmt.Sprintf("%.6f,%.6f", res.Latitude, res.Longitude)
		grp, ok := groups[key]
		if !ok {
			grp = &group{res: res}
			groups[key] = grp
			order = append(order, key)
		}
		grp.addresses = append(grp.addresses, template.HTMLEscapeString(res.Address))
	}

	markers := make([]marker, 0, len(order))
	for _, key := range order {
		grp := groups[key]
		popup := strings.Join(grp.addresses, "<br><br>") +
			fmt.Sprintf("<br><br>Distance from input: %.3f km", grp.res.DistanceKm)

		color := colorSingle
		if len(grp.addresses) > 1 {
			color = colorMultiple
		}

		markers = append(markers, marker{
			Lat:   grp.res.Latitude,
			Lon:   grp.res.Longitude,
			Popup: popup,
			Color: color,
		})
	}

	return markers
}

// styleSlug converts a map style into the token the page script switches on.
func styleSlug(style models.MapStyle) string {
	switch style {
	case models.StyleHeatDensity:
		return "heat"
	case models.StyleClusters:
		return "clusters"
	case models.StyleProximity:
		return "proximity"
	default:
		return "none"
	}
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// mapFileName derives a unique file name from the query. The uuid suffix
// keeps concurrent queries for the same address from clobbering each other.
func mapFileName(query models.Query) string {
	address := unsafeFileChars.ReplaceAllString(query.Address, "_")
	style := unsafeFileChars.ReplaceAllString(string(query.Style), "_")
	suffix := uuid.New().String()[:8]

	return fmt.Sprintf("map_%s_%s_%s.html", strings.Trim(address, "_"), style, suffix)
}
