// Package server exposes the proximity map tool over HTTP: a form page, the
// query endpoint, the rendered map files and the monitoring endpoints.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lamppost-labs/geomap/internal/geocoding"
	"github.com/lamppost-labs/geomap/internal/models"
	"github.com/lamppost-labs/geomap/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html
var templatesFS embed.FS

// QueryProcessor runs one proximity query end to end.
type QueryProcessor interface {
	Process(ctx context.Context, query models.Query) (*service.Outcome, error)
}

// Pinger reports backend connectivity for the health check. May be nil when
// the location table comes from a file.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the HTTP surface of the application.
type Server struct {
	log     *slog.Logger
	svc     QueryProcessor
	mapsDir string
	pinger  Pinger
	reg     *prometheus.Registry
}

// New creates a Server over the given query processor.
func New(
	log *slog.Logger,
	svc QueryProcessor,
	mapsDir string,
	pinger Pinger,
	reg *prometheus.Registry,
) *Server {
	return &Server{
		log:     log,
		svc:     svc,
		mapsDir: mapsDir,
		pinger:  pinger,
		reg:     reg,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	router.GET("/", s.handleIndex)
	router.POST("/query", s.handleQuery)
	router.GET("/maps/:name", s.handleMapFile)
	router.GET("/healthz", s.handleHealthz)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})))

	return router
}

// styles is the fixed choice list for the map style dropdown.
var styles = []models.MapStyle{
	models.StyleHeatDensity,
	models.StyleClusters,
	models.StyleProximity,
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Styles":    styles,
		"Address":   "",
		"Proximity": "",
		"Style":     "",
	})
}

func (s *Server) handleQuery(c *gin.Context) {
	address := c.PostForm("address")
	proximity := c.PostForm("proximity")
	style := c.PostForm("style")

	page := gin.H{
		"Styles":    styles,
		"Address":   address,
		"Proximity": proximity,
		"Style":     style,
	}

	if strings.TrimSpace(proximity) == "" {
		page["Error"] = "Please enter a proximity threshold."
		c.HTML(http.StatusBadRequest, "index.html", page)
		return
	}

	thresholdKm, err := strconv.ParseFloat(strings.TrimSpace(proximity), 64)
	if err != nil {
		page["Error"] = "Proximity threshold must be a valid number."
		c.HTML(http.StatusBadRequest, "index.html", page)
		return
	}

	query := models.Query{
		Address:     address,
		ThresholdKm: thresholdKm,
		Style:       models.MapStyle(style),
	}

	outcome, err := s.svc.Process(c.Request.Context(), query)
	if err != nil {
		status, message := mapError(err)
		s.log.WarnContext(c.Request.Context(), "Query rejected", "error", err)
		page["Error"] = message
		c.HTML(status, "index.html", page)
		return
	}

	page["MapURL"] = "/maps/" + outcome.MapFile
	page["Count"] = len(outcome.Results)
	page["Results"] = outcome.Results
	page["Notice"] = outcome.Notice
	c.HTML(http.StatusOK, "index.html", page)
}

// mapError converts pipeline failures into the dialog messages shown to the
// user.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrEmptyAddress):
		return http.StatusBadRequest, "Please enter an address."
	case errors.Is(err, service.ErrInvalidThreshold):
		return http.StatusBadRequest, "Proximity threshold must be a positive number."
	case errors.Is(err, service.ErrInvalidStyle):
		return http.StatusBadRequest, "Please choose a supported map style."
	case errors.Is(err, geocoding.ErrOutsideRegion):
		return http.StatusUnprocessableEntity, "Unable to retrieve valid coordinates in Singapore"
	case errors.Is(err, service.ErrAddressUnresolved):
		return http.StatusUnprocessableEntity, "Unable to retrieve coordinates for the address"
	default:
		return http.StatusInternalServerError, "Something went wrong while processing the query."
	}
}

func (s *Server) handleMapFile(c *gin.Context) {
	// filepath.Base keeps requests from escaping the maps directory.
	name := filepath.Base(c.Param("name"))
	if name == "." || name == "/" || !strings.HasSuffix(name, ".html") {
		c.String(http.StatusNotFound, "map not found")
		return
	}

	c.File(filepath.Join(s.mapsDir, name))
}

func (s *Server) handleHealthz(c *gin.Context) {
	ctx := c.Request.Context()
	s.log.DebugContext(ctx, "Performing health checks...")

	if s.pinger != nil {
		if err := s.pinger.Ping(ctx); err != nil {
			c.String(http.StatusServiceUnavailable, "DB ping failed")
			return
		}
	}

	c.String(http.StatusOK, "OK")
}
