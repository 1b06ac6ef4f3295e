// Package ui serves the dashboard page and the JSON API behind it. The
// page is a single template with vanilla JS calling the API; all state
// lives in the app service.
package ui

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"datalens/app"
	"datalens/internal"
	"datalens/internal/config"
	"datalens/internal/errors"
)

// Server is the gin web server for the dashboard.
type Server struct {
	router    *gin.Engine
	service   *app.DashboardService
	config    config.Config
	logger    *internal.Logger
	templates *template.Template

	// parseSlots bounds how many uploads parse concurrently; parsing a
	// wide Excel sheet is the most expensive request the server takes.
	parseSlots *semaphore.Weighted
}

// NewServer creates the dashboard server. embeddedFiles must carry
// ui/templates and ui/static (embedded from the repo root).
func NewServer(cfg config.Config, service *app.DashboardService, embeddedFiles fs.FS, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.Uploads.MaxUploadMB << 20

	s := &Server{
		router:     router,
		service:    service,
		config:     cfg,
		logger:     logger,
		parseSlots: semaphore.NewWeighted(int64(cfg.Uploads.ParseSlots)),
	}

	templatesFS, err := fs.Sub(embeddedFiles, "ui/templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create templates filesystem: %w", err)
	}
	s.templates, err = template.ParseFS(templatesFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	staticFS, err := fs.Sub(embeddedFiles, "ui/static")
	if err != nil {
		return nil, fmt.Errorf("failed to create static filesystem: %w", err)
	}

	router.Use(s.requestLogger())
	router.StaticFS("/static", http.FS(staticFS))
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)

	api := s.router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/upload", s.handleUpload)
	api.POST("/sample", s.handleSample)
	api.GET("/status", s.handleStatus)
	api.GET("/preview", s.handlePreview)
	api.GET("/profiles", s.handleProfileCatalog)
	api.GET("/profiles/:name", s.handleProfile)
	api.GET("/report", s.handleReport)
	api.GET("/insights", s.handleInsights)
	api.GET("/charts", s.handleChartCatalog)
	api.GET("/charts/:kind", s.handleChart)
	api.POST("/filter", s.handleFilter)
	api.POST("/reset", s.handleReset)
	api.POST("/export", s.handleExport)
	api.GET("/download", s.handleDownload)
}

// Handler exposes the router so main can run it inside an http.Server
// with graceful shutdown.
func (s *Server) Handler() http.Handler { return s.router }

// Start runs the server on addr, blocking until it exits.
func (s *Server) Start(addr string) error {
	s.logger.Info("dashboard listening on http://%s", addr)
	return s.router.Run(addr)
}

// requestLogger logs one line per request through the leveled logger.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("%s %s -> %d (%.1fms)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(),
			float64(time.Since(start).Microseconds())/1000.0)
	}
}

// renderError maps a taxonomy error onto its HTTP status and the
// {error, code} body every API route shares.
func (s *Server) renderError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := httpStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.logger.Debug("%s %s rejected: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func httpStatus(code string) int {
	switch code {
	case errors.CodeNoData:
		return http.StatusConflict
	case errors.CodeMalformedFilter:
		return http.StatusBadRequest
	case errors.CodeUnsupportedInput:
		return http.StatusUnsupportedMediaType
	case errors.CodeStrategyNotFound:
		return http.StatusNotFound
	case errors.CodeLoadFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
