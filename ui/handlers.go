package ui

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"datalens/app"
	"datalens/internal/errors"
	"datalens/ports"
)

func (s *Server) handleIndex(c *gin.Context) {
	c.Header("Content-Type", "text/html")
	if err := s.templates.ExecuteTemplate(c.Writer, "dashboard.html", gin.H{
		"Title": "DataLens",
	}); err != nil {
		s.logger.Error("template error: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleUpload receives a multipart dataset file and installs it as the
// session dataset. Parsing is bounded by the configured slot count so a
// burst of uploads cannot pile up Excel parses.
func (s *Server) handleUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		s.renderError(c, errors.LoadFailed("no file uploaded", err))
		return
	}
	defer file.Close()

	maxBytes := s.config.Uploads.MaxUploadMB << 20
	if header.Size > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("file size (%.1f MB) exceeds the %d MB limit",
				float64(header.Size)/(1024*1024), s.config.Uploads.MaxUploadMB),
			"code": errors.CodeUnsupportedInput,
		})
		return
	}

	if err := s.parseSlots.Acquire(c.Request.Context(), 1); err != nil {
		s.renderError(c, errors.InternalError("upload canceled before parsing"))
		return
	}
	defer s.parseSlots.Release(1)

	summary, err := s.service.LoadReader(header.Filename, file)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// handleSample loads the synthetic retail dataset. Body is optional:
// {"rows": n, "seed": n} overrides the configured defaults.
func (s *Server) handleSample(c *gin.Context) {
	var req struct {
		Rows int   `json:"rows"`
		Seed int64 `json:"seed"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.renderError(c, errors.UnsupportedInput("request body must be valid JSON"))
			return
		}
	}

	summary, err := s.service.LoadSample(req.Rows, req.Seed)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.service.Status())
}

func (s *Server) handlePreview(c *gin.Context) {
	rows, err := strconv.Atoi(c.DefaultQuery("rows", "0"))
	if err != nil {
		s.renderError(c, errors.UnsupportedInput("rows must be an integer"))
		return
	}

	records, err := s.service.Preview(rows)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (s *Server) handleProfileCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"profiles":     s.service.ProfileNames(),
		"descriptions": s.service.ProfileCatalog(),
	})
}

func (s *Server) handleProfile(c *gin.Context) {
	name := c.Param("name")
	report, err := s.service.Profile(name)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"strategy": name, "report": report})
}

// handleReport runs every profiling strategy and returns the reports in
// registration order.
func (s *Server) handleReport(c *gin.Context) {
	reports, err := s.service.ProfileAll()
	if err != nil {
		s.renderError(c, err)
		return
	}

	out := make([]gin.H, len(reports))
	for i, r := range reports {
		out[i] = gin.H{"strategy": r.Strategy(), "report": r}
	}
	c.JSON(http.StatusOK, gin.H{"reports": out})
}

// handleInsights returns insight Markdown and its HTML rendering.
// ?strategy= selects one insight; default is all of them joined.
func (s *Server) handleInsights(c *gin.Context) {
	opt := ports.InsightOptions{
		CategoryColumn: c.Query("category"),
		ValueColumn:    c.Query("value"),
	}

	var md string
	var err error
	if strategy := c.Query("strategy"); strategy != "" {
		md, err = s.service.Insights(strategy, opt)
	} else {
		md, err = s.service.AllInsights(opt)
	}
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"markdown": md,
		"html":     app.RenderMarkdown(md),
	})
}

// handleChartCatalog lists every chart kind plus the ones the current
// dataset can satisfy. With no dataset loaded, available is empty
// rather than an error so the page can render its chart pickers early.
func (s *Server) handleChartCatalog(c *gin.Context) {
	available, err := s.service.AvailableCharts()
	if err != nil {
		if !errors.HasCode(err, errors.CodeNoData) {
			s.renderError(c, err)
			return
		}
		available = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"charts":    s.service.ChartNames(),
		"available": available,
	})
}

func (s *Server) handleChart(c *gin.Context) {
	kind := c.Param("kind")
	opt := ports.ChartOptions{
		XColumn:     c.Query("x"),
		YColumn:     c.Query("y"),
		Aggregation: c.Query("aggregation"),
	}

	data, err := s.service.Chart(kind, opt)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "data": data})
}

func (s *Server) handleFilter(c *gin.Context) {
	var req struct {
		Column   string `json:"column"`
		Operator string `json:"operator"`
		Value    string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, errors.MalformedFilter("filter body must be JSON with column, operator and value"))
		return
	}

	summary, err := s.service.Filter(req.Column, req.Operator, req.Value)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleReset(c *gin.Context) {
	summary, err := s.service.Reset()
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleExport(c *gin.Context) {
	var req struct {
		Format string `json:"format"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.renderError(c, errors.UnsupportedInput("request body must be valid JSON"))
			return
		}
	}
	if req.Format == "" {
		req.Format = "csv"
	}

	path, err := s.service.Export(req.Format)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path, "filename": filepath.Base(path)})
}

// handleDownload streams a previously exported file. Only base names
// inside the export directory are served; anything else 404s.
func (s *Server) handleDownload(c *gin.Context) {
	name := c.Query("file")
	if name == "" {
		s.renderError(c, errors.UnsupportedInput("file query parameter is required"))
		return
	}

	base := filepath.Base(name)
	path := filepath.Join(s.service.ExportDir(), base)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "export not found", "code": errors.CodeLoadFailed})
		return
	}
	c.FileAttachment(path, base)
}
