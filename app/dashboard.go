// Package app wires the session, the strategy engines and the file
// adapters into the one service every delivery surface (gin dashboard,
// CLI) talks to.
package app

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"datalens/adapters/insight"
	"datalens/adapters/profiling"
	"datalens/adapters/viz"
	"datalens/domain/session"
	"datalens/domain/table"
	"datalens/internal"
	"datalens/internal/config"
	"datalens/internal/errors"
	"datalens/internal/testkit"
	"datalens/ports"
)

// DashboardService orchestrates every dashboard operation over the
// single loaded dataset. The engines and adapters are stateless; the
// session is the only mutable state, and the service serializes access
// to it.
type DashboardService struct {
	mu      sync.RWMutex
	session *session.Session

	loader   ports.DatasetLoader
	exporter ports.DatasetExporter

	profiles *profiling.Engine
	insights *insight.Engine
	charts   *viz.Engine

	config config.Config
	logger *internal.Logger
}

// LoadSummary describes a freshly installed dataset.
type LoadSummary struct {
	DatasetID   string                `json:"dataset_id"`
	Source      string                `json:"source"`
	Rows        int                   `json:"rows"`
	Columns     int                   `json:"columns"`
	ColumnNames []string              `json:"column_names"`
	Kinds       map[string]table.Kind `json:"kinds"`
}

// FilterSummary reports the view size after a filter or reset.
type FilterSummary struct {
	RowsRetained int `json:"rows_retained"`
	RowsTotal    int `json:"rows_total"`
}

// StatusReport is the session snapshot the dashboard polls. It carries
// the column schema so a reloaded page can rebuild its pickers.
type StatusReport struct {
	Loaded      bool                  `json:"loaded"`
	DatasetID   string                `json:"dataset_id,omitempty"`
	Source      string                `json:"source,omitempty"`
	Rows        int                   `json:"rows"`
	TotalRows   int                   `json:"total_rows"`
	Columns     int                   `json:"columns"`
	ColumnNames []string              `json:"column_names,omitempty"`
	Kinds       map[string]table.Kind `json:"kinds,omitempty"`
	LoadedAt    string                `json:"loaded_at,omitempty"`
}

// NewDashboardService creates a dashboard service over an empty session
func NewDashboardService(cfg config.Config, loader ports.DatasetLoader, exporter ports.DatasetExporter, profiles *profiling.Engine, insights *insight.Engine, charts *viz.Engine, logger *internal.Logger) *DashboardService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DashboardService{
		session:  session.New(),
		loader:   loader,
		exporter: exporter,
		profiles: profiles,
		insights: insights,
		charts:   charts,
		config:   cfg,
		logger:   logger,
	}
}

// LoadPath loads a dataset from a file on disk and installs it as the
// session dataset.
func (s *DashboardService) LoadPath(path string) (*LoadSummary, error) {
	t, err := s.loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return s.install(t, filepath.Base(path)), nil
}

// LoadReader loads a dataset from a stream; name supplies the extension
// and the source label.
func (s *DashboardService) LoadReader(name string, r io.Reader) (*LoadSummary, error) {
	t, err := s.loader.LoadReader(name, r)
	if err != nil {
		return nil, err
	}
	return s.install(t, filepath.Base(name)), nil
}

// LoadSample generates the synthetic retail dataset and installs it.
// Non-positive rows and a zero seed fall back to the configured
// defaults.
func (s *DashboardService) LoadSample(rows int, seed int64) (*LoadSummary, error) {
	gen := testkit.DefaultRetailConfig()
	gen.Rows = s.config.Data.SampleRows
	gen.Seed = s.config.Data.SampleSeed
	if rows > 0 {
		gen.Rows = rows
	}
	if seed != 0 {
		gen.Seed = seed
	}

	t, err := testkit.NewRetailGenerator(gen).Generate()
	if err != nil {
		return nil, errors.LoadFailed("sample dataset generation failed", err)
	}
	return s.install(t, "sample"), nil
}

func (s *DashboardService) install(t *table.Table, source string) *LoadSummary {
	s.mu.Lock()
	id := s.session.Set(t, source)
	s.mu.Unlock()

	s.logger.Info("dataset %s installed: %s (%d rows, %d columns)", id, source, t.Len(), t.Width())
	return &LoadSummary{
		DatasetID:   string(id),
		Source:      source,
		Rows:        t.Len(),
		Columns:     t.Width(),
		ColumnNames: t.Names(),
		Kinds:       t.Kinds(),
	}
}

// Preview returns the header and first n rows of the current view in
// display form. Non-positive n falls back to the configured default.
func (s *DashboardService) Preview(n int) ([][]string, error) {
	if n <= 0 {
		n = s.config.Data.PreviewRows
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.session.Data()
	if err != nil {
		return nil, err
	}
	return t.Head(n).Records(), nil
}

// Profile runs one profiling strategy against the current view.
func (s *DashboardService) Profile(name string) (ports.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.session.Data()
	if err != nil {
		return nil, err
	}
	return s.profiles.Run(name, t)
}

// ProfileAll runs every profiling strategy in registration order.
func (s *DashboardService) ProfileAll() ([]ports.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.session.Data()
	if err != nil {
		return nil, err
	}
	return s.profiles.RunAll(t)
}

// ProfileNames lists the registered profiling strategies in order.
func (s *DashboardService) ProfileNames() []string { return s.profiles.Names() }

// ProfileCatalog maps profiling strategy names to their descriptions.
func (s *DashboardService) ProfileCatalog() map[string]string { return s.profiles.Describe() }

// Insights runs one insight strategy and returns its Markdown fragment.
func (s *DashboardService) Insights(name string, opt ports.InsightOptions) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.session.Data()
	if err != nil {
		return "", err
	}
	return s.insights.Run(name, t, opt)
}

// AllInsights runs every insight strategy and joins the fragments into
// one Markdown document.
func (s *DashboardService) AllInsights(opt ports.InsightOptions) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.session.Data()
	if err != nil {
		return "", err
	}
	return s.insights.RunAll(t, opt)
}

// InsightsHTML renders the joined insight Markdown to an HTML fragment
// for the dashboard page.
func (s *DashboardService) InsightsHTML(opt ports.InsightOptions) (string, error) {
	md, err := s.AllInsights(opt)
	if err != nil {
		return "", err
	}
	return RenderMarkdown(md), nil
}

// InsightNames lists the registered insight strategies in order.
func (s *DashboardService) InsightNames() []string { return s.insights.Names() }

// Chart runs one chart data selector against the current view.
func (s *DashboardService) Chart(kind string, opt ports.ChartOptions) (ports.ChartData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.session.Data()
	if err != nil {
		return nil, err
	}
	return s.charts.Run(kind, t, opt)
}

// ChartNames lists every registered chart kind.
func (s *DashboardService) ChartNames() []string { return s.charts.Names() }

// AvailableCharts lists the chart kinds the current view can satisfy.
func (s *DashboardService) AvailableCharts() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.session.Data()
	if err != nil {
		return nil, err
	}
	return s.charts.Available(t), nil
}

// Filter applies column/op/value to the original dataset and installs
// the result as the current view. A failed filter leaves the view
// untouched.
func (s *DashboardService) Filter(column, op, value string) (*FilterSummary, error) {
	parsed, err := table.ParseOp(op)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.session.ApplyFilter(column, parsed, value); err != nil {
		return nil, err
	}
	current, original := s.session.RowsRetained()
	s.logger.Info("filter %s %s %q retained %d of %d rows", column, op, value, current, original)
	return &FilterSummary{RowsRetained: current, RowsTotal: original}, nil
}

// Reset discards any active filter.
func (s *DashboardService) Reset() (*FilterSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.session.Reset(); err != nil {
		return nil, err
	}
	current, original := s.session.RowsRetained()
	return &FilterSummary{RowsRetained: current, RowsTotal: original}, nil
}

// Export writes the current view into the configured export directory
// and returns the written path. Format is "csv" or "xlsx".
func (s *DashboardService) Export(format string) (string, error) {
	s.mu.RLock()
	t, err := s.session.Data()
	s.mu.RUnlock()
	if err != nil {
		return "", err
	}

	switch strings.ToLower(format) {
	case "csv":
		return s.exporter.ExportCSV(t, s.config.Exports.Dir)
	case "xlsx":
		return s.exporter.ExportXLSX(t, s.config.Exports.Dir)
	default:
		return "", errors.UnsupportedInput(fmt.Sprintf("unsupported export format %q (want csv or xlsx)", format))
	}
}

// ExportDir returns the directory exports are written to, so the UI can
// guard downloads to it.
func (s *DashboardService) ExportDir() string { return s.config.Exports.Dir }

// Status snapshots the session for the dashboard.
func (s *DashboardService) Status() *StatusReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.session.Loaded() {
		return &StatusReport{}
	}

	current, original := s.session.RowsRetained()
	t, _ := s.session.Data()
	return &StatusReport{
		Loaded:      true,
		DatasetID:   string(s.session.DatasetID()),
		Source:      s.session.Source(),
		Rows:        current,
		TotalRows:   original,
		Columns:     t.Width(),
		ColumnNames: t.Names(),
		Kinds:       t.Kinds(),
		LoadedAt:    s.session.LoadedAt().String(),
	}
}

// RenderMarkdown converts an insight Markdown document to HTML.
// gomarkdown parsers are single-use, so each call builds its own.
func RenderMarkdown(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.Render(doc, renderer))
}
