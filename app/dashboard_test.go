package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalens/adapters/insight"
	"datalens/adapters/profiling"
	"datalens/adapters/tabular"
	"datalens/adapters/viz"
	"datalens/domain/table"
	"datalens/internal"
	"datalens/internal/config"
	"datalens/internal/errors"
	"datalens/ports"
)

func newTestService(t *testing.T) *DashboardService {
	t.Helper()
	cfg := config.Config{
		Exports: config.ExportConfig{Dir: filepath.Join(t.TempDir(), "exports")},
		Data:    config.DataConfig{PreviewRows: 20, SampleRows: 100, SampleSeed: 42},
	}
	return NewDashboardService(
		cfg,
		tabular.NewLoader(),
		&tabular.Exporter{},
		profiling.NewEngine(),
		insight.NewEngine(),
		viz.NewEngine(),
		internal.NewLogger(internal.LogLevelError),
	)
}

func writeSalesCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	content := "Region,Sales,Quantity,Day\n" +
		"North,100.5,10,2024-01-01\n" +
		"South,200,20,2024-01-02\n" +
		"North,50,5,2024-01-03\n" +
		"East,75.25,,2024-01-04\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestDashboardLifecycle tests the full load/profile/insight/chart/
// filter/export flow against a real loader and real engines.
func TestDashboardLifecycle(t *testing.T) {
	svc := newTestService(t)

	summary, err := svc.LoadPath(writeSalesCSV(t))
	require.NoError(t, err)
	assert.NotEmpty(t, summary.DatasetID)
	assert.Equal(t, "sales.csv", summary.Source)
	assert.Equal(t, 4, summary.Rows)
	assert.Equal(t, 4, summary.Columns)
	assert.Equal(t, []string{"Region", "Sales", "Quantity", "Day"}, summary.ColumnNames)
	assert.Equal(t, table.KindCategorical, summary.Kinds["Region"])
	assert.Equal(t, table.KindNumeric, summary.Kinds["Sales"])
	assert.Equal(t, table.KindDatetime, summary.Kinds["Day"])

	status := svc.Status()
	assert.True(t, status.Loaded)
	assert.Equal(t, summary.DatasetID, status.DatasetID)
	assert.Equal(t, 4, status.Rows)
	assert.Equal(t, 4, status.TotalRows)
	assert.NotEmpty(t, status.LoadedAt)

	preview, err := svc.Preview(2)
	require.NoError(t, err)
	require.Len(t, preview, 3, "header plus two rows")
	assert.Equal(t, []string{"Region", "Sales", "Quantity", "Day"}, preview[0])
	assert.Equal(t, "North", preview[1][0])

	report, err := svc.Profile("basic_statistics")
	require.NoError(t, err)
	assert.Equal(t, "basic_statistics", report.Strategy())

	reports, err := svc.ProfileAll()
	require.NoError(t, err)
	assert.Len(t, reports, 5)
	assert.Equal(t, svc.ProfileNames()[0], reports[0].Strategy())
	assert.Len(t, svc.ProfileCatalog(), 5)

	md, err := svc.AllInsights(ports.InsightOptions{})
	require.NoError(t, err)
	assert.Contains(t, md, "Top 3 Region by Sales")

	html, err := svc.InsightsHTML(ports.InsightOptions{})
	require.NoError(t, err)
	assert.Contains(t, html, "<h3>")
	assert.Contains(t, html, "<strong>North</strong>")

	charts, err := svc.AvailableCharts()
	require.NoError(t, err)
	assert.Contains(t, charts, "category")
	assert.Contains(t, charts, "time_series")
	assert.Equal(t, []string{"time_series", "distribution", "category", "correlation"}, svc.ChartNames())

	chart, err := svc.Chart("category", ports.ChartOptions{})
	require.NoError(t, err)
	assert.Equal(t, "category", chart.Chart())

	filtered, err := svc.Filter("Region", "equals", "North")
	require.NoError(t, err)
	assert.Equal(t, 2, filtered.RowsRetained)
	assert.Equal(t, 4, filtered.RowsTotal)
	assert.Equal(t, 2, svc.Status().Rows)

	reset, err := svc.Reset()
	require.NoError(t, err)
	assert.Equal(t, 4, reset.RowsRetained)

	path, err := svc.Export("csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, svc.ExportDir()), "export lands in the configured dir")
	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(string(written), "\n"), "header plus four rows")
}

// TestDashboardSample tests loading the synthetic retail dataset.
func TestDashboardSample(t *testing.T) {
	svc := newTestService(t)

	summary, err := svc.LoadSample(60, 7)
	require.NoError(t, err)
	assert.Equal(t, "sample", summary.Source)
	assert.Equal(t, 60, summary.Rows)
	assert.Equal(t, 9, summary.Columns)
	assert.Equal(t, table.KindDatetime, summary.Kinds["InvoiceDate"])

	// Defaults come from config when rows/seed are unset.
	summary, err = svc.LoadSample(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, summary.Rows)
}

// TestDashboardNoData tests that every read fails cleanly before a
// dataset is loaded.
func TestDashboardNoData(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Preview(5)
	assert.True(t, errors.HasCode(err, errors.CodeNoData))

	_, err = svc.ProfileAll()
	assert.True(t, errors.HasCode(err, errors.CodeNoData))

	_, err = svc.AllInsights(ports.InsightOptions{})
	assert.True(t, errors.HasCode(err, errors.CodeNoData))

	_, err = svc.AvailableCharts()
	assert.True(t, errors.HasCode(err, errors.CodeNoData))

	_, err = svc.Filter("Region", "equals", "North")
	assert.True(t, errors.HasCode(err, errors.CodeNoData))

	_, err = svc.Export("csv")
	assert.True(t, errors.HasCode(err, errors.CodeNoData))

	assert.False(t, svc.Status().Loaded)
}

// TestDashboardExportFormat tests the export format gate.
func TestDashboardExportFormat(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.LoadSample(10, 1)
	require.NoError(t, err)

	_, err = svc.Export("parquet")
	assert.True(t, errors.HasCode(err, errors.CodeUnsupportedInput))

	path, err := svc.Export("XLSX")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".xlsx"))
}

// TestDashboardFilterKeepsViewOnError tests that a malformed filter
// leaves the previous view in place.
func TestDashboardFilterKeepsViewOnError(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.LoadPath(writeSalesCSV(t))
	require.NoError(t, err)

	_, err = svc.Filter("Sales", "gt", "60")
	require.NoError(t, err)
	assert.Equal(t, 3, svc.Status().Rows)

	_, err = svc.Filter("Sales", "gt", "abc")
	assert.True(t, errors.HasCode(err, errors.CodeMalformedFilter))
	assert.Equal(t, 3, svc.Status().Rows, "failed filter must not disturb the view")

	_, err = svc.Filter("Region", "between", "a")
	assert.True(t, errors.HasCode(err, errors.CodeMalformedFilter))
}
