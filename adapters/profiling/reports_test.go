package profiling

import (
	"math"
	"testing"

	"datalens/domain/table"
	"datalens/ports"
)

func mustTable(t *testing.T, cols ...table.Column) *table.Table {
	t.Helper()
	tbl, err := table.New(cols...)
	if err != nil {
		t.Fatalf("Failed to build fixture: %v", err)
	}
	return tbl
}

func numericColumn(name string, values ...float64) table.Column {
	cells := make([]table.Cell, len(values))
	for i, v := range values {
		cells[i] = table.Number(v)
	}
	return table.Column{Name: name, Kind: table.KindNumeric, Cells: cells}
}

// TestBasicStatistics tests shape, kind counts and memory format
func TestBasicStatistics(t *testing.T) {
	tbl := mustTable(t,
		numericColumn("qty", 1, 2, 3),
		table.Column{Name: "city", Kind: table.KindCategorical, Cells: []table.Cell{
			table.Text("Oslo"), table.Text("Bergen"), table.Null(),
		}},
		table.Column{Name: "active", Kind: table.KindBoolean, Cells: []table.Cell{
			table.Flag(true), table.Flag(false), table.Flag(true),
		}},
	)

	report, err := NewBasicStatistics().Process(tbl)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	stats := report.(BasicStats)

	if stats.Rows != 3 || stats.Columns != 3 {
		t.Errorf("Expected 3x3, got %dx%d", stats.Rows, stats.Columns)
	}
	if stats.NumericColumns != 1 || stats.CategoricalColumns != 1 || stats.BooleanColumns != 1 || stats.DatetimeColumns != 0 {
		t.Errorf("Unexpected kind counts: %+v", stats)
	}
	if stats.MemoryUsage == "" || stats.MemoryUsage[len(stats.MemoryUsage)-3:] != " MB" {
		t.Errorf("Expected a MB-suffixed memory figure, got %q", stats.MemoryUsage)
	}
}

// TestMissingValuesSorted tests the worst-first ordering and kind labels
func TestMissingValuesSorted(t *testing.T) {
	tbl := mustTable(t,
		table.Column{Name: "a", Kind: table.KindNumeric, Cells: []table.Cell{
			table.Number(1), table.Null(), table.Number(3), table.Number(4),
		}},
		table.Column{Name: "b", Kind: table.KindCategorical, Cells: []table.Cell{
			table.Null(), table.Null(), table.Null(), table.Text("x"),
		}},
		table.Column{Name: "c", Kind: table.KindBoolean, Cells: []table.Cell{
			table.Flag(true), table.Flag(false), table.Flag(true), table.Flag(false),
		}},
	)

	report, err := NewMissingValues().Process(tbl)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	missing := report.(MissingReport)

	if len(missing.Columns) != 2 {
		t.Fatalf("Expected 2 columns with missing values, got %d", len(missing.Columns))
	}
	if missing.Columns[0].Name != "b" || missing.Columns[1].Name != "a" {
		t.Errorf("Expected order [b a], got [%s %s]", missing.Columns[0].Name, missing.Columns[1].Name)
	}
	if missing.Columns[0].Count != 3 || missing.Columns[0].Pct != 75 {
		t.Errorf("Expected b: 3 missing (75%%), got %d (%v%%)", missing.Columns[0].Count, missing.Columns[0].Pct)
	}
	if missing.Columns[0].Kind != "categorical" || missing.Columns[1].Kind != "numeric" {
		t.Errorf("Unexpected kind labels: %s, %s", missing.Columns[0].Kind, missing.Columns[1].Kind)
	}
}

// TestMissingValuesClean tests the typed-empty result
func TestMissingValuesClean(t *testing.T) {
	tbl := mustTable(t, numericColumn("a", 1, 2, 3))
	report, err := NewMissingValues().Process(tbl)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	missing := report.(MissingReport)
	if missing.Columns == nil || len(missing.Columns) != 0 {
		t.Errorf("Expected a typed empty slice, got %v", missing.Columns)
	}
}

// TestNumericSummaryStatistics tests the hand-computed reference vector
func TestNumericSummaryStatistics(t *testing.T) {
	tbl := mustTable(t, numericColumn("x", 2, 4, 4, 4, 5, 5, 7, 9))

	report, err := NewNumericSummary().Process(tbl)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	summary := report.(NumericSummary)
	if len(summary.Columns) != 1 {
		t.Fatalf("Expected 1 column summary, got %d", len(summary.Columns))
	}
	col := summary.Columns[0]

	if col.Count != 8 {
		t.Errorf("Expected count 8, got %d", col.Count)
	}
	checks := []struct {
		name      string
		got       ports.Metric
		expected  float64
		tolerance float64
	}{
		{"mean", col.Mean, 5, 1e-12},
		{"median", col.Median, 4.5, 1e-12},
		{"mode", col.Mode, 4, 1e-12},
		{"std", col.Std, math.Sqrt(32.0 / 7.0), 1e-12},
		{"min", col.Min, 2, 1e-12},
		{"25%", col.Q1, 4, 1e-12},
		{"50%", col.P50, 4.5, 1e-12},
		{"75%", col.Q3, 5.5, 1e-12},
		{"max", col.Max, 9, 1e-12},
		{"skewness", col.Skewness, 7 * math.Sqrt(14) / 32, 1e-9},
		{"kurtosis", col.Kurtosis, 0.940625, 1e-9},
	}
	for _, check := range checks {
		if math.Abs(check.got.Float()-check.expected) > check.tolerance {
			t.Errorf("%s: expected %v, got %v", check.name, check.expected, check.got.Float())
		}
	}
}

// TestNumericSummarySmallSamples tests NaN gating for undefined statistics
func TestNumericSummarySmallSamples(t *testing.T) {
	tbl := mustTable(t, numericColumn("x", 42))

	report, err := NewNumericSummary().Process(tbl)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	col := report.(NumericSummary).Columns[0]

	if col.Count != 1 {
		t.Errorf("Expected count 1, got %d", col.Count)
	}
	if col.Mean.Float() != 42 || col.Median.Float() != 42 || col.Mode.Float() != 42 {
		t.Errorf("Expected location statistics of 42, got mean=%v median=%v mode=%v", col.Mean, col.Median, col.Mode)
	}
	if col.Q1.Float() != 42 || col.P50.Float() != 42 || col.Q3.Float() != 42 {
		t.Errorf("Expected all quartiles at 42, got %v %v %v", col.Q1, col.P50, col.Q3)
	}
	if col.Std.Defined() {
		t.Error("Expected std to be undefined for a single value")
	}
	if col.Skewness.Defined() {
		t.Error("Expected skewness to be undefined for a single value")
	}
	if col.Kurtosis.Defined() {
		t.Error("Expected kurtosis to be undefined for a single value")
	}
}

// TestNumericSummaryModeTie tests the smallest-value tie break
func TestNumericSummaryModeTie(t *testing.T) {
	tbl := mustTable(t, numericColumn("x", 2, 2, 1, 1, 3))

	report, err := NewNumericSummary().Process(tbl)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	col := report.(NumericSummary).Columns[0]
	if col.Mode.Float() != 1 {
		t.Errorf("Expected mode tie to resolve to 1, got %v", col.Mode.Float())
	}
}

// TestNumericSummaryNoNumericColumns tests the typed-empty result
func TestNumericSummaryNoNumericColumns(t *testing.T) {
	tbl := mustTable(t, table.Column{Name: "city", Kind: table.KindCategorical, Cells: []table.Cell{
		table.Text("Oslo"),
	}})
	report, err := NewNumericSummary().Process(tbl)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	summary := report.(NumericSummary)
	if summary.Columns == nil || len(summary.Columns) != 0 {
		t.Errorf("Expected a typed empty slice, got %v", summary.Columns)
	}
}

// TestCategoricalSummary tests counts, ordering and total-row percentages
func TestCategoricalSummary(t *testing.T) {
	tbl := mustTable(t, table.Column{Name: "city", Kind: table.KindCategorical, Cells: []table.Cell{
		table.Text("a"), table.Text("a"), table.Text("a"),
		table.Text("b"), table.Text("b"), table.Text("b"),
		table.Text("c"), table.Null(),
	}})

	report, err := NewCategoricalSummary().Process(tbl)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	col := report.(CategoricalSummary).Columns[0]

	if col.UniqueValues != 3 {
		t.Errorf("Expected 3 unique values, got %d", col.UniqueValues)
	}
	if col.MissingCount != 1 {
		t.Errorf("Expected 1 missing, got %d", col.MissingCount)
	}
	if len(col.TopValues) != 3 {
		t.Fatalf("Expected 3 top values, got %d", len(col.TopValues))
	}
	// a and b tie on count; a was seen first.
	if col.TopValues[0].Value != "a" || col.TopValues[1].Value != "b" || col.TopValues[2].Value != "c" {
		t.Errorf("Unexpected ordering: %+v", col.TopValues)
	}
	// Percentages divide by total rows (8), not non-null rows.
	if col.TopValues[0].Pct != 37.5 {
		t.Errorf("Expected 37.5%%, got %v", col.TopValues[0].Pct)
	}
	if col.TopValues[2].Pct != 12.5 {
		t.Errorf("Expected 12.5%%, got %v", col.TopValues[2].Pct)
	}
}

// TestCategoricalSummaryTopTen tests the top-10 cap
func TestCategoricalSummaryTopTen(t *testing.T) {
	cells := make([]table.Cell, 12)
	for i := range cells {
		cells[i] = table.Text(string(rune('a' + i)))
	}
	tbl := mustTable(t, table.Column{Name: "v", Kind: table.KindCategorical, Cells: cells})

	report, err := NewCategoricalSummary().Process(tbl)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	col := report.(CategoricalSummary).Columns[0]
	if col.UniqueValues != 12 {
		t.Errorf("Expected 12 unique values, got %d", col.UniqueValues)
	}
	if len(col.TopValues) != 10 {
		t.Errorf("Expected top values capped at 10, got %d", len(col.TopValues))
	}
}

// TestDataQuality tests completeness, duplicates and column-level checks
func TestDataQuality(t *testing.T) {
	tbl := mustTable(t,
		numericColumn("a", 0, 5, 10, -3),
		numericColumn("b", 1, 2, 3, 4),
		numericColumn("c", 1, 2, 3, 100),
	)

	report, err := NewDataQuality().Process(tbl)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	quality := report.(QualityReport)

	if quality.Completeness != "100.00%" {
		t.Errorf("Expected 100.00%% completeness, got %s", quality.Completeness)
	}
	if quality.DuplicateRows != 0 || quality.DuplicatePct != "0.00%" {
		t.Errorf("Expected no duplicates, got %d (%s)", quality.DuplicateRows, quality.DuplicatePct)
	}
	if quality.NumericChecks == nil {
		t.Fatal("Expected numeric checks to be present")
	}
	if quality.NumericChecks.ColumnsWithZeros != 1 {
		t.Errorf("Expected 1 column with zeros, got %d", quality.NumericChecks.ColumnsWithZeros)
	}
	if quality.NumericChecks.ColumnsWithNegatives != 1 {
		t.Errorf("Expected 1 column with negatives, got %d", quality.NumericChecks.ColumnsWithNegatives)
	}
	// Only c has a value outside its IQR fences.
	if quality.NumericChecks.ColumnsWithOutliers != 1 {
		t.Errorf("Expected 1 column with outliers, got %d", quality.NumericChecks.ColumnsWithOutliers)
	}
}

// TestDataQualityAllNull tests the all-null completeness edge
func TestDataQualityAllNull(t *testing.T) {
	tbl := mustTable(t,
		table.Column{Name: "a", Kind: table.KindCategorical, Cells: []table.Cell{table.Null(), table.Null()}},
		table.Column{Name: "b", Kind: table.KindCategorical, Cells: []table.Cell{table.Null(), table.Null()}},
	)

	report, err := NewDataQuality().Process(tbl)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	quality := report.(QualityReport)

	if quality.Completeness != "0.00%" {
		t.Errorf("Expected 0.00%% completeness, got %s", quality.Completeness)
	}
	// Both all-null rows render identically, so the second is a duplicate.
	if quality.DuplicateRows != 1 {
		t.Errorf("Expected 1 duplicate row, got %d", quality.DuplicateRows)
	}
	if quality.DuplicatePct != "50.00%" {
		t.Errorf("Expected 50.00%%, got %s", quality.DuplicatePct)
	}
	if quality.NumericChecks != nil {
		t.Error("Expected numeric checks to be omitted without numeric columns")
	}
}

// TestDataQualityDuplicates tests display-tuple duplicate counting
func TestDataQualityDuplicates(t *testing.T) {
	tbl := mustTable(t,
		table.Column{Name: "k", Kind: table.KindCategorical, Cells: []table.Cell{
			table.Text("x"), table.Text("x"), table.Text("y"),
		}},
		numericColumn("v", 1, 1, 2),
	)

	report, err := NewDataQuality().Process(tbl)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	quality := report.(QualityReport)
	if quality.DuplicateRows != 1 {
		t.Errorf("Expected 1 duplicate row, got %d", quality.DuplicateRows)
	}
	if quality.DuplicatePct != "33.33%" {
		t.Errorf("Expected 33.33%%, got %s", quality.DuplicatePct)
	}
}
