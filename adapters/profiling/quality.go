package profiling

import (
	"fmt"
	"strings"

	"datalens/domain/table"
	"datalens/internal/analysis/quantile"
	"datalens/internal/errors"
	"datalens/ports"
)

// NumericChecks counts numeric COLUMNS containing at least one zero,
// negative or IQR outlier. These are per-column flags, not cell totals.
type NumericChecks struct {
	ColumnsWithZeros     int `json:"columns_with_zeros"`
	ColumnsWithNegatives int `json:"columns_with_negatives"`
	ColumnsWithOutliers  int `json:"columns_with_outliers"`
}

// QualityReport is the dataset health check: completeness, duplicate
// rows and numeric sanity flags. NumericChecks is omitted when the
// table has no numeric columns.
type QualityReport struct {
	Completeness  string         `json:"completeness"`
	DuplicateRows int            `json:"duplicate_rows"`
	DuplicatePct  string         `json:"duplicate_percentage"`
	NumericChecks *NumericChecks `json:"numeric_checks,omitempty"`
}

// Strategy implements ports.Report.
func (QualityReport) Strategy() string { return "data_quality" }

// DataQuality computes the quality report.
type DataQuality struct{}

// NewDataQuality creates the strategy.
func NewDataQuality() *DataQuality { return &DataQuality{} }

func (*DataQuality) Name() string { return "data_quality" }

func (*DataQuality) Describe() string {
	return "Completeness, duplicates and numeric sanity checks"
}

func (*DataQuality) Process(t *table.Table) (ports.Report, error) {
	if t == nil {
		return nil, errors.NoData("no dataset loaded")
	}

	report := QualityReport{
		Completeness: completeness(t),
		DuplicatePct: "0.00%",
	}

	rows := t.Len()
	if rows > 0 {
		report.DuplicateRows = duplicateRows(t)
		report.DuplicatePct = fmt.Sprintf("%.2f%%", float64(report.DuplicateRows)/float64(rows)*100)
	}

	if numeric := t.NumericColumns(); len(numeric) > 0 {
		checks := &NumericChecks{}
		for _, name := range numeric {
			values, _ := t.NumericValues(name)
			hasZero, hasNegative := false, false
			for _, v := range values {
				if v == 0 {
					hasZero = true
				}
				if v < 0 {
					hasNegative = true
				}
			}
			if hasZero {
				checks.ColumnsWithZeros++
			}
			if hasNegative {
				checks.ColumnsWithNegatives++
			}
			if count, _, _, ok := quantile.Outliers(values); ok && count > 0 {
				checks.ColumnsWithOutliers++
			}
		}
		report.NumericChecks = checks
	}

	return report, nil
}

func completeness(t *table.Table) string {
	total := t.Len() * t.Width()
	if total == 0 {
		return "0.00%"
	}
	nulls := 0
	for _, col := range t.Columns() {
		for _, cell := range col.Cells {
			if cell.IsNull() {
				nulls++
			}
		}
	}
	return fmt.Sprintf("%.2f%%", (1-float64(nulls)/float64(total))*100)
}

// duplicateRows counts rows whose full display tuple repeats an earlier
// row. Nulls render identically, so null cells compare equal here.
func duplicateRows(t *table.Table) int {
	seen := make(map[string]bool, t.Len())
	dups := 0
	for r := 0; r < t.Len(); r++ {
		key := strings.Join(t.Row(r), "\x1f")
		if seen[key] {
			dups++
			continue
		}
		seen[key] = true
	}
	return dups
}
