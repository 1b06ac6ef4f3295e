package profiling

import (
	"math"
	"sort"

	"datalens/domain/table"
	"datalens/internal/errors"
	"datalens/ports"
)

// ValueCount is one value's frequency within a categorical column. Pct
// is taken against the table's total row count, not the non-null count.
type ValueCount struct {
	Value string  `json:"value"`
	Count int     `json:"count"`
	Pct   float64 `json:"percentage"`
}

// CategoricalColumnSummary describes one categorical column.
type CategoricalColumnSummary struct {
	Name         string       `json:"name"`
	UniqueValues int          `json:"unique_values"`
	MissingCount int          `json:"missing_count"`
	TopValues    []ValueCount `json:"top_values"`
}

// CategoricalSummary covers every categorical column in table order.
type CategoricalSummary struct {
	Columns []CategoricalColumnSummary `json:"columns"`
}

// Strategy implements ports.Report.
func (CategoricalSummary) Strategy() string { return "categorical_summary" }

// CategoricalSummaryStrategy tallies value frequencies per categorical
// column.
type CategoricalSummaryStrategy struct{}

// NewCategoricalSummary creates the strategy.
func NewCategoricalSummary() *CategoricalSummaryStrategy { return &CategoricalSummaryStrategy{} }

func (*CategoricalSummaryStrategy) Name() string { return "categorical_summary" }

func (*CategoricalSummaryStrategy) Describe() string {
	return "Value frequencies for categorical columns"
}

func (*CategoricalSummaryStrategy) Process(t *table.Table) (ports.Report, error) {
	if t == nil {
		return nil, errors.NoData("no dataset loaded")
	}

	report := CategoricalSummary{Columns: []CategoricalColumnSummary{}}
	rows := t.Len()
	for _, name := range t.CategoricalColumns() {
		col, _ := t.Column(name)
		report.Columns = append(report.Columns, summarizeCategorical(col, rows))
	}
	return report, nil
}

func summarizeCategorical(col *table.Column, rows int) CategoricalColumnSummary {
	counts := make(map[string]int)
	order := make(map[string]int)
	missing := 0
	for i, cell := range col.Cells {
		if cell.IsNull() {
			missing++
			continue
		}
		v := cell.String()
		if _, seen := counts[v]; !seen {
			order[v] = i
		}
		counts[v]++
	}

	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	// Highest count first; ties keep first-seen row order.
	sort.SliceStable(values, func(i, j int) bool {
		if counts[values[i]] != counts[values[j]] {
			return counts[values[i]] > counts[values[j]]
		}
		return order[values[i]] < order[values[j]]
	})
	if len(values) > 10 {
		values = values[:10]
	}

	top := make([]ValueCount, len(values))
	for i, v := range values {
		pct := 0.0
		if rows > 0 {
			pct = math.Round(float64(counts[v])/float64(rows)*100*100) / 100
		}
		top[i] = ValueCount{Value: v, Count: counts[v], Pct: pct}
	}

	return CategoricalColumnSummary{
		Name:         col.Name,
		UniqueValues: len(counts),
		MissingCount: missing,
		TopValues:    top,
	}
}
