package profiling

import (
	"sort"

	"datalens/domain/table"
	"datalens/internal/errors"
	"datalens/ports"
)

// MissingColumn is one column's null tally.
type MissingColumn struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Pct   float64 `json:"percentage"`
	Kind  string  `json:"kind"`
}

// MissingReport lists only the columns that actually have missing
// values, worst first. A dataset with no holes reports an empty slice.
type MissingReport struct {
	Columns []MissingColumn `json:"columns"`
}

// Strategy implements ports.Report.
func (MissingReport) Strategy() string { return "missing_values" }

// MissingValues tallies null cells per column.
type MissingValues struct{}

// NewMissingValues creates the strategy.
func NewMissingValues() *MissingValues { return &MissingValues{} }

func (*MissingValues) Name() string { return "missing_values" }

func (*MissingValues) Describe() string {
	return "Null counts and percentages per column"
}

func (*MissingValues) Process(t *table.Table) (ports.Report, error) {
	if t == nil {
		return nil, errors.NoData("no dataset loaded")
	}

	report := MissingReport{Columns: []MissingColumn{}}
	rows := t.Len()
	for _, col := range t.Columns() {
		count := 0
		for _, cell := range col.Cells {
			if cell.IsNull() {
				count++
			}
		}
		if count == 0 {
			continue
		}
		report.Columns = append(report.Columns, MissingColumn{
			Name:  col.Name,
			Count: count,
			Pct:   float64(count) / float64(rows) * 100,
			Kind:  col.Kind.String(),
		})
	}

	// Worst columns first; ties keep table order.
	sort.SliceStable(report.Columns, func(i, j int) bool {
		return report.Columns[i].Pct > report.Columns[j].Pct
	})
	return report, nil
}
