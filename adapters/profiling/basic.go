package profiling

import (
	"fmt"

	"datalens/domain/table"
	"datalens/internal/errors"
	"datalens/ports"
)

// BasicStats summarizes the table's shape, kind mix and memory footprint.
type BasicStats struct {
	Rows               int    `json:"total_rows"`
	Columns            int    `json:"total_columns"`
	MemoryUsage        string `json:"memory_usage"`
	NumericColumns     int    `json:"numeric_columns"`
	CategoricalColumns int    `json:"categorical_columns"`
	DatetimeColumns    int    `json:"datetime_columns"`
	BooleanColumns     int    `json:"boolean_columns"`
}

// Strategy implements ports.Report.
func (BasicStats) Strategy() string { return "basic_statistics" }

// BasicStatistics reports row and column counts, per-kind column counts
// and the estimated in-memory size.
type BasicStatistics struct{}

// NewBasicStatistics creates the strategy.
func NewBasicStatistics() *BasicStatistics { return &BasicStatistics{} }

func (*BasicStatistics) Name() string { return "basic_statistics" }

func (*BasicStatistics) Describe() string {
	return "Row, column, dtype and memory usage overview"
}

// Process never fails on a loaded table; a zero-row table still reports
// its column counts.
func (*BasicStatistics) Process(t *table.Table) (ports.Report, error) {
	if t == nil {
		return nil, errors.NoData("no dataset loaded")
	}
	return BasicStats{
		Rows:               t.Len(),
		Columns:            t.Width(),
		MemoryUsage:        fmt.Sprintf("%.2f MB", float64(t.EstimateBytes())/1024/1024),
		NumericColumns:     len(t.NumericColumns()),
		CategoricalColumns: len(t.CategoricalColumns()),
		DatetimeColumns:    len(t.DatetimeColumns()),
		BooleanColumns:     len(t.BooleanColumns()),
	}, nil
}
