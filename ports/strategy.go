package ports

import (
	"datalens/domain/table"
)

// Report is the typed result of a processing strategy. Concrete shapes
// live with their strategies; Strategy names the producer for routing
// and serialization.
type Report interface {
	Strategy() string
}

// ProcessingStrategy is one stateless profiling computation over a
// table. Implementations run synchronously to completion and never
// mutate their input.
type ProcessingStrategy interface {
	Name() string
	Describe() string
	Process(t *table.Table) (Report, error)
}

// InsightOptions selects the columns an insight works on. Empty fields
// mean auto-select: the first categorical and first numeric column in
// table order.
type InsightOptions struct {
	CategoryColumn string `json:"category_column,omitempty"`
	ValueColumn    string `json:"value_column,omitempty"`
}

// InsightStrategy turns a table into a human-readable Markdown
// fragment. Thin data is a fragment of its own ("not enough data"), not
// an error.
type InsightStrategy interface {
	Name() string
	Describe() string
	Generate(t *table.Table, opt InsightOptions) (string, error)
}

// ChartOptions selects the columns a chart pulls its data from. Empty
// column fields mean auto-select (first column of the required kind).
// Aggregation applies to the category selector only: count, sum or
// mean, count by default.
type ChartOptions struct {
	XColumn     string `json:"x_column,omitempty"`
	YColumn     string `json:"y_column,omitempty"`
	Aggregation string `json:"aggregation,omitempty"`
}

// ChartData is a chart-ready payload. Rendering is out of scope; Chart
// names the selector that produced the data.
type ChartData interface {
	Chart() string
}

// ChartStrategy selects and shapes the data one chart type consumes.
type ChartStrategy interface {
	Name() string
	Describe() string
	// RequiredKinds lists the column kinds the chart's parameters draw
	// from, so a caller can restrict its column pickers.
	RequiredKinds() []table.Kind
	// CanRender reports whether the table can satisfy RequiredKinds.
	CanRender(t *table.Table) bool
	Select(t *table.Table, opt ChartOptions) (ChartData, error)
}
