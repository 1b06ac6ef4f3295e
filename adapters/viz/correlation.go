package viz

import (
	"datalens/domain/table"
	"datalens/internal/errors"
	"datalens/ports"

	"gonum.org/v1/gonum/stat"
)

// CorrelationData is the Pearson correlation matrix over the numeric
// columns. Undefined cells (too few complete pairs, zero variance) are
// NaN metrics and marshal to JSON null.
type CorrelationData struct {
	Columns []string         `json:"columns"`
	Matrix  [][]ports.Metric `json:"matrix"`
}

// Chart implements ports.ChartData.
func (CorrelationData) Chart() string { return "correlation" }

// Correlation computes pairwise-complete Pearson correlations.
type Correlation struct{}

// NewCorrelation creates the selector.
func NewCorrelation() *Correlation { return &Correlation{} }

func (*Correlation) Name() string { return "correlation" }

func (*Correlation) Describe() string {
	return "Pairwise Pearson correlation of numeric columns"
}

func (*Correlation) RequiredKinds() []table.Kind {
	return []table.Kind{table.KindNumeric, table.KindNumeric}
}

func (*Correlation) CanRender(t *table.Table) bool {
	return t != nil && len(t.NumericColumns()) >= 2
}

func (s *Correlation) Select(t *table.Table, opt ports.ChartOptions) (ports.ChartData, error) {
	if t == nil {
		return nil, errors.NoData("no dataset loaded")
	}
	if !s.CanRender(t) {
		return nil, errors.NoData("correlation needs at least 2 numeric columns")
	}

	names := t.NumericColumns()
	cols := make([]*table.Column, len(names))
	for i, name := range names {
		cols[i], _ = t.Column(name)
	}

	matrix := make([][]ports.Metric, len(names))
	for i := range matrix {
		matrix[i] = make([]ports.Metric, len(names))
		matrix[i][i] = 1
	}
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			r := pairwiseCorrelation(cols[i], cols[j])
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}
	return CorrelationData{Columns: names, Matrix: matrix}, nil
}

// pairwiseCorrelation correlates two columns over the rows where both
// cells are non-null.
func pairwiseCorrelation(a, b *table.Column) ports.Metric {
	x := make([]float64, 0, len(a.Cells))
	y := make([]float64, 0, len(b.Cells))
	for i := range a.Cells {
		va, ok := a.Cells[i].Float()
		if !ok {
			continue
		}
		vb, ok := b.Cells[i].Float()
		if !ok {
			continue
		}
		x = append(x, va)
		y = append(y, vb)
	}
	if len(x) < 2 {
		return ports.NaN()
	}
	// Zero variance propagates NaN, matching the undefined-cell rule.
	return ports.Metric(stat.Correlation(x, y, nil))
}
