package viz

import (
	"datalens/domain/table"
	"datalens/internal/errors"
	"datalens/ports"
)

// DistributionData is the raw column payload for a histogram. Binning
// is the renderer's concern, so values pass through unchanged.
type DistributionData struct {
	Column string    `json:"column"`
	Values []float64 `json:"values"`
}

// Chart implements ports.ChartData.
func (DistributionData) Chart() string { return "distribution" }

// Distribution selects a numeric column's non-null values in row order.
type Distribution struct{}

// NewDistribution creates the selector.
func NewDistribution() *Distribution { return &Distribution{} }

func (*Distribution) Name() string { return "distribution" }

func (*Distribution) Describe() string {
	return "Raw values of one numeric column"
}

func (*Distribution) RequiredKinds() []table.Kind {
	return []table.Kind{table.KindNumeric}
}

func (*Distribution) CanRender(t *table.Table) bool {
	return t != nil && len(t.NumericColumns()) > 0
}

func (s *Distribution) Select(t *table.Table, opt ports.ChartOptions) (ports.ChartData, error) {
	if t == nil {
		return nil, errors.NoData("no dataset loaded")
	}
	if !s.CanRender(t) {
		return nil, errors.NoData("distribution needs a numeric column")
	}

	name, err := pickColumn(t, opt.XColumn, table.KindNumeric)
	if err != nil {
		return nil, err
	}
	values, _ := t.NumericValues(name)
	return DistributionData{Column: name, Values: values}, nil
}
