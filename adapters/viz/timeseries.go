package viz

import (
	"fmt"
	"sort"
	"time"

	"datalens/domain/table"
	"datalens/internal/errors"
	"datalens/ports"
)

// TimePoint is one aggregated point on the time axis.
type TimePoint struct {
	At    time.Time `json:"at"`
	Value float64   `json:"value"`
}

// TimeSeriesData is the time series payload: per-date sums in ascending
// time order.
type TimeSeriesData struct {
	XLabel string      `json:"x_label"`
	YLabel string      `json:"y_label"`
	Points []TimePoint `json:"points"`
}

// Chart implements ports.ChartData.
func (TimeSeriesData) Chart() string { return "time_series" }

// TimeSeries groups rows by their exact datetime value and sums the
// value column per group.
type TimeSeries struct{}

// NewTimeSeries creates the selector.
func NewTimeSeries() *TimeSeries { return &TimeSeries{} }

func (*TimeSeries) Name() string { return "time_series" }

func (*TimeSeries) Describe() string {
	return "Value totals over time"
}

func (*TimeSeries) RequiredKinds() []table.Kind {
	return []table.Kind{table.KindDatetime, table.KindNumeric}
}

func (*TimeSeries) CanRender(t *table.Table) bool {
	return t != nil && len(t.DatetimeColumns()) > 0 && len(t.NumericColumns()) > 0
}

func (s *TimeSeries) Select(t *table.Table, opt ports.ChartOptions) (ports.ChartData, error) {
	if t == nil {
		return nil, errors.NoData("no dataset loaded")
	}
	if !s.CanRender(t) {
		return nil, errors.NoData("time series needs a datetime column and a numeric column")
	}

	xName, err := pickColumn(t, opt.XColumn, table.KindDatetime)
	if err != nil {
		return nil, err
	}
	yName, err := pickColumn(t, opt.YColumn, table.KindNumeric)
	if err != nil {
		return nil, err
	}
	x, _ := t.Column(xName)
	y, _ := t.Column(yName)

	// Rows with a null date are dropped; a date whose values are all
	// null still appears, summing to 0.
	sums := make(map[time.Time]float64)
	for i := range x.Cells {
		at, ok := x.Cells[i].Timestamp()
		if !ok {
			continue
		}
		if _, seen := sums[at]; !seen {
			sums[at] = 0
		}
		if v, ok := y.Cells[i].Float(); ok {
			sums[at] += v
		}
	}

	points := make([]TimePoint, 0, len(sums))
	for at, sum := range sums {
		points = append(points, TimePoint{At: at, Value: sum})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].At.Before(points[j].At) })

	return TimeSeriesData{XLabel: xName, YLabel: yName, Points: points}, nil
}

// pickColumn resolves an optional column name against a required kind:
// empty means the first column of that kind in table order.
func pickColumn(t *table.Table, name string, kind table.Kind) (string, error) {
	if name == "" {
		names := columnsOfKind(t, kind)
		if len(names) == 0 {
			return "", errors.NoData(fmt.Sprintf("no %s column available", kind))
		}
		return names[0], nil
	}
	col, ok := t.Column(name)
	if !ok {
		return "", errors.NoData(fmt.Sprintf("column %q not found", name))
	}
	if col.Kind != kind {
		return "", errors.NoData(fmt.Sprintf("column %q is %s, want %s", name, col.Kind, kind))
	}
	return name, nil
}

func columnsOfKind(t *table.Table, kind table.Kind) []string {
	switch kind {
	case table.KindNumeric:
		return t.NumericColumns()
	case table.KindCategorical:
		return t.CategoricalColumns()
	case table.KindDatetime:
		return t.DatetimeColumns()
	case table.KindBoolean:
		return t.BooleanColumns()
	}
	return nil
}
