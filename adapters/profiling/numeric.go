package profiling

import (
	"math"

	"datalens/domain/table"
	"datalens/internal/analysis/quantile"
	"datalens/internal/errors"
	"datalens/ports"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// NumericColumnSummary is the descriptive-statistics row for one numeric
// column. Statistics that are undefined at the sample size (Std under 2
// values, Skewness under 3, Kurtosis under 4) are NaN metrics and
// marshal to JSON null.
type NumericColumnSummary struct {
	Name     string       `json:"name"`
	Count    int          `json:"count"`
	Mean     ports.Metric `json:"mean"`
	Median   ports.Metric `json:"median"`
	Mode     ports.Metric `json:"mode"`
	Std      ports.Metric `json:"std"`
	Min      ports.Metric `json:"min"`
	Q1       ports.Metric `json:"25%"`
	P50      ports.Metric `json:"50%"`
	Q3       ports.Metric `json:"75%"`
	Max      ports.Metric `json:"max"`
	Skewness ports.Metric `json:"skewness"`
	Kurtosis ports.Metric `json:"kurtosis"`
}

// NumericSummary covers every numeric column in table order. Boolean
// columns are not summarized here.
type NumericSummary struct {
	Columns []NumericColumnSummary `json:"columns"`
}

// Strategy implements ports.Report.
func (NumericSummary) Strategy() string { return "numeric_summary" }

// NumericSummaryStrategy computes descriptive statistics per numeric
// column over its non-null values.
type NumericSummaryStrategy struct{}

// NewNumericSummary creates the strategy.
func NewNumericSummary() *NumericSummaryStrategy { return &NumericSummaryStrategy{} }

func (*NumericSummaryStrategy) Name() string { return "numeric_summary" }

func (*NumericSummaryStrategy) Describe() string {
	return "Descriptive statistics for numeric columns"
}

func (*NumericSummaryStrategy) Process(t *table.Table) (ports.Report, error) {
	if t == nil {
		return nil, errors.NoData("no dataset loaded")
	}

	report := NumericSummary{Columns: []NumericColumnSummary{}}
	for _, name := range t.NumericColumns() {
		values, _ := t.NumericValues(name)
		report.Columns = append(report.Columns, summarizeColumn(name, values))
	}
	return report, nil
}

func summarizeColumn(name string, values []float64) NumericColumnSummary {
	s := NumericColumnSummary{
		Name:     name,
		Count:    len(values),
		Mean:     ports.NaN(),
		Median:   ports.NaN(),
		Mode:     ports.NaN(),
		Std:      ports.NaN(),
		Min:      ports.NaN(),
		Q1:       ports.NaN(),
		P50:      ports.NaN(),
		Q3:       ports.NaN(),
		Max:      ports.NaN(),
		Skewness: ports.NaN(),
		Kurtosis: ports.NaN(),
	}
	if len(values) == 0 {
		return s
	}

	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	s.Mean = ports.Metric(mean)
	s.Median = ports.Metric(median)
	s.Min = ports.Metric(min)
	s.Max = ports.Metric(max)
	s.Mode = ports.Metric(mode(values))

	if q1, p50, q3, ok := quantile.Quartiles(values); ok {
		s.Q1 = ports.Metric(q1)
		s.P50 = ports.Metric(p50)
		s.Q3 = ports.Metric(q3)
	}
	if len(values) >= 2 {
		std, _ := stats.StandardDeviationSample(values)
		s.Std = ports.Metric(std)
	}
	if len(values) >= 3 {
		s.Skewness = ports.Metric(stat.Skew(values, nil))
	}
	if len(values) >= 4 {
		s.Kurtosis = ports.Metric(stat.ExKurtosis(values, nil))
	}
	return s
}

// mode returns the most frequent value; ties go to the smallest value.
func mode(values []float64) float64 {
	counts := make(map[float64]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	best := 0
	result := math.Inf(1)
	for v, n := range counts {
		if n > best || (n == best && v < result) {
			best = n
			result = v
		}
	}
	return result
}
