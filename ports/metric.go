package ports

import (
	"math"
	"strconv"
)

// Metric is a float64 whose undefined values (NaN, infinities) marshal
// to JSON null instead of breaking encoding. Statistics that need a
// bigger sample than they got (sample std of one value, skewness of
// two, a correlation with no complete pairs) stay NaN in memory and
// null on the wire.
type Metric float64

// NaN returns an undefined metric.
func NaN() Metric { return Metric(math.NaN()) }

// Defined reports whether the metric holds a finite value.
func (m Metric) Defined() bool {
	f := float64(m)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Float returns the underlying float64.
func (m Metric) Float() float64 { return float64(m) }

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Defined() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(m), 'g', -1, 64), nil
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = NaN()
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*m = Metric(f)
	return nil
}
