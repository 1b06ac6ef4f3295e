// Package quantile is the single home of the quantile convention and
// the IQR outlier fence shared by the numeric summary, the data quality
// report, and anomaly detection. Keeping one implementation here means
// a value flagged as an outlier in one report is an outlier in all of
// them.
package quantile

import (
	"math"
	"sort"
)

// Quantile returns the q-th quantile (0 <= q <= 1) of values using
// linear interpolation between closest ranks: with the sample sorted,
// the quantile sits at index h = (len-1)*q and interpolates between
// s[floor(h)] and s[floor(h)+1].
//
// This convention is deliberate. Nearest-rank and mean-of-neighbor
// percentile definitions disagree with it on small samples (for
// [1,2,3,4,100] they put Q1 at 1.5 or 1.25 instead of 2), which shifts
// the IQR fences and changes which values count as outliers.
func Quantile(values []float64, q float64) (float64, bool) {
	if len(values) == 0 || q < 0 || q > 1 {
		return 0, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return fromSorted(sorted, q), true
}

// Quartiles returns Q1, the median, and Q3 in one pass over a single
// sorted copy.
func Quartiles(values []float64) (q1, median, q3 float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, 0, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return fromSorted(sorted, 0.25), fromSorted(sorted, 0.5), fromSorted(sorted, 0.75), true
}

func fromSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * q
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Fences returns the IQR outlier fences Q1-1.5*IQR and Q3+1.5*IQR.
// Under the interpolated-quantile convention a sample of fewer than
// four values can never fall outside its own fences, so ok is false and
// callers skip the column.
func Fences(values []float64) (lower, upper float64, ok bool) {
	if len(values) < 4 {
		return 0, 0, false
	}
	q1, _, q3, _ := Quartiles(values)
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr, true
}

// Outliers counts values strictly outside the IQR fences and reports
// the fences used. ok is false when the sample is too small to fence.
func Outliers(values []float64) (count int, lower, upper float64, ok bool) {
	lower, upper, ok = Fences(values)
	if !ok {
		return 0, 0, 0, false
	}
	for _, v := range values {
		if v < lower || v > upper {
			count++
		}
	}
	return count, lower, upper, true
}
