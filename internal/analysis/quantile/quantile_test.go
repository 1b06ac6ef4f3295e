package quantile

import (
	"math"
	"testing"
)

// TestQuantileInterpolation tests the linear-interpolation convention
func TestQuantileInterpolation(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		q        float64
		expected float64
	}{
		{"min", []float64{3, 1, 2}, 0, 1},
		{"max", []float64{3, 1, 2}, 1, 3},
		{"median even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"q1 of four", []float64{1, 2, 3, 4}, 0.25, 1.75},
		{"q3 of four", []float64{1, 2, 3, 4}, 0.75, 3.25},
		{"q1 of five", []float64{1, 2, 3, 4, 100}, 0.25, 2},
		{"q3 of five", []float64{1, 2, 3, 4, 100}, 0.75, 4},
		{"single value", []float64{42}, 0.25, 42},
	}

	for _, test := range tests {
		got, ok := Quantile(test.values, test.q)
		if !ok {
			t.Errorf("%s: expected ok", test.name)
			continue
		}
		if math.Abs(got-test.expected) > 1e-12 {
			t.Errorf("%s: expected %v, got %v", test.name, test.expected, got)
		}
	}
}

// TestQuantileInvalidInput tests the ok=false cases
func TestQuantileInvalidInput(t *testing.T) {
	if _, ok := Quantile(nil, 0.5); ok {
		t.Error("Expected ok=false for empty input")
	}
	if _, ok := Quantile([]float64{1, 2}, -0.1); ok {
		t.Error("Expected ok=false for q below 0")
	}
	if _, ok := Quantile([]float64{1, 2}, 1.1); ok {
		t.Error("Expected ok=false for q above 1")
	}
}

// TestQuantileDoesNotMutate tests that the input stays unsorted
func TestQuantileDoesNotMutate(t *testing.T) {
	values := []float64{3, 1, 2}
	Quantile(values, 0.5)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("Input was mutated: %v", values)
	}
}

// TestQuartiles tests the one-pass quartile computation
func TestQuartiles(t *testing.T) {
	q1, median, q3, ok := Quartiles([]float64{1, 2, 3, 4, 100})
	if !ok {
		t.Fatal("Expected ok")
	}
	if q1 != 2 || median != 3 || q3 != 4 {
		t.Errorf("Expected quartiles (2, 3, 4), got (%v, %v, %v)", q1, median, q3)
	}

	if _, _, _, ok := Quartiles(nil); ok {
		t.Error("Expected ok=false for empty input")
	}
}

// TestFences tests the canonical IQR fence vector
func TestFences(t *testing.T) {
	lower, upper, ok := Fences([]float64{1, 2, 3, 4, 100})
	if !ok {
		t.Fatal("Expected ok")
	}
	if lower != -1 || upper != 7 {
		t.Errorf("Expected fences (-1, 7), got (%v, %v)", lower, upper)
	}

	if _, _, ok := Fences([]float64{1, 2, 3}); ok {
		t.Error("Expected ok=false under four values")
	}
}

// TestOutliers tests strict fence exceedance
func TestOutliers(t *testing.T) {
	count, lower, upper, ok := Outliers([]float64{1, 2, 3, 4, 100})
	if !ok {
		t.Fatal("Expected ok")
	}
	if count != 1 {
		t.Errorf("Expected 1 outlier, got %d", count)
	}
	if lower != -1 || upper != 7 {
		t.Errorf("Expected fences (-1, 7), got (%v, %v)", lower, upper)
	}

	count, _, _, ok = Outliers([]float64{1, 2, 3, 4})
	if !ok || count != 0 {
		t.Errorf("Expected 0 outliers with ok, got %d (ok=%v)", count, ok)
	}
}
