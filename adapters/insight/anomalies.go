package insight

import (
	"fmt"
	"strings"

	"datalens/domain/table"
	"datalens/internal/analysis/quantile"
	"datalens/internal/errors"
	"datalens/ports"
)

const noAnomalies = "### ✅ No significant statistical anomalies detected."

// AnomalyDetection flags numeric columns with values outside their IQR
// fences.
type AnomalyDetection struct{}

// NewAnomalyDetection creates the strategy.
func NewAnomalyDetection() *AnomalyDetection { return &AnomalyDetection{} }

func (*AnomalyDetection) Name() string { return "anomaly_detection" }

func (*AnomalyDetection) Describe() string {
	return "IQR outlier scan across numeric columns"
}

// Generate scans every numeric column in table order. Columns with
// fewer than four non-null values cannot be fenced and are skipped.
func (*AnomalyDetection) Generate(t *table.Table, opt ports.InsightOptions) (string, error) {
	if t == nil {
		return "", errors.NoData("no dataset loaded")
	}

	var lines []string
	for _, name := range t.NumericColumns() {
		values, _ := t.NumericValues(name)
		count, lower, upper, ok := quantile.Outliers(values)
		if !ok || count == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("- **%s**: %d outliers found (values outside %.2f to %.2f)", name, count, lower, upper))
	}

	if len(lines) == 0 {
		return noAnomalies, nil
	}
	return "### ⚠️ Anomalies Detected\n\n" + strings.Join(lines, "\n"), nil
}
