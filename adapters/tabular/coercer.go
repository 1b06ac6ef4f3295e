package tabular

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"datalens/domain/table"
)

// CoercionConfig defines the per-kind vote thresholds for column kind
// inference.
type CoercionConfig struct {
	NumericThreshold  float64 `json:"numeric_threshold"`  // share of non-empty values that must parse as numbers
	BooleanThreshold  float64 `json:"boolean_threshold"`  // share that must parse as booleans
	DatetimeThreshold float64 `json:"datetime_threshold"` // share that must parse as datetimes
}

// DefaultCoercionConfig returns the thresholds the loader ships with.
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold:  0.90,
		BooleanThreshold:  0.95,
		DatetimeThreshold: 0.90,
	}
}

// Coercer infers a kind for each raw string column and builds typed
// cells from it. Values that fail the winning kind's parse become null
// cells rather than poisoning the column.
type Coercer struct {
	config CoercionConfig
}

// NewCoercer creates a coercer with the given thresholds.
func NewCoercer(config CoercionConfig) *Coercer {
	return &Coercer{config: config}
}

// groupedThousands matches 1,234 and -12,345,678.9 style numbers whose
// commas sit on exact 3-digit groups.
var groupedThousands = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// datetimeLayouts are tried in order. The list favors ISO forms, then
// the slash and written-out forms that show up in exported business
// data.
var datetimeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"02-Jan-2006",
	"January 2, 2006",
}

// BuildTable infers a kind per column and converts the raw grid into a
// typed table. headers must already be normalized (non-empty, unique);
// rows must already be rectangular with len(headers) fields each.
func (c *Coercer) BuildTable(headers []string, rows [][]string) (*table.Table, error) {
	cols := make([]table.Column, len(headers))
	for j, name := range headers {
		raw := make([]string, len(rows))
		for i := range rows {
			raw[i] = strings.TrimSpace(rows[i][j])
		}
		kind := c.InferKind(raw)
		cols[j] = table.Column{Name: name, Kind: kind, Cells: c.coerceColumn(kind, raw)}
	}
	return table.New(cols...)
}

// InferKind votes each non-empty value into the kinds it can parse as
// and picks the first kind whose share clears its threshold, in the
// order numeric, boolean, datetime. Anything else is categorical, as is
// a column with no values at all.
func (c *Coercer) InferKind(values []string) table.Kind {
	nonEmpty := 0
	numeric := 0
	boolean := 0
	datetime := 0
	for _, v := range values {
		if v == "" {
			continue
		}
		nonEmpty++
		if _, ok := parseNumeric(v); ok {
			numeric++
		}
		if _, ok := parseBoolean(v); ok {
			boolean++
		}
		if _, ok := parseDatetime(v); ok {
			datetime++
		}
	}
	if nonEmpty == 0 {
		return table.KindCategorical
	}
	total := float64(nonEmpty)
	if float64(numeric)/total >= c.config.NumericThreshold {
		return table.KindNumeric
	}
	if float64(boolean)/total >= c.config.BooleanThreshold {
		return table.KindBoolean
	}
	if float64(datetime)/total >= c.config.DatetimeThreshold {
		return table.KindDatetime
	}
	return table.KindCategorical
}

func (c *Coercer) coerceColumn(kind table.Kind, raw []string) []table.Cell {
	cells := make([]table.Cell, len(raw))
	for i, v := range raw {
		cells[i] = coerceCell(kind, v)
	}
	return cells
}

func coerceCell(kind table.Kind, v string) table.Cell {
	if v == "" {
		return table.Null()
	}
	switch kind {
	case table.KindNumeric:
		if f, ok := parseNumeric(v); ok {
			return table.Number(f)
		}
	case table.KindBoolean:
		if b, ok := parseBoolean(v); ok {
			return table.Flag(b)
		}
	case table.KindDatetime:
		if t, ok := parseDatetime(v); ok {
			return table.Time(t)
		}
	default:
		return table.Text(v)
	}
	// The value lost the column's vote; keep the row with a hole.
	return table.Null()
}

// parseNumeric accepts plain floats (including scientific notation) and
// comma-grouped thousands. Currency and percent markers are not
// numbers here; a column of them reads as categorical.
func parseNumeric(v string) (float64, bool) {
	s := v
	if groupedThousands.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// parseBoolean accepts true/false and yes/no, case-insensitive. 0 and 1
// deliberately stay numeric.
func parseBoolean(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "true", "yes":
		return true, true
	case "false", "no":
		return false, true
	}
	return false, false
}

func parseDatetime(v string) (time.Time, bool) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeHeaders trims header names, names blank ones column_<n>, and
// suffixes duplicates with _2, _3, and so on.
func NormalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n, dup := seen[name]; dup {
			base := name
			// A suffixed candidate can itself collide with a real
			// header (a_2,a,a), so keep counting until it is free.
			for {
				n++
				name = fmt.Sprintf("%s_%d", base, n)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[name] = 1
		headers[i] = name
	}
	return headers
}
