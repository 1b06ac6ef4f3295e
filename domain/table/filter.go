package table

import (
	"fmt"
	"strconv"
	"strings"

	"datalens/internal/errors"
)

// Op is a row filter operator.
type Op string

const (
	OpEquals      Op = "equals"
	OpGreaterThan Op = "greater_than"
	OpLessThan    Op = "less_than"
	OpContains    Op = "contains"
)

// ParseOp validates an operator name. The short forms the filter
// dropdown submits (eq, gt, lt) map onto the canonical operators.
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "equals", "eq", "==":
		return OpEquals, nil
	case "greater_than", "gt", ">":
		return OpGreaterThan, nil
	case "less_than", "lt", "<":
		return OpLessThan, nil
	case "contains":
		return OpContains, nil
	}
	return "", errors.MalformedFilter(fmt.Sprintf("unknown filter operator %q", s))
}

// Filter returns a new table with the rows of t whose cell in the given
// column matches the predicate. The input table is never mutated, and an
// empty result is a 0-row table with the same column schema, not an
// error.
//
// equals compares display strings exactly; nulls render as "" and so
// match only an empty value. greater_than and less_than parse value as
// a float and compare against the cell's numeric interpretation; they
// reject non-numeric columns and thresholds, and nulls never match.
// contains is a case-insensitive substring test that skips nulls.
func Filter(t *Table, column string, op Op, value string) (*Table, error) {
	col, ok := t.Column(column)
	if !ok {
		return nil, errors.NoData(fmt.Sprintf("column %q not found", column))
	}

	var keep func(Cell) bool
	switch op {
	case OpEquals:
		keep = func(c Cell) bool { return c.String() == value }
	case OpGreaterThan, OpLessThan:
		if col.Kind != KindNumeric && col.Kind != KindBoolean {
			return nil, errors.MalformedFilter(fmt.Sprintf("operator %s needs a numeric column, %q is %s", op, column, col.Kind))
		}
		threshold, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, errors.MalformedFilter(fmt.Sprintf("filter value %q is not numeric", value))
		}
		if op == OpGreaterThan {
			keep = func(c Cell) bool {
				v, ok := c.Float()
				return ok && v > threshold
			}
		} else {
			keep = func(c Cell) bool {
				v, ok := c.Float()
				return ok && v < threshold
			}
		}
	case OpContains:
		needle := strings.ToLower(value)
		keep = func(c Cell) bool {
			if c.IsNull() {
				return false
			}
			return strings.Contains(strings.ToLower(c.String()), needle)
		}
	default:
		return nil, errors.MalformedFilter(fmt.Sprintf("unknown filter operator %q", op))
	}

	var idx []int
	for r, cell := range col.Cells {
		if keep(cell) {
			idx = append(idx, r)
		}
	}
	return t.Rows(idx), nil
}
