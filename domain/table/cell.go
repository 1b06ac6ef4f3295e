package table

import (
	"strconv"
	"time"
)

// Cell is one typed, nullable value. A null cell carries no payload and
// belongs to whatever column holds it.
type Cell struct {
	kind Kind
	num  float64
	text string
	flag bool
	ts   time.Time
	null bool
}

// Number creates a numeric cell
func Number(v float64) Cell {
	return Cell{kind: KindNumeric, num: v}
}

// Text creates a categorical cell
func Text(s string) Cell {
	return Cell{kind: KindCategorical, text: s}
}

// Flag creates a boolean cell
func Flag(b bool) Cell {
	return Cell{kind: KindBoolean, flag: b}
}

// Time creates a datetime cell
func Time(t time.Time) Cell {
	return Cell{kind: KindDatetime, ts: t}
}

// Null creates a null cell. It is valid in a column of any kind.
func Null() Cell {
	return Cell{null: true}
}

// IsNull reports whether the cell carries no value.
func (c Cell) IsNull() bool { return c.null }

// Kind returns the cell's payload kind; null cells report the empty Kind.
func (c Cell) Kind() Kind {
	if c.null {
		return ""
	}
	return c.kind
}

// Float returns the cell's numeric interpretation. Numeric cells return
// their value, boolean cells map to 1/0, everything else (including
// nulls) reports ok=false.
func (c Cell) Float() (float64, bool) {
	if c.null {
		return 0, false
	}
	switch c.kind {
	case KindNumeric:
		return c.num, true
	case KindBoolean:
		if c.flag {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Timestamp returns the datetime payload.
func (c Cell) Timestamp() (time.Time, bool) {
	if c.null || c.kind != KindDatetime {
		return time.Time{}, false
	}
	return c.ts, true
}

// Bool returns the boolean payload.
func (c Cell) Bool() (bool, bool) {
	if c.null || c.kind != KindBoolean {
		return false, false
	}
	return c.flag, true
}

// String returns the cell's canonical display form. Nulls render as the
// empty string; integral floats render without a decimal point, matching
// how integer-valued columns arrive from CSV.
func (c Cell) String() string {
	if c.null {
		return ""
	}
	switch c.kind {
	case KindNumeric:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(c.flag)
	case KindDatetime:
		if c.ts.Hour() == 0 && c.ts.Minute() == 0 && c.ts.Second() == 0 && c.ts.Nanosecond() == 0 {
			return c.ts.Format("2006-01-02")
		}
		return c.ts.Format("2006-01-02 15:04:05")
	}
	return c.text
}

// estimateBytes is the per-cell storage estimate used for the memory
// usage figure in basic statistics. 16 bytes of overhead per cell plus
// the payload size.
func (c Cell) estimateBytes() int {
	const overhead = 16
	if c.null {
		return overhead
	}
	switch c.kind {
	case KindNumeric:
		return overhead + 8
	case KindBoolean:
		return overhead + 1
	case KindDatetime:
		return overhead + 16
	}
	return overhead + len(c.text)
}
