package table

import (
	"fmt"
)

// Column is a named, kinded slice of cells. Every cell either matches
// the column kind or is null.
type Column struct {
	Name  string
	Kind  Kind
	Cells []Cell
}

// Table is an ordered set of equal-length columns. A zero-row table is
// legal and keeps its column schema.
type Table struct {
	cols []Column
}

// New builds a table from columns, validating that names are unique and
// non-empty, kinds are known, all columns share one length, and cells
// match their column's kind.
func New(cols ...Column) (*Table, error) {
	seen := make(map[string]bool, len(cols))
	length := -1
	for i, col := range cols {
		if col.Name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if seen[col.Name] {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		seen[col.Name] = true
		if !col.Kind.Valid() {
			return nil, fmt.Errorf("column %q has unknown kind %q", col.Name, col.Kind)
		}
		if length == -1 {
			length = len(col.Cells)
		} else if len(col.Cells) != length {
			return nil, fmt.Errorf("column %q has %d cells, want %d", col.Name, len(col.Cells), length)
		}
		for j, cell := range col.Cells {
			if !cell.IsNull() && cell.Kind() != col.Kind {
				return nil, fmt.Errorf("column %q row %d: %s cell in %s column", col.Name, j, cell.Kind(), col.Kind)
			}
		}
	}

	copied := make([]Column, len(cols))
	for i, col := range cols {
		cells := make([]Cell, len(col.Cells))
		copy(cells, col.Cells)
		copied[i] = Column{Name: col.Name, Kind: col.Kind, Cells: cells}
	}
	return &Table{cols: copied}, nil
}

// Len returns the row count.
func (t *Table) Len() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Cells)
}

// Width returns the column count.
func (t *Table) Width() int { return len(t.cols) }

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, col := range t.cols {
		names[i] = col.Name
	}
	return names
}

// Columns returns the columns in table order. The slice headers are
// copies; the cell slices are shared, so callers must not mutate them.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.cols {
		if t.cols[i].Name == name {
			return &t.cols[i], true
		}
	}
	return nil, false
}

// Kinds maps each column name to its kind.
func (t *Table) Kinds() map[string]Kind {
	kinds := make(map[string]Kind, len(t.cols))
	for _, col := range t.cols {
		kinds[col.Name] = col.Kind
	}
	return kinds
}

// NumericColumns returns the names of numeric columns in table order.
// Boolean columns are not included; they only contribute when a caller
// asks a cell for its Float interpretation explicitly.
func (t *Table) NumericColumns() []string { return t.namesOfKind(KindNumeric) }

// CategoricalColumns returns the names of categorical columns in table order.
func (t *Table) CategoricalColumns() []string { return t.namesOfKind(KindCategorical) }

// DatetimeColumns returns the names of datetime columns in table order.
func (t *Table) DatetimeColumns() []string { return t.namesOfKind(KindDatetime) }

// BooleanColumns returns the names of boolean columns in table order.
func (t *Table) BooleanColumns() []string { return t.namesOfKind(KindBoolean) }

func (t *Table) namesOfKind(k Kind) []string {
	var names []string
	for _, col := range t.cols {
		if col.Kind == k {
			names = append(names, col.Name)
		}
	}
	return names
}

// NumericValues returns the non-null float values of a numeric or
// boolean column in row order. Nulls are skipped, never imputed.
func (t *Table) NumericValues(name string) ([]float64, bool) {
	col, ok := t.Column(name)
	if !ok || (col.Kind != KindNumeric && col.Kind != KindBoolean) {
		return nil, false
	}
	values := make([]float64, 0, len(col.Cells))
	for _, cell := range col.Cells {
		if v, ok := cell.Float(); ok {
			values = append(values, v)
		}
	}
	return values, true
}

// Head returns a copy of the first n rows (all rows when n exceeds the
// row count).
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > t.Len() {
		n = t.Len()
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.Rows(idx)
}

// Rows returns a copy of the table containing the given row indices in
// the given order.
func (t *Table) Rows(idx []int) *Table {
	cols := make([]Column, len(t.cols))
	for i, col := range t.cols {
		cells := make([]Cell, len(idx))
		for j, r := range idx {
			cells[j] = col.Cells[r]
		}
		cols[i] = Column{Name: col.Name, Kind: col.Kind, Cells: cells}
	}
	return &Table{cols: cols}
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	idx := make([]int, t.Len())
	for i := range idx {
		idx[i] = i
	}
	return t.Rows(idx)
}

// Records renders the table as a header row followed by display-form
// data rows, the shape previews and CSV export consume.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, t.Len()+1)
	records = append(records, t.Names())
	for r := 0; r < t.Len(); r++ {
		row := make([]string, len(t.cols))
		for c, col := range t.cols {
			row[c] = col.Cells[r].String()
		}
		records = append(records, row)
	}
	return records
}

// Row renders one row in display form.
func (t *Table) Row(r int) []string {
	row := make([]string, len(t.cols))
	for c, col := range t.cols {
		row[c] = col.Cells[r].String()
	}
	return row
}

// EstimateBytes returns the approximate in-memory size of the cell data,
// the figure behind the profile's memory usage line.
func (t *Table) EstimateBytes() int {
	total := 0
	for _, col := range t.cols {
		for _, cell := range col.Cells {
			total += cell.estimateBytes()
		}
	}
	return total
}
