package tabular

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"datalens/domain/table"
	"datalens/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Exporter writes tables to timestamped files under a target directory.
type Exporter struct{}

// NewExporter creates an exporter.
func NewExporter() *Exporter { return &Exporter{} }

// ExportCSV writes the table as export_<UTC timestamp>.csv and returns
// the written path. Cells are written in display form, so a re-import
// coerces back to the same kinds.
func (e *Exporter) ExportCSV(t *table.Table, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.LoadFailed(fmt.Sprintf("failed to create export directory %s", dir), err)
	}
	path := filepath.Join(dir, fmt.Sprintf("export_%s.csv", stamp()))

	f, err := os.Create(path)
	if err != nil {
		return "", errors.LoadFailed(fmt.Sprintf("failed to create export file %s", path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(t.Records()); err != nil {
		return "", errors.LoadFailed(fmt.Sprintf("failed to write export file %s", path), err)
	}
	log.Printf("[Exporter] wrote %s (%d rows)", path, t.Len())
	return path, nil
}

// ExportXLSX writes the table as export_<UTC timestamp>.xlsx with typed
// cells: numbers stay numbers and booleans stay booleans in the workbook.
func (e *Exporter) ExportXLSX(t *table.Table, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.LoadFailed(fmt.Sprintf("failed to create export directory %s", dir), err)
	}
	path := filepath.Join(dir, fmt.Sprintf("export_%s.xlsx", stamp()))

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, t.Width())
	for i, name := range t.Names() {
		header[i] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", errors.LoadFailed("failed to write workbook header", err)
	}

	cols := t.Columns()
	for r := 0; r < t.Len(); r++ {
		row := make([]interface{}, len(cols))
		for c, col := range cols {
			row[c] = cellValue(col.Cells[r])
		}
		anchor, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return "", errors.LoadFailed("failed to compute cell coordinates", err)
		}
		if err := f.SetSheetRow(sheet, anchor, &row); err != nil {
			return "", errors.LoadFailed(fmt.Sprintf("failed to write workbook row %d", r+1), err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", errors.LoadFailed(fmt.Sprintf("failed to save workbook %s", path), err)
	}
	log.Printf("[Exporter] wrote %s (%d rows)", path, t.Len())
	return path, nil
}

// cellValue maps a cell to the value excelize writes: native types for
// numbers and booleans, display strings for dates and text, nil for nulls.
func cellValue(c table.Cell) interface{} {
	if c.IsNull() {
		return nil
	}
	switch c.Kind() {
	case table.KindNumeric:
		v, _ := c.Float()
		return v
	case table.KindBoolean:
		b, _ := c.Bool()
		return b
	default:
		return c.String()
	}
}

func stamp() string {
	return time.Now().UTC().Format("20060102_150405")
}
