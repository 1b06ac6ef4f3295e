package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"datalens/domain/table"
	"datalens/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Loader reads CSV and Excel files into typed tables. The first row is
// always the header; every cell is trimmed; the coercer decides each
// column's kind.
type Loader struct {
	coercer *Coercer
}

// NewLoader creates a loader with the default coercion thresholds.
func NewLoader() *Loader {
	return &Loader{coercer: NewCoercer(DefaultCoercionConfig())}
}

// NewLoaderWith creates a loader with explicit coercion thresholds.
func NewLoaderWith(config CoercionConfig) *Loader {
	return &Loader{coercer: NewCoercer(config)}
}

// LoadFile reads a dataset from disk, dispatching on the lowercased
// file extension.
func (l *Loader) LoadFile(path string) (*table.Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.LoadFailed(fmt.Sprintf("file not found: %s", path), err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.LoadFailed(fmt.Sprintf("failed to open CSV file %s", path), err)
		}
		defer f.Close()
		return l.loadCSV(f)
	case ".xlsx", ".xls":
		return l.loadExcelFile(path)
	default:
		return nil, errors.UnsupportedInput(fmt.Sprintf("unsupported file extension %q (want .csv, .xlsx or .xls)", filepath.Ext(path)))
	}
}

// LoadReader reads a dataset from a stream; name supplies the extension
// used for dispatch.
func (l *Loader) LoadReader(name string, r io.Reader) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return l.loadCSV(r)
	case ".xlsx", ".xls":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.LoadFailed(fmt.Sprintf("failed to read upload %s", name), err)
		}
		return l.loadExcelReader(name, bytes.NewReader(data))
	default:
		return nil, errors.UnsupportedInput(fmt.Sprintf("unsupported file extension %q (want .csv, .xlsx or .xls)", filepath.Ext(name)))
	}
}

func (l *Loader) loadCSV(r io.Reader) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.LoadFailed("failed to read CSV data", err)
	}
	log.Printf("[Loader] CSV read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return l.buildTable(rows)
}

func (l *Loader) loadExcelFile(path string) (*table.Table, error) {
	openStart := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.LoadFailed(fmt.Sprintf("failed to open Excel file %s", path), err)
	}
	defer f.Close()
	log.Printf("[Loader] Excel file opened in %.2fms", float64(time.Since(openStart).Nanoseconds())/1e6)

	return l.readFirstSheet(f)
}

func (l *Loader) loadExcelReader(name string, r io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.LoadFailed(fmt.Sprintf("failed to open Excel upload %s", name), err)
	}
	defer f.Close()
	return l.readFirstSheet(f)
}

func (l *Loader) readFirstSheet(f *excelize.File) (*table.Table, error) {
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.LoadFailed("workbook has no sheets", nil)
	}

	readStart := time.Now()
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.LoadFailed(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	log.Printf("[Loader] sheet %q read in %.2fms (%d rows)", sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return l.buildTable(rows)
}

// buildTable normalizes the raw grid (header names, rectangular rows)
// and hands it to the coercer.
func (l *Loader) buildTable(rows [][]string) (*table.Table, error) {
	if len(rows) < 2 {
		return nil, errors.LoadFailed("file must have at least a header row and one data row", nil)
	}

	headers := NormalizeHeaders(rows[0])
	width := len(headers)

	// Pad short rows and truncate long ones so every row matches the
	// header width.
	data := make([][]string, len(rows)-1)
	for i, row := range rows[1:] {
		fixed := make([]string, width)
		copy(fixed, row)
		data[i] = fixed
	}

	t, err := l.coercer.BuildTable(headers, data)
	if err != nil {
		return nil, errors.LoadFailed("failed to assemble table", err)
	}
	log.Printf("[Loader] dataset assembled (%d columns, %d rows)", t.Width(), t.Len())
	return t, nil
}
