package tabular

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"datalens/domain/table"
	"datalens/internal/errors"
)

// TestLoadCSVFile tests CSV loading with ragged rows
func TestLoadCSVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.csv")
	content := "id,amount,day\n" +
		"1,10.5,2025-01-02\n" +
		"2,20,2025-01-03\n" +
		"3\n" +
		"4,40,2025-01-05,EXTRA\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	loader := NewLoader()
	tbl, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if tbl.Len() != 4 {
		t.Errorf("Expected 4 rows, got %d", tbl.Len())
	}
	if tbl.Width() != 3 {
		t.Errorf("Expected 3 columns, got %d", tbl.Width())
	}

	kinds := tbl.Kinds()
	if kinds["id"] != table.KindNumeric {
		t.Errorf("Expected id to be numeric, got %s", kinds["id"])
	}
	if kinds["amount"] != table.KindNumeric {
		t.Errorf("Expected amount to be numeric, got %s", kinds["amount"])
	}
	if kinds["day"] != table.KindDatetime {
		t.Errorf("Expected day to be datetime, got %s", kinds["day"])
	}

	// The short row was padded with nulls.
	amount, _ := tbl.Column("amount")
	if !amount.Cells[2].IsNull() {
		t.Error("Expected padded amount cell to be null")
	}
	day, _ := tbl.Column("day")
	if !day.Cells[2].IsNull() {
		t.Error("Expected padded day cell to be null")
	}
}

// TestLoadCSVHeaderOnly tests the minimum-rows error
func TestLoadCSVHeaderOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(path, []byte("a,b\n"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	loader := NewLoader()
	_, err := loader.LoadFile(path)
	if err == nil {
		t.Fatal("Expected an error for a header-only file")
	}
	if !errors.HasCode(err, errors.CodeLoadFailed) {
		t.Errorf("Expected code %s, got %s", errors.CodeLoadFailed, errors.GetCode(err))
	}
	if !strings.Contains(err.Error(), "header row and one data row") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

// TestLoadFileUnsupportedExtension tests extension dispatch
func TestLoadFileUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	loader := NewLoader()
	_, err := loader.LoadFile(path)
	if err == nil {
		t.Fatal("Expected an error for a .txt file")
	}
	if !errors.HasCode(err, errors.CodeUnsupportedInput) {
		t.Errorf("Expected code %s, got %s", errors.CodeUnsupportedInput, errors.GetCode(err))
	}
}

// TestLoadFileMissing tests the missing-file error
func TestLoadFileMissing(t *testing.T) {
	loader := NewLoader()
	_, err := loader.LoadFile(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("Expected an error for a missing file")
	}
	if !errors.HasCode(err, errors.CodeLoadFailed) {
		t.Errorf("Expected code %s, got %s", errors.CodeLoadFailed, errors.GetCode(err))
	}
}

// TestLoadReaderCSV tests stream loading with extension taken from the name
func TestLoadReaderCSV(t *testing.T) {
	loader := NewLoader()
	tbl, err := loader.LoadReader("upload.csv", strings.NewReader("city,pop\nOslo,700000\nBergen,280000\n"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tbl.Len() != 2 {
		t.Errorf("Expected 2 rows, got %d", tbl.Len())
	}
	if tbl.Kinds()["pop"] != table.KindNumeric {
		t.Errorf("Expected pop to be numeric, got %s", tbl.Kinds()["pop"])
	}
}

// TestExportCSVRoundTrip tests that an exported CSV re-imports with the same shape
func TestExportCSVRoundTrip(t *testing.T) {
	tbl := buildExportFixture(t)
	dir := t.TempDir()

	exporter := NewExporter()
	path, err := exporter.ExportCSV(tbl, dir)
	if err != nil {
		t.Fatalf("Unexpected export error: %v", err)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "export_") || !strings.HasSuffix(base, ".csv") {
		t.Errorf("Unexpected export filename: %s", base)
	}

	loader := NewLoader()
	got, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("Unexpected reload error: %v", err)
	}
	assertFixtureShape(t, tbl, got)
}

// TestExportXLSXRoundTrip tests that an exported workbook re-imports with the same shape
func TestExportXLSXRoundTrip(t *testing.T) {
	tbl := buildExportFixture(t)
	dir := t.TempDir()

	exporter := NewExporter()
	path, err := exporter.ExportXLSX(tbl, dir)
	if err != nil {
		t.Fatalf("Unexpected export error: %v", err)
	}
	if !strings.HasSuffix(path, ".xlsx") {
		t.Errorf("Unexpected export filename: %s", path)
	}

	loader := NewLoader()
	got, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("Unexpected reload error: %v", err)
	}
	assertFixtureShape(t, tbl, got)
}

func buildExportFixture(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		table.Column{Name: "qty", Kind: table.KindNumeric, Cells: []table.Cell{
			table.Number(10), table.Number(20.5), table.Null(), table.Number(40),
		}},
		table.Column{Name: "active", Kind: table.KindBoolean, Cells: []table.Cell{
			table.Flag(true), table.Flag(false), table.Flag(true), table.Flag(false),
		}},
		table.Column{Name: "day", Kind: table.KindDatetime, Cells: []table.Cell{
			table.Time(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)),
			table.Time(time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)),
			table.Time(time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)),
			table.Null(),
		}},
		table.Column{Name: "city", Kind: table.KindCategorical, Cells: []table.Cell{
			table.Text("Oslo"), table.Text("Bergen"), table.Text("Oslo"), table.Text("Tromso"),
		}},
	)
	if err != nil {
		t.Fatalf("Failed to build fixture: %v", err)
	}
	return tbl
}

func assertFixtureShape(t *testing.T, want, got *table.Table) {
	t.Helper()
	if got.Len() != want.Len() {
		t.Fatalf("Expected %d rows, got %d", want.Len(), got.Len())
	}
	if got.Width() != want.Width() {
		t.Fatalf("Expected %d columns, got %d", want.Width(), got.Width())
	}
	wantKinds := want.Kinds()
	gotKinds := got.Kinds()
	for name, kind := range wantKinds {
		if gotKinds[name] != kind {
			t.Errorf("Column %s: expected kind %s, got %s", name, kind, gotKinds[name])
		}
	}

	wantRecords := want.Records()
	gotRecords := got.Records()
	for r := range wantRecords {
		for c := range wantRecords[r] {
			if gotRecords[r][c] != wantRecords[r][c] {
				t.Errorf("Record [%d][%d]: expected %q, got %q", r, c, wantRecords[r][c], gotRecords[r][c])
			}
		}
	}
}
