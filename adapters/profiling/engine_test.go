package profiling

import (
	"reflect"
	"testing"

	"datalens/domain/table"
	"datalens/internal/errors"
)

func buildMixedTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		table.Column{Name: "qty", Kind: table.KindNumeric, Cells: []table.Cell{
			table.Number(2), table.Number(4), table.Number(4), table.Number(4),
			table.Number(5), table.Number(5), table.Number(7), table.Number(9),
		}},
		table.Column{Name: "city", Kind: table.KindCategorical, Cells: []table.Cell{
			table.Text("Oslo"), table.Text("Oslo"), table.Text("Oslo"), table.Text("Bergen"),
			table.Text("Bergen"), table.Text("Bergen"), table.Text("Tromso"), table.Null(),
		}},
	)
	if err != nil {
		t.Fatalf("Failed to build fixture: %v", err)
	}
	return tbl
}

// TestEngineNames tests strategy registration order
func TestEngineNames(t *testing.T) {
	engine := NewEngine()
	expected := []string{
		"basic_statistics",
		"missing_values",
		"numeric_summary",
		"categorical_summary",
		"data_quality",
	}
	if got := engine.Names(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

// TestEngineRunUnknownStrategy tests the strategy-not-found error
func TestEngineRunUnknownStrategy(t *testing.T) {
	engine := NewEngine()
	_, err := engine.Run("nope", buildMixedTable(t))
	if err == nil {
		t.Fatal("Expected an error for an unknown strategy")
	}
	if !errors.HasCode(err, errors.CodeStrategyNotFound) {
		t.Errorf("Expected code %s, got %s", errors.CodeStrategyNotFound, errors.GetCode(err))
	}
}

// TestEngineRunAll tests that all five strategies report in order
func TestEngineRunAll(t *testing.T) {
	engine := NewEngine()
	reports, err := engine.RunAll(buildMixedTable(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(reports) != 5 {
		t.Fatalf("Expected 5 reports, got %d", len(reports))
	}
	for i, name := range engine.Names() {
		if reports[i].Strategy() != name {
			t.Errorf("Report %d: expected strategy %s, got %s", i, name, reports[i].Strategy())
		}
	}
}

// TestEngineNilTable tests the no-data error on every strategy
func TestEngineNilTable(t *testing.T) {
	engine := NewEngine()
	for _, name := range engine.Names() {
		_, err := engine.Run(name, nil)
		if err == nil {
			t.Errorf("Strategy %s: expected an error for a nil table", name)
			continue
		}
		if !errors.HasCode(err, errors.CodeNoData) {
			t.Errorf("Strategy %s: expected code %s, got %s", name, errors.CodeNoData, errors.GetCode(err))
		}
	}
	if _, err := engine.RunAll(nil); !errors.HasCode(err, errors.CodeNoData) {
		t.Errorf("RunAll: expected code %s, got %v", errors.CodeNoData, err)
	}
}

// TestEngineDescribe tests that every strategy carries a description
func TestEngineDescribe(t *testing.T) {
	engine := NewEngine()
	described := engine.Describe()
	for _, name := range engine.Names() {
		if described[name] == "" {
			t.Errorf("Strategy %s has no description", name)
		}
	}
}
