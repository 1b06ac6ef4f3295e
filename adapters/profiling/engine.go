// Package profiling implements the dataset profiling strategies behind
// the dashboard's profile endpoints. Each strategy reads a table and
// returns a typed report; the engine holds them in a fixed execution
// order.
package profiling

import (
	"datalens/domain/table"
	"datalens/internal/errors"
	"datalens/ports"
)

// Engine orchestrates the profiling strategies.
type Engine struct {
	strategies []ports.ProcessingStrategy
}

// NewEngine creates an engine with the full strategy set registered in
// report order.
func NewEngine() *Engine {
	return &Engine{
		strategies: []ports.ProcessingStrategy{
			NewBasicStatistics(),
			NewMissingValues(),
			NewNumericSummary(),
			NewCategoricalSummary(),
			NewDataQuality(),
		},
	}
}

// Run executes a single strategy by name.
func (e *Engine) Run(name string, t *table.Table) (ports.Report, error) {
	for _, s := range e.strategies {
		if s.Name() == name {
			return s.Process(t)
		}
	}
	return nil, errors.StrategyNotFound(name)
}

// RunAll executes every strategy in registration order. The first
// failure aborts the run.
func (e *Engine) RunAll(t *table.Table) ([]ports.Report, error) {
	reports := make([]ports.Report, 0, len(e.strategies))
	for _, s := range e.strategies {
		report, err := s.Process(t)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Names returns the registered strategy names in execution order.
func (e *Engine) Names() []string {
	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.Name()
	}
	return names
}

// Describe maps each strategy name to its one-line description.
func (e *Engine) Describe() map[string]string {
	out := make(map[string]string, len(e.strategies))
	for _, s := range e.strategies {
		out[s.Name()] = s.Describe()
	}
	return out
}
