// Package viz implements the chart data selectors. A selector extracts
// exactly the rows and aggregates a chart needs; drawing happens in the
// browser.
package viz

import (
	"datalens/domain/table"
	"datalens/internal/errors"
	"datalens/ports"
)

// Engine orchestrates the chart selectors.
type Engine struct {
	strategies []ports.ChartStrategy
}

// NewEngine creates an engine with the full selector set registered.
func NewEngine() *Engine {
	return &Engine{
		strategies: []ports.ChartStrategy{
			NewTimeSeries(),
			NewDistribution(),
			NewCategory(),
			NewCorrelation(),
		},
	}
}

// Run executes a single selector by chart kind.
func (e *Engine) Run(kind string, t *table.Table, opt ports.ChartOptions) (ports.ChartData, error) {
	for _, s := range e.strategies {
		if s.Name() == kind {
			return s.Select(t, opt)
		}
	}
	return nil, errors.StrategyNotFound(kind)
}

// Names returns every registered chart kind.
func (e *Engine) Names() []string {
	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.Name()
	}
	return names
}

// Available returns the chart kinds the table can actually satisfy.
func (e *Engine) Available(t *table.Table) []string {
	kinds := make([]string, 0, len(e.strategies))
	for _, s := range e.strategies {
		if s.CanRender(t) {
			kinds = append(kinds, s.Name())
		}
	}
	return kinds
}
