// Package insight implements the narrative insight strategies. Each
// strategy reads a table and returns a Markdown fragment; rendering to
// HTML happens at the UI edge.
package insight

import (
	"strings"

	"datalens/domain/table"
	"datalens/internal/errors"
	"datalens/ports"
)

// Engine orchestrates the insight strategies.
type Engine struct {
	strategies []ports.InsightStrategy
}

// NewEngine creates an engine with the full strategy set registered.
func NewEngine() *Engine {
	return &Engine{
		strategies: []ports.InsightStrategy{
			NewTopPerformers(),
			NewAnomalyDetection(),
		},
	}
}

// Run executes a single strategy by name.
func (e *Engine) Run(name string, t *table.Table, opt ports.InsightOptions) (string, error) {
	for _, s := range e.strategies {
		if s.Name() == name {
			return s.Generate(t, opt)
		}
	}
	return "", errors.StrategyNotFound(name)
}

// RunAll executes every strategy in registration order and joins the
// fragments into one Markdown document.
func (e *Engine) RunAll(t *table.Table, opt ports.InsightOptions) (string, error) {
	fragments := make([]string, 0, len(e.strategies))
	for _, s := range e.strategies {
		fragment, err := s.Generate(t, opt)
		if err != nil {
			return "", err
		}
		fragments = append(fragments, fragment)
	}
	return strings.Join(fragments, "\n\n"), nil
}

// Names returns the registered strategy names in execution order.
func (e *Engine) Names() []string {
	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.Name()
	}
	return names
}
