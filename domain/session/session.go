// Package session owns the original/current pair of table references
// behind every profiling, insight, and chart request. It is a plain
// state object with no locking; the service that holds it serializes
// access.
package session

import (
	"datalens/domain/core"
	"datalens/domain/table"
	"datalens/internal/errors"
)

// Session tracks one loaded dataset: the table as loaded (original) and
// the view filters have carved from it (current). Filters always start
// from original, so applying a second filter replaces the first rather
// than stacking on it.
type Session struct {
	original *table.Table
	current  *table.Table

	datasetID core.DatasetID
	source    string
	loadedAt  core.Timestamp
}

// New returns an empty session. Every read fails with a no-data error
// until Set installs a dataset.
func New() *Session {
	return &Session{}
}

// Set installs a freshly loaded table as both original and current,
// stamping a new dataset ID. Source labels where the data came from (a
// filename, "sample", "inline").
func (s *Session) Set(t *table.Table, source string) core.DatasetID {
	s.original = t
	s.current = t
	s.datasetID = core.NewDatasetID()
	s.source = source
	s.loadedAt = core.NowUTC()
	return s.datasetID
}

// Loaded reports whether a dataset is installed.
func (s *Session) Loaded() bool { return s.original != nil }

// Data returns the current view.
func (s *Session) Data() (*table.Table, error) {
	if s.current == nil {
		return nil, errors.NoData("no dataset loaded")
	}
	return s.current, nil
}

// Original returns the table as it was loaded.
func (s *Session) Original() (*table.Table, error) {
	if s.original == nil {
		return nil, errors.NoData("no dataset loaded")
	}
	return s.original, nil
}

// ApplyFilter filters the ORIGINAL table and installs the result as the
// current view. An empty result still replaces the view; a filter error
// leaves the session untouched.
func (s *Session) ApplyFilter(column string, op table.Op, value string) (*table.Table, error) {
	if s.original == nil {
		return nil, errors.NoData("no dataset loaded")
	}
	filtered, err := table.Filter(s.original, column, op, value)
	if err != nil {
		return nil, err
	}
	s.current = filtered
	return filtered, nil
}

// Reset discards any filter, restoring current = original.
func (s *Session) Reset() (*table.Table, error) {
	if s.original == nil {
		return nil, errors.NoData("no dataset loaded")
	}
	s.current = s.original
	return s.current, nil
}

// DatasetID identifies the currently loaded dataset.
func (s *Session) DatasetID() core.DatasetID { return s.datasetID }

// Source labels where the current dataset came from.
func (s *Session) Source() string { return s.source }

// LoadedAt is when the current dataset was installed.
func (s *Session) LoadedAt() core.Timestamp { return s.loadedAt }

// RowsRetained reports the current and original row counts.
func (s *Session) RowsRetained() (current, original int) {
	if s.original == nil {
		return 0, 0
	}
	return s.current.Len(), s.original.Len()
}
