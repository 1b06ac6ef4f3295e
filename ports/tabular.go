package ports

import (
	"io"

	"datalens/domain/table"
)

// DatasetLoader parses an uploaded file into a table.
type DatasetLoader interface {
	// LoadFile reads a dataset from disk, dispatching on the file
	// extension.
	LoadFile(path string) (*table.Table, error)
	// LoadReader reads a dataset from a stream; name supplies the
	// extension (and the source label).
	LoadReader(name string, r io.Reader) (*table.Table, error)
}

// DatasetExporter serializes a table view for download.
type DatasetExporter interface {
	// ExportCSV writes t into dir and returns the written path.
	ExportCSV(t *table.Table, dir string) (string, error)
	// ExportXLSX writes t as a spreadsheet into dir and returns the
	// written path.
	ExportXLSX(t *table.Table, dir string) (string, error)
}
