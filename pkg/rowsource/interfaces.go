// Package rowsource loads raw table records from files, SQL databases and
// HTTP services for manifest-declared tables.
package rowsource

import "github.com/goliatone/go-datatable/components/datatable"

// Source is the record source contract consumed by datatable factories.
type Source = datatable.RecordSource

// Counter reports how many times a source was read.
type Counter interface {
	Loads() int
}

var (
	_ Source = (*FileSource)(nil)
	_ Source = (*HTTPClient)(nil)
	_ Source = (*SQLiteSource)(nil)
	_ Source = (*MockSource)(nil)
)
