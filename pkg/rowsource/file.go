package rowsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/goliatone/go-datatable/components/datatable"
)

// FileSource reads a JSON array of records from disk on every load.
type FileSource struct {
	path string
}

// NewFileSource builds a file-backed source.
func NewFileSource(path string) (*FileSource, error) {
	if path == "" {
		return nil, errors.New("rowsource: file path is required")
	}
	return &FileSource{path: path}, nil
}

// Records implements datatable.RecordSource.
func (s *FileSource) Records(ctx context.Context) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("rowsource: read %s: %w", s.path, err)
	}
	return datatable.DecodeRecords(data)
}
