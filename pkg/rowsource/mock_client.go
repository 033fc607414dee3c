package rowsource

import (
	"context"
	"encoding/json"
	"sync"
)

// MockSource serves fixed records and counts loads. Useful for tests and demos.
type MockSource struct {
	mu      sync.RWMutex
	records []json.RawMessage
	err     error
	loads   int
}

// NewMockSource builds a mock source from raw records.
func NewMockSource(records ...json.RawMessage) *MockSource {
	return &MockSource{records: records}
}

// Fail makes every subsequent load return err.
func (s *MockSource) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Records returns a copy of the configured records.
func (s *MockSource) Records(context.Context) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]json.RawMessage, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Loads reports how many times Records ran.
func (s *MockSource) Loads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loads
}

var _ Counter = (*MockSource)(nil)
