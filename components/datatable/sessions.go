package datatable

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Session holds the tables mounted for one viewer. Its lock serializes every
// event applied to those tables.
type Session struct {
	ID        string
	Locale    string
	CreatedAt time.Time

	mu     sync.Mutex
	tables map[string]Controller
}

func newSession(id string) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		tables:    map[string]Controller{},
	}
}

// Table returns the mounted controller for code.
func (s *Session) Table(code string) (Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table, ok := s.tables[code]
	return table, ok
}

// Tables lists the codes of mounted tables.
func (s *Session) Tables() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	codes := make([]string, 0, len(s.tables))
	for code := range s.tables {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// with runs fn holding the session lock against the table mounted under code.
func (s *Session) with(code string, fn func(Controller) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	table, ok := s.tables[code]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotMounted, code)
	}
	return fn(table)
}

// InMemorySessionStore provides a concurrency-safe default session store.
type InMemorySessionStore struct {
	mu   sync.RWMutex
	data map[string]*Session
}

// NewInMemorySessionStore creates an empty session store.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		data: make(map[string]*Session),
	}
}

// Create registers a new session. Reusing an id returns the existing session.
func (s *InMemorySessionStore) Create(_ context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session store requires session id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.data[sessionID]; ok {
		return existing, nil
	}
	session := newSession(sessionID)
	s.data[sessionID] = session
	return session, nil
}

// Get returns the session stored under sessionID.
func (s *InMemorySessionStore) Get(_ context.Context, sessionID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.data[sessionID]
	return session, ok
}

// Delete drops the session and every table mounted in it.
func (s *InMemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// Len returns the number of live sessions.
func (s *InMemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
