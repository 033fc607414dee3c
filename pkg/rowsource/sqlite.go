package rowsource

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteSource runs a query and turns every result row into a JSON object
// keyed by column name.
type SQLiteSource struct {
	db    *sql.DB
	dsn   string
	query string
}

// openDB opens a database handle for a DSN source.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("sqlite", dsn)
}

// OpenSQLite returns a source reading dsn with the pure-Go sqlite driver.
// No handle is held between reads: each Records call opens the database and
// closes it before returning.
func OpenSQLite(dsn, query string) (*SQLiteSource, error) {
	if dsn == "" || query == "" {
		return nil, errors.New("rowsource: sqlite source requires dsn and query")
	}
	return &SQLiteSource{dsn: dsn, query: query}, nil
}

// NewSQLSource wraps an existing database handle. The caller keeps ownership.
func NewSQLSource(db *sql.DB, query string) (*SQLiteSource, error) {
	if db == nil || query == "" {
		return nil, errors.New("rowsource: sql source requires db and query")
	}
	return &SQLiteSource{db: db, query: query}, nil
}

// Records implements datatable.RecordSource.
func (s *SQLiteSource) Records(ctx context.Context) ([]json.RawMessage, error) {
	db := s.db
	if db == nil {
		opened, err := openDB(s.dsn)
		if err != nil {
			return nil, fmt.Errorf("rowsource: open sqlite: %w", err)
		}
		defer opened.Close()
		db = opened
	}
	rows, err := db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("rowsource: query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("rowsource: columns: %w", err)
	}
	var out []json.RawMessage
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("rowsource: scan: %w", err)
		}
		record := make(map[string]any, len(columns))
		for i, name := range columns {
			record[name] = normalizeValue(values[i])
		}
		raw, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("rowsource: encode row: %w", err)
		}
		out = append(out, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rowsource: iterate: %w", err)
	}
	return out, nil
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	default:
		return val
	}
}
