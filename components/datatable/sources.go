package datatable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
)

// Record kinds accepted by manifests and RecordFactory.
const (
	RecordSection = "section"
	RecordUser    = "user"
	RecordTask    = "task"
)

var errUnknownRecordKind = errors.New("datatable: unknown record kind")

// RecordSource yields raw JSON records in display order. Row sources backed
// by files, databases or remote APIs implement it.
type RecordSource interface {
	Records(ctx context.Context) ([]json.RawMessage, error)
}

// RecordSourceFunc adapts a function into a RecordSource.
type RecordSourceFunc func(ctx context.Context) ([]json.RawMessage, error)

// Records calls f.
func (f RecordSourceFunc) Records(ctx context.Context) ([]json.RawMessage, error) {
	return f(ctx)
}

// FSRecordSource reads a JSON array of records from fsys.
func FSRecordSource(fsys fs.FS, path string) RecordSource {
	return RecordSourceFunc(func(context.Context) ([]json.RawMessage, error) {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("datatable: read %s: %w", path, err)
		}
		return DecodeRecords(data)
	})
}

// DecodeRecords splits a JSON array into its elements.
func DecodeRecords(data []byte) ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("datatable: decode records: %w", err)
	}
	return records, nil
}

// DecodeSource turns a RecordSource into a typed RowSource. When validator
// is set every record is checked against def's schema first.
func DecodeSource[R Row](src RecordSource, validator RecordValidator, def TableDefinition) RowSource[R] {
	return RowSourceFunc[R](func(ctx context.Context) ([]R, error) {
		records, err := src.Records(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]R, 0, len(records))
		for i, raw := range records {
			if validator != nil {
				if err := validator.ValidateRecord(def, raw); err != nil {
					return nil, fmt.Errorf("row %d: %w", i, err)
				}
			}
			var row R
			if err := json.Unmarshal(raw, &row); err != nil {
				return nil, fmt.Errorf("datatable: %s row %d: %w", def.Code, i, err)
			}
			rows = append(rows, row)
		}
		return rows, nil
	})
}

// NewTableFactory builds tables over columns, loading rows from source on
// every mount. Definition page size, hidden columns and header translations
// are applied on top of cfg.
func NewTableFactory[R Row](columns Columns[R], source RowSource[R], opts ...TableOption) TableFactory {
	return TableFactoryFunc(func(ctx context.Context, def TableDefinition, cfg Config) (Controller, error) {
		rows, err := source.Rows(ctx)
		if err != nil {
			return nil, fmt.Errorf("datatable: load rows for %s: %w", def.Code, err)
		}
		options := []TableOption{
			WithConfig(cfg),
			WithPageSize(def.PageSize),
			WithHiddenColumns(def.HiddenColumns...),
		}
		table, err := NewTable(def.Code, columns.WithHeaders(def.HeaderTranslations), rows, append(options, opts...)...)
		if err != nil {
			return nil, err
		}
		return table, nil
	})
}

// RecordFactory binds a record kind to src. The returned factory validates
// rows loaded from src and records added later when validator is set.
func RecordFactory(kind string, src RecordSource, validator RecordValidator) (TableFactory, error) {
	if src == nil {
		return nil, errors.New("datatable: record source is required")
	}
	switch kind {
	case RecordSection, RecordUser, RecordTask, "":
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownRecordKind, kind)
	}
	return TableFactoryFunc(func(ctx context.Context, def TableDefinition, cfg Config) (Controller, error) {
		var factory TableFactory
		guard := WithRecordValidator(validator, def)
		switch kind {
		case RecordSection, "":
			factory = NewTableFactory(SectionColumns(), DecodeSource[Section](src, validator, def), guard)
		case RecordUser:
			factory = NewTableFactory(UserColumns(), DecodeSource[User](src, validator, def), guard)
		default:
			factory = NewTableFactory(TaskColumns(), DecodeSource[Task](src, validator, def), guard)
		}
		return factory.Build(ctx, def, cfg)
	}), nil
}
