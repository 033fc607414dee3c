package datatable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// RecordValidator checks a raw row against the schema of its table.
type RecordValidator interface {
	ValidateRecord(def TableDefinition, raw json.RawMessage) error
}

// JSONSchemaValidator validates rows with jsonschema. Schemas compile once
// per table code.
type JSONSchemaValidator struct {
	mu      sync.Mutex
	schemas map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator returns a validator with an empty schema cache.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{schemas: map[string]*jsonschema.Schema{}}
}

// ValidateRecord accepts any row when def carries no schema.
func (v *JSONSchemaValidator) ValidateRecord(def TableDefinition, raw json.RawMessage) error {
	if len(def.Schema) == 0 {
		return nil
	}
	schema, err := v.compile(def)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %s row is not JSON: %w", ErrInvalidInput, def.Code, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s row rejected: %w", ErrInvalidInput, def.Code, err)
	}
	return nil
}

// ValidateRows checks each row and names the first failing index.
func (v *JSONSchemaValidator) ValidateRows(def TableDefinition, rows []json.RawMessage) error {
	for idx := range rows {
		if err := v.ValidateRecord(def, rows[idx]); err != nil {
			return fmt.Errorf("row %d: %w", idx, err)
		}
	}
	return nil
}

// Cached reports how many table schemas have been compiled.
func (v *JSONSchemaValidator) Cached() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.schemas)
}

func (v *JSONSchemaValidator) compile(def TableDefinition) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if schema := v.schemas[def.Code]; schema != nil {
		return schema, nil
	}
	source, err := json.Marshal(def.Schema)
	if err != nil {
		return nil, fmt.Errorf("datatable: encode %s schema: %w", def.Code, err)
	}
	schema, err := jsonschema.CompileString("datatable://"+def.Code+".json", string(source))
	if err != nil {
		return nil, fmt.Errorf("datatable: compile %s schema: %w", def.Code, err)
	}
	v.schemas[def.Code] = schema
	return schema, nil
}
