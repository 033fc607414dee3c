package datatable

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// TableHook registers tables into a registry. Packages add hooks from init()
// with RegisterTableHook; ApplyHooks runs them.
type TableHook func(reg *Registry) error

var hooks struct {
	sync.Mutex
	list []TableHook
}

// RegisterTableHook queues h for every registry that calls ApplyHooks.
func RegisterTableHook(h TableHook) {
	if h == nil {
		return
	}
	hooks.Lock()
	hooks.list = append(hooks.list, h)
	hooks.Unlock()
}

type registryEntry struct {
	def     TableDefinition
	factory TableFactory
	source  ManifestSource
}

// Registry resolves table codes to definitions, factories, and manifest
// sources.
type Registry struct {
	mu        sync.RWMutex
	entries   map[string]*registryEntry
	validator RecordValidator
}

// NewRegistry returns a registry preloaded with the built-in tables. validator
// guards rows decoded from fixtures and manifest sources.
func NewRegistry(validator RecordValidator) *Registry {
	reg := &Registry{entries: map[string]*registryEntry{}, validator: validator}
	for _, def := range DefaultTableDefinitions() {
		entry := &registryEntry{def: def}
		entry.def.normalizeLocalizedFields()
		entry.factory, _ = DefaultTableFactory(def.Code, validator)
		reg.entries[def.Code] = entry
	}
	return reg
}

// ApplyHooks runs every hook queued with RegisterTableHook.
func (r *Registry) ApplyHooks() error {
	hooks.Lock()
	queued := slices.Clone(hooks.list)
	hooks.Unlock()
	var errs []error
	for _, hook := range queued {
		errs = append(errs, hook(r))
	}
	return errors.Join(errs...)
}

// RegisterDefinition adds or replaces def, keeping any bound factory.
func (r *Registry) RegisterDefinition(def TableDefinition) error {
	if def.Code == "" {
		return errors.New("datatable: definition code is required")
	}
	def.normalizeLocalizedFields()
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.entries[def.Code]; ok {
		entry.def = def
		return nil
	}
	r.entries[def.Code] = &registryEntry{def: def}
	return nil
}

// RegisterFactory binds factory to an already registered definition.
func (r *Registry) RegisterFactory(code string, factory TableFactory) error {
	if factory == nil {
		return fmt.Errorf("datatable: nil factory for %q", code)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[code]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownTable, code)
	}
	entry.factory = factory
	return nil
}

// Definition looks up a definition by code.
func (r *Registry) Definition(code string) (TableDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.entries[code]; ok {
		return entry.def, true
	}
	return TableDefinition{}, false
}

// Factory returns the factory bound to code, if any.
func (r *Registry) Factory(code string) (TableFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[code]
	if !ok || entry.factory == nil {
		return nil, false
	}
	return entry.factory, true
}

// SourceMetadata returns the manifest source recorded for code.
func (r *Registry) SourceMetadata(code string) (ManifestSource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[code]
	if !ok || entry.source.isZero() {
		return ManifestSource{}, false
	}
	return entry.source, true
}

// Definitions lists every definition sorted by code.
func (r *Registry) Definitions() []TableDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]TableDefinition, 0, len(r.entries))
	for _, code := range slices.Sorted(maps.Keys(r.entries)) {
		defs = append(defs, r.entries[code].def)
	}
	return defs
}

func (r *Registry) recordSourceMetadata(code string, meta ManifestSource) {
	if meta.isZero() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.entries[code]; ok {
		entry.source = meta
	}
}

// manifestSources snapshots the recorded sources keyed by code.
func (r *Registry) manifestSources() map[string]ManifestSource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[string]ManifestSource{}
	for code, entry := range r.entries {
		if !entry.source.isZero() {
			out[code] = entry.source
		}
	}
	return out
}
