package datatable

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// Source kinds understood by manifest entries.
const (
	SourceJSON   = "json"
	SourceSQLite = "sqlite"
	SourceHTTP   = "http"
)

// TableManifestDocument models a YAML/JSON manifest describing tables and their row sources.
type TableManifestDocument struct {
	Version  string          `json:"version" yaml:"version"`
	Name     string          `json:"name,omitempty" yaml:"name,omitempty"`
	Package  string          `json:"package,omitempty" yaml:"package,omitempty"`
	Homepage string          `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	Tables   []ManifestTable `json:"tables" yaml:"tables"`
	Source   string          `json:"-" yaml:"-"`
}

// ManifestTable describes a single table entry within a manifest.
type ManifestTable struct {
	Definition  TableDefinition `json:"definition" yaml:"definition"`
	Source      ManifestSource  `json:"source,omitempty" yaml:"source,omitempty"`
	Maintainers []string        `json:"maintainers,omitempty" yaml:"maintainers,omitempty"`
	Tags        []string        `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ManifestSource says where a table loads its rows from and how they decode.
type ManifestSource struct {
	Kind   string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Record string `json:"record,omitempty" yaml:"record,omitempty"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	DSN    string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	Query  string `json:"query,omitempty" yaml:"query,omitempty"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
}

// SourceOpener resolves manifest source metadata into a RecordSource.
type SourceOpener func(meta ManifestSource) (RecordSource, error)

// LoadManifestFile reads a manifest from disk, registers it against the registry, and returns the document.
func (r *Registry) LoadManifestFile(path string) (*TableManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers definitions and source metadata from a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *TableManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("datatable: manifest document is nil")
	}
	for _, table := range doc.Tables {
		if err := r.RegisterDefinition(table.Definition); err != nil {
			return fmt.Errorf("datatable: register table %s from %s: %w", table.Definition.Code, doc.Source, err)
		}
		r.recordSourceMetadata(table.Definition.Code, table.Source)
	}
	return nil
}

// BindSources opens every manifest source and registers a record factory for it.
// Failures are collected so one broken source does not hide the others.
func (r *Registry) BindSources(open SourceOpener) error {
	if open == nil {
		return errors.New("datatable: source opener is required")
	}
	var errs []error
	for code, meta := range r.manifestSources() {
		src, err := open(meta)
		if err != nil {
			errs = append(errs, fmt.Errorf("datatable: open %s source for %s: %w", meta.Kind, code, err))
			continue
		}
		factory, err := RecordFactory(meta.Record, src, r.validator)
		if err != nil {
			errs = append(errs, fmt.Errorf("datatable: bind %s: %w", code, err))
			continue
		}
		if err := r.RegisterFactory(code, factory); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*TableManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("datatable: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("datatable: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*TableManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc TableManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("datatable: manifest is empty")
		}
		return nil, fmt.Errorf("datatable: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeManifest writes doc as YAML.
func EncodeManifest(w io.Writer, doc *TableManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("datatable: manifest document is nil")
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("datatable: encode manifest: %w", err)
	}
	return encoder.Close()
}

// Validate ensures the manifest satisfies required fields.
func (doc *TableManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("datatable: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Tables))
	for idx, table := range doc.Tables {
		if table.Definition.Code == "" {
			return fmt.Errorf("datatable: manifest table at index %d is missing definition.code", idx)
		}
		if table.Definition.Name == "" {
			return fmt.Errorf("datatable: manifest table %s missing definition.name", table.Definition.Code)
		}
		if _, exists := seen[table.Definition.Code]; exists {
			return fmt.Errorf("datatable: manifest duplicates table code %s", table.Definition.Code)
		}
		seen[table.Definition.Code] = struct{}{}
		if err := table.Source.validate(); err != nil {
			return fmt.Errorf("datatable: manifest table %s: %w", table.Definition.Code, err)
		}
	}
	return nil
}

func (doc *TableManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	for i := range doc.Tables {
		src := &doc.Tables[i].Source
		if !src.isZero() && src.Record == "" {
			src.Record = RecordSection
		}
	}
}

func (s ManifestSource) validate() error {
	if s.isZero() {
		return nil
	}
	switch s.Record {
	case RecordSection, RecordUser, RecordTask:
	default:
		return fmt.Errorf("%w: %q", errUnknownRecordKind, s.Record)
	}
	switch s.Kind {
	case SourceJSON:
		if s.Path == "" {
			return fmt.Errorf("json source requires path")
		}
	case SourceSQLite:
		if s.DSN == "" || s.Query == "" {
			return fmt.Errorf("sqlite source requires dsn and query")
		}
	case SourceHTTP:
		if s.URL == "" {
			return fmt.Errorf("http source requires url")
		}
	default:
		return fmt.Errorf("unsupported source kind %q", s.Kind)
	}
	return nil
}

func (s ManifestSource) isZero() bool {
	return s.Kind == "" &&
		s.Record == "" &&
		s.Path == "" &&
		s.DSN == "" &&
		s.Query == "" &&
		s.URL == ""
}
