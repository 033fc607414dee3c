package rowsource

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-datatable/components/datatable"
)

// Opener builds record sources for manifest entries. Relative file paths are
// resolved against BaseDir.
type Opener struct {
	BaseDir string
	APIKey  string
}

// Open satisfies datatable.SourceOpener with a zero Opener.
func Open(meta datatable.ManifestSource) (datatable.RecordSource, error) {
	return Opener{}.Open(meta)
}

// Open picks the source implementation for meta.Kind.
func (o Opener) Open(meta datatable.ManifestSource) (datatable.RecordSource, error) {
	switch meta.Kind {
	case datatable.SourceJSON:
		path := meta.Path
		if o.BaseDir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(o.BaseDir, path)
		}
		src, err := NewFileSource(path)
		if err != nil {
			return nil, err
		}
		return src, nil
	case datatable.SourceSQLite:
		src, err := OpenSQLite(o.resolveDSN(meta.DSN), meta.Query)
		if err != nil {
			return nil, err
		}
		return src, nil
	case datatable.SourceHTTP:
		src, err := NewHTTPClient(HTTPConfig{URL: meta.URL, APIKey: o.APIKey})
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("rowsource: unsupported source kind %q", meta.Kind)
	}
}

// resolveDSN anchors relative database files at BaseDir. In-memory DSNs are
// left alone.
func (o Opener) resolveDSN(dsn string) string {
	if o.BaseDir == "" || strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return dsn
	}
	path, query, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if path == "" || filepath.IsAbs(path) {
		return dsn
	}
	resolved := filepath.Join(o.BaseDir, path)
	if strings.HasPrefix(dsn, "file:") {
		resolved = "file:" + resolved
	}
	if query != "" {
		resolved += "?" + query
	}
	return resolved
}

var _ datatable.SourceOpener = Open
