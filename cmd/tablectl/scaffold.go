package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-datatable/components/datatable"
)

type scaffoldCmd struct {
	Name         string   `required:"" help:"Display name for the table."`
	Code         string   `help:"Table code (defaults to the kebab-cased name)."`
	Description  string   `help:"One-line description used in manifests."`
	Category     string   `default:"custom" help:"Table category."`
	ManifestPath string   `required:"" type:"path" help:"Path to the table manifest YAML file to update."`
	Record       string   `default:"section" enum:"section,user,task" help:"Record kind of the rows."`
	Source       string   `default:"json" enum:"json,sqlite,http" help:"Row source kind."`
	Path         string   `help:"JSON file with the rows (json sources; defaults to data/<code>.json next to the manifest)."`
	DSN          string   `help:"SQLite DSN (sqlite sources)."`
	Query        string   `help:"SQL query returning one row per record (sqlite sources)."`
	URL          string   `help:"Endpoint returning the records (http sources)."`
	PageSize     int      `help:"Initial page size."`
	Hidden       []string `help:"Columns hidden on mount (repeatable)."`
	Tag          []string `help:"Optional tags to include in the manifest (repeatable)."`
	Maintainer   []string `help:"Maintainers to record in the manifest."`
	Overwrite    bool     `help:"Replace an existing manifest entry with the same code."`

	out io.Writer
}

func (cmd *scaffoldCmd) Run(_ *cli) error {
	entry, err := cmd.entry()
	if err != nil {
		return err
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("tablectl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	if err := mergeEntry(doc, entry, cmd.Overwrite); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	if entry.Source.Kind == datatable.SourceJSON {
		dataPath := entry.Source.Path
		if !filepath.IsAbs(dataPath) {
			dataPath = filepath.Join(filepath.Dir(manifestPath), dataPath)
		}
		created, err := ensureDataFile(dataPath)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(out, "✓ Created empty row file %s\n", dataPath)
		}
	}
	fmt.Fprintf(out, "✓ Added %s to %s\n", entry.Definition.Code, manifestPath)
	return nil
}

func (cmd *scaffoldCmd) entry() (datatable.ManifestTable, error) {
	code := cmd.Code
	if code == "" {
		code = strcase.ToKebab(cmd.Name)
	}
	if code == "" {
		return datatable.ManifestTable{}, errors.New("tablectl: table code could not be derived from the name")
	}
	source := datatable.ManifestSource{
		Kind:   cmd.Source,
		Record: cmd.Record,
		Path:   cmd.Path,
		DSN:    cmd.DSN,
		Query:  cmd.Query,
		URL:    cmd.URL,
	}
	if source.Kind == datatable.SourceJSON && source.Path == "" {
		source.Path = filepath.Join("data", code+".json")
	}
	hidden := make([]string, 0, len(cmd.Hidden))
	for _, col := range cmd.Hidden {
		if col = strings.TrimSpace(col); col != "" {
			hidden = append(hidden, col)
		}
	}
	return datatable.ManifestTable{
		Definition: datatable.TableDefinition{
			Code:          code,
			Name:          strings.TrimSpace(cmd.Name),
			Description:   cmd.Description,
			Category:      cmd.Category,
			PageSize:      cmd.PageSize,
			HiddenColumns: hidden,
		},
		Source:      source,
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}, nil
}

func mergeEntry(doc *datatable.TableManifestDocument, entry datatable.ManifestTable, overwrite bool) error {
	replaced := false
	for idx := range doc.Tables {
		if doc.Tables[idx].Definition.Code != entry.Definition.Code {
			continue
		}
		if !overwrite {
			return fmt.Errorf("tablectl: manifest already defines table %s (use --overwrite to replace)", entry.Definition.Code)
		}
		doc.Tables[idx] = entry
		replaced = true
		break
	}
	if !replaced {
		doc.Tables = append(doc.Tables, entry)
	}
	sort.Slice(doc.Tables, func(i, j int) bool {
		return doc.Tables[i].Definition.Code < doc.Tables[j].Definition.Code
	})
	return nil
}

func loadOrInitManifest(path string) (*datatable.TableManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &datatable.TableManifestDocument{
				Version: datatable.ManifestVersion,
				Name:    strcase.ToKebab(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))),
				Tables:  []datatable.ManifestTable{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("tablectl: stat manifest: %w", err)
	}
	return datatable.ReadManifest(path)
}

func writeManifest(path string, doc *datatable.TableManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("tablectl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("tablectl: create manifest %s: %w", path, err)
	}
	defer file.Close()
	return datatable.EncodeManifest(file, doc)
}

func ensureDataFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("tablectl: mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("[]\n"), 0o644); err != nil {
		return false, fmt.Errorf("tablectl: write %s: %w", path, err)
	}
	return true, nil
}
