package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/goliatone/go-datatable/components/datatable"
	"github.com/goliatone/go-datatable/pkg/rowsource"
)

type cli struct {
	Manifest []string `type:"path" help:"Table manifest files to load on top of the built-in tables (repeatable)."`
	BaseDir  string   `type:"path" help:"Directory relative manifest source paths resolve against (defaults to the working directory)."`

	List     listCmd     `cmd:"" help:"List registered tables."`
	Render   renderCmd   `cmd:"" help:"Render one page of a table to the terminal."`
	Validate validateCmd `cmd:"" help:"Validate manifests and check every table mounts against its schema."`
	Scaffold scaffoldCmd `cmd:"" help:"Add a table entry to a manifest file."`
}

func main() {
	app := &cli{}
	ctx := kong.Parse(app,
		kong.Name("tablectl"),
		kong.Description("Inspect, validate and scaffold go-datatable tables."),
		kong.UsageOnError(),
		kong.Bind(app),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

// service builds an in-process datatable service with the CLI manifests bound.
func (c *cli) service() (*datatable.Service, error) {
	validator := datatable.NewJSONSchemaValidator()
	registry := datatable.NewRegistry(validator)
	if err := registry.ApplyHooks(); err != nil {
		return nil, err
	}
	if len(c.Manifest) > 0 {
		for _, path := range c.Manifest {
			if _, err := registry.LoadManifestFile(path); err != nil {
				return nil, err
			}
		}
		base := c.BaseDir
		if base == "" {
			base = "."
		}
		abs, err := filepath.Abs(base)
		if err != nil {
			return nil, fmt.Errorf("tablectl: resolve base dir: %w", err)
		}
		if err := registry.BindSources(rowsource.Opener{BaseDir: abs}.Open); err != nil {
			return nil, err
		}
	}
	return datatable.NewService(datatable.Options{
		Registry:  registry,
		Validator: validator,
		Config:    datatable.Config{AutoResetPageIndex: true},
	}), nil
}
