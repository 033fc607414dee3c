package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/goliatone/go-datatable/components/datatable"
)

type listCmd struct {
	Category string `help:"Only list tables in this category."`
	Locale   string `default:"en" help:"Locale for table names."`

	out io.Writer
}

func (cmd *listCmd) Run(app *cli) error {
	service, err := app.service()
	if err != nil {
		return err
	}
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	_, err = fmt.Fprintln(out, cmd.render(service))
	return err
}

func (cmd *listCmd) render(service *datatable.Service) string {
	rows := [][]string{}
	for _, def := range service.Definitions() {
		if cmd.Category != "" && def.Category != cmd.Category {
			continue
		}
		_, bound := service.Registry().Factory(def.Code)
		pageSize := "default"
		if def.PageSize > 0 {
			pageSize = strconv.Itoa(def.PageSize)
		}
		rows = append(rows, []string{def.Code, def.NameForLocale(cmd.Locale), def.Category, pageSize, strconv.FormatBool(bound)})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CODE", "NAME", "CATEGORY", "PAGE SIZE", "SOURCE").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

type validateCmd struct {
	out io.Writer
}

// Run mounts every table with a bound source into a scratch session so row
// schemas are checked, and reports each result.
func (cmd *validateCmd) Run(app *cli) error {
	service, err := app.service()
	if err != nil {
		return err
	}
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	ctx := context.Background()
	if _, err := service.OpenSession(ctx, datatable.ViewerContext{SessionID: cliSession}); err != nil {
		return err
	}
	var errs []error
	for _, def := range service.Definitions() {
		if _, ok := service.Registry().Factory(def.Code); !ok {
			fmt.Fprintf(out, "- %s: no source bound\n", def.Code)
			continue
		}
		ref := datatable.TableRef{SessionID: cliSession, Table: def.Code}
		if err := service.Mount(ctx, ref); err != nil {
			fmt.Fprintf(out, "✗ %s: %v\n", def.Code, err)
			errs = append(errs, err)
			continue
		}
		view, err := service.View(ctx, ref, "")
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(out, "✓ %s: %d rows\n", def.Code, view.TotalRows)
	}
	if len(errs) > 0 {
		return fmt.Errorf("tablectl: %d table(s) failed validation: %w", len(errs), errors.Join(errs...))
	}
	return nil
}
