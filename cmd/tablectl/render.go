package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/goliatone/go-datatable/components/datatable"
)

const cliSession = "tablectl"

type renderCmd struct {
	Table    string   `arg:"" help:"Table code to render."`
	Sort     []string `help:"Sort keys as field[:asc|desc] (repeatable, first wins)."`
	Filter   []string `help:"Exact-match filters as field=value (repeatable)."`
	Search   string   `help:"Free-text query matched against text columns."`
	Page     int      `default:"0" help:"Zero-based page index."`
	PageSize int      `default:"0" help:"Rows per page (0 keeps the table default)."`
	Hide     []string `help:"Columns to hide (repeatable)."`
	Select   []string `help:"Row ids to mark as selected (repeatable)."`
	Locale   string   `default:"en" help:"Locale for headers."`

	out io.Writer
}

func (cmd *renderCmd) Run(app *cli) error {
	service, err := app.service()
	if err != nil {
		return err
	}
	payload, err := cmd.project(context.Background(), service)
	if err != nil {
		return err
	}
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	_, err = fmt.Fprintln(out, renderPayload(payload))
	return err
}

func (cmd *renderCmd) project(ctx context.Context, service *datatable.Service) (datatable.ViewPayload, error) {
	if _, err := service.OpenSession(ctx, datatable.ViewerContext{SessionID: cliSession, Locale: cmd.Locale}); err != nil {
		return datatable.ViewPayload{}, err
	}
	ref := datatable.TableRef{SessionID: cliSession, Table: cmd.Table}
	if err := service.Mount(ctx, ref); err != nil {
		return datatable.ViewPayload{}, err
	}
	spec, err := parseSort(cmd.Sort)
	if err != nil {
		return datatable.ViewPayload{}, err
	}
	filters, err := parseFilters(cmd.Filter)
	if err != nil {
		return datatable.ViewPayload{}, err
	}
	steps := []func() error{
		func() error { return service.SetSort(ctx, ref, spec) },
		func() error { return service.SetGlobalFilter(ctx, ref, cmd.Search) },
	}
	for field, value := range filters {
		steps = append(steps, func() error { return service.SetFilter(ctx, ref, field, value) })
	}
	for _, key := range cmd.Hide {
		steps = append(steps, func() error { return service.SetColumnVisibility(ctx, ref, key, false) })
	}
	if len(cmd.Select) > 0 {
		steps = append(steps, func() error { return service.ToggleAllVisible(ctx, ref, cmd.Select, true) })
	}
	if cmd.PageSize > 0 {
		steps = append(steps, func() error { return service.SetPageSize(ctx, ref, cmd.PageSize) })
	}
	steps = append(steps, func() error { return service.SetPage(ctx, ref, cmd.Page) })
	for _, step := range steps {
		if err := step(); err != nil {
			return datatable.ViewPayload{}, err
		}
	}
	return service.View(ctx, ref, cmd.Locale)
}

func parseSort(keys []string) (datatable.SortSpec, error) {
	spec := make(datatable.SortSpec, 0, len(keys))
	for _, raw := range keys {
		field, dir, _ := strings.Cut(strings.TrimSpace(raw), ":")
		if field == "" {
			return nil, fmt.Errorf("tablectl: empty sort key in %q", raw)
		}
		key := datatable.SortKey{Field: field, Direction: datatable.SortAsc}
		switch strings.ToLower(dir) {
		case "", "asc":
		case "desc":
			key.Direction = datatable.SortDesc
		default:
			return nil, fmt.Errorf("tablectl: unknown sort direction %q", dir)
		}
		spec = append(spec, key)
	}
	return spec, nil
}

func parseFilters(pairs []string) (map[string]string, error) {
	filters := make(map[string]string, len(pairs))
	for _, raw := range pairs {
		field, value, ok := strings.Cut(raw, "=")
		if !ok || strings.TrimSpace(field) == "" {
			return nil, fmt.Errorf("tablectl: filter %q must look like field=value", raw)
		}
		filters[strings.TrimSpace(field)] = value
	}
	return filters, nil
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle = cellStyle.Foreground(lipgloss.Color("6"))
	footerStyle   = lipgloss.NewStyle().Faint(true)
)

// renderPayload draws the visible columns of payload as a bordered table
// with a selection and pager footer.
func renderPayload(payload datatable.ViewPayload) string {
	headers := []string{" "}
	keys := make([]string, 0, len(payload.Columns))
	for _, col := range payload.Columns {
		if !col.Visible {
			continue
		}
		header := col.Header
		switch col.SortDirection {
		case datatable.SortAsc:
			header += " ↑"
		case datatable.SortDesc:
			header += " ↓"
		}
		headers = append(headers, header)
		keys = append(keys, col.Key)
	}
	rows := make([][]string, 0, len(payload.Rows))
	selected := make(map[int]bool, len(payload.Rows))
	for i, row := range payload.Rows {
		mark := " "
		if row.Selected {
			mark = "x"
			selected[i] = true
		}
		cells := []string{mark}
		for _, key := range keys {
			cells = append(cells, row.Cells[key])
		}
		rows = append(rows, cells)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case selected[row]:
				return selectedStyle
			default:
				return cellStyle
			}
		})

	var footer strings.Builder
	fmt.Fprintf(&footer, "%d of %d row(s) selected.", payload.Selection.SelectedCount, payload.Selection.TotalFilteredCount)
	pageCount := payload.Pagination.PageCount
	if pageCount == 0 {
		pageCount = 1
	}
	fmt.Fprintf(&footer, "  Page %d of %d", payload.Pagination.PageIndex+1, pageCount)
	if len(payload.Rows) == 0 {
		footer.WriteString("  No results.")
	}
	return t.String() + "\n" + footerStyle.Render(footer.String())
}
