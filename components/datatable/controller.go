package datatable

import (
	"context"
	"errors"
	"io"
)

// DefaultTemplate is the embedded table template name.
const DefaultTemplate = "table"

// ViewResolver is the slice of Service the HTML controller needs.
type ViewResolver interface {
	View(ctx context.Context, ref TableRef, locale string) (ViewPayload, error)
}

// ViewControllerOptions wires a ViewController.
type ViewControllerOptions struct {
	Service       ViewResolver
	Renderer      Renderer
	Template      string
	ThemeProvider ThemeProvider
	ThemeSelector ThemeSelectorFunc
}

// ViewController renders mounted tables as HTML.
type ViewController struct {
	opts ViewControllerOptions
}

// NewViewController builds a controller. A blank template uses DefaultTemplate.
func NewViewController(opts ViewControllerOptions) *ViewController {
	if opts.Template == "" {
		opts.Template = DefaultTemplate
	}
	return &ViewController{opts: opts}
}

// Payload resolves the view payload for ref.
func (c *ViewController) Payload(ctx context.Context, ref TableRef, locale string) (ViewPayload, error) {
	if c.opts.Service == nil {
		return ViewPayload{}, errors.New("datatable: view controller has no service")
	}
	return c.opts.Service.View(ctx, ref, locale)
}

// RenderTemplate renders the table page into out.
func (c *ViewController) RenderTemplate(ctx context.Context, ref TableRef, locale string, out io.Writer) error {
	if c.opts.Renderer == nil {
		return errors.New("datatable: view controller has no renderer")
	}
	payload, err := c.Payload(ctx, ref, locale)
	if err != nil {
		return err
	}
	theme, err := c.resolveTheme(ctx, ref)
	if err != nil {
		return err
	}
	name := c.opts.Template
	if override := theme.TemplatePath(DefaultTemplate); override != "" {
		name = override
	}
	data := TemplateData(ref, payload)
	if theme != nil {
		data["theme"] = map[string]any{
			"name":    theme.Name,
			"variant": theme.Variant,
			"style":   theme.CSSVariablesInline(),
		}
	}
	_, err = c.opts.Renderer.Render(name, data, out)
	return err
}

func (c *ViewController) resolveTheme(ctx context.Context, ref TableRef) (*ThemeSelection, error) {
	if c.opts.ThemeProvider == nil {
		return nil, nil
	}
	selector := ThemeSelector{}
	if c.opts.ThemeSelector != nil {
		selector = c.opts.ThemeSelector(ctx, ref)
	}
	return c.opts.ThemeProvider.SelectTheme(ctx, selector)
}

// TemplateData flattens a payload into template-friendly rows: visible
// columns in order and cells aligned with them.
func TemplateData(ref TableRef, payload ViewPayload) map[string]any {
	columns := make([]ColumnPayload, 0, len(payload.Columns))
	for _, col := range payload.Columns {
		if col.Visible {
			columns = append(columns, col)
		}
	}
	rows := make([]map[string]any, 0, len(payload.Rows))
	for _, row := range payload.Rows {
		cells := make([]string, 0, len(columns))
		for _, col := range columns {
			cells = append(cells, row.Cells[col.Key])
		}
		rows = append(rows, map[string]any{
			"id":       row.ID,
			"selected": row.Selected,
			"cells":    cells,
		})
	}
	return map[string]any{
		"session":    ref.SessionID,
		"table":      payload.Table,
		"columns":    columns,
		"rows":       rows,
		"pagination": payload.Pagination,
		"selection":  payload.Selection,
		"drag":       payload.Drag,
		"filters":    payload.Filters,
		"total_rows": payload.TotalRows,
	}
}
