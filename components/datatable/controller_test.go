package datatable

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
)

type stubViewResolver struct {
	payload ViewPayload
	err     error
}

func (s *stubViewResolver) View(context.Context, TableRef, string) (ViewPayload, error) {
	return s.payload, s.err
}

type stubRenderer struct {
	lastTemplate string
	lastPayload  map[string]any
	err          error
}

func (r *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.lastTemplate = name
	if payload, ok := data.(map[string]any); ok {
		r.lastPayload = payload
	}
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("<table></table>"))
	}
	return "<table></table>", r.err
}

func TestViewControllerRenderTemplate(t *testing.T) {
	service := &stubViewResolver{
		payload: ViewPayload{
			Table: "tasks",
			Columns: []ColumnPayload{
				{Key: "id", Header: "Task", Visible: true},
				{Key: "label", Header: "Label", Visible: false},
				{Key: "title", Header: "Title", Visible: true},
			},
			Rows: []RowPayload{
				{ID: "TASK-1", Cells: map[string]string{"id": "TASK-1", "title": "Ship"}, Selected: true},
			},
		},
	}
	renderer := &stubRenderer{}
	controller := NewViewController(ViewControllerOptions{
		Service:  service,
		Renderer: renderer,
	})

	var buf bytes.Buffer
	if err := controller.RenderTemplate(context.Background(), TableRef{SessionID: "s", Table: "tasks"}, "en", &buf); err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if renderer.lastTemplate != DefaultTemplate {
		t.Fatalf("expected %s template to render, got %s", DefaultTemplate, renderer.lastTemplate)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected rendered output")
	}
	columns, _ := renderer.lastPayload["columns"].([]ColumnPayload)
	if len(columns) != 2 {
		t.Fatalf("expected hidden column dropped, got %+v", columns)
	}
	rows, _ := renderer.lastPayload["rows"].([]map[string]any)
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %+v", rows)
	}
	cells := rows[0]["cells"].([]string)
	if len(cells) != 2 || cells[0] != "TASK-1" || cells[1] != "Ship" {
		t.Fatalf("expected cells aligned with visible columns, got %v", cells)
	}
}

func TestViewControllerPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	controller := NewViewController(ViewControllerOptions{
		Service:  &stubViewResolver{err: boom},
		Renderer: &stubRenderer{},
	})
	if err := controller.RenderTemplate(context.Background(), TableRef{}, "", io.Discard); !errors.Is(err, boom) {
		t.Fatalf("expected service error, got %v", err)
	}
	controller = NewViewController(ViewControllerOptions{Service: &stubViewResolver{}})
	if err := controller.RenderTemplate(context.Background(), TableRef{}, "", io.Discard); err == nil {
		t.Fatalf("expected error without renderer")
	}
}

type stubThemeProvider struct {
	selector ThemeSelector
}

func (p *stubThemeProvider) SelectTheme(_ context.Context, selector ThemeSelector) (*ThemeSelection, error) {
	p.selector = selector
	return &ThemeSelection{
		Name:      selector.Name,
		Variant:   selector.Variant,
		Tokens:    map[string]string{"row-height": "32px", "--accent": "#0af", "empty": ""},
		Templates: map[string]string{DefaultTemplate: "compact"},
	}, nil
}

func TestViewControllerAppliesTheme(t *testing.T) {
	provider := &stubThemeProvider{}
	renderer := &stubRenderer{}
	controller := NewViewController(ViewControllerOptions{
		Service:       &stubViewResolver{payload: ViewPayload{Table: "tasks"}},
		Renderer:      renderer,
		ThemeProvider: provider,
		ThemeSelector: func(context.Context, TableRef) ThemeSelector {
			return ThemeSelector{Name: "admin", Variant: "dark"}
		},
	})
	if err := controller.RenderTemplate(context.Background(), TableRef{SessionID: "s", Table: "tasks"}, "", io.Discard); err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if provider.selector.Name != "admin" || provider.selector.Variant != "dark" {
		t.Fatalf("expected selector to reach provider, got %+v", provider.selector)
	}
	if renderer.lastTemplate != "compact" {
		t.Fatalf("expected theme template override, got %s", renderer.lastTemplate)
	}
	theme, _ := renderer.lastPayload["theme"].(map[string]any)
	if theme["style"] != "--accent: #0af; --row-height: 32px;" {
		t.Fatalf("unexpected theme style: %v", theme["style"])
	}
}
