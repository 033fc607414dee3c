package datatable

import (
	"embed"
	"io"

	template "github.com/goliatone/go-template"
)

// Renderer renders a named template. go-template renderers satisfy it.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

//go:embed templates/*.html
var tableTemplates embed.FS

// NewTemplateRenderer serves the bundled table templates, addressed by file
// stem (DefaultTemplate is "table").
func NewTemplateRenderer() (Renderer, error) {
	return template.NewRenderer(
		template.WithFS(tableTemplates),
		template.WithBaseDir("templates"),
		template.WithExtension(".html"),
	)
}
