package datatable

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedTranslator struct {
	text string
	err  error
}

func (f fixedTranslator) Translate(context.Context, string, string, map[string]any) (string, error) {
	return f.text, f.err
}

func TestPickLocalized(t *testing.T) {
	headers := foldLocales(map[string]string{
		"EN":      "Priority",
		"pt":      "Prioridade",
		"pt_BR":   "Prioridade (BR)",
		"default": "Priority",
		"de":      "",
	})

	cases := map[string]string{
		"pt-BR": "Prioridade (BR)",
		"pt-PT": "Prioridade",
		"de":    "Priority",
		"":      "Priority",
	}
	for locale, want := range cases {
		assert.Equal(t, want, PickLocalized(headers, locale, "fallback"), locale)
	}
	assert.NotContains(t, headers, "de")
	assert.Equal(t, "Priority", PickLocalized(nil, "pt", "Priority"))
}

func TestTranslateKeepsFallback(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "Prioridad", translate(ctx, fixedTranslator{text: "Prioridad"}, "DataTable.priority", "es", "Priority"))
	assert.Equal(t, "Priority", translate(ctx, fixedTranslator{err: errors.New("missing catalog")}, "DataTable.priority", "es", "Priority"))
	assert.Equal(t, "Priority", translate(ctx, fixedTranslator{}, "DataTable.priority", "es", "Priority"))
	assert.Equal(t, "Priority", translate(ctx, nil, "DataTable.priority", "es", "Priority"))
}

func TestColumnHeaderForLocale(t *testing.T) {
	col := EnumColumn("status", "Status", func(s Section) string { return s.Status }).
		Localized(map[string]string{"ES": "Estado"})
	assert.Equal(t, "Estado", col.HeaderFor("es-mx"))
	assert.Equal(t, "Status", col.HeaderFor("de"))
}

func TestDefinitionNameForLocale(t *testing.T) {
	def := TableDefinition{Code: "tasks", Name: "Tasks", NameLocalized: map[string]string{"FR": "Tâches"}}
	def.normalizeLocalizedFields()
	assert.Equal(t, "Tâches", def.NameForLocale("fr-CA"))
	assert.Equal(t, "Tasks", def.NameForLocale("it"))
}
