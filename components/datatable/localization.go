package datatable

import (
	"context"
	"strings"
)

// HeaderTranslationPrefix namespaces translator keys for column headers.
const HeaderTranslationPrefix = "DataTable."

// TranslationService translates message keys for a locale. When configured,
// headers resolve through HeaderTranslationPrefix + column key first.
type TranslationService interface {
	Translate(ctx context.Context, key, locale string, args map[string]any) (string, error)
}

// localeChain lists lookup keys from most to least specific:
// "pt-br" yields pt-br, pt, default.
func localeChain(locale string) []string {
	tag := canonicalLocale(locale)
	chain := make([]string, 0, 3)
	if tag != "" {
		chain = append(chain, tag)
		if base, _, found := strings.Cut(tag, "-"); found && base != "" {
			chain = append(chain, base)
		}
	}
	return append(chain, "default")
}

func canonicalLocale(locale string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(locale, "_", "-")))
}

// PickLocalized returns the entry of values best matching locale, or fallback.
// values is expected to be keyed by canonical locale (see foldLocales).
func PickLocalized(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	for _, key := range localeChain(locale) {
		if text := values[key]; text != "" {
			return text
		}
	}
	return fallback
}

// foldLocales canonicalizes locale keys and drops blank entries.
func foldLocales(values map[string]string) map[string]string {
	var out map[string]string
	for tag, text := range values {
		tag = canonicalLocale(tag)
		if tag == "" || text == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string, len(values))
		}
		out[tag] = text
	}
	return out
}

// NameForLocale returns the table display name for the requested locale.
func (def TableDefinition) NameForLocale(locale string) string {
	return PickLocalized(def.NameLocalized, locale, def.Name)
}

func (def *TableDefinition) normalizeLocalizedFields() {
	def.NameLocalized = foldLocales(def.NameLocalized)
	var headers map[string]map[string]string
	for column, values := range def.HeaderTranslations {
		folded := foldLocales(values)
		if folded == nil {
			continue
		}
		if headers == nil {
			headers = map[string]map[string]string{}
		}
		headers[column] = folded
	}
	def.HeaderTranslations = headers
}

// translate asks svc for key and keeps fallback when the service is absent,
// fails, or returns nothing.
func translate(ctx context.Context, svc TranslationService, key, locale, fallback string) string {
	if svc == nil {
		return fallback
	}
	text, err := svc.Translate(ctx, key, locale, nil)
	if err != nil || text == "" {
		return fallback
	}
	return text
}

func translateHeaders(ctx context.Context, svc TranslationService, locale string, payload *ViewPayload) {
	if svc == nil || payload == nil {
		return
	}
	for i := range payload.Columns {
		col := &payload.Columns[i]
		col.Header = translate(ctx, svc, HeaderTranslationPrefix+col.Key, locale, col.Header)
	}
}
