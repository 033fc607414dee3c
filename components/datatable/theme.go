package datatable

import (
	"context"
	"maps"
	"slices"
	"strings"
)

// ThemeProvider resolves a theme for a render. It mirrors the go-theme
// provider contract so adapters can pass one straight through.
type ThemeProvider interface {
	SelectTheme(ctx context.Context, selector ThemeSelector) (*ThemeSelection, error)
}

// ThemeSelectorFunc picks the theme to request for a mounted table.
type ThemeSelectorFunc func(ctx context.Context, ref TableRef) ThemeSelector

// ThemeSelector names a theme and optional variant.
type ThemeSelector struct {
	Name    string
	Variant string
}

// ThemeSelection is a resolved theme: design tokens plus template overrides
// keyed by template name.
type ThemeSelection struct {
	Name      string
	Variant   string
	Tokens    map[string]string
	Templates map[string]string
}

// CSSVariables maps tokens to custom property names, adding the "--" prefix
// where missing. Blank names or values are skipped.
func (theme *ThemeSelection) CSSVariables() map[string]string {
	if theme == nil {
		return nil
	}
	var vars map[string]string
	for token, value := range theme.Tokens {
		token = strings.TrimSpace(token)
		if token == "" || value == "" {
			continue
		}
		if vars == nil {
			vars = make(map[string]string, len(theme.Tokens))
		}
		vars["--"+strings.TrimPrefix(token, "--")] = value
	}
	return vars
}

// CSSVariablesInline renders CSSVariables as a style attribute, ordered by name.
func (theme *ThemeSelection) CSSVariablesInline() string {
	vars := theme.CSSVariables()
	decls := make([]string, 0, len(vars))
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		decls = append(decls, name+": "+vars[name]+";")
	}
	return strings.Join(decls, " ")
}

// TemplatePath returns the override registered for key, if any.
func (theme *ThemeSelection) TemplatePath(key string) string {
	if theme == nil {
		return ""
	}
	return theme.Templates[key]
}
