package datatable

import (
	"embed"
)

//go:embed fixtures/*.json
var embeddedFixtures embed.FS

// Built-in table codes.
const (
	TableOutline         = "outline"
	TablePastPerformance = "past-performance"
	TableKeyPersonnel    = "key-personnel"
	TableFocusDocuments  = "focus-documents"
	TableUsers           = "users"
	TableTasks           = "tasks"
)

var sectionHeaders = map[string]map[string]string{
	"header":   {"es": "Encabezado"},
	"type":     {"es": "Tipo de sección"},
	"status":   {"es": "Estado"},
	"target":   {"es": "Objetivo"},
	"limit":    {"es": "Límite"},
	"reviewer": {"es": "Revisor"},
}

var defaultTableDefinitions = []TableDefinition{
	{
		Code:               TableOutline,
		Name:               "Outline",
		NameLocalized:      map[string]string{"es": "Esquema"},
		Description:        "Proposal sections in submission order",
		Category:           "documents",
		Schema:             sectionSchema(),
		HeaderTranslations: sectionHeaders,
	},
	{
		Code:               TablePastPerformance,
		Name:               "Past Performance",
		NameLocalized:      map[string]string{"es": "Desempeño anterior"},
		Description:        "Reference engagements cited by the proposal",
		Category:           "documents",
		Schema:             sectionSchema(),
		HeaderTranslations: sectionHeaders,
	},
	{
		Code:               TableKeyPersonnel,
		Name:               "Key Personnel",
		NameLocalized:      map[string]string{"es": "Personal clave"},
		Description:        "Named staff and their review status",
		Category:           "documents",
		Schema:             sectionSchema(),
		HeaderTranslations: sectionHeaders,
	},
	{
		Code:               TableFocusDocuments,
		Name:               "Focus Documents",
		NameLocalized:      map[string]string{"es": "Documentos clave"},
		Description:        "Supporting attachments",
		Category:           "documents",
		Schema:             sectionSchema(),
		HeaderTranslations: sectionHeaders,
	},
	{
		Code:          TableUsers,
		Name:          "Users",
		NameLocalized: map[string]string{"es": "Usuarios"},
		Description:   "Accounts with role, plan and billing details",
		Category:      "admin",
		Schema:        userSchema(),
		HiddenColumns: []string{"lastLogin"},
		HeaderTranslations: map[string]map[string]string{
			"name":       {"es": "Usuario"},
			"email":      {"es": "Correo"},
			"role":       {"es": "Rol"},
			"plan":       {"es": "Plan"},
			"billing":    {"es": "Facturación"},
			"status":     {"es": "Estado"},
			"joinedDate": {"es": "Fecha de alta"},
			"lastLogin":  {"es": "Último acceso"},
		},
	},
	{
		Code:          TableTasks,
		Name:          "Tasks",
		NameLocalized: map[string]string{"es": "Tareas"},
		Description:   "Work items with status, label and priority",
		Category:      "admin",
		Schema:        taskSchema(),
		HeaderTranslations: map[string]map[string]string{
			"id":       {"es": "Tarea"},
			"title":    {"es": "Título"},
			"status":   {"es": "Estado"},
			"label":    {"es": "Etiqueta"},
			"priority": {"es": "Prioridad"},
		},
	},
}

var defaultRecordKinds = map[string]string{
	TableOutline:         RecordSection,
	TablePastPerformance: RecordSection,
	TableKeyPersonnel:    RecordSection,
	TableFocusDocuments:  RecordSection,
	TableUsers:           RecordUser,
	TableTasks:           RecordTask,
}

func sectionSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"id", "header", "type", "status"},
		"properties": map[string]any{
			"id":       map[string]any{"type": "integer"},
			"header":   map[string]any{"type": "string", "minLength": 1},
			"type":     map[string]any{"type": "string"},
			"status":   map[string]any{"type": "string"},
			"target":   map[string]any{"type": "string"},
			"limit":    map[string]any{"type": "string"},
			"reviewer": map[string]any{"type": "string"},
		},
	}
}

func userSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"id", "name", "email", "role", "plan", "status"},
		"properties": map[string]any{
			"id":         map[string]any{"type": "integer"},
			"name":       map[string]any{"type": "string", "minLength": 1},
			"email":      map[string]any{"type": "string"},
			"role":       map[string]any{"type": "string", "enum": []any{"Admin", "Author", "Editor", "Maintainer", "Subscriber"}},
			"plan":       map[string]any{"type": "string", "enum": []any{"Basic", "Professional", "Enterprise"}},
			"billing":    map[string]any{"type": "string"},
			"status":     map[string]any{"type": "string", "enum": []any{"Active", "Pending", "Inactive", "Error"}},
			"joinedDate": map[string]any{"type": "string"},
			"lastLogin":  map[string]any{"type": "string"},
		},
	}
}

func taskSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"id", "title", "status", "label", "priority"},
		"properties": map[string]any{
			"id":          map[string]any{"type": "string", "minLength": 1},
			"title":       map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string"},
			"status":      map[string]any{"type": "string", "enum": []any{"backlog", "todo", "in progress", "done", "canceled"}},
			"label":       map[string]any{"type": "string", "enum": []any{"bug", "feature", "documentation"}},
			"priority":    map[string]any{"type": "string", "enum": []any{"low", "medium", "high"}},
		},
	}
}

// DefaultTableDefinitions returns the built-in table definitions.
func DefaultTableDefinitions() []TableDefinition {
	out := make([]TableDefinition, len(defaultTableDefinitions))
	copy(out, defaultTableDefinitions)
	return out
}

// DefaultFixture returns the embedded JSON rows of a built-in table.
func DefaultFixture(code string) (RecordSource, bool) {
	if _, ok := defaultRecordKinds[code]; !ok {
		return nil, false
	}
	return FSRecordSource(embeddedFixtures, "fixtures/"+code+".json"), true
}

// DefaultTableFactory returns the fixture-backed factory of a built-in table.
func DefaultTableFactory(code string, validator RecordValidator) (TableFactory, bool) {
	src, ok := DefaultFixture(code)
	if !ok {
		return nil, false
	}
	factory, err := RecordFactory(defaultRecordKinds[code], src, validator)
	if err != nil {
		return nil, false
	}
	return factory, true
}
