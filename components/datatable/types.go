package datatable

import (
	"context"
	"encoding/json"
)

// Row is implemented by every record held in a Collection. Identifiers must be
// stable and unique within a collection.
type Row interface {
	RowID() string
}

// RowSource supplies the initial ordered rows of a table. It is consulted once
// per mount.
type RowSource[R Row] interface {
	Rows(ctx context.Context) ([]R, error)
}

// RowSourceFunc adapts a function into a RowSource.
type RowSourceFunc[R Row] func(ctx context.Context) ([]R, error)

// Rows calls f.
func (f RowSourceFunc[R]) Rows(ctx context.Context) ([]R, error) {
	return f(ctx)
}

// TableFactory builds a mounted table controller for a session.
type TableFactory interface {
	Build(ctx context.Context, def TableDefinition, cfg Config) (Controller, error)
}

// TableFactoryFunc adapts a function into a TableFactory.
type TableFactoryFunc func(ctx context.Context, def TableDefinition, cfg Config) (Controller, error)

// Build calls f.
func (f TableFactoryFunc) Build(ctx context.Context, def TableDefinition, cfg Config) (Controller, error) {
	return f(ctx, def, cfg)
}

// TableRegistry stores table definitions and factories discoverable via hooks or manifests.
type TableRegistry interface {
	RegisterDefinition(def TableDefinition) error
	RegisterFactory(code string, factory TableFactory) error
	Definition(code string) (TableDefinition, bool)
	Factory(code string) (TableFactory, bool)
	Definitions() []TableDefinition
}

// SessionStore keeps the tables mounted for each session.
type SessionStore interface {
	Create(ctx context.Context, sessionID string) (*Session, error)
	Get(ctx context.Context, sessionID string) (*Session, bool)
	Delete(ctx context.Context, sessionID string) error
}

// RefreshHook notifies transports (REST/WebSocket) about table changes.
type RefreshHook interface {
	TableUpdated(ctx context.Context, event TableEvent) error
}

// Controller is the type-erased surface of a mounted Table used by the
// service layer and transports. Every method runs synchronously.
type Controller interface {
	Name() string
	BeginDrag(rowID string) bool
	MoveTo(rowID, overRowID string) bool
	EndDrag(rowID, overRowID string) bool
	CancelDrag()
	DragState() DragState
	ToggleRow(rowID string) bool
	ToggleAllVisible(rowIDs []string, selected bool)
	TogglePageSelection(selected bool)
	SelectionSummary() SelectionSummary
	SetSort(spec SortSpec)
	ToggleSort(field string) bool
	SetFilter(field, value string) bool
	ClearFilters()
	SetGlobalFilter(query string)
	SetPage(pageIndex int)
	SetPageSize(pageSize int)
	SetColumnVisible(key string, visible bool) bool
	AddRecord(raw json.RawMessage) (string, error)
	ReplaceRecord(raw json.RawMessage) (bool, error)
	RemoveRow(rowID string) bool
	State() ViewState
	Payload(locale string) ViewPayload
}

// TableDefinition describes a table registered with the service.
type TableDefinition struct {
	Code               string                       `json:"code" yaml:"code"`
	Name               string                       `json:"name" yaml:"name"`
	NameLocalized      map[string]string            `json:"name_localized,omitempty" yaml:"name_localized,omitempty"`
	Description        string                       `json:"description,omitempty" yaml:"description,omitempty"`
	Category           string                       `json:"category,omitempty" yaml:"category,omitempty"`
	Schema             map[string]any               `json:"schema,omitempty" yaml:"schema,omitempty"`
	PageSize           int                          `json:"page_size,omitempty" yaml:"page_size,omitempty"`
	HiddenColumns      []string                     `json:"hidden_columns,omitempty" yaml:"hidden_columns,omitempty"`
	HeaderTranslations map[string]map[string]string `json:"header_translations,omitempty" yaml:"header_translations,omitempty"`
}

// ViewerContext captures the session/user/locale information of a request.
type ViewerContext struct {
	SessionID string
	UserID    string
	Locale    string
}

// TableEvent describes changes that transports and activity sinks might care about.
type TableEvent struct {
	SessionID string         `json:"session_id"`
	Table     string         `json:"table"`
	Reason    string         `json:"reason"`
	RowID     string         `json:"row_id,omitempty"`
	OverRowID string         `json:"over_row_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}
