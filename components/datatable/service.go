package datatable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-datatable/pkg/activity"
	"github.com/google/uuid"
)

// Event reasons carried by TableEvent.
const (
	ReasonMount      = "mount"
	ReasonUnmount    = "unmount"
	ReasonDragBegin  = "drag.begin"
	ReasonDragMove   = "drag.move"
	ReasonDragEnd    = "drag.end"
	ReasonDragCancel = "drag.cancel"
	ReasonReorder    = "reorder"
	ReasonSelection  = "selection"
	ReasonSort       = "sort"
	ReasonFilter     = "filter"
	ReasonPage       = "page"
	ReasonColumns    = "columns"
	ReasonAdd        = "add"
	ReasonRemove     = "remove"
	ReasonReplace    = "replace"
)

// rowMutations are the reasons that change the collection and are reported
// to activity hooks.
var rowMutations = map[string]bool{
	ReasonReorder: true,
	ReasonAdd:     true,
	ReasonRemove:  true,
	ReasonReplace: true,
}

var (
	// ErrSessionNotFound is returned for operations on unknown sessions.
	ErrSessionNotFound = errors.New("datatable: session not found")
	// ErrTableNotMounted is returned when a table is addressed before Mount.
	ErrTableNotMounted = errors.New("datatable: table not mounted")
	// ErrUnknownTable is returned when mounting a code with no definition or factory.
	ErrUnknownTable = errors.New("datatable: unknown table")
	// ErrInvalidInput marks caller mistakes: malformed or schema-rejected
	// records and commands that carry nothing to apply.
	ErrInvalidInput = errors.New("datatable: invalid input")

	errMissingSessionID = errors.New("datatable: session id is required")
	errMissingTable     = errors.New("datatable: table code is required")
)

// Options configures the datatable Service. Every collaborator is provided via
// interface so applications can swap implementations without importing internal
// go-datatable packages.
type Options struct {
	Registry       TableRegistry
	Sessions       SessionStore
	Validator      RecordValidator
	RefreshHook    RefreshHook
	Telemetry      Telemetry
	Translator     TranslationService
	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
	Config         Config
}

// Service orchestrates mounted tables per session.
type Service struct {
	opts     Options
	activity *activity.Emitter
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry(opts.Validator)
	}
	if opts.Sessions == nil {
		opts.Sessions = NewInMemorySessionStore()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	opts.Config = opts.Config.Normalized()
	return &Service{
		opts:     opts,
		activity: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
	}
}

// TableRef addresses a table mounted in a session.
type TableRef struct {
	SessionID string `json:"session_id"`
	Table     string `json:"table"`
}

func (r TableRef) validate() error {
	if r.SessionID == "" {
		return errMissingSessionID
	}
	if r.Table == "" {
		return errMissingTable
	}
	return nil
}

// Registry exposes the table registry.
func (s *Service) Registry() TableRegistry {
	return s.opts.Registry
}

// Definitions lists the tables a session can mount.
func (s *Service) Definitions() []TableDefinition {
	return s.opts.Registry.Definitions()
}

// OpenSession creates a session for viewer. A blank viewer.SessionID gets a
// generated id.
func (s *Service) OpenSession(ctx context.Context, viewer ViewerContext) (*Session, error) {
	id := viewer.SessionID
	if id == "" {
		id = uuid.NewString()
	}
	session, err := s.opts.Sessions.Create(ctx, id)
	if err != nil {
		return nil, err
	}
	if viewer.Locale != "" {
		session.Locale = viewer.Locale
	}
	s.recordTelemetry(ctx, "datatable.session.open", map[string]any{
		"session_id": id,
		"viewer":     viewer.UserID,
	})
	return session, nil
}

// CloseSession drops the session and its tables.
func (s *Service) CloseSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errMissingSessionID
	}
	if err := s.opts.Sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "datatable.session.close", map[string]any{"session_id": sessionID})
	return nil
}

// Mount builds the table registered under ref.Table inside the session.
// Mounting an already mounted table keeps the existing instance.
func (s *Service) Mount(ctx context.Context, ref TableRef) error {
	if err := ref.validate(); err != nil {
		return err
	}
	session, err := s.session(ctx, ref.SessionID)
	if err != nil {
		return err
	}
	def, ok := s.opts.Registry.Definition(ref.Table)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, ref.Table)
	}
	factory, ok := s.opts.Registry.Factory(ref.Table)
	if !ok {
		return fmt.Errorf("%w: %s has no row source", ErrUnknownTable, ref.Table)
	}

	session.mu.Lock()
	if _, exists := session.tables[ref.Table]; exists {
		session.mu.Unlock()
		return nil
	}
	table, err := factory.Build(ctx, def, s.opts.Config)
	if err != nil {
		session.mu.Unlock()
		s.recordTelemetry(ctx, "datatable.table.mount_error", map[string]any{
			"table": ref.Table,
			"error": err.Error(),
		})
		return err
	}
	session.tables[ref.Table] = table
	session.mu.Unlock()

	return s.notify(ctx, TableEvent{SessionID: ref.SessionID, Table: ref.Table, Reason: ReasonMount})
}

// Unmount discards the table and its view state.
func (s *Service) Unmount(ctx context.Context, ref TableRef) error {
	if err := ref.validate(); err != nil {
		return err
	}
	session, err := s.session(ctx, ref.SessionID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	_, exists := session.tables[ref.Table]
	delete(session.tables, ref.Table)
	session.mu.Unlock()
	if !exists {
		return nil
	}
	return s.notify(ctx, TableEvent{SessionID: ref.SessionID, Table: ref.Table, Reason: ReasonUnmount})
}

// BeginDrag lifts rowID.
func (s *Service) BeginDrag(ctx context.Context, ref TableRef, rowID string) error {
	return s.apply(ctx, ref, TableEvent{Reason: ReasonDragBegin, RowID: rowID}, func(t Controller, _ *TableEvent) (bool, error) {
		return t.BeginDrag(rowID), nil
	})
}

// MoveDrag records hover feedback for the dragged row.
func (s *Service) MoveDrag(ctx context.Context, ref TableRef, rowID, overRowID string) error {
	return s.apply(ctx, ref, TableEvent{Reason: ReasonDragMove, RowID: rowID, OverRowID: overRowID}, func(t Controller, _ *TableEvent) (bool, error) {
		return t.MoveTo(rowID, overRowID), nil
	})
}

// EndDrag drops rowID over overRowID. A drop that moves the row is reported
// as a reorder; one that only closes an active gesture as a drag end. A drop
// with no gesture in flight that moves nothing is ignored.
func (s *Service) EndDrag(ctx context.Context, ref TableRef, rowID, overRowID string) error {
	return s.apply(ctx, ref, TableEvent{Reason: ReasonDragEnd, RowID: rowID, OverRowID: overRowID}, func(t Controller, ev *TableEvent) (bool, error) {
		active := t.DragState().Phase == DragDragging
		if t.EndDrag(rowID, overRowID) {
			ev.Reason = ReasonReorder
			return true, nil
		}
		return active, nil
	})
}

// CancelDrag abandons the gesture.
func (s *Service) CancelDrag(ctx context.Context, ref TableRef) error {
	return s.apply(ctx, ref, TableEvent{Reason: ReasonDragCancel}, func(t Controller, _ *TableEvent) (bool, error) {
		was := t.DragState().Phase == DragDragging
		t.CancelDrag()
		return was, nil
	})
}

// ToggleRow flips the selection of rowID.
func (s *Service) ToggleRow(ctx context.Context, ref TableRef, rowID string) error {
	return s.apply(ctx, ref, TableEvent{Reason: ReasonSelection, RowID: rowID}, func(t Controller, _ *TableEvent) (bool, error) {
		return t.ToggleRow(rowID), nil
	})
}

// ToggleAllVisible selects or deselects rowIDs.
func (s *Service) ToggleAllVisible(ctx context.Context, ref TableRef, rowIDs []string, selected bool) error {
	meta := map[string]any{"count": len(rowIDs), "selected": selected}
	return s.apply(ctx, ref, TableEvent{Reason: ReasonSelection, Metadata: meta}, func(t Controller, _ *TableEvent) (bool, error) {
		t.ToggleAllVisible(rowIDs, selected)
		return true, nil
	})
}

// TogglePageSelection selects or deselects the current page.
func (s *Service) TogglePageSelection(ctx context.Context, ref TableRef, selected bool) error {
	meta := map[string]any{"page": true, "selected": selected}
	return s.apply(ctx, ref, TableEvent{Reason: ReasonSelection, Metadata: meta}, func(t Controller, _ *TableEvent) (bool, error) {
		t.TogglePageSelection(selected)
		return true, nil
	})
}

// SetSort replaces the sort spec.
func (s *Service) SetSort(ctx context.Context, ref TableRef, spec SortSpec) error {
	return s.apply(ctx, ref, TableEvent{Reason: ReasonSort, Metadata: map[string]any{"keys": len(spec)}}, func(t Controller, _ *TableEvent) (bool, error) {
		t.SetSort(spec)
		return true, nil
	})
}

// ToggleSort cycles the sort on field.
func (s *Service) ToggleSort(ctx context.Context, ref TableRef, field string) error {
	return s.apply(ctx, ref, TableEvent{Reason: ReasonSort, Metadata: map[string]any{"field": field}}, func(t Controller, _ *TableEvent) (bool, error) {
		return t.ToggleSort(field), nil
	})
}

// SetFilter sets or clears the predicate on field.
func (s *Service) SetFilter(ctx context.Context, ref TableRef, field, value string) error {
	meta := map[string]any{"field": field, "value": value}
	return s.apply(ctx, ref, TableEvent{Reason: ReasonFilter, Metadata: meta}, func(t Controller, _ *TableEvent) (bool, error) {
		return t.SetFilter(field, value), nil
	})
}

// ClearFilters drops every predicate.
func (s *Service) ClearFilters(ctx context.Context, ref TableRef) error {
	return s.apply(ctx, ref, TableEvent{Reason: ReasonFilter}, func(t Controller, _ *TableEvent) (bool, error) {
		t.ClearFilters()
		return true, nil
	})
}

// SetGlobalFilter sets the free-text query.
func (s *Service) SetGlobalFilter(ctx context.Context, ref TableRef, query string) error {
	return s.apply(ctx, ref, TableEvent{Reason: ReasonFilter, Metadata: map[string]any{"query": query}}, func(t Controller, _ *TableEvent) (bool, error) {
		t.SetGlobalFilter(query)
		return true, nil
	})
}

// SetPage moves to pageIndex.
func (s *Service) SetPage(ctx context.Context, ref TableRef, pageIndex int) error {
	return s.apply(ctx, ref, TableEvent{Reason: ReasonPage, Metadata: map[string]any{"page_index": pageIndex}}, func(t Controller, _ *TableEvent) (bool, error) {
		t.SetPage(pageIndex)
		return true, nil
	})
}

// SetPageSize changes the page size.
func (s *Service) SetPageSize(ctx context.Context, ref TableRef, pageSize int) error {
	return s.apply(ctx, ref, TableEvent{Reason: ReasonPage, Metadata: map[string]any{"page_size": pageSize}}, func(t Controller, _ *TableEvent) (bool, error) {
		if pageSize <= 0 {
			return false, nil
		}
		t.SetPageSize(pageSize)
		return true, nil
	})
}

// SetColumnVisibility shows or hides a column.
func (s *Service) SetColumnVisibility(ctx context.Context, ref TableRef, key string, visible bool) error {
	meta := map[string]any{"column": key, "visible": visible}
	return s.apply(ctx, ref, TableEvent{Reason: ReasonColumns, Metadata: meta}, func(t Controller, _ *TableEvent) (bool, error) {
		return t.SetColumnVisible(key, visible), nil
	})
}

// AddRow decodes raw and inserts it at the top of the table. It returns the new row id.
func (s *Service) AddRow(ctx context.Context, ref TableRef, raw json.RawMessage) (string, error) {
	var rowID string
	err := s.apply(ctx, ref, TableEvent{Reason: ReasonAdd}, func(t Controller, ev *TableEvent) (bool, error) {
		id, err := t.AddRecord(raw)
		if err != nil {
			return false, err
		}
		rowID = id
		ev.RowID = id
		return true, nil
	})
	return rowID, err
}

// ReplaceRow swaps the record sharing raw's id.
func (s *Service) ReplaceRow(ctx context.Context, ref TableRef, raw json.RawMessage) error {
	return s.apply(ctx, ref, TableEvent{Reason: ReasonReplace}, func(t Controller, ev *TableEvent) (bool, error) {
		replaced, err := t.ReplaceRecord(raw)
		if err != nil || !replaced {
			return false, err
		}
		var probe struct {
			ID any `json:"id"`
		}
		if json.Unmarshal(raw, &probe) == nil && probe.ID != nil {
			ev.RowID = fmt.Sprint(probe.ID)
		}
		return true, nil
	})
}

// RemoveRow deletes rowID.
func (s *Service) RemoveRow(ctx context.Context, ref TableRef, rowID string) error {
	return s.apply(ctx, ref, TableEvent{Reason: ReasonRemove, RowID: rowID}, func(t Controller, _ *TableEvent) (bool, error) {
		return t.RemoveRow(rowID), nil
	})
}

// View returns the render payload. A blank locale falls back to the session locale.
func (s *Service) View(ctx context.Context, ref TableRef, locale string) (ViewPayload, error) {
	if err := ref.validate(); err != nil {
		return ViewPayload{}, err
	}
	session, err := s.session(ctx, ref.SessionID)
	if err != nil {
		return ViewPayload{}, err
	}
	if locale == "" {
		locale = session.Locale
	}
	var payload ViewPayload
	err = session.with(ref.Table, func(t Controller) error {
		payload = t.Payload(locale)
		return nil
	})
	if err != nil {
		return ViewPayload{}, err
	}
	translateHeaders(ctx, s.opts.Translator, locale, &payload)
	s.recordTelemetry(ctx, "datatable.table.view", map[string]any{
		"table":      ref.Table,
		"page_index": payload.Pagination.PageIndex,
		"rows":       len(payload.Rows),
	})
	return payload, nil
}

// SelectionSummary returns (selected, filtered total) for the table.
func (s *Service) SelectionSummary(ctx context.Context, ref TableRef) (SelectionSummary, error) {
	if err := ref.validate(); err != nil {
		return SelectionSummary{}, err
	}
	session, err := s.session(ctx, ref.SessionID)
	if err != nil {
		return SelectionSummary{}, err
	}
	var summary SelectionSummary
	err = session.with(ref.Table, func(t Controller) error {
		summary = t.SelectionSummary()
		return nil
	})
	return summary, err
}

// NotifyTableUpdated exposes refresh hook invocation for commands/transports.
func (s *Service) NotifyTableUpdated(ctx context.Context, event TableEvent) error {
	return s.notify(ctx, event)
}

func (s *Service) session(ctx context.Context, sessionID string) (*Session, error) {
	session, ok := s.opts.Sessions.Get(ctx, sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return session, nil
}

// apply runs fn against the mounted table under the session lock. When fn
// reports a change the event is published; otherwise the call is a no-op.
func (s *Service) apply(ctx context.Context, ref TableRef, event TableEvent, fn func(Controller, *TableEvent) (bool, error)) error {
	if err := ref.validate(); err != nil {
		return err
	}
	session, err := s.session(ctx, ref.SessionID)
	if err != nil {
		return err
	}
	event.SessionID = ref.SessionID
	event.Table = ref.Table
	changed := false
	err = session.with(ref.Table, func(t Controller) error {
		var fnErr error
		changed, fnErr = fn(t, &event)
		return fnErr
	})
	if err != nil {
		return err
	}
	if !changed {
		s.recordTelemetry(ctx, "datatable.event.ignored", map[string]any{
			"table":  ref.Table,
			"reason": event.Reason,
			"row_id": event.RowID,
		})
		return nil
	}
	if err := s.notify(ctx, event); err != nil {
		return err
	}
	if rowMutations[event.Reason] {
		s.emitActivity(ctx, event)
	}
	return nil
}

func (s *Service) notify(ctx context.Context, event TableEvent) error {
	if err := s.opts.RefreshHook.TableUpdated(ctx, event); err != nil {
		return err
	}
	payload := map[string]any{
		"session_id": event.SessionID,
		"table":      event.Table,
		"reason":     event.Reason,
	}
	if event.RowID != "" {
		payload["row_id"] = event.RowID
	}
	s.recordTelemetry(ctx, "datatable.table."+event.Reason, payload)
	return nil
}

func (s *Service) emitActivity(ctx context.Context, event TableEvent) {
	if !s.activity.Enabled() {
		return
	}
	actor := actorFrom(ctx)
	meta := map[string]any{
		"session_id": event.SessionID,
		"table":      event.Table,
	}
	if event.OverRowID != "" {
		meta["over_row_id"] = event.OverRowID
	}
	objectID := event.RowID
	if objectID == "" {
		objectID = event.Table
	}
	err := s.activity.Emit(ctx, activity.Event{
		Verb:           "datatable.row." + event.Reason,
		ActorID:        actor.ActorID,
		UserID:         actor.UserID,
		TenantID:       actor.TenantID,
		ObjectType:     "table_row",
		ObjectID:       objectID,
		DefinitionCode: event.Table,
		Metadata:       meta,
	})
	if err != nil {
		s.recordTelemetry(ctx, "datatable.activity.error", map[string]any{
			"table": event.Table,
			"error": err.Error(),
		})
	}
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

type noopRefreshHook struct{}

func (noopRefreshHook) TableUpdated(context.Context, TableEvent) error {
	return nil
}
