package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-datatable/components/datatable"
	"github.com/goliatone/go-datatable/components/datatable/commands"
	"github.com/goliatone/go-datatable/components/datatable/queries"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

type stubQuerier[T any, R any] struct {
	last   T
	result R
	err    error
}

func (s *stubQuerier[T, R]) Query(_ context.Context, msg T) (R, error) {
	s.last = msg
	return s.result, s.err
}

func serve(h *Handlers, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		buf, _ := json.Marshal(body)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}
	mux := http.NewServeMux()
	h.Register(mux)
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleMountAndUnmount(t *testing.T) {
	mount := &stubCommander[commands.MountTableInput]{}
	api := &Handlers{Mount: mount}

	rec := serve(api, http.MethodPost, "/sessions/s-1/tables/tasks", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if mount.last.Ref.SessionID != "s-1" || mount.last.Ref.Table != "tasks" {
		t.Fatalf("expected ref from path, got %+v", mount.last.Ref)
	}

	rec = serve(api, http.MethodDelete, "/sessions/s-1/tables/tasks", nil)
	if rec.Code != http.StatusNoContent || !mount.last.Unmount {
		t.Fatalf("expected unmount 204, got %d (%+v)", rec.Code, mount.last)
	}
}

func TestHandleDragUsesPathRef(t *testing.T) {
	reorder := &stubCommander[commands.ReorderRowsInput]{}
	api := &Handlers{Reorder: reorder}
	body := commands.ReorderRowsInput{
		Ref:       datatable.TableRef{SessionID: "spoofed", Table: "users"},
		Phase:     commands.DragEnd,
		RowID:     "TASK-1",
		OverRowID: "TASK-2",
	}
	rec := serve(api, http.MethodPost, "/sessions/s-1/tables/tasks/drag", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if reorder.last.Ref.SessionID != "s-1" || reorder.last.Ref.Table != "tasks" || reorder.last.OverRowID != "TASK-2" {
		t.Fatalf("unexpected command input: %+v", reorder.last)
	}
}

func TestHandleViewWritesJSON(t *testing.T) {
	view := &stubQuerier[queries.TableViewInput, datatable.ViewPayload]{
		result: datatable.ViewPayload{Table: "tasks", TotalRows: 3},
	}
	api := &Handlers{View: view}
	rec := serve(api, http.MethodGet, "/sessions/s-1/tables/tasks?locale=es", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if view.last.Locale != "es" {
		t.Fatalf("expected locale propagation, got %q", view.last.Locale)
	}
	var payload datatable.ViewPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.TotalRows != 3 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestHandleMutateRowReturnsID(t *testing.T) {
	rows := &commandFunc[commands.MutateRowInput]{fn: func(msg commands.MutateRowInput) error {
		*msg.Result = "TASK-9"
		return nil
	}}
	api := &Handlers{Rows: rows}
	rec := serve(api, http.MethodPost, "/sessions/s-1/tables/tasks/rows", map[string]any{
		"op":     commands.RowAdd,
		"record": map[string]any{"id": "TASK-9"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["id"] != "TASK-9" {
		t.Fatalf("expected id in response, got %v", body)
	}
}

func TestHandleRefreshWithoutBody(t *testing.T) {
	refresh := &stubCommander[commands.RefreshTableInput]{}
	api := &Handlers{Refresh: refresh}
	rec := serve(api, http.MethodPost, "/sessions/s-1/tables/tasks/refresh", nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if refresh.last.Event.Table != "tasks" {
		t.Fatalf("expected table from path, got %+v", refresh.last.Event)
	}
}

func TestHandlersMapErrors(t *testing.T) {
	selection := &stubCommander[commands.ToggleSelectionInput]{err: fmt.Errorf("wrap: %w", datatable.ErrTableNotMounted)}
	api := &Handlers{Selection: selection}
	rec := serve(api, http.MethodPost, "/sessions/s-1/tables/tasks/selection", commands.ToggleSelectionInput{RowID: "x"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	update := &stubCommander[commands.UpdateViewInput]{}
	api = &Handlers{Update: update}
	req := httptest.NewRequest(http.MethodPatch, "/sessions/s-1/tables/tasks/view", bytes.NewBufferString("{"))
	rec = httptest.NewRecorder()
	mux := http.NewServeMux()
	api.Register(mux)
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest || update.calls != 0 {
		t.Fatalf("expected 400 without executing, got %d", rec.Code)
	}
}

func TestHandlersAgainstService(t *testing.T) {
	service := datatable.NewService(datatable.Options{})
	if _, err := service.OpenSession(context.Background(), datatable.ViewerContext{SessionID: "s-1"}); err != nil {
		t.Fatalf("OpenSession returned error: %v", err)
	}
	api := &Handlers{
		Mount:     commands.NewMountTableCommand(service, nil),
		Selection: commands.NewToggleSelectionCommand(service, nil),
		Summary:   queries.NewSelectionSummaryQuery(service),
	}
	if rec := serve(api, http.MethodPost, "/sessions/s-1/tables/tasks", nil); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if rec := serve(api, http.MethodPost, "/sessions/s-1/tables/tasks/selection", map[string]any{"page": true, "selected": true}); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec := serve(api, http.MethodGet, "/sessions/s-1/tables/tasks/selection", nil)
	var summary datatable.SelectionSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.SelectedCount != 10 || summary.TotalFilteredCount != 12 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if rec := serve(api, http.MethodPost, "/sessions/missing/tables/tasks", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing session, got %d", rec.Code)
	}
}

type commandFunc[T any] struct {
	fn func(T) error
}

func (c *commandFunc[T]) Execute(_ context.Context, msg T) error {
	return c.fn(msg)
}

type sessionStub struct {
	last commands.SessionInput
}

func (s *sessionStub) Execute(_ context.Context, msg commands.SessionInput) error {
	s.last = msg
	if msg.Result != nil {
		*msg.Result = "generated"
	}
	return nil
}

func TestHandleSessions(t *testing.T) {
	session := &sessionStub{}
	api := &Handlers{Session: session}

	rec := serve(api, http.MethodPost, "/sessions", map[string]string{"user_id": "u-1", "locale": "es"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["id"] != "generated" {
		t.Fatalf("expected generated id, got %s (%v)", rec.Body.String(), err)
	}
	if session.last.UserID != "u-1" || session.last.Locale != "es" || session.last.Close {
		t.Fatalf("unexpected open input: %+v", session.last)
	}

	rec = serve(api, http.MethodDelete, "/sessions/s-9", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !session.last.Close || session.last.SessionID != "s-9" {
		t.Fatalf("unexpected close input: %+v", session.last)
	}
}

func TestHandlersRejectMalformedBodies(t *testing.T) {
	service := datatable.NewService(datatable.Options{})
	api := NewCommandExecutor(service, nil).Handlers()
	if rec := serve(api, http.MethodPost, "/sessions", map[string]string{"session_id": "s-1"}); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 opening session, got %d", rec.Code)
	}
	if rec := serve(api, http.MethodPost, "/sessions/s-1/tables/tasks", nil); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 mounting, got %d", rec.Code)
	}

	cases := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"empty view patch", http.MethodPatch, "/view", map[string]any{}},
		{"unknown row op", http.MethodPost, "/rows", map[string]any{"op": "explode"}},
		{"remove without id", http.MethodPost, "/rows", map[string]any{"op": commands.RowRemove}},
		{"schema rejected record", http.MethodPost, "/rows", map[string]any{"op": commands.RowAdd, "record": map[string]any{"id": 7}}},
		{"empty record", http.MethodPost, "/rows", map[string]any{"op": commands.RowAdd}},
		{"unknown drag phase", http.MethodPost, "/drag", map[string]any{"phase": "fly"}},
		{"selection without target", http.MethodPost, "/selection", map[string]any{}},
	}
	for _, tc := range cases {
		rec := serve(api, tc.method, "/sessions/s-1/tables/tasks"+tc.path, tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d (%s)", tc.name, rec.Code, rec.Body.String())
		}
	}

	rec := serve(api, http.MethodPost, "/sessions/s-1/tables/tasks/rows", map[string]any{
		"op":     commands.RowAdd,
		"record": map[string]any{"id": "TASK-8782", "title": "Copy", "status": "todo", "label": "bug", "priority": "low"},
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a duplicate id, got %d", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		fmt.Errorf("x: %w", datatable.ErrSessionNotFound): http.StatusNotFound,
		fmt.Errorf("x: %w", datatable.ErrUnknownTable):    http.StatusNotFound,
		fmt.Errorf("x: %w", datatable.ErrInvalidInput):    http.StatusBadRequest,
		datatable.ErrEmptyRowID:                           http.StatusBadRequest,
		fmt.Errorf("x: %w", datatable.ErrDuplicateRowID):  http.StatusConflict,
		fmt.Errorf("disk full"):                           http.StatusInternalServerError,
	}
	for err, want := range cases {
		if got := StatusFor(err); got != want {
			t.Fatalf("StatusFor(%v) = %d, want %d", err, got, want)
		}
	}
}
