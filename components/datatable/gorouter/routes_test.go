package gorouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-datatable/components/datatable"
	"github.com/goliatone/go-datatable/components/datatable/commands"
	"github.com/goliatone/go-datatable/components/datatable/httpapi"
)

func TestRegisterValidatesConfig(t *testing.T) {
	if err := Register(Config{}); err == nil {
		t.Fatalf("expected error when router missing")
	}
	if err := Register(Config{Router: newMockRouter()}); err == nil {
		t.Fatalf("expected error when controller and api missing")
	}
}

func TestRegisterRoutes(t *testing.T) {
	mock := newMockRouter()
	cfg := Config{
		Router:     mock,
		Controller: datatable.NewViewController(datatable.ViewControllerOptions{}),
		API:        &httpapi.CommandExecutor{},
		Broadcast:  datatable.NewBroadcastHook(),
		BasePath:   "/admin/",
	}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	expected := []string{
		"POST:/admin/sessions",
		"DELETE:/admin/sessions/:session",
		"GET:/admin/sessions/:session/tables/:table",
		"POST:/admin/sessions/:session/tables/:table",
		"DELETE:/admin/sessions/:session/tables/:table",
		"GET:/admin/sessions/:session/tables/:table/_view",
		"GET:/admin/sessions/:session/tables/:table/selection",
		"POST:/admin/sessions/:session/tables/:table/selection",
		"POST:/admin/sessions/:session/tables/:table/drag",
		"POST:/admin/sessions/:session/tables/:table/view",
		"POST:/admin/sessions/:session/tables/:table/rows",
		"POST:/admin/sessions/:session/tables/:table/refresh",
	}
	for _, key := range expected {
		if _, ok := mock.routes[key]; !ok {
			t.Fatalf("expected route %s to be registered", key)
		}
	}
	if _, ok := mock.ws["/admin/sessions/:session/ws"]; !ok {
		t.Fatalf("expected websocket route")
	}
}

func TestHandlersRouteThroughExecutor(t *testing.T) {
	service := datatable.NewService(datatable.Options{})
	h := &handlers{api: httpapi.NewCommandExecutor(service, nil)}

	ctx := newMockContext("", "", map[string]string{"session_id": "s-1"})
	if err := h.openSession(ctx); err != nil || ctx.status != http.StatusCreated {
		t.Fatalf("open session: status %d err %v", ctx.status, err)
	}
	if !strings.Contains(string(ctx.body), `"s-1"`) {
		t.Fatalf("expected session id in response, got %s", ctx.body)
	}

	ctx = newMockContext("s-1", datatable.TableTasks, nil)
	if err := h.mount(ctx); err != nil || ctx.status != http.StatusCreated {
		t.Fatalf("mount: status %d err %v", ctx.status, err)
	}

	ctx = newMockContext("s-1", datatable.TableTasks, commands.ReorderRowsInput{
		Phase: commands.DragEnd, RowID: "TASK-8645", OverRowID: "TASK-8782",
	})
	if err := h.drag(ctx); err != nil || ctx.status != http.StatusOK {
		t.Fatalf("drag: status %d err %v (%s)", ctx.status, err, ctx.body)
	}

	ctx = newMockContext("s-1", datatable.TableTasks, map[string]any{
		"op":     commands.RowAdd,
		"record": map[string]any{"id": "TASK-1", "title": "Routed", "status": "todo", "label": "bug", "priority": "low"},
	})
	if err := h.rows(ctx); err != nil || ctx.status != http.StatusCreated {
		t.Fatalf("rows: status %d err %v (%s)", ctx.status, err, ctx.body)
	}

	ctx = newMockContext("s-1", datatable.TableTasks, nil)
	if err := h.view(ctx, "es"); err != nil || ctx.status != http.StatusOK {
		t.Fatalf("view: status %d err %v", ctx.status, err)
	}
	var payload datatable.ViewPayload
	if err := json.Unmarshal(ctx.body, &payload); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	got := []string{payload.Rows[0].ID, payload.Rows[1].ID, payload.Rows[2].ID}
	want := []string{"TASK-1", "TASK-8645", "TASK-8782"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
	if payload.Columns[1].Header != "Título" {
		t.Fatalf("expected localized header, got %q", payload.Columns[1].Header)
	}
}

func TestHandlersReportErrors(t *testing.T) {
	h := &handlers{api: &httpapi.CommandExecutor{
		MountCommander: failingCommander[commands.MountTableInput]{err: fmt.Errorf("wrap: %w", datatable.ErrSessionNotFound)},
	}}
	ctx := newMockContext("missing", "tasks", nil)
	if err := h.mount(ctx); err != nil {
		t.Fatalf("mount returned error: %v", err)
	}
	if ctx.status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", ctx.status)
	}

	ctx = newMockContext("s-1", "tasks", nil)
	ctx.request = []byte("{")
	if err := h.selection(ctx); err != nil {
		t.Fatalf("selection returned error: %v", err)
	}
	if ctx.status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", ctx.status)
	}
}

func TestHandlersRejectMalformedBodies(t *testing.T) {
	service := datatable.NewService(datatable.Options{})
	h := &handlers{api: httpapi.NewCommandExecutor(service, nil)}
	if err := h.openSession(newMockContext("", "", map[string]string{"session_id": "s-1"})); err != nil {
		t.Fatalf("open session: %v", err)
	}
	if err := h.mount(newMockContext("s-1", datatable.TableTasks, nil)); err != nil {
		t.Fatalf("mount: %v", err)
	}

	cases := []struct {
		name   string
		body   any
		handle func(requestContext) error
	}{
		{"empty view patch", map[string]any{}, h.update},
		{"unknown row op", map[string]any{"op": "explode"}, h.rows},
		{"remove without id", map[string]any{"op": commands.RowRemove}, h.rows},
		{"schema rejected record", map[string]any{"op": commands.RowAdd, "record": map[string]any{"id": 7}}, h.rows},
		{"unknown drag phase", map[string]any{"phase": "fly", "row_id": "TASK-8782"}, h.drag},
		{"selection without target", map[string]any{}, h.selection},
	}
	for _, tc := range cases {
		ctx := newMockContext("s-1", datatable.TableTasks, tc.body)
		if err := tc.handle(ctx); err != nil {
			t.Fatalf("%s: handler returned error: %v", tc.name, err)
		}
		if ctx.status != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d (%s)", tc.name, ctx.status, ctx.body)
		}
	}
}

func TestParseAcceptLanguage(t *testing.T) {
	cases := map[string]string{
		"es-MX,es;q=0.9": "es-mx",
		" ,fr;q=0.8":     "fr",
		"":               "",
	}
	for header, want := range cases {
		if got := parseAcceptLanguage(header); got != want {
			t.Fatalf("parseAcceptLanguage(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestDefaultRouteConfigDerivesFromTable(t *testing.T) {
	routes := defaultRouteConfig(RouteConfig{Table: "/t/:session/:table"})
	if routes.Drag != "/t/:session/:table/drag" || routes.View != "/t/:session/:table/_view" {
		t.Fatalf("unexpected derived routes: %+v", routes)
	}
	if routes.WebSocket != "/sessions/:session/ws" {
		t.Fatalf("unexpected websocket route: %s", routes.WebSocket)
	}
}

// --- Test helpers ---

type mockRouter struct {
	routes map[string]router.HandlerFunc
	ws     map[string]func(router.WebSocketContext) error
}

func newMockRouter() *mockRouter {
	return &mockRouter{
		routes: map[string]router.HandlerFunc{},
		ws:     map[string]func(router.WebSocketContext) error{},
	}
}

func (m *mockRouter) Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.routes["GET:"+path] = handler
	return nil
}

func (m *mockRouter) Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.routes["POST:"+path] = handler
	return nil
}

func (m *mockRouter) Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.routes["DELETE:"+path] = handler
	return nil
}

func (m *mockRouter) WebSocket(path string, cfg router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo {
	m.ws[path] = handler
	return nil
}

type mockContext struct {
	ctx     context.Context
	params  map[string]string
	request []byte
	body    []byte
	status  int
}

func newMockContext(session, table string, body any) *mockContext {
	m := &mockContext{
		ctx:    context.Background(),
		params: map[string]string{"session": session, "table": table},
	}
	if body != nil {
		m.request, _ = json.Marshal(body)
	}
	return m
}

func (m *mockContext) Context() context.Context { return m.ctx }

func (m *mockContext) Body() []byte { return m.request }

func (m *mockContext) JSON(code int, v any) error {
	m.status = code
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.body = data
	return nil
}

func (m *mockContext) Param(name string, defaultValue ...string) string {
	if v, ok := m.params[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

type failingCommander[T any] struct {
	err error
}

func (f failingCommander[T]) Execute(context.Context, T) error { return f.err }
