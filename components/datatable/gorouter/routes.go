package gorouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-datatable/components/datatable"
	"github.com/goliatone/go-datatable/components/datatable/commands"
	"github.com/goliatone/go-datatable/components/datatable/httpapi"
	"github.com/goliatone/go-datatable/components/datatable/queries"
)

// RouteRegistrar is the part of router.Router the datatable routes use.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	WebSocket(path string, cfg router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo
}

// LocaleResolver picks the render locale for a request.
type LocaleResolver func(router.Context) string

// Config wires go-router with go-datatable controllers, APIs, and hooks.
type Config struct {
	Router         RouteRegistrar
	Controller     *datatable.ViewController
	API            httpapi.Executor
	Broadcast      *datatable.BroadcastHook
	LocaleResolver LocaleResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for datatable endpoints.
// Paths may use the :session and :table parameters.
type RouteConfig struct {
	Sessions  string
	Session   string
	Table     string
	View      string
	Drag      string
	Selection string
	Update    string
	Rows      string
	Refresh   string
	WebSocket string
}

// requestContext is the slice of router.Context the handlers read and write.
type requestContext interface {
	Context() context.Context
	Param(name string, defaultValue ...string) string
	Body() []byte
	JSON(code int, v any) error
}

// Register mounts datatable routes (HTML, JSON, REST, WebSocket) on a go-router router.
func Register(cfg Config) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil && cfg.API == nil {
		return errors.New("gorouter: controller or api is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := strings.TrimRight(cfg.BasePath, "/")
	if cfg.BasePath == "" {
		base = "/datatable"
	}
	locale := cfg.LocaleResolver
	if locale == nil {
		locale = inferLocale
	}

	if cfg.Controller != nil {
		cfg.Router.Get(base+routes.Table, router.WrapHandler(func(ctx router.Context) error {
			body, err := renderHTML(ctx, cfg.Controller, locale(ctx))
			if err != nil {
				return respondError(ctx, httpapi.StatusFor(err), err)
			}
			ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
			return ctx.Send(body)
		}))
	}

	if cfg.API != nil {
		registerAPI(cfg.Router, base, cfg.API, locale, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(cfg.Router, cfg.Broadcast, base+routes.WebSocket)
	}

	return nil
}

func registerAPI(r RouteRegistrar, base string, api httpapi.Executor, locale LocaleResolver, routes RouteConfig) {
	h := &handlers{api: api}
	r.Post(base+routes.Sessions, router.WrapHandler(func(ctx router.Context) error { return h.openSession(ctx) }))
	r.Delete(base+routes.Session, router.WrapHandler(func(ctx router.Context) error { return h.closeSession(ctx) }))
	r.Post(base+routes.Table, router.WrapHandler(func(ctx router.Context) error { return h.mount(ctx) }))
	r.Delete(base+routes.Table, router.WrapHandler(func(ctx router.Context) error { return h.unmount(ctx) }))
	r.Get(base+routes.View, router.WrapHandler(func(ctx router.Context) error { return h.view(ctx, locale(ctx)) }))
	r.Get(base+routes.Selection, router.WrapHandler(func(ctx router.Context) error { return h.summary(ctx) }))
	r.Post(base+routes.Selection, router.WrapHandler(func(ctx router.Context) error { return h.selection(ctx) }))
	r.Post(base+routes.Drag, router.WrapHandler(func(ctx router.Context) error { return h.drag(ctx) }))
	r.Post(base+routes.Update, router.WrapHandler(func(ctx router.Context) error { return h.update(ctx) }))
	r.Post(base+routes.Rows, router.WrapHandler(func(ctx router.Context) error { return h.rows(ctx) }))
	r.Post(base+routes.Refresh, router.WrapHandler(func(ctx router.Context) error { return h.refresh(ctx) }))
}

type handlers struct {
	api httpapi.Executor
}

func tableRef(ctx requestContext) datatable.TableRef {
	return datatable.TableRef{SessionID: ctx.Param("session"), Table: ctx.Param("table")}
}

func (h *handlers) openSession(ctx requestContext) error {
	var payload commands.SessionInput
	if body := ctx.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
	}
	payload.Close = false
	var id string
	payload.Result = &id
	if err := h.api.Session(ctx.Context(), payload); err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusCreated, map[string]string{"id": id})
}

func (h *handlers) closeSession(ctx requestContext) error {
	input := commands.SessionInput{SessionID: ctx.Param("session"), Close: true}
	if err := h.api.Session(ctx.Context(), input); err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": "closed"})
}

func (h *handlers) mount(ctx requestContext) error {
	if err := h.api.Mount(ctx.Context(), commands.MountTableInput{Ref: tableRef(ctx)}); err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusCreated, map[string]string{"status": "mounted"})
}

func (h *handlers) unmount(ctx requestContext) error {
	if err := h.api.Mount(ctx.Context(), commands.MountTableInput{Ref: tableRef(ctx), Unmount: true}); err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": "unmounted"})
}

func (h *handlers) view(ctx requestContext, locale string) error {
	payload, err := h.api.View(ctx.Context(), queries.TableViewInput{Ref: tableRef(ctx), Locale: locale})
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, payload)
}

func (h *handlers) summary(ctx requestContext) error {
	summary, err := h.api.Summary(ctx.Context(), tableRef(ctx))
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (h *handlers) selection(ctx requestContext) error {
	var payload commands.ToggleSelectionInput
	if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
		return respondError(ctx, http.StatusBadRequest, err)
	}
	payload.Ref = tableRef(ctx)
	if err := h.api.Select(ctx.Context(), payload); err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": "selected"})
}

func (h *handlers) drag(ctx requestContext) error {
	var payload commands.ReorderRowsInput
	if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
		return respondError(ctx, http.StatusBadRequest, err)
	}
	payload.Ref = tableRef(ctx)
	if err := h.api.Reorder(ctx.Context(), payload); err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": "reordered"})
}

func (h *handlers) update(ctx requestContext) error {
	var payload commands.UpdateViewInput
	if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
		return respondError(ctx, http.StatusBadRequest, err)
	}
	payload.Ref = tableRef(ctx)
	if err := h.api.UpdateView(ctx.Context(), payload); err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

func (h *handlers) rows(ctx requestContext) error {
	var payload commands.MutateRowInput
	if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
		return respondError(ctx, http.StatusBadRequest, err)
	}
	payload.Ref = tableRef(ctx)
	var id string
	payload.Result = &id
	if err := h.api.MutateRow(ctx.Context(), payload); err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	if payload.Op == commands.RowAdd {
		return ctx.JSON(http.StatusCreated, map[string]string{"id": id})
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": payload.Op})
}

func (h *handlers) refresh(ctx requestContext) error {
	var payload commands.RefreshTableInput
	if body := ctx.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
	}
	ref := tableRef(ctx)
	payload.Event.SessionID = ref.SessionID
	payload.Event.Table = ref.Table
	if err := h.api.Refresh(ctx.Context(), payload); err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
}

func renderHTML(ctx requestContext, controller *datatable.ViewController, locale string) ([]byte, error) {
	var buf bytes.Buffer
	if err := controller.RenderTemplate(ctx.Context(), tableRef(ctx), locale, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func registerWebSocket(r RouteRegistrar, hook *datatable.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe(ws.Param("session"))
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if header := ctx.Header("Accept-Language"); header != "" {
		if lang := parseAcceptLanguage(header); lang != "" {
			return lang
		}
	}
	return ""
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func respondError(ctx requestContext, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Sessions == "" {
		routes.Sessions = "/sessions"
	}
	if routes.Session == "" {
		routes.Session = routes.Sessions + "/:session"
	}
	if routes.Table == "" {
		routes.Table = "/sessions/:session/tables/:table"
	}
	if routes.View == "" {
		routes.View = routes.Table + "/_view"
	}
	if routes.Drag == "" {
		routes.Drag = routes.Table + "/drag"
	}
	if routes.Selection == "" {
		routes.Selection = routes.Table + "/selection"
	}
	if routes.Update == "" {
		routes.Update = routes.Table + "/view"
	}
	if routes.Rows == "" {
		routes.Rows = routes.Table + "/rows"
	}
	if routes.Refresh == "" {
		routes.Refresh = routes.Table + "/refresh"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/sessions/:session/ws"
	}
	return routes
}
