package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	log "github.com/sirupsen/logrus"

	"github.com/goliatone/go-datatable/components/datatable"
	"github.com/goliatone/go-datatable/components/datatable/gorouter"
	"github.com/goliatone/go-datatable/components/datatable/httpapi"
	"github.com/goliatone/go-datatable/pkg/activity"
	"github.com/goliatone/go-datatable/pkg/rowsource"
)

const shutdownTimeout = 5 * time.Second

type app struct {
	cfg        Config
	logger     *log.Logger
	service    *datatable.Service
	executor   *httpapi.CommandExecutor
	controller *datatable.ViewController
	broadcast  *datatable.BroadcastHook
}

func newApp(cfg Config, logger *log.Logger) (*app, error) {
	validator := datatable.NewJSONSchemaValidator()
	registry := datatable.NewRegistry(validator)
	if err := registry.ApplyHooks(); err != nil {
		return nil, err
	}
	for _, path := range cfg.Manifests {
		doc, err := registry.LoadManifestFile(path)
		if err != nil {
			return nil, err
		}
		logger.WithFields(log.Fields{"manifest": path, "tables": len(doc.Tables)}).Info("manifest loaded")
	}
	if len(cfg.Manifests) > 0 {
		base, err := filepath.Abs(cfg.BaseDir)
		if err != nil {
			return nil, fmt.Errorf("tablesrv: resolve base dir: %w", err)
		}
		if err := registry.BindSources(rowsource.Opener{BaseDir: base}.Open); err != nil {
			return nil, err
		}
	}

	entry := logger.WithField("component", "datatable")
	telemetry := datatable.NewLogrusTelemetry(entry)
	broadcast := datatable.NewBroadcastHook()
	service := datatable.NewService(datatable.Options{
		Registry:       registry,
		Validator:      validator,
		RefreshHook:    broadcast,
		Telemetry:      telemetry,
		ActivityHooks:  activity.Hooks{activityLogger(entry)},
		ActivityConfig: cfg.Activity,
		Config:         cfg.Table,
	})

	renderer, err := datatable.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("tablesrv: templates: %w", err)
	}
	controllerOpts := datatable.ViewControllerOptions{Service: service, Renderer: renderer}
	if cfg.Theme.Name != "" {
		controllerOpts.ThemeProvider = staticTheme(cfg.Theme)
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		service:    service,
		executor:   httpapi.NewCommandExecutor(service, telemetry),
		controller: datatable.NewViewController(controllerOpts),
		broadcast:  broadcast,
	}, nil
}

func (a *app) serve(ctx context.Context) error {
	a.logger.WithFields(log.Fields{
		"addr":      a.cfg.Addr,
		"transport": a.cfg.Transport,
		"base_path": a.cfg.BasePath,
		"tables":    len(a.service.Definitions()),
	}).Info("tablesrv starting")
	if a.cfg.Transport == TransportHTTP {
		return a.serveHTTP(ctx)
	}
	return a.serveRouter(ctx)
}

func (a *app) serveRouter(ctx context.Context) error {
	server := router.NewFiberAdapter(func(fapp *fiber.App) *fiber.App {
		fapp.Use(a.fiberLogger)
		return fapp
	})
	if err := gorouter.Register(gorouter.Config{
		Router:     server.Router(),
		Controller: a.controller,
		API:        a.executor,
		Broadcast:  a.broadcast,
		BasePath:   a.cfg.BasePath,
	}); err != nil {
		return err
	}
	errs := make(chan error, 1)
	go func() { errs <- server.Serve(a.cfg.Addr) }()
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdown)
}

func (a *app) fiberLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	a.logger.WithFields(log.Fields{
		"method":   c.Method(),
		"path":     c.Path(),
		"status":   c.Response().StatusCode(),
		"duration": time.Since(start),
	}).Debug("request")
	return err
}

func (a *app) serveHTTP(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.httpHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() { errs <- srv.ListenAndServe() }()
	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdown)
}

// httpHandler serves the JSON API, the rendered HTML view and the event
// streams under the configured base path.
func (a *app) httpHandler() http.Handler {
	base := strings.TrimRight(a.cfg.BasePath, "/")
	api := http.NewServeMux()
	a.executor.Handlers().Register(api)
	api.HandleFunc("GET /sessions/{session}/tables/{table}/_html", a.renderHTML)
	api.HandleFunc("GET /ws", a.broadcast.ServeWebSocket)
	api.HandleFunc("GET /events", a.broadcast.ServeSSE)

	mux := http.NewServeMux()
	if base == "" {
		mux.Handle("/", api)
	} else {
		mux.Handle(base+"/", http.StripPrefix(base, api))
	}
	return a.requestLogger(mux)
}

func (a *app) renderHTML(w http.ResponseWriter, r *http.Request) {
	ref := datatable.TableRef{SessionID: r.PathValue("session"), Table: r.PathValue("table")}
	locale := r.URL.Query().Get("locale")
	var buf strings.Builder
	if err := a.controller.RenderTemplate(r.Context(), ref, locale, &buf); err != nil {
		http.Error(w, err.Error(), httpapi.StatusFor(err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(buf.String()))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE streaming working through the recorder.
func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController and the websocket upgrader reach the
// underlying writer.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

func (a *app) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		a.logger.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("request")
	})
}

func activityLogger(logger log.FieldLogger) activity.Hook {
	return activity.HookFunc(func(_ context.Context, evt activity.Event) error {
		logger.WithFields(log.Fields{
			"verb":      evt.Verb,
			"object_id": evt.ObjectID,
			"actor_id":  evt.ActorID,
			"channel":   evt.Channel,
			"table":     evt.DefinitionCode,
		}).Info("activity")
		return nil
	})
}

type staticTheme ThemeConfig

func (t staticTheme) SelectTheme(_ context.Context, selector datatable.ThemeSelector) (*datatable.ThemeSelection, error) {
	variant := t.Variant
	if selector.Variant != "" {
		variant = selector.Variant
	}
	return &datatable.ThemeSelection{
		Name:    t.Name,
		Variant: variant,
		Tokens:  t.Tokens,
	}, nil
}
