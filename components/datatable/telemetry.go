package datatable

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Telemetry records table events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// LogrusTelemetry writes telemetry events as structured log entries.
type LogrusTelemetry struct {
	Logger log.FieldLogger
	Level  log.Level
}

// NewLogrusTelemetry logs events at info level on logger, or on the
// standard logrus logger when logger is nil.
func NewLogrusTelemetry(logger log.FieldLogger) *LogrusTelemetry {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogrusTelemetry{Logger: logger, Level: log.InfoLevel}
}

// Record implements Telemetry.
func (t *LogrusTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	entry := t.Logger.WithFields(log.Fields(payload)).WithField("event", event)
	if t.Level == log.DebugLevel {
		entry.Debug(event)
		return
	}
	entry.Info(event)
}
