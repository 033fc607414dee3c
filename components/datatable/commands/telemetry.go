package commands

import (
	"context"

	"github.com/goliatone/go-datatable/components/datatable"
)

// Telemetry receives one event per executed command. It is the same contract
// the service reports to, so a datatable.LogrusTelemetry serves both.
type Telemetry = datatable.Telemetry

// TelemetryFunc lets a plain function act as Telemetry. A nil func discards.
type TelemetryFunc func(ctx context.Context, event string, payload map[string]any)

// Record forwards to f.
func (f TelemetryFunc) Record(ctx context.Context, event string, payload map[string]any) {
	if f == nil {
		return
	}
	f(ctx, event, payload)
}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t != nil {
		return t
	}
	return TelemetryFunc(nil)
}
