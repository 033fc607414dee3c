package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	datatable "github.com/goliatone/go-datatable/components/datatable"
)

// RefreshTableInput emits refresh notifications for a mounted table.
type RefreshTableInput struct {
	Event datatable.TableEvent
}

type refreshNotifier interface {
	NotifyTableUpdated(ctx context.Context, event datatable.TableEvent) error
}

// RefreshTableCommand triggers refresh hooks without changing table state.
type RefreshTableCommand struct {
	service   refreshNotifier
	telemetry Telemetry
}

// NewRefreshTableCommand creates the command.
func NewRefreshTableCommand(service refreshNotifier, telemetry Telemetry) *RefreshTableCommand {
	return &RefreshTableCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshTableInput] = (*RefreshTableCommand)(nil)

// Execute notifies the service's refresh hooks.
func (c *RefreshTableCommand) Execute(ctx context.Context, msg RefreshTableInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	if msg.Event.Reason == "" {
		msg.Event.Reason = "refresh"
	}
	if err := c.service.NotifyTableUpdated(ctx, msg.Event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "datatable.command.refresh", map[string]any{
		"session_id": msg.Event.SessionID,
		"table":      msg.Event.Table,
	})
	return nil
}
