package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	datatable "github.com/goliatone/go-datatable/components/datatable"
)

// MountTableInput mounts (or unmounts) a table in a session.
type MountTableInput struct {
	Ref     datatable.TableRef `json:"ref"`
	Unmount bool               `json:"unmount"`
}

type mountService interface {
	Mount(ctx context.Context, ref datatable.TableRef) error
	Unmount(ctx context.Context, ref datatable.TableRef) error
}

// MountTableCommand wraps Service.Mount and Service.Unmount.
type MountTableCommand struct {
	service   mountService
	telemetry Telemetry
}

// NewMountTableCommand builds the command.
func NewMountTableCommand(service mountService, telemetry Telemetry) *MountTableCommand {
	return &MountTableCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[MountTableInput] = (*MountTableCommand)(nil)

// Execute mounts or discards the table.
func (c *MountTableCommand) Execute(ctx context.Context, msg MountTableInput) error {
	if c.service == nil {
		return errors.New("mount command requires service")
	}
	event := "datatable.command.mount"
	var err error
	if msg.Unmount {
		event = "datatable.command.unmount"
		err = c.service.Unmount(ctx, msg.Ref)
	} else {
		err = c.service.Mount(ctx, msg.Ref)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, event, map[string]any{
		"session_id": msg.Ref.SessionID,
		"table":      msg.Ref.Table,
	})
	return nil
}
