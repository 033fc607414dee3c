package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	datatable "github.com/goliatone/go-datatable/components/datatable"
)

// SeedTablesInput controls bootstrap behavior.
type SeedTablesInput struct {
	Definitions []datatable.TableDefinition
	Factories   map[string]datatable.TableFactory
	// SessionID, when set, mounts every registered table into that session.
	SessionID string
}

// SeedTablesCommand registers definitions/factories and optionally mounts them.
type SeedTablesCommand struct {
	service   *datatable.Service
	telemetry Telemetry
}

// NewSeedTablesCommand wires dependencies.
func NewSeedTablesCommand(service *datatable.Service, telemetry Telemetry) *SeedTablesCommand {
	return &SeedTablesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SeedTablesInput] = (*SeedTablesCommand)(nil)

// Execute runs the bootstrap pipeline.
func (c *SeedTablesCommand) Execute(ctx context.Context, msg SeedTablesInput) error {
	if c.service == nil {
		return errors.New("seed command requires service")
	}
	if err := datatable.RegisterDefinitions(c.service.Registry(), msg.Definitions, msg.Factories); err != nil {
		return err
	}
	if msg.SessionID != "" {
		if err := datatable.MountAll(ctx, c.service, msg.SessionID); err != nil {
			return err
		}
	}
	c.telemetry.Record(ctx, "datatable.seed", map[string]any{
		"definitions": len(msg.Definitions),
		"factories":   len(msg.Factories),
		"session_id":  msg.SessionID,
	})
	return nil
}
