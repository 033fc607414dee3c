package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	datatable "github.com/goliatone/go-datatable/components/datatable"
)

// Row mutation operations accepted by MutateRowCommand.
const (
	RowAdd     = "add"
	RowReplace = "replace"
	RowRemove  = "remove"
)

// MutateRowInput adds, replaces or removes one row.
type MutateRowInput struct {
	Ref      datatable.TableRef `json:"ref"`
	Op       string             `json:"op"`
	RowID    string             `json:"row_id,omitempty"`
	Record   json.RawMessage    `json:"record,omitempty"`
	ActorID  string             `json:"actor_id"`
	UserID   string             `json:"user_id"`
	TenantID string             `json:"tenant_id"`
	// Result receives the id of an added row.
	Result *string `json:"-"`
}

type rowService interface {
	AddRow(ctx context.Context, ref datatable.TableRef, raw json.RawMessage) (string, error)
	ReplaceRow(ctx context.Context, ref datatable.TableRef, raw json.RawMessage) error
	RemoveRow(ctx context.Context, ref datatable.TableRef, rowID string) error
}

// MutateRowCommand wraps the Service row mutations.
type MutateRowCommand struct {
	service   rowService
	telemetry Telemetry
}

// NewMutateRowCommand creates the command.
func NewMutateRowCommand(service rowService, telemetry Telemetry) *MutateRowCommand {
	return &MutateRowCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[MutateRowInput] = (*MutateRowCommand)(nil)

// Execute applies the mutation with the caller attributed for activity.
func (c *MutateRowCommand) Execute(ctx context.Context, msg MutateRowInput) error {
	if c.service == nil {
		return errors.New("row command requires service")
	}
	ctx = datatable.WithActor(ctx, datatable.Actor{
		ActorID:  msg.ActorID,
		UserID:   msg.UserID,
		TenantID: msg.TenantID,
	})
	rowID := msg.RowID
	switch msg.Op {
	case RowAdd:
		id, err := c.service.AddRow(ctx, msg.Ref, msg.Record)
		if err != nil {
			return err
		}
		rowID = id
		if msg.Result != nil {
			*msg.Result = id
		}
	case RowReplace:
		if err := c.service.ReplaceRow(ctx, msg.Ref, msg.Record); err != nil {
			return err
		}
	case RowRemove:
		if rowID == "" {
			return fmt.Errorf("%w: row id to remove is required", datatable.ErrInvalidInput)
		}
		if err := c.service.RemoveRow(ctx, msg.Ref, rowID); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown row op %q", datatable.ErrInvalidInput, msg.Op)
	}
	c.telemetry.Record(ctx, "datatable.command.row."+msg.Op, map[string]any{
		"table":  msg.Ref.Table,
		"row_id": rowID,
	})
	return nil
}
