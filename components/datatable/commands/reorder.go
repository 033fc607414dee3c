package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	datatable "github.com/goliatone/go-datatable/components/datatable"
)

// Drag gesture phases accepted by ReorderRowsCommand.
const (
	DragBegin  = "begin"
	DragMove   = "move"
	DragEnd    = "end"
	DragCancel = "cancel"
)

// ReorderRowsInput carries one step of a drag gesture.
type ReorderRowsInput struct {
	Ref       datatable.TableRef `json:"ref"`
	Phase     string             `json:"phase"`
	RowID     string             `json:"row_id"`
	OverRowID string             `json:"over_row_id"`
	ActorID   string             `json:"actor_id"`
	UserID    string             `json:"user_id"`
	TenantID  string             `json:"tenant_id"`
}

type reorderService interface {
	BeginDrag(ctx context.Context, ref datatable.TableRef, rowID string) error
	MoveDrag(ctx context.Context, ref datatable.TableRef, rowID, overRowID string) error
	EndDrag(ctx context.Context, ref datatable.TableRef, rowID, overRowID string) error
	CancelDrag(ctx context.Context, ref datatable.TableRef) error
}

// ReorderRowsCommand routes drag gestures to the service.
type ReorderRowsCommand struct {
	service   reorderService
	telemetry Telemetry
}

// NewReorderRowsCommand builds the command.
func NewReorderRowsCommand(service reorderService, telemetry Telemetry) *ReorderRowsCommand {
	return &ReorderRowsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ReorderRowsInput] = (*ReorderRowsCommand)(nil)

// Execute applies the gesture step.
func (c *ReorderRowsCommand) Execute(ctx context.Context, msg ReorderRowsInput) error {
	if c.service == nil {
		return errors.New("reorder command requires service")
	}
	ctx = datatable.WithActor(ctx, datatable.Actor{
		ActorID:  msg.ActorID,
		UserID:   msg.UserID,
		TenantID: msg.TenantID,
	})
	var err error
	switch msg.Phase {
	case DragBegin:
		err = c.service.BeginDrag(ctx, msg.Ref, msg.RowID)
	case DragMove:
		err = c.service.MoveDrag(ctx, msg.Ref, msg.RowID, msg.OverRowID)
	case DragEnd:
		err = c.service.EndDrag(ctx, msg.Ref, msg.RowID, msg.OverRowID)
	case DragCancel:
		err = c.service.CancelDrag(ctx, msg.Ref)
	default:
		return fmt.Errorf("%w: unknown drag phase %q", datatable.ErrInvalidInput, msg.Phase)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "datatable.command.drag."+msg.Phase, map[string]any{
		"table":       msg.Ref.Table,
		"row_id":      msg.RowID,
		"over_row_id": msg.OverRowID,
	})
	return nil
}
