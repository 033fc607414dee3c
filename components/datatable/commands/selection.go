package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	datatable "github.com/goliatone/go-datatable/components/datatable"
)

// ToggleSelectionInput selects rows. RowID toggles a single row; otherwise
// RowIDs (or the current page when Page is set) are forced to Selected.
type ToggleSelectionInput struct {
	Ref      datatable.TableRef `json:"ref"`
	RowID    string             `json:"row_id,omitempty"`
	RowIDs   []string           `json:"row_ids,omitempty"`
	Page     bool               `json:"page,omitempty"`
	Selected bool               `json:"selected"`
}

type selectionService interface {
	ToggleRow(ctx context.Context, ref datatable.TableRef, rowID string) error
	ToggleAllVisible(ctx context.Context, ref datatable.TableRef, rowIDs []string, selected bool) error
	TogglePageSelection(ctx context.Context, ref datatable.TableRef, selected bool) error
}

// ToggleSelectionCommand wraps the selection operations.
type ToggleSelectionCommand struct {
	service   selectionService
	telemetry Telemetry
}

// NewToggleSelectionCommand creates the command.
func NewToggleSelectionCommand(service selectionService, telemetry Telemetry) *ToggleSelectionCommand {
	return &ToggleSelectionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleSelectionInput] = (*ToggleSelectionCommand)(nil)

// Execute updates the selection set.
func (c *ToggleSelectionCommand) Execute(ctx context.Context, msg ToggleSelectionInput) error {
	if c.service == nil {
		return errors.New("selection command requires service")
	}
	var err error
	switch {
	case msg.RowID != "":
		err = c.service.ToggleRow(ctx, msg.Ref, msg.RowID)
	case msg.Page:
		err = c.service.TogglePageSelection(ctx, msg.Ref, msg.Selected)
	case len(msg.RowIDs) > 0:
		err = c.service.ToggleAllVisible(ctx, msg.Ref, msg.RowIDs, msg.Selected)
	default:
		return fmt.Errorf("%w: selection needs row_id, row_ids or page", datatable.ErrInvalidInput)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "datatable.command.selection", map[string]any{
		"table":    msg.Ref.Table,
		"page":     msg.Page,
		"count":    len(msg.RowIDs),
		"selected": msg.Selected,
	})
	return nil
}
