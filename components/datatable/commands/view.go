package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	datatable "github.com/goliatone/go-datatable/components/datatable"
)

// UpdateViewInput changes the view state of a mounted table. Only the set
// fields are applied, in the order sort, filters, pagination, visibility.
type UpdateViewInput struct {
	Ref          datatable.TableRef  `json:"ref"`
	Sort         *datatable.SortSpec `json:"sort,omitempty"`
	ToggleSort   string              `json:"toggle_sort,omitempty"`
	Filters      map[string]string   `json:"filters,omitempty"`
	ClearFilters bool                `json:"clear_filters,omitempty"`
	GlobalFilter *string             `json:"global_filter,omitempty"`
	PageIndex    *int                `json:"page_index,omitempty"`
	PageSize     *int                `json:"page_size,omitempty"`
	Columns      map[string]bool     `json:"columns,omitempty"`
}

func (in UpdateViewInput) empty() bool {
	return in.Sort == nil && in.ToggleSort == "" && len(in.Filters) == 0 && !in.ClearFilters &&
		in.GlobalFilter == nil && in.PageIndex == nil && in.PageSize == nil && len(in.Columns) == 0
}

type viewService interface {
	SetSort(ctx context.Context, ref datatable.TableRef, spec datatable.SortSpec) error
	ToggleSort(ctx context.Context, ref datatable.TableRef, field string) error
	SetFilter(ctx context.Context, ref datatable.TableRef, field, value string) error
	ClearFilters(ctx context.Context, ref datatable.TableRef) error
	SetGlobalFilter(ctx context.Context, ref datatable.TableRef, query string) error
	SetPage(ctx context.Context, ref datatable.TableRef, pageIndex int) error
	SetPageSize(ctx context.Context, ref datatable.TableRef, pageSize int) error
	SetColumnVisibility(ctx context.Context, ref datatable.TableRef, key string, visible bool) error
}

// UpdateViewCommand applies sort, filter, pagination and column changes.
type UpdateViewCommand struct {
	service   viewService
	telemetry Telemetry
}

// NewUpdateViewCommand creates the command.
func NewUpdateViewCommand(service viewService, telemetry Telemetry) *UpdateViewCommand {
	return &UpdateViewCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateViewInput] = (*UpdateViewCommand)(nil)

// Execute applies every requested change, stopping at the first error.
func (c *UpdateViewCommand) Execute(ctx context.Context, msg UpdateViewInput) error {
	if c.service == nil {
		return errors.New("view command requires service")
	}
	if msg.empty() {
		return fmt.Errorf("%w: view patch is empty", datatable.ErrInvalidInput)
	}
	ref := msg.Ref
	if msg.Sort != nil {
		if err := c.service.SetSort(ctx, ref, *msg.Sort); err != nil {
			return err
		}
	}
	if msg.ToggleSort != "" {
		if err := c.service.ToggleSort(ctx, ref, msg.ToggleSort); err != nil {
			return err
		}
	}
	if msg.ClearFilters {
		if err := c.service.ClearFilters(ctx, ref); err != nil {
			return err
		}
	}
	for _, field := range sortedKeys(msg.Filters) {
		if err := c.service.SetFilter(ctx, ref, field, msg.Filters[field]); err != nil {
			return err
		}
	}
	if msg.GlobalFilter != nil {
		if err := c.service.SetGlobalFilter(ctx, ref, *msg.GlobalFilter); err != nil {
			return err
		}
	}
	if msg.PageSize != nil {
		if err := c.service.SetPageSize(ctx, ref, *msg.PageSize); err != nil {
			return err
		}
	}
	if msg.PageIndex != nil {
		if err := c.service.SetPage(ctx, ref, *msg.PageIndex); err != nil {
			return err
		}
	}
	for _, key := range sortedKeys(msg.Columns) {
		if err := c.service.SetColumnVisibility(ctx, ref, key, msg.Columns[key]); err != nil {
			return err
		}
	}
	c.telemetry.Record(ctx, "datatable.command.view", map[string]any{
		"table":   ref.Table,
		"filters": len(msg.Filters),
		"columns": len(msg.Columns),
	})
	return nil
}
