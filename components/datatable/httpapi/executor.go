package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-datatable/components/datatable"
	"github.com/goliatone/go-datatable/components/datatable/commands"
	"github.com/goliatone/go-datatable/components/datatable/queries"
)

// Executor is the transport-neutral surface routers call into.
type Executor interface {
	Session(ctx context.Context, input commands.SessionInput) error
	Mount(ctx context.Context, input commands.MountTableInput) error
	Reorder(ctx context.Context, input commands.ReorderRowsInput) error
	Select(ctx context.Context, input commands.ToggleSelectionInput) error
	UpdateView(ctx context.Context, input commands.UpdateViewInput) error
	MutateRow(ctx context.Context, input commands.MutateRowInput) error
	Refresh(ctx context.Context, input commands.RefreshTableInput) error
	View(ctx context.Context, input queries.TableViewInput) (datatable.ViewPayload, error)
	Summary(ctx context.Context, ref datatable.TableRef) (datatable.SelectionSummary, error)
}

var errNotConfigured = errors.New("httpapi: operation not configured")

// CommandExecutor adapts go-command commanders and queriers to Executor.
type CommandExecutor struct {
	SessionCommander   gocommand.Commander[commands.SessionInput]
	MountCommander     gocommand.Commander[commands.MountTableInput]
	ReorderCommander   gocommand.Commander[commands.ReorderRowsInput]
	SelectionCommander gocommand.Commander[commands.ToggleSelectionInput]
	ViewCommander      gocommand.Commander[commands.UpdateViewInput]
	RowCommander       gocommand.Commander[commands.MutateRowInput]
	RefreshCommander   gocommand.Commander[commands.RefreshTableInput]
	ViewQuerier        gocommand.Querier[queries.TableViewInput, datatable.ViewPayload]
	SummaryQuerier     gocommand.Querier[datatable.TableRef, datatable.SelectionSummary]
}

var _ Executor = (*CommandExecutor)(nil)

// NewCommandExecutor wires every command and query to service.
func NewCommandExecutor(service *datatable.Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		SessionCommander:   commands.NewSessionCommand(service, telemetry),
		MountCommander:     commands.NewMountTableCommand(service, telemetry),
		ReorderCommander:   commands.NewReorderRowsCommand(service, telemetry),
		SelectionCommander: commands.NewToggleSelectionCommand(service, telemetry),
		ViewCommander:      commands.NewUpdateViewCommand(service, telemetry),
		RowCommander:       commands.NewMutateRowCommand(service, telemetry),
		RefreshCommander:   commands.NewRefreshTableCommand(service, telemetry),
		ViewQuerier:        queries.NewTableViewQuery(service),
		SummaryQuerier:     queries.NewSelectionSummaryQuery(service),
	}
}

// Handlers exposes the executor through net/http handlers.
func (e *CommandExecutor) Handlers() *Handlers {
	return &Handlers{
		Session:   e.SessionCommander,
		Mount:     e.MountCommander,
		Reorder:   e.ReorderCommander,
		Selection: e.SelectionCommander,
		Update:    e.ViewCommander,
		Rows:      e.RowCommander,
		Refresh:   e.RefreshCommander,
		View:      e.ViewQuerier,
		Summary:   e.SummaryQuerier,
	}
}

func (e *CommandExecutor) Session(ctx context.Context, input commands.SessionInput) error {
	if e.SessionCommander == nil {
		return errNotConfigured
	}
	return e.SessionCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Mount(ctx context.Context, input commands.MountTableInput) error {
	if e.MountCommander == nil {
		return errNotConfigured
	}
	return e.MountCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Reorder(ctx context.Context, input commands.ReorderRowsInput) error {
	if e.ReorderCommander == nil {
		return errNotConfigured
	}
	return e.ReorderCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Select(ctx context.Context, input commands.ToggleSelectionInput) error {
	if e.SelectionCommander == nil {
		return errNotConfigured
	}
	return e.SelectionCommander.Execute(ctx, input)
}

func (e *CommandExecutor) UpdateView(ctx context.Context, input commands.UpdateViewInput) error {
	if e.ViewCommander == nil {
		return errNotConfigured
	}
	return e.ViewCommander.Execute(ctx, input)
}

func (e *CommandExecutor) MutateRow(ctx context.Context, input commands.MutateRowInput) error {
	if e.RowCommander == nil {
		return errNotConfigured
	}
	return e.RowCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshTableInput) error {
	if e.RefreshCommander == nil {
		return errNotConfigured
	}
	return e.RefreshCommander.Execute(ctx, input)
}

func (e *CommandExecutor) View(ctx context.Context, input queries.TableViewInput) (datatable.ViewPayload, error) {
	if e.ViewQuerier == nil {
		return datatable.ViewPayload{}, errNotConfigured
	}
	return e.ViewQuerier.Query(ctx, input)
}

func (e *CommandExecutor) Summary(ctx context.Context, ref datatable.TableRef) (datatable.SelectionSummary, error) {
	if e.SummaryQuerier == nil {
		return datatable.SelectionSummary{}, errNotConfigured
	}
	return e.SummaryQuerier.Query(ctx, ref)
}
