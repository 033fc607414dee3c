package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/goliatone/go-datatable/components/datatable"
	"github.com/goliatone/go-datatable/components/datatable/commands"
	"github.com/goliatone/go-datatable/components/datatable/queries"
)

func TestCommandExecutorAgainstService(t *testing.T) {
	ctx := context.Background()
	service := datatable.NewService(datatable.Options{})
	exec := NewCommandExecutor(service, nil)
	if err := exec.Session(ctx, commands.SessionInput{SessionID: "s-1"}); err != nil {
		t.Fatalf("Session returned error: %v", err)
	}
	ref := datatable.TableRef{SessionID: "s-1", Table: datatable.TableUsers}

	if err := exec.Mount(ctx, commands.MountTableInput{Ref: ref}); err != nil {
		t.Fatalf("Mount returned error: %v", err)
	}
	pageSize := 5
	if err := exec.UpdateView(ctx, commands.UpdateViewInput{Ref: ref, PageSize: &pageSize, Filters: map[string]string{"status": "Active"}}); err != nil {
		t.Fatalf("UpdateView returned error: %v", err)
	}
	if err := exec.Select(ctx, commands.ToggleSelectionInput{Ref: ref, Page: true, Selected: true}); err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	record := json.RawMessage(`{"id":99,"name":"Zed","email":"zed@example.com","role":"Admin","plan":"Basic","status":"Active"}`)
	if err := exec.MutateRow(ctx, commands.MutateRowInput{Ref: ref, Op: commands.RowAdd, Record: record}); err != nil {
		t.Fatalf("MutateRow returned error: %v", err)
	}
	view, err := exec.View(ctx, queries.TableViewInput{Ref: ref})
	if err != nil {
		t.Fatalf("View returned error: %v", err)
	}
	if view.Pagination.PageSize != 5 || view.Rows[0].ID != "99" {
		t.Fatalf("unexpected view: page size %d, first row %s", view.Pagination.PageSize, view.Rows[0].ID)
	}
	summary, err := exec.Summary(ctx, ref)
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if summary.SelectedCount != 5 {
		t.Fatalf("expected first page selected, got %+v", summary)
	}
	if summary.TotalFilteredCount != view.Selection.TotalFilteredCount {
		t.Fatalf("summary and view disagree: %+v vs %+v", summary, view.Selection)
	}
}

func TestCommandExecutorUnconfigured(t *testing.T) {
	exec := &CommandExecutor{}
	if err := exec.Reorder(context.Background(), commands.ReorderRowsInput{}); !errors.Is(err, errNotConfigured) {
		t.Fatalf("expected errNotConfigured, got %v", err)
	}
	if _, err := exec.View(context.Background(), queries.TableViewInput{}); !errors.Is(err, errNotConfigured) {
		t.Fatalf("expected errNotConfigured, got %v", err)
	}
}
