package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	datatable "github.com/goliatone/go-datatable/components/datatable"
)

type summaryService interface {
	SelectionSummary(ctx context.Context, ref datatable.TableRef) (datatable.SelectionSummary, error)
}

// SelectionSummaryQuery reports (selected, filtered total) for a table.
type SelectionSummaryQuery struct {
	service summaryService
}

// NewSelectionSummaryQuery builds the query.
func NewSelectionSummaryQuery(service summaryService) *SelectionSummaryQuery {
	return &SelectionSummaryQuery{service: service}
}

var _ gocommand.Querier[datatable.TableRef, datatable.SelectionSummary] = (*SelectionSummaryQuery)(nil)

// Query returns the summary.
func (q *SelectionSummaryQuery) Query(ctx context.Context, ref datatable.TableRef) (datatable.SelectionSummary, error) {
	return q.service.SelectionSummary(ctx, ref)
}
