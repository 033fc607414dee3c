package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	datatable "github.com/goliatone/go-datatable/components/datatable"
)

// TableViewInput identifies a mounted table and the render locale.
type TableViewInput struct {
	Ref    datatable.TableRef
	Locale string
}

type viewService interface {
	View(ctx context.Context, ref datatable.TableRef, locale string) (datatable.ViewPayload, error)
}

// TableViewQuery executes read-only projection of a mounted table.
type TableViewQuery struct {
	service viewService
}

// NewTableViewQuery builds the query.
func NewTableViewQuery(service viewService) *TableViewQuery {
	return &TableViewQuery{service: service}
}

var _ gocommand.Querier[TableViewInput, datatable.ViewPayload] = (*TableViewQuery)(nil)

// Query projects the current page of the table.
func (q *TableViewQuery) Query(ctx context.Context, input TableViewInput) (datatable.ViewPayload, error) {
	return q.service.View(ctx, input.Ref, input.Locale)
}
