package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	datatable "github.com/goliatone/go-datatable/components/datatable"
)

// DefinitionsInput filters registered tables by category. Empty matches all.
type DefinitionsInput struct {
	Category string
}

type definitionsService interface {
	Definitions() []datatable.TableDefinition
}

// DefinitionsQuery lists the tables a session can mount.
type DefinitionsQuery struct {
	service definitionsService
}

// NewDefinitionsQuery builds the query.
func NewDefinitionsQuery(service definitionsService) *DefinitionsQuery {
	return &DefinitionsQuery{service: service}
}

var _ gocommand.Querier[DefinitionsInput, []datatable.TableDefinition] = (*DefinitionsQuery)(nil)

// Query returns the matching definitions sorted by code.
func (q *DefinitionsQuery) Query(_ context.Context, input DefinitionsInput) ([]datatable.TableDefinition, error) {
	defs := q.service.Definitions()
	if input.Category == "" {
		return defs, nil
	}
	out := make([]datatable.TableDefinition, 0, len(defs))
	for _, def := range defs {
		if def.Category == input.Category {
			out = append(out, def)
		}
	}
	return out, nil
}
