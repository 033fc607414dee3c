package datatable

import (
	core "github.com/goliatone/go-datatable/components/datatable"
)

// Service exposes the underlying components/datatable.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// TableRef addresses a table mounted in a session.
type TableRef = core.TableRef

// ViewPayload is the render snapshot returned by Service.View.
type ViewPayload = core.ViewPayload

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}
