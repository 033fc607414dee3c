package goadmin

import (
	"context"
	"errors"
	"fmt"

	datatablepkg "github.com/goliatone/go-datatable/pkg/datatable"
)

// MenuBuilder ensures table entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures table link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the datatable service + feature flags into an admin shell.
type Config struct {
	EnableTables bool
	MenuCode     string
	MenuBuilder  MenuBuilder
	Service      *datatablepkg.Service
	// Category limits the menu to definitions of one category. Empty means all.
	Category string
	Locale   string
	// RoutePrefix is joined with the table code, e.g. "admin.tables.tasks".
	RoutePrefix string
	Icon        string
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed table menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableTables && cfg.Service == nil {
		return nil, errors.New("goadmin: datatable service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.RoutePrefix == "" {
		cfg.RoutePrefix = "admin.tables"
	}
	if cfg.Icon == "" {
		cfg.Icon = "table"
	}
	return &Admin{cfg: cfg}, nil
}

// Tables exposes the configured datatable service when enabled.
func (a *Admin) Tables() *datatablepkg.Service {
	if !a.cfg.EnableTables {
		return nil
	}
	return a.cfg.Service
}

// MenuItems lists one entry per registered table, in code order.
func (a *Admin) MenuItems() []MenuItem {
	if !a.cfg.EnableTables {
		return nil
	}
	var items []MenuItem
	for _, def := range a.cfg.Service.Definitions() {
		if a.cfg.Category != "" && def.Category != a.cfg.Category {
			continue
		}
		items = append(items, MenuItem{
			Label:    def.NameForLocale(a.cfg.Locale),
			Route:    fmt.Sprintf("%s.%s", a.cfg.RoutePrefix, def.Code),
			Icon:     a.cfg.Icon,
			Position: len(items),
		})
	}
	return items
}

// Bootstrap seeds menu entries when table support is enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableTables || a.cfg.MenuBuilder == nil {
		return nil
	}
	var errs []error
	for _, item := range a.MenuItems() {
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			errs = append(errs, fmt.Errorf("goadmin: menu item %s: %w", item.Route, err))
		}
	}
	return errors.Join(errs...)
}
