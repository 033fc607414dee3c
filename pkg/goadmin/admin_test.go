package goadmin_test

import (
	"context"
	"errors"
	"testing"

	core "github.com/goliatone/go-datatable/components/datatable"
	datatablepkg "github.com/goliatone/go-datatable/pkg/datatable"
	"github.com/goliatone/go-datatable/pkg/goadmin"
)

type stubMenuBuilder struct {
	items []goadmin.MenuItem
	err   error
}

func (s *stubMenuBuilder) EnsureMenuItem(_ context.Context, _ string, item goadmin.MenuItem) error {
	s.items = append(s.items, item)
	return s.err
}

func TestAdminBootstrapSeedsMenu(t *testing.T) {
	builder := &stubMenuBuilder{}
	service := datatablepkg.NewService(core.Options{})
	admin, err := goadmin.New(goadmin.Config{
		EnableTables: true,
		Service:      service,
		MenuBuilder:  builder,
		Category:     "admin",
		Locale:       "es",
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if len(builder.items) != 2 {
		t.Fatalf("expected 2 admin tables, got %d", len(builder.items))
	}
	first := builder.items[0]
	if first.Route != "admin.tables.tasks" || first.Label != "Tareas" || first.Position != 0 {
		t.Fatalf("unexpected first item: %+v", first)
	}
	if admin.Tables() == nil {
		t.Fatalf("expected datatable service")
	}
}

func TestAdminBootstrapJoinsErrors(t *testing.T) {
	boom := errors.New("menu down")
	builder := &stubMenuBuilder{err: boom}
	admin, _ := goadmin.New(goadmin.Config{
		EnableTables: true,
		Service:      datatablepkg.NewService(core.Options{}),
		MenuBuilder:  builder,
	})
	if err := admin.Bootstrap(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(builder.items) != len(core.DefaultTableDefinitions()) {
		t.Fatalf("expected every table attempted, got %d", len(builder.items))
	}
}

func TestAdminDisabledSkipsBootstrap(t *testing.T) {
	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{
		EnableTables: false,
		MenuBuilder:  builder,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if len(builder.items) != 0 {
		t.Fatalf("expected 0 calls, got %d", len(builder.items))
	}
	if admin.Tables() != nil {
		t.Fatalf("expected nil service when disabled")
	}
}

func TestAdminRequiresServiceWhenEnabled(t *testing.T) {
	if _, err := goadmin.New(goadmin.Config{EnableTables: true}); err == nil {
		t.Fatalf("expected error without service")
	}
}
