package datatable

import "testing"

func newReorderFixture(t *testing.T, n int) (*Collection[Task], *Reorderer[Task]) {
	t.Helper()
	c, err := NewCollection(sampleTasks(n))
	if err != nil {
		t.Fatalf("NewCollection: %v", err)
	}
	return c, NewReorderer(c)
}

func TestReordererStateMachine(t *testing.T) {
	c, r := newReorderFixture(t, 4)
	if r.State().Phase != DragIdle {
		t.Fatalf("expected idle, got %s", r.State().Phase)
	}
	if !r.Begin("T-1") {
		t.Fatalf("expected begin to lift T-1")
	}
	if r.State().Phase != DragDragging || r.State().ActiveID != "T-1" {
		t.Fatalf("unexpected state %+v", r.State())
	}
	if !r.Over("T-1", "T-3") {
		t.Fatalf("expected hover over T-3")
	}
	if got := c.IDs(); got[0] != "T-1" {
		t.Fatalf("hover must not mutate, got %v", got)
	}
	if !r.End("T-1", "T-3") {
		t.Fatalf("expected drop to move the row")
	}
	if r.State().Phase != DragIdle {
		t.Fatalf("expected idle after drop, got %+v", r.State())
	}
	want := []string{"T-2", "T-3", "T-1", "T-4"}
	for i, id := range c.IDs() {
		if id != want[i] {
			t.Fatalf("expected %v, got %v", want, c.IDs())
		}
	}
}

func TestReordererDropInPlaceIsNoop(t *testing.T) {
	for _, id := range []string{"T-1", "T-2", "T-3"} {
		c, r := newReorderFixture(t, 3)
		rev := c.Revision()
		r.Begin(id)
		if r.End(id, id) {
			t.Fatalf("drop in place must not move %s", id)
		}
		if c.Revision() != rev {
			t.Fatalf("drop in place mutated the collection")
		}
	}
}

func TestReordererIgnoresUnknownIDs(t *testing.T) {
	c, r := newReorderFixture(t, 3)
	rev := c.Revision()
	if r.Begin("nope") {
		t.Fatalf("unknown id must not be lifted")
	}
	if r.State().Phase != DragIdle {
		t.Fatalf("expected idle after unknown begin")
	}
	for i := 0; i < 3; i++ {
		if r.End("nope", "T-1") || r.End("T-1", "nope") {
			t.Fatalf("unknown ids must not move rows")
		}
	}
	if c.Revision() != rev {
		t.Fatalf("collection mutated by unknown ids")
	}
}

func TestReordererOverRequiresActiveRow(t *testing.T) {
	_, r := newReorderFixture(t, 3)
	if r.Over("T-1", "T-2") {
		t.Fatalf("hover while idle must be ignored")
	}
	r.Begin("T-1")
	if r.Over("T-2", "T-3") {
		t.Fatalf("hover for another row must be ignored")
	}
	if r.Over("T-1", "missing") || r.State().OverRowID != "" {
		t.Fatalf("hover over unknown row must clear feedback, got %+v", r.State())
	}
}

func TestReordererCancelLeavesOrder(t *testing.T) {
	c, r := newReorderFixture(t, 3)
	r.Begin("T-3")
	r.Over("T-3", "T-1")
	r.Cancel()
	if r.State() != (DragState{Phase: DragIdle}) {
		t.Fatalf("expected idle after cancel, got %+v", r.State())
	}
	if got := c.IDs(); got[0] != "T-1" || got[2] != "T-3" {
		t.Fatalf("cancel mutated order: %v", got)
	}
}

func TestReordererForget(t *testing.T) {
	_, r := newReorderFixture(t, 3)
	r.Begin("T-1")
	r.Over("T-1", "T-2")
	r.Forget("T-2")
	if r.State().OverRowID != "" || r.State().Phase != DragDragging {
		t.Fatalf("expected hover target cleared, got %+v", r.State())
	}
	r.Forget("T-1")
	if r.State().Phase != DragIdle {
		t.Fatalf("expected idle after active row removed, got %+v", r.State())
	}
}
