package datatable

// DragPhase is the reorder state machine phase.
type DragPhase string

const (
	DragIdle     DragPhase = "idle"
	DragDragging DragPhase = "dragging"
)

// DragState reports the in-flight gesture for renderers.
type DragState struct {
	Phase     DragPhase `json:"phase"`
	ActiveID  string    `json:"active_id,omitempty"`
	OverRowID string    `json:"over_row_id,omitempty"`
}

// Reorderer applies drag gestures to a Collection:
// Idle -> Dragging on Begin, back to Idle on End or Cancel.
type Reorderer[R Row] struct {
	rows  *Collection[R]
	state DragState
}

// NewReorderer binds a reorderer to rows.
func NewReorderer[R Row](rows *Collection[R]) *Reorderer[R] {
	return &Reorderer[R]{rows: rows, state: DragState{Phase: DragIdle}}
}

// State returns the current drag state.
func (r *Reorderer[R]) State() DragState {
	return r.state
}

// Begin lifts rowID. Unknown ids are ignored.
func (r *Reorderer[R]) Begin(rowID string) bool {
	if !r.rows.Contains(rowID) {
		return false
	}
	r.state = DragState{Phase: DragDragging, ActiveID: rowID}
	return true
}

// Over records the row under the dragged one. The collection is not touched.
func (r *Reorderer[R]) Over(rowID, overRowID string) bool {
	if r.state.Phase != DragDragging || r.state.ActiveID != rowID {
		return false
	}
	if !r.rows.Contains(overRowID) {
		r.state.OverRowID = ""
		return false
	}
	r.state.OverRowID = overRowID
	return true
}

// End drops rowID onto the position of overRowID and returns to Idle.
// Dropping in place or on an unknown row changes nothing.
func (r *Reorderer[R]) End(rowID, overRowID string) bool {
	r.state = DragState{Phase: DragIdle}
	return r.rows.MoveID(rowID, overRowID)
}

// Cancel abandons the gesture without mutating the collection.
func (r *Reorderer[R]) Cancel() {
	r.state = DragState{Phase: DragIdle}
}

// Forget clears gesture references to a removed row.
func (r *Reorderer[R]) Forget(rowID string) {
	if r.state.ActiveID == rowID {
		r.state = DragState{Phase: DragIdle}
		return
	}
	if r.state.OverRowID == rowID {
		r.state.OverRowID = ""
	}
}
