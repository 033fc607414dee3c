package datatable

// Selection tracks selected row identifiers independently of filtering,
// sorting, and pagination. Membership checks against the collection are the
// owning Table's job.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection builds an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: map[string]struct{}{}}
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.ids)
}

// Toggle flips membership of id and returns the new state.
func (s *Selection) Toggle(id string) bool {
	if s.Has(id) {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Set forces membership of id.
func (s *Selection) Set(id string, selected bool) {
	if selected {
		s.ids[id] = struct{}{}
		return
	}
	delete(s.ids, id)
}

// SetAll adds (union) or removes (difference) every id.
func (s *Selection) SetAll(ids []string, selected bool) {
	for _, id := range ids {
		s.Set(id, selected)
	}
}

// Prune drops id from the selection.
func (s *Selection) Prune(id string) {
	delete(s.ids, id)
}

// Clear removes every id.
func (s *Selection) Clear() {
	s.ids = map[string]struct{}{}
}

// Ordered returns the selected ids following order; ids absent from order are skipped.
func (s *Selection) Ordered(order []string) []string {
	out := make([]string, 0, len(s.ids))
	for _, id := range order {
		if s.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// CountIn returns how many of ids are selected.
func (s *Selection) CountIn(ids []string) int {
	n := 0
	for _, id := range ids {
		if s.Has(id) {
			n++
		}
	}
	return n
}

// SelectionSummary backs the "N of M row(s) selected" footer.
type SelectionSummary struct {
	SelectedCount      int  `json:"selected_count"`
	TotalFilteredCount int  `json:"total_filtered_count"`
	AllPageSelected    bool `json:"all_page_selected"`
	SomePageSelected   bool `json:"some_page_selected"`
}
