package datatable

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// SortDirection orders a sort key.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortKey is one (field, direction) entry of a sort spec.
type SortKey struct {
	Field     string        `json:"field" yaml:"field"`
	Direction SortDirection `json:"direction" yaml:"direction"`
}

// Descending reports whether the key sorts in descending order.
func (k SortKey) Descending() bool {
	return k.Direction == SortDesc
}

// SortSpec lists sort keys by priority. An empty spec keeps source order.
type SortSpec []SortKey

// Direction returns the direction recorded for field.
func (s SortSpec) Direction(field string) (SortDirection, bool) {
	for _, key := range s {
		if key.Field == field {
			return key.Direction, true
		}
	}
	return "", false
}

// FilterSet maps a column key to the single accepted value.
type FilterSet map[string]string

// Clone returns an independent copy.
func (f FilterSet) Clone() FilterSet {
	out := make(FilterSet, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Pagination is the (page index, page size) window over the projected rows.
type Pagination struct {
	PageIndex int `json:"page_index"`
	PageSize  int `json:"page_size"`
}

// Visibility maps column keys to visibility. Unknown keys are visible.
type Visibility map[string]bool

// Visible reports whether the column keyed by key should render.
func (v Visibility) Visible(key string) bool {
	visible, ok := v[key]
	if !ok {
		return true
	}
	return visible
}

// ViewState is the ephemeral, derived state of a table view. It never holds
// rows, only identifiers and parameters.
type ViewState struct {
	Sort         SortSpec   `json:"sort"`
	Filters      FilterSet  `json:"filters"`
	GlobalFilter string     `json:"global_filter,omitempty"`
	Pagination   Pagination `json:"pagination"`
	Selection    []string   `json:"selection"`
	Visibility   Visibility `json:"visibility"`
}

// DefaultViewState returns the state a table starts with on mount.
func DefaultViewState(pageSize int) ViewState {
	return ViewState{
		Sort:       SortSpec{},
		Filters:    FilterSet{},
		Pagination: Pagination{PageIndex: 0, PageSize: pageSize},
		Selection:  []string{},
		Visibility: Visibility{},
	}
}

// projectionKey hashes the parts of the state that affect the projection.
func (s ViewState) projectionKey() string {
	payload := struct {
		Sort         SortSpec    `json:"s"`
		Filters      [][2]string `json:"f"`
		GlobalFilter string      `json:"g"`
		Pagination   Pagination  `json:"p"`
	}{
		Sort:         s.Sort,
		GlobalFilter: s.GlobalFilter,
		Pagination:   s.Pagination,
	}
	keys := make([]string, 0, len(s.Filters))
	for k := range s.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		payload.Filters = append(payload.Filters, [2]string{k, s.Filters[k]})
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
