package datatable

import (
	"sort"
	"strings"
)

// Projection is the page of rows to render for a given collection and view state.
type Projection[R Row] struct {
	Rows          []R
	TotalRows     int
	FilteredCount int
	FilteredIDs   []string // pre-pagination
	PageIndex     int
	PageSize      int
	PageCount     int
}

// FilteredRows runs the filter stage only: a row is kept when it satisfies
// every predicate in filters (exact equality) and contains the global query.
// Predicates on unknown columns are ignored.
func FilteredRows[R Row](rows []R, cols Columns[R], filters FilterSet, global string) []R {
	type predicate struct {
		col  Column[R]
		want string
	}
	preds := make([]predicate, 0, len(filters))
	keys := make([]string, 0, len(filters))
	for key := range filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		col, ok := cols.Lookup(key)
		if !ok {
			continue
		}
		preds = append(preds, predicate{col: col, want: filters[key]})
	}
	query := strings.ToLower(strings.TrimSpace(global))
	if len(preds) == 0 && query == "" {
		return append([]R{}, rows...)
	}
	out := make([]R, 0, len(rows))
	for _, row := range rows {
		keep := true
		for _, p := range preds {
			if !p.col.Matches(row, p.want) {
				keep = false
				break
			}
		}
		if keep && query != "" {
			keep = matchesGlobal(row, cols, query)
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}

func matchesGlobal[R Row](row R, cols Columns[R], query string) bool {
	for _, col := range cols.list {
		if !col.searchable() {
			continue
		}
		if strings.Contains(strings.ToLower(col.text(row)), query) {
			return true
		}
	}
	return false
}

// SortRows returns a stably sorted copy of rows. Keys on unknown or
// unsortable columns are skipped; ties fall back to input order.
func SortRows[R Row](rows []R, cols Columns[R], spec SortSpec) []R {
	out := append([]R{}, rows...)
	type sortCol struct {
		col  Column[R]
		desc bool
	}
	keys := make([]sortCol, 0, len(spec))
	for _, key := range spec {
		col, ok := cols.Lookup(key.Field)
		if !ok || !col.Sortable {
			continue
		}
		keys = append(keys, sortCol{col: col, desc: key.Descending()})
	}
	if len(keys) == 0 {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		for _, k := range keys {
			if ai, aj := k.col.absent(out[i]), k.col.absent(out[j]); ai || aj {
				if ai == aj {
					continue
				}
				return aj
			}
			cmp := k.col.Compare(out[i], out[j])
			if cmp == 0 {
				continue
			}
			if k.desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return out
}

// Paginate slices rows to [pageIndex*pageSize, (pageIndex+1)*pageSize)
// clamped to the bounds. A start past the end (or a negative index) yields
// an empty page. A non-positive page size returns every row.
func Paginate[R Row](rows []R, pageIndex, pageSize int) []R {
	if pageSize <= 0 {
		if pageIndex == 0 {
			return append([]R{}, rows...)
		}
		return []R{}
	}
	if pageIndex < 0 {
		return []R{}
	}
	start := pageIndex * pageSize
	if start >= len(rows) {
		return []R{}
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return append([]R{}, rows[start:end]...)
}

// PageCount returns the number of pages needed for total rows.
func PageCount(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	if pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Project runs filter, sort, and paginate over rows. It has no side effects.
func Project[R Row](rows []R, cols Columns[R], state ViewState) Projection[R] {
	filtered := FilteredRows(rows, cols, state.Filters, state.GlobalFilter)
	sorted := SortRows(filtered, cols, state.Sort)
	page := Paginate(sorted, state.Pagination.PageIndex, state.Pagination.PageSize)
	ids := make([]string, len(filtered))
	for i, row := range filtered {
		ids[i] = row.RowID()
	}
	return Projection[R]{
		FilteredIDs:   ids,
		Rows:          page,
		TotalRows:     len(rows),
		FilteredCount: len(filtered),
		PageIndex:     state.Pagination.PageIndex,
		PageSize:      state.Pagination.PageSize,
		PageCount:     PageCount(len(filtered), state.Pagination.PageSize),
	}
}

// IDs returns the identifiers of the projected page.
func (p Projection[R]) IDs() []string {
	ids := make([]string, len(p.Rows))
	for i, row := range p.Rows {
		ids[i] = row.RowID()
	}
	return ids
}

// CanPreviousPage reports whether a previous page exists.
func (p Projection[R]) CanPreviousPage() bool {
	return p.PageIndex > 0
}

// CanNextPage reports whether a following page exists.
func (p Projection[R]) CanNextPage() bool {
	return p.PageIndex+1 < p.PageCount
}

// Facet is a distinct column value with the number of rows carrying it.
type Facet struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facets counts distinct values of an enum column over rows, ordered by value.
func Facets[R Row](rows []R, col Column[R]) []Facet {
	if col.Kind != KindEnum {
		return nil
	}
	counts := map[string]int{}
	for _, row := range rows {
		counts[col.Value(row)]++
	}
	out := make([]Facet, 0, len(counts))
	for value, count := range counts {
		out = append(out, Facet{Value: value, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
