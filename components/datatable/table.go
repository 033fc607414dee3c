package datatable

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errEmptyTableName = errors.New("datatable: table name is required")

// Table is the tabular view controller: it owns the ordered collection and the
// view state of one mounted table and derives the page to render from them.
// A Table is not safe for concurrent use; callers serialize events.
type Table[R Row] struct {
	name      string
	columns   Columns[R]
	rows      *Collection[R]
	drag      *Reorderer[R]
	selection *Selection
	state     ViewState
	config    Config
	cache     *ProjectionCache[R]
	validator RecordValidator
	def       TableDefinition
}

var _ Controller = (*Table[Row])(nil)

// NewTable mounts a table over rows.
func NewTable[R Row](name string, columns Columns[R], rows []R, opts ...TableOption) (*Table[R], error) {
	if name == "" {
		return nil, errEmptyTableName
	}
	options := tableOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	cfg := options.config.Normalized()
	pageSize := cfg.DefaultPageSize
	if options.pageSize > 0 {
		pageSize = options.pageSize
	}
	collection, err := NewCollection(rows)
	if err != nil {
		return nil, fmt.Errorf("datatable: mount %s: %w", name, err)
	}
	t := &Table[R]{
		name:      name,
		columns:   columns,
		rows:      collection,
		drag:      NewReorderer(collection),
		selection: NewSelection(),
		state:     DefaultViewState(pageSize),
		config:    cfg,
		cache:     NewProjectionCache[R](),
		validator: options.validator,
		def:       options.schema,
	}
	for _, key := range options.hiddenColumns {
		t.SetColumnVisible(key, false)
	}
	return t, nil
}

// Name returns the table name.
func (t *Table[R]) Name() string {
	return t.name
}

// Columns returns the column set.
func (t *Table[R]) Columns() Columns[R] {
	return t.columns
}

// Rows returns the collection rows in display order.
func (t *Table[R]) Rows() []R {
	return t.rows.Rows()
}

// Row returns the record stored under id.
func (t *Table[R]) Row(id string) (R, bool) {
	return t.rows.Get(id)
}

// BeginDrag lifts rowID.
func (t *Table[R]) BeginDrag(rowID string) bool {
	return t.drag.Begin(rowID)
}

// MoveTo records hover feedback only.
func (t *Table[R]) MoveTo(rowID, overRowID string) bool {
	return t.drag.Over(rowID, overRowID)
}

// EndDrag applies the array move of rowID onto overRowID.
func (t *Table[R]) EndDrag(rowID, overRowID string) bool {
	return t.drag.End(rowID, overRowID)
}

// CancelDrag returns to Idle without mutation.
func (t *Table[R]) CancelDrag() {
	t.drag.Cancel()
}

// DragState returns the in-flight gesture.
func (t *Table[R]) DragState() DragState {
	return t.drag.State()
}

// ToggleRow flips selection of rowID. Unknown ids are ignored.
func (t *Table[R]) ToggleRow(rowID string) bool {
	if !t.rows.Contains(rowID) {
		return false
	}
	t.selection.Toggle(rowID)
	return true
}

// SetRowSelected forces the selection of rowID.
func (t *Table[R]) SetRowSelected(rowID string, selected bool) bool {
	if !t.rows.Contains(rowID) {
		return false
	}
	t.selection.Set(rowID, selected)
	return true
}

// ToggleAllVisible adds (selected) or removes every id in rowIDs. Ids not in
// the collection are skipped so the selection stays a subset of it.
func (t *Table[R]) ToggleAllVisible(rowIDs []string, selected bool) {
	known := make([]string, 0, len(rowIDs))
	for _, id := range rowIDs {
		if t.rows.Contains(id) {
			known = append(known, id)
		}
	}
	t.selection.SetAll(known, selected)
}

// TogglePageSelection applies ToggleAllVisible to the current page.
func (t *Table[R]) TogglePageSelection(selected bool) {
	t.ToggleAllVisible(t.View().IDs(), selected)
}

// IsSelected reports whether rowID is selected.
func (t *Table[R]) IsSelected(rowID string) bool {
	return t.selection.Has(rowID)
}

// SelectedRows returns the selected records in collection order.
func (t *Table[R]) SelectedRows() []R {
	ids := t.selection.Ordered(t.rows.IDs())
	out := make([]R, 0, len(ids))
	for _, id := range ids {
		if row, ok := t.rows.Get(id); ok {
			out = append(out, row)
		}
	}
	return out
}

// SelectionSummary returns (selected, filtered total) plus page checkbox state.
// Only selected rows passing the current filters are counted, so the count
// never exceeds the filtered total; filtered-out selections are retained.
func (t *Table[R]) SelectionSummary() SelectionSummary {
	view := t.View()
	pageIDs := view.IDs()
	onPage := t.selection.CountIn(pageIDs)
	return SelectionSummary{
		SelectedCount:      t.selection.CountIn(view.FilteredIDs),
		TotalFilteredCount: view.FilteredCount,
		AllPageSelected:    len(pageIDs) > 0 && onPage == len(pageIDs),
		SomePageSelected:   onPage > 0 && onPage < len(pageIDs),
	}
}

// SetSort replaces the sort spec. Keys on unknown or unsortable columns and
// repeated fields are dropped.
func (t *Table[R]) SetSort(spec SortSpec) {
	clean := make(SortSpec, 0, len(spec))
	seen := map[string]struct{}{}
	for _, key := range spec {
		col, ok := t.columns.Lookup(key.Field)
		if !ok || !col.Sortable {
			continue
		}
		if _, dup := seen[key.Field]; dup {
			continue
		}
		seen[key.Field] = struct{}{}
		if key.Direction != SortDesc {
			key.Direction = SortAsc
		}
		clean = append(clean, key)
	}
	t.state.Sort = clean
	t.resetPageOnChange()
}

// ToggleSort cycles a single-column sort on field: none, asc, desc, none.
func (t *Table[R]) ToggleSort(field string) bool {
	col, ok := t.columns.Lookup(field)
	if !ok || !col.Sortable {
		return false
	}
	dir, sorted := t.state.Sort.Direction(field)
	switch {
	case !sorted:
		t.state.Sort = SortSpec{{Field: field, Direction: SortAsc}}
	case dir == SortAsc:
		t.state.Sort = SortSpec{{Field: field, Direction: SortDesc}}
	default:
		t.state.Sort = SortSpec{}
	}
	t.resetPageOnChange()
	return true
}

// SetFilter sets the accepted value for field. An empty value or "all"
// clears the predicate. Unknown fields are ignored.
func (t *Table[R]) SetFilter(field, value string) bool {
	if _, ok := t.columns.Lookup(field); !ok {
		return false
	}
	value = strings.TrimSpace(value)
	if value == "" || value == "all" {
		delete(t.state.Filters, field)
	} else {
		t.state.Filters[field] = value
	}
	t.resetPageOnChange()
	return true
}

// ClearFilters drops every predicate and the global filter.
func (t *Table[R]) ClearFilters() {
	t.state.Filters = FilterSet{}
	t.state.GlobalFilter = ""
	t.resetPageOnChange()
}

// SetGlobalFilter sets the free-text query matched against text columns.
func (t *Table[R]) SetGlobalFilter(query string) {
	t.state.GlobalFilter = strings.TrimSpace(query)
	t.resetPageOnChange()
}

// SetPage moves the window. The index is not clamped to the page count;
// pages past the end project as empty.
func (t *Table[R]) SetPage(pageIndex int) {
	if pageIndex < 0 {
		pageIndex = 0
	}
	t.state.Pagination.PageIndex = pageIndex
}

// SetPageSize changes the page size keeping the first visible row on screen.
func (t *Table[R]) SetPageSize(pageSize int) {
	if pageSize <= 0 {
		return
	}
	first := t.state.Pagination.PageIndex * t.state.Pagination.PageSize
	t.state.Pagination.PageSize = pageSize
	t.state.Pagination.PageIndex = first / pageSize
}

// NextPage advances when a following page exists.
func (t *Table[R]) NextPage() bool {
	if !t.View().CanNextPage() {
		return false
	}
	t.state.Pagination.PageIndex++
	return true
}

// PreviousPage steps back when possible.
func (t *Table[R]) PreviousPage() bool {
	if t.state.Pagination.PageIndex <= 0 {
		return false
	}
	t.state.Pagination.PageIndex--
	return true
}

// FirstPage jumps to page zero.
func (t *Table[R]) FirstPage() {
	t.state.Pagination.PageIndex = 0
}

// LastPage jumps to the last page of the filtered rows.
func (t *Table[R]) LastPage() {
	count := t.View().PageCount
	if count == 0 {
		t.state.Pagination.PageIndex = 0
		return
	}
	t.state.Pagination.PageIndex = count - 1
}

// SetColumnVisible toggles a column. Pinned and unknown columns are ignored.
func (t *Table[R]) SetColumnVisible(key string, visible bool) bool {
	col, ok := t.columns.Lookup(key)
	if !ok || !col.Hideable {
		return false
	}
	if visible {
		delete(t.state.Visibility, key)
	} else {
		t.state.Visibility[key] = false
	}
	return true
}

// ColumnVisible reports whether the column keyed by key renders.
func (t *Table[R]) ColumnVisible(key string) bool {
	return t.state.Visibility.Visible(key)
}

// AddRow inserts row at the top of the collection.
func (t *Table[R]) AddRow(row R) error {
	return t.rows.Prepend(row)
}

// AppendRow inserts row at the bottom of the collection.
func (t *Table[R]) AppendRow(row R) error {
	return t.rows.Append(row)
}

// ReplaceRow swaps the record sharing row's id.
func (t *Table[R]) ReplaceRow(row R) bool {
	return t.rows.Replace(row)
}

// RemoveRow deletes rowID and prunes it from the selection and drag state.
func (t *Table[R]) RemoveRow(rowID string) bool {
	if !t.rows.Remove(rowID) {
		return false
	}
	t.selection.Prune(rowID)
	t.drag.Forget(rowID)
	return true
}

// AddRecord decodes raw into a row and prepends it.
func (t *Table[R]) AddRecord(raw json.RawMessage) (string, error) {
	row, err := t.decode(raw)
	if err != nil {
		return "", err
	}
	if err := t.AddRow(row); err != nil {
		return "", err
	}
	return row.RowID(), nil
}

// ReplaceRecord decodes raw and replaces the record sharing its id.
func (t *Table[R]) ReplaceRecord(raw json.RawMessage) (bool, error) {
	row, err := t.decode(raw)
	if err != nil {
		return false, err
	}
	return t.ReplaceRow(row), nil
}

func (t *Table[R]) decode(raw json.RawMessage) (R, error) {
	var row R
	if len(raw) == 0 {
		return row, fmt.Errorf("%w: %s record payload is empty", ErrInvalidInput, t.name)
	}
	if t.validator != nil {
		if err := t.validator.ValidateRecord(t.def, raw); err != nil {
			if !errors.Is(err, ErrInvalidInput) {
				err = fmt.Errorf("%w: %w", ErrInvalidInput, err)
			}
			return row, err
		}
	}
	if err := json.Unmarshal(raw, &row); err != nil {
		return row, fmt.Errorf("%w: decode %s record: %w", ErrInvalidInput, t.name, err)
	}
	return row, nil
}

// State returns a copy of the view state with the selection in collection order.
func (t *Table[R]) State() ViewState {
	visibility := make(Visibility, len(t.state.Visibility))
	for k, v := range t.state.Visibility {
		visibility[k] = v
	}
	return ViewState{
		Sort:         append(SortSpec{}, t.state.Sort...),
		Filters:      t.state.Filters.Clone(),
		GlobalFilter: t.state.GlobalFilter,
		Pagination:   t.state.Pagination,
		Selection:    t.selection.Ordered(t.rows.IDs()),
		Visibility:   visibility,
	}
}

// View projects the current page. Repeated calls without intervening
// changes return the same slice.
func (t *Table[R]) View() Projection[R] {
	return t.cache.GetOrProject(t.rows.Revision(), t.state, func() Projection[R] {
		return Project(t.rows.rows, t.columns, t.state)
	})
}

// Facets returns per-value counts of an enum column over the filtered rows,
// ignoring the column's own predicate.
func (t *Table[R]) Facets(field string) []Facet {
	col, ok := t.columns.Lookup(field)
	if !ok {
		return nil
	}
	filters := t.state.Filters.Clone()
	delete(filters, field)
	return Facets(FilteredRows(t.rows.rows, t.columns, filters, t.state.GlobalFilter), col)
}

func (t *Table[R]) resetPageOnChange() {
	if t.config.AutoResetPageIndex {
		t.state.Pagination.PageIndex = 0
	}
}
