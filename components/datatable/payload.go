package datatable

// ViewPayload is the read-only snapshot handed to presentation renderers.
type ViewPayload struct {
	Table        string             `json:"table"`
	Columns      []ColumnPayload    `json:"columns"`
	Rows         []RowPayload       `json:"rows"`
	Pagination   PagePayload        `json:"pagination"`
	Selection    SelectionSummary   `json:"selection"`
	Sort         SortSpec           `json:"sort"`
	Filters      FilterSet          `json:"filters"`
	GlobalFilter string             `json:"global_filter,omitempty"`
	Facets       map[string][]Facet `json:"facets,omitempty"`
	Drag         DragState          `json:"drag"`
	TotalRows    int                `json:"total_rows"`
}

// ColumnPayload describes a column header for renderers.
type ColumnPayload struct {
	Key           string        `json:"key"`
	Header        string        `json:"header"`
	Kind          ColumnKind    `json:"kind"`
	Visible       bool          `json:"visible"`
	Hideable      bool          `json:"hideable"`
	Sortable      bool          `json:"sortable"`
	SortDirection SortDirection `json:"sort_direction,omitempty"`
}

// RowPayload is one rendered row: visible cells plus the raw record.
type RowPayload struct {
	ID       string            `json:"id"`
	Cells    map[string]string `json:"cells"`
	Selected bool              `json:"selected"`
	Record   any               `json:"record"`
}

// PagePayload drives the pager controls.
type PagePayload struct {
	PageIndex   int   `json:"page_index"`
	PageSize    int   `json:"page_size"`
	PageCount   int   `json:"page_count"`
	CanPrevious bool  `json:"can_previous"`
	CanNext     bool  `json:"can_next"`
	SizeOptions []int `json:"size_options"`
}

// Payload builds the renderer snapshot with headers resolved for locale.
func (t *Table[R]) Payload(locale string) ViewPayload {
	view := t.View()
	cols := t.columns.List()
	columns := make([]ColumnPayload, 0, len(cols))
	facets := map[string][]Facet{}
	for _, col := range cols {
		dir, _ := t.state.Sort.Direction(col.Key)
		columns = append(columns, ColumnPayload{
			Key:           col.Key,
			Header:        col.HeaderFor(locale),
			Kind:          col.Kind,
			Visible:       t.ColumnVisible(col.Key),
			Hideable:      col.Hideable,
			Sortable:      col.Sortable,
			SortDirection: dir,
		})
		if col.Kind == KindEnum {
			facets[col.Key] = t.Facets(col.Key)
		}
	}
	rows := make([]RowPayload, 0, len(view.Rows))
	for _, row := range view.Rows {
		cells := make(map[string]string, len(cols))
		for _, col := range cols {
			if !t.ColumnVisible(col.Key) {
				continue
			}
			cells[col.Key] = col.Value(row)
		}
		rows = append(rows, RowPayload{
			ID:       row.RowID(),
			Cells:    cells,
			Selected: t.selection.Has(row.RowID()),
			Record:   row,
		})
	}
	state := t.State()
	return ViewPayload{
		Table:   t.name,
		Columns: columns,
		Rows:    rows,
		Pagination: PagePayload{
			PageIndex:   view.PageIndex,
			PageSize:    view.PageSize,
			PageCount:   view.PageCount,
			CanPrevious: view.CanPreviousPage(),
			CanNext:     view.CanNextPage(),
			SizeOptions: append([]int{}, t.config.PageSizeOptions...),
		},
		Selection:    t.SelectionSummary(),
		Sort:         state.Sort,
		Filters:      state.Filters,
		GlobalFilter: state.GlobalFilter,
		Facets:       facets,
		Drag:         t.drag.State(),
		TotalRows:    view.TotalRows,
	}
}
