package datatable

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ColumnKind enumerates the supported column value kinds.
type ColumnKind string

const (
	KindText   ColumnKind = "text"
	KindEnum   ColumnKind = "enum"
	KindNumber ColumnKind = "number"
	KindTime   ColumnKind = "time"
)

var errEmptyColumnKey = errors.New("datatable: column key is required")

// Column describes a single table column. Columns are built with one of the
// typed constructors so the accessor always matches the kind.
type Column[R Row] struct {
	Key             string
	Header          string
	HeaderLocalized map[string]string
	Kind            ColumnKind
	Hideable        bool
	Sortable        bool

	text   func(R) string
	number func(R) float64
	when   func(R) time.Time
}

// TextColumn builds a free-text column.
func TextColumn[R Row](key, header string, get func(R) string) Column[R] {
	return Column[R]{Key: key, Header: header, Kind: KindText, Hideable: true, Sortable: true, text: get}
}

// EnumColumn builds a column over a closed set of string values (role, plan, status).
func EnumColumn[R Row](key, header string, get func(R) string) Column[R] {
	return Column[R]{Key: key, Header: header, Kind: KindEnum, Hideable: true, Sortable: true, text: get}
}

// NumberColumn builds a numeric column.
func NumberColumn[R Row](key, header string, get func(R) float64) Column[R] {
	return Column[R]{Key: key, Header: header, Kind: KindNumber, Hideable: true, Sortable: true, number: get}
}

// NumericTextColumn builds a number column over values stored as text, such
// as a "30" page target. Cells render the stored text. Text that does not
// parse as a number is absent: it sorts after every number in either
// direction.
func NumericTextColumn[R Row](key, header string, get func(R) string) Column[R] {
	return Column[R]{
		Key: key, Header: header, Kind: KindNumber, Hideable: true, Sortable: true,
		text:   get,
		number: func(row R) float64 { return parseNumber(get(row)) },
	}
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// TimeColumn builds a timestamp column.
func TimeColumn[R Row](key, header string, get func(R) time.Time) Column[R] {
	return Column[R]{Key: key, Header: header, Kind: KindTime, Hideable: true, Sortable: true, when: get}
}

// Pinned marks the column as always visible.
func (c Column[R]) Pinned() Column[R] {
	c.Hideable = false
	return c
}

// Unsortable disables sorting for the column.
func (c Column[R]) Unsortable() Column[R] {
	c.Sortable = false
	return c
}

// Localized attaches per-locale header labels.
func (c Column[R]) Localized(headers map[string]string) Column[R] {
	c.HeaderLocalized = foldLocales(headers)
	return c
}

// Value renders the cell value for row as a string.
func (c Column[R]) Value(row R) string {
	switch c.Kind {
	case KindNumber:
		if c.text != nil {
			return c.text(row)
		}
		if c.number == nil {
			return ""
		}
		return strconv.FormatFloat(c.number(row), 'f', -1, 64)
	case KindTime:
		if c.when == nil {
			return ""
		}
		t := c.when(row)
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format(time.RFC3339)
	default:
		if c.text == nil {
			return ""
		}
		return c.text(row)
	}
}

// HeaderFor returns the header label for locale.
func (c Column[R]) HeaderFor(locale string) string {
	return PickLocalized(c.HeaderLocalized, locale, c.Header)
}

// Matches reports whether the row's value equals want. Number columns parse
// want as a float; time columns compare against RFC3339 or a YYYY-MM-DD day.
func (c Column[R]) Matches(row R, want string) bool {
	switch c.Kind {
	case KindNumber:
		if c.text != nil && c.text(row) == want {
			return true
		}
		if c.number == nil {
			return false
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(want), 64)
		if err != nil {
			return false
		}
		return c.number(row) == parsed
	case KindTime:
		if c.when == nil {
			return false
		}
		got := c.when(row).UTC()
		if parsed, err := time.Parse(time.RFC3339, want); err == nil {
			return got.Equal(parsed)
		}
		return got.Format(time.DateOnly) == want
	default:
		if c.text == nil {
			return false
		}
		return c.text(row) == want
	}
}

// Compare orders two rows by this column: negative when a sorts first.
func (c Column[R]) Compare(a, b R) int {
	switch c.Kind {
	case KindNumber:
		if c.number == nil {
			return 0
		}
		x, y := c.number(a), c.number(b)
		switch xa, ya := math.IsNaN(x), math.IsNaN(y); {
		case xa || ya:
			return compareAbsent(xa, ya)
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case KindTime:
		if c.when == nil {
			return 0
		}
		return c.when(a).Compare(c.when(b))
	default:
		if c.text == nil {
			return 0
		}
		return strings.Compare(c.text(a), c.text(b))
	}
}

// absent reports a number cell with no numeric value.
func (c Column[R]) absent(row R) bool {
	return c.Kind == KindNumber && c.number != nil && math.IsNaN(c.number(row))
}

// compareAbsent orders absent values after present ones.
func compareAbsent(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}

func (c Column[R]) searchable() bool {
	return (c.Kind == KindText || c.Kind == KindEnum) && c.text != nil
}

// Columns is an ordered, key-addressable column set.
type Columns[R Row] struct {
	list  []Column[R]
	index map[string]int
}

// NewColumns validates keys and builds a column set.
func NewColumns[R Row](cols ...Column[R]) (Columns[R], error) {
	set := Columns[R]{
		list:  make([]Column[R], 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for _, col := range cols {
		if col.Key == "" {
			return Columns[R]{}, errEmptyColumnKey
		}
		if _, dup := set.index[col.Key]; dup {
			return Columns[R]{}, fmt.Errorf("datatable: duplicate column key %q", col.Key)
		}
		set.index[col.Key] = len(set.list)
		set.list = append(set.list, col)
	}
	return set, nil
}

// MustColumns is NewColumns for static column sets; it panics on invalid keys.
func MustColumns[R Row](cols ...Column[R]) Columns[R] {
	set, err := NewColumns(cols...)
	if err != nil {
		panic(err)
	}
	return set
}

// Lookup returns the column registered under key.
func (c Columns[R]) Lookup(key string) (Column[R], bool) {
	idx, ok := c.index[key]
	if !ok {
		return Column[R]{}, false
	}
	return c.list[idx], true
}

// List returns the columns in declaration order.
func (c Columns[R]) List() []Column[R] {
	return append([]Column[R]{}, c.list...)
}

// Len returns the number of columns.
func (c Columns[R]) Len() int {
	return len(c.list)
}

// WithHeaders overlays localized header labels keyed by column key.
func (c Columns[R]) WithHeaders(headers map[string]map[string]string) Columns[R] {
	if len(headers) == 0 {
		return c
	}
	out := Columns[R]{
		list:  make([]Column[R], len(c.list)),
		index: c.index,
	}
	for i, col := range c.list {
		if labels, ok := headers[col.Key]; ok {
			merged := map[string]string{}
			for k, v := range col.HeaderLocalized {
				merged[k] = v
			}
			for k, v := range labels {
				merged[k] = v
			}
			col = col.Localized(merged)
		}
		out.list[i] = col
	}
	return out
}
