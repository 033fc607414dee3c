package datatable

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyRowID is returned when a row reports an empty identifier.
	ErrEmptyRowID = errors.New("datatable: row id is required")
	// ErrDuplicateRowID is returned when two rows share an identifier.
	ErrDuplicateRowID = errors.New("datatable: duplicate row id")
)

// Collection is the ordered set of rows backing a table. It is the single
// source of truth for row existence and order.
type Collection[R Row] struct {
	rows     []R
	index    map[string]int
	revision uint64
}

// NewCollection copies rows into a collection, rejecting empty or duplicate ids.
func NewCollection[R Row](rows []R) (*Collection[R], error) {
	c := &Collection[R]{
		rows:  make([]R, 0, len(rows)),
		index: make(map[string]int, len(rows)),
	}
	for i, row := range rows {
		id := row.RowID()
		if id == "" {
			return nil, fmt.Errorf("%w (position %d)", ErrEmptyRowID, i)
		}
		if _, dup := c.index[id]; dup {
			return nil, fmt.Errorf("%w %q", ErrDuplicateRowID, id)
		}
		c.index[id] = len(c.rows)
		c.rows = append(c.rows, row)
	}
	return c, nil
}

// Len returns the number of rows.
func (c *Collection[R]) Len() int {
	return len(c.rows)
}

// Revision increments on every mutation.
func (c *Collection[R]) Revision() uint64 {
	return c.revision
}

// Rows returns a copy of the rows in display order.
func (c *Collection[R]) Rows() []R {
	return append([]R{}, c.rows...)
}

// IDs returns the row identifiers in display order.
func (c *Collection[R]) IDs() []string {
	ids := make([]string, len(c.rows))
	for i, row := range c.rows {
		ids[i] = row.RowID()
	}
	return ids
}

// IndexOf returns the current position of id.
func (c *Collection[R]) IndexOf(id string) (int, bool) {
	idx, ok := c.index[id]
	return idx, ok
}

// Contains reports whether id is present.
func (c *Collection[R]) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Get returns the row stored under id.
func (c *Collection[R]) Get(id string) (R, bool) {
	idx, ok := c.index[id]
	if !ok {
		var zero R
		return zero, false
	}
	return c.rows[idx], true
}

// Move removes the row at from and reinserts it at to, shifting the rows in
// between by one position. Out-of-range or equal indexes leave the
// collection untouched.
func (c *Collection[R]) Move(from, to int) bool {
	n := len(c.rows)
	if from == to || from < 0 || to < 0 || from >= n || to >= n {
		return false
	}
	moved := c.rows[from]
	if from < to {
		copy(c.rows[from:to], c.rows[from+1:to+1])
	} else {
		copy(c.rows[to+1:from+1], c.rows[to:from])
	}
	c.rows[to] = moved
	lo, hi := from, to
	if lo > hi {
		lo, hi = hi, lo
	}
	c.reindex(lo, hi)
	c.revision++
	return true
}

// MoveID moves the row id into the position currently held by overID.
func (c *Collection[R]) MoveID(id, overID string) bool {
	if id == overID {
		return false
	}
	from, ok := c.index[id]
	if !ok {
		return false
	}
	to, ok := c.index[overID]
	if !ok {
		return false
	}
	return c.Move(from, to)
}

// Remove deletes the row stored under id.
func (c *Collection[R]) Remove(id string) bool {
	idx, ok := c.index[id]
	if !ok {
		return false
	}
	c.rows = append(c.rows[:idx], c.rows[idx+1:]...)
	delete(c.index, id)
	c.reindex(idx, len(c.rows)-1)
	c.revision++
	return true
}

// Replace swaps the record sharing row's id, keeping its position.
func (c *Collection[R]) Replace(row R) bool {
	idx, ok := c.index[row.RowID()]
	if !ok {
		return false
	}
	c.rows[idx] = row
	c.revision++
	return true
}

// Insert places row at position, clamped to the collection bounds.
func (c *Collection[R]) Insert(position int, row R) error {
	id := row.RowID()
	if id == "" {
		return ErrEmptyRowID
	}
	if _, dup := c.index[id]; dup {
		return fmt.Errorf("%w %q", ErrDuplicateRowID, id)
	}
	if position < 0 {
		position = 0
	}
	if position > len(c.rows) {
		position = len(c.rows)
	}
	var zero R
	c.rows = append(c.rows, zero)
	copy(c.rows[position+1:], c.rows[position:])
	c.rows[position] = row
	c.reindex(position, len(c.rows)-1)
	c.revision++
	return nil
}

// Prepend inserts row at the top of the collection.
func (c *Collection[R]) Prepend(row R) error {
	return c.Insert(0, row)
}

// Append inserts row at the bottom of the collection.
func (c *Collection[R]) Append(row R) error {
	return c.Insert(len(c.rows), row)
}

func (c *Collection[R]) reindex(lo, hi int) {
	for i := lo; i <= hi && i < len(c.rows); i++ {
		c.index[c.rows[i].RowID()] = i
	}
}
