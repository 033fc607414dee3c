package datatable

import "strconv"

// ProjectionCache memoizes the last projection so repeated reads with an
// unchanged collection and view state return the same page slice.
type ProjectionCache[R Row] struct {
	key   string
	value Projection[R]
	ok    bool
	hits  int
}

// NewProjectionCache builds an empty cache.
func NewProjectionCache[R Row]() *ProjectionCache[R] {
	return &ProjectionCache[R]{}
}

// GetOrProject returns the cached projection for (revision, state) or computes
// and stores a new one.
func (c *ProjectionCache[R]) GetOrProject(revision uint64, state ViewState, project func() Projection[R]) Projection[R] {
	if c == nil {
		return project()
	}
	key := strconv.FormatUint(revision, 10) + ":" + state.projectionKey()
	if c.ok && c.key == key {
		c.hits++
		return c.value
	}
	c.value = project()
	c.key = key
	c.ok = true
	return c.value
}

// Hits returns how many reads were served from the cache.
func (c *ProjectionCache[R]) Hits() int {
	if c == nil {
		return 0
	}
	return c.hits
}

// Invalidate drops the memoized projection.
func (c *ProjectionCache[R]) Invalidate() {
	if c == nil {
		return
	}
	c.ok = false
	c.key = ""
}
