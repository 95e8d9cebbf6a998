package section

// SelectionCache keeps Marker.Selected in step with the host's multi-selection.
// A single selected row is not flagged; the host highlights it on its own.
// It only recomputes when the selection size changes, so swapping one
// selection for another of the same size leaves the flags stale until the
// next size change.
type SelectionCache struct {
	host Host
	reg  *Registry

	lastCount int
}

// NewSelectionCache returns a cache with an empty remembered selection.
func NewSelectionCache(host Host, reg *Registry) *SelectionCache {
	return &SelectionCache{host: host, reg: reg}
}

// Update refreshes the flags if the selection size changed. It reports whether
// a recompute happened.
func (c *SelectionCache) Update() bool {
	sel := c.host.ActiveSelection()
	if len(sel) == c.lastCount {
		return false
	}
	c.lastCount = len(sel)
	c.apply(sel)
	return true
}

// Invalidate forces the next Update to recompute.
func (c *SelectionCache) Invalidate() {
	c.lastCount = -1
}

// Count is the selection size seen by the last recompute.
func (c *SelectionCache) Count() int {
	if c.lastCount < 0 {
		return 0
	}
	return c.lastCount
}

func (c *SelectionCache) apply(sel []Identity) {
	if len(sel) <= 1 {
		for _, m := range c.reg.markers {
			m.Selected = false
		}
		return
	}
	set := make(map[Identity]struct{}, len(sel))
	for _, id := range sel {
		set[id] = struct{}{}
	}
	for id, m := range c.reg.markers {
		_, m.Selected = set[id]
	}
}
