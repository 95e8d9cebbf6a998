package section

import (
	"cmp"
	"slices"
)

// Marker is the registry entry for one section node.
type Marker struct {
	ID      Identity
	Title   string
	Ordinal int
	// Selected is true while the node is part of the host's multi-selection.
	Selected bool
	// LastSiblingIndex is the sibling position seen by the last reconciliation.
	LastSiblingIndex int
}

// Registry maps node identities to marker metadata. It does not talk to the host
// on its own except to check names and liveness; renaming and ordering are the
// Reconciler's job.
type Registry struct {
	markers map[Identity]*Marker
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{markers: make(map[Identity]*Marker)}
}

// Len returns the number of registered markers.
func (r *Registry) Len() int {
	return len(r.markers)
}

// Contains reports whether id is registered.
func (r *Registry) Contains(id Identity) bool {
	_, ok := r.markers[id]
	return ok
}

// Get returns the marker for id.
func (r *Registry) Get(id Identity) (*Marker, bool) {
	m, ok := r.markers[id]
	return m, ok
}

// TryRegister adds id as a marker when its display name carries the delimiter
// and it is not registered yet. The new marker takes ordinal Len().
func (r *Registry) TryRegister(h Host, id Identity) (*Marker, bool) {
	if id == NoIdentity || r.Contains(id) || !h.Resolve(id) {
		return nil, false
	}
	name := h.DisplayName(id)
	if !IsMarkerName(name) {
		return nil, false
	}
	m := &Marker{
		ID:               id,
		Title:            Canonicalize(name),
		Ordinal:          len(r.markers),
		LastSiblingIndex: h.SiblingIndex(id),
	}
	r.markers[id] = m
	return m, true
}

// UnregisterIfDead drops id when the host can no longer resolve it.
func (r *Registry) UnregisterIfDead(h Host, id Identity) bool {
	if _, ok := r.markers[id]; !ok {
		return false
	}
	if h.Resolve(id) {
		return false
	}
	delete(r.markers, id)
	return true
}

// Remove drops id regardless of liveness. Only bulk clear uses it.
func (r *Registry) Remove(id Identity) {
	delete(r.markers, id)
}

// Clear empties the registry.
func (r *Registry) Clear() {
	r.markers = make(map[Identity]*Marker)
}

// ByOrdinal returns the marker holding ordinal k. The lookup can miss between a
// deletion and the renumbering that follows it.
func (r *Registry) ByOrdinal(k int) (*Marker, bool) {
	for _, m := range r.markers {
		if m.Ordinal == k {
			return m, true
		}
	}
	return nil, false
}

// Markers returns the markers sorted by ordinal, ties broken by identity.
func (r *Registry) Markers() []*Marker {
	out := make([]*Marker, 0, len(r.markers))
	for _, m := range r.markers {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b *Marker) int {
		return cmp.Or(cmp.Compare(a.Ordinal, b.Ordinal), cmp.Compare(a.ID, b.ID))
	})
	return out
}

// MaxOrdinal returns the highest ordinal in use, or -1 when empty.
func (r *Registry) MaxOrdinal() int {
	max := -1
	for _, m := range r.markers {
		if m.Ordinal > max {
			max = m.Ordinal
		}
	}
	return max
}

// Ordinals returns the ordinals in ascending order.
func (r *Registry) Ordinals() []int {
	out := make([]int, 0, len(r.markers))
	for _, m := range r.Markers() {
		out = append(out, m.Ordinal)
	}
	return out
}
