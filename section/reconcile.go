package section

import (
	"cmp"
	"slices"

	"github.com/kastheco/hisect/log"
)

// ChangeReport summarizes what one reconciliation pass did.
type ChangeReport struct {
	Kind       ChangeKind
	Registered []Identity
	Pruned     []Identity
	Renamed    []Identity
	Reparented []Identity
	Reordered  bool
}

// Empty reports whether the pass left the registry untouched.
func (c ChangeReport) Empty() bool {
	return len(c.Registered) == 0 && len(c.Pruned) == 0 && len(c.Renamed) == 0 &&
		len(c.Reparented) == 0 && !c.Reordered
}

// Reconciler repairs the registry after host changes. It is the only writer of
// marker display names and the only code that removes dead entries.
type Reconciler struct {
	host Host
	reg  *Registry

	// autoTag applies EditorOnlyTag to newly registered markers.
	autoTag bool
	// pinned reports whether a marker wears the pinned suffix.
	pinned func(Identity) bool

	prevCount int
}

// NewReconciler builds a reconciler over host and reg. pinned may be nil.
func NewReconciler(host Host, reg *Registry, autoTag bool, pinned func(Identity) bool) *Reconciler {
	if pinned == nil {
		pinned = func(Identity) bool { return false }
	}
	return &Reconciler{
		host:      host,
		reg:       reg,
		autoTag:   autoTag,
		pinned:    pinned,
		prevCount: host.RootCount(),
	}
}

// HandleChange reacts to one host change notification.
func (r *Reconciler) HandleChange() ChangeReport {
	cur := r.host.RootCount()
	report := ChangeReport{Kind: Classify(r.prevCount, cur)}
	r.prevCount = cur

	switch report.Kind {
	case ChangeDeleted:
		before := r.reg.Len()
		report.Pruned = r.pruneDead()
		if r.reg.Len() != before {
			r.recompute(&report)
		}
	case ChangeUnchanged:
		for _, id := range r.host.ActiveSelection() {
			if !r.host.Resolve(id) {
				continue
			}
			if r.reg.Contains(id) {
				if r.needsCanonicalName(id) {
					r.Rename(id)
					report.Renamed = append(report.Renamed, id)
				}
				continue
			}
			if r.register(id) {
				report.Registered = append(report.Registered, id)
			}
		}
		if r.orderDrifted() {
			r.recompute(&report)
		}
	case ChangeInserted:
		for _, id := range r.host.ActiveSelection() {
			if r.register(id) {
				report.Registered = append(report.Registered, id)
			}
		}
	}
	return report
}

// Register promotes id to a marker, canonicalizing and optionally tagging it.
func (r *Reconciler) Register(id Identity) bool {
	return r.register(id)
}

func (r *Reconciler) register(id Identity) bool {
	if _, ok := r.reg.TryRegister(r.host, id); !ok {
		return false
	}
	r.Rename(id)
	if r.autoTag {
		r.host.SetTag(id, EditorOnlyTag)
	}
	return true
}

// Rename writes the canonical name for a registered marker and stores its
// title. No-op for unknown or dead identities.
func (r *Reconciler) Rename(id Identity) {
	m, ok := r.reg.Get(id)
	if !ok || !r.host.Resolve(id) {
		return
	}
	m.Title = Canonicalize(r.host.DisplayName(id))
	name := Decorate(m.Title, r.pinned(id))
	if r.host.DisplayName(id) != name {
		r.host.SetDisplayName(id, name)
	}
}

// needsCanonicalName is true when the user renamed the marker away from its
// decorated form, with or without removing the delimiter.
func (r *Reconciler) needsCanonicalName(id Identity) bool {
	name := r.host.DisplayName(id)
	if !IsMarkerName(name) {
		return true
	}
	return name != Decorate(Canonicalize(name), r.pinned(id))
}

func (r *Reconciler) pruneDead() []Identity {
	var pruned []Identity
	for _, m := range r.reg.Markers() {
		if r.reg.UnregisterIfDead(r.host, m.ID) {
			pruned = append(pruned, m.ID)
		}
	}
	return pruned
}

func (r *Reconciler) orderDrifted() bool {
	for _, m := range r.reg.Markers() {
		if !r.host.Resolve(m.ID) {
			continue
		}
		if r.host.Parent(m.ID) != NoIdentity {
			return true
		}
		if r.host.SiblingIndex(m.ID) != m.LastSiblingIndex {
			return true
		}
	}
	return false
}

// RecomputeOrder renumbers markers by their current sibling position.
func (r *Reconciler) RecomputeOrder() ChangeReport {
	report := ChangeReport{Kind: ChangeUnchanged}
	r.recompute(&report)
	return report
}

func (r *Reconciler) recompute(report *ChangeReport) {
	report.Pruned = append(report.Pruned, r.pruneDead()...)

	markers := r.reg.Markers()
	for _, m := range markers {
		if r.host.Parent(m.ID) != NoIdentity {
			r.host.SetParent(m.ID, NoIdentity)
			report.Reparented = append(report.Reparented, m.ID)
		}
	}

	for _, m := range markers {
		m.LastSiblingIndex = r.host.SiblingIndex(m.ID)
	}
	// Stable so equal sibling indices keep their previous ordinal order.
	slices.SortStableFunc(markers, func(a, b *Marker) int {
		return cmp.Compare(a.LastSiblingIndex, b.LastSiblingIndex)
	})
	for i, m := range markers {
		if m.Ordinal != i {
			report.Reordered = true
		}
		m.Ordinal = i
	}
	r.prevCount = r.host.RootCount()
	log.InfoLog.Printf("recomputed order of %d markers", len(markers))
}

// Rebuild discards the registry and rescans the root items.
func (r *Reconciler) Rebuild() ChangeReport {
	r.reg.Clear()
	report := ChangeReport{Kind: ChangeUnchanged}
	for _, id := range r.host.RootItems() {
		if r.register(id) {
			report.Registered = append(report.Registered, id)
		}
	}
	r.recompute(&report)
	return report
}
