package check

import (
	"fmt"
	"slices"

	"github.com/kastheco/hisect/outline"
	"github.com/kastheco/hisect/section"
)

// MarkerStatus represents the state of a single marker node.
type MarkerStatus int

const (
	StatusOK           MarkerStatus = iota // root level, canonical name
	StatusNonCanonical                     // name is not "--- title ---"
	StatusStalePin                         // stored with the pinned decoration
	StatusNested                           // not a root item, ignored until moved
)

func (s MarkerStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNonCanonical:
		return "non-canonical"
	case StatusStalePin:
		return "stale pin"
	case StatusNested:
		return "nested"
	default:
		return "unknown"
	}
}

// MarkerEntry is one marker node's audit result.
type MarkerEntry struct {
	ID      section.Identity
	Name    string
	Title   string
	Ordinal int // -1 when a rebuild would not register the node
	Status  MarkerStatus
	Detail  string // e.g. the name a rebuild would write
}

// AuditResult is the complete output of hisect check for one document.
type AuditResult struct {
	Document string
	Nodes    int
	Markers  []MarkerEntry
	// DenseOrdinals is true when a rebuild numbers markers 0..n-1 in sibling
	// order.
	DenseOrdinals bool
	// OrdinalDetail explains a failed ordinal check.
	OrdinalDetail string
}

// Audit inspects every node of tree whose name carries the marker delimiter.
// The tree itself is not modified; the rebuild runs on a copy.
func Audit(document string, tree *outline.Tree) (*AuditResult, error) {
	result := &AuditResult{Document: document, Nodes: tree.Len()}

	rebuilt, reg, err := rebuild(tree)
	if err != nil {
		return nil, err
	}

	for _, row := range tree.Flatten() {
		name := tree.DisplayName(row.ID)
		if !section.IsMarkerName(name) {
			continue
		}
		entry := MarkerEntry{
			ID:      row.ID,
			Name:    name,
			Title:   section.Canonicalize(name),
			Ordinal: -1,
		}
		if m, ok := reg.Get(row.ID); ok {
			entry.Ordinal = m.Ordinal
		}
		canonical := section.Decorate(entry.Title, false)
		switch {
		case tree.Parent(row.ID) != section.NoIdentity:
			entry.Status = StatusNested
			entry.Detail = fmt.Sprintf("under %q", tree.DisplayName(tree.Parent(row.ID)))
		case name == section.Decorate(entry.Title, true):
			entry.Status = StatusStalePin
			entry.Detail = canonical
		case name != canonical:
			entry.Status = StatusNonCanonical
			entry.Detail = canonical
		}
		result.Markers = append(result.Markers, entry)
	}

	result.DenseOrdinals, result.OrdinalDetail = checkOrdinals(rebuilt, reg)
	return result, nil
}

// Summary returns (ok, total) counts across all checks.
func (r *AuditResult) Summary() (int, int) {
	ok, total := 0, 1
	if r.DenseOrdinals {
		ok++
	}
	for _, m := range r.Markers {
		total++
		if m.Status == StatusOK {
			ok++
		}
	}
	return ok, total
}

// Healthy reports whether every check passed.
func (r *AuditResult) Healthy() bool {
	ok, total := r.Summary()
	return ok == total
}

// checkOrdinals verifies that ordinals are 0..n-1 and follow sibling order.
func checkOrdinals(tree *outline.Tree, reg *section.Registry) (bool, string) {
	ords := reg.Ordinals()
	for i, o := range ords {
		if o != i {
			return false, fmt.Sprintf("ordinals %v are not dense", ords)
		}
	}
	markers := reg.Markers()
	sorted := slices.IsSortedFunc(markers, func(a, b *section.Marker) int {
		return tree.SiblingIndex(a.ID) - tree.SiblingIndex(b.ID)
	})
	if !sorted {
		return false, "ordinals do not follow sibling order"
	}
	return true, ""
}
