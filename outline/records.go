package outline

import (
	"fmt"
	"sort"

	"github.com/kastheco/hisect/section"
)

// Record is the flat, storable form of one node.
type Record struct {
	ID       int64
	Parent   int64
	Position int
	Name     string
	Tag      string
}

// Records flattens the tree in display order. Identities are kept so stored
// documents reopen with the same handles.
func (t *Tree) Records() []Record {
	rows := t.Flatten()
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		n := t.nodes[r.ID]
		out = append(out, Record{
			ID:       int64(n.id),
			Parent:   int64(n.parent),
			Position: t.SiblingIndex(n.id),
			Name:     n.name,
			Tag:      n.tag,
		})
	}
	return out
}

// FromRecords rebuilds a tree. Records may arrive in any order; siblings are
// ordered by Position. No notifications are pending on the result.
func FromRecords(records []Record) (*Tree, error) {
	t := New()
	byParent := make(map[int64][]Record)
	for _, r := range records {
		if r.ID <= 0 {
			return nil, fmt.Errorf("record %q has invalid id %d", r.Name, r.ID)
		}
		id := section.Identity(r.ID)
		if _, dup := t.nodes[id]; dup {
			return nil, fmt.Errorf("duplicate node id %d", r.ID)
		}
		t.nodes[id] = &node{id: id, name: r.Name, tag: r.Tag, parent: section.Identity(r.Parent)}
		byParent[r.Parent] = append(byParent[r.Parent], r)
		if id >= t.nextID {
			t.nextID = id + 1
		}
	}
	for parent, kids := range byParent {
		if parent != 0 {
			if _, ok := t.nodes[section.Identity(parent)]; !ok {
				return nil, fmt.Errorf("node %d has unknown parent %d", kids[0].ID, parent)
			}
		}
		sort.SliceStable(kids, func(i, j int) bool { return kids[i].Position < kids[j].Position })
		list := t.siblings(section.Identity(parent))
		for _, k := range kids {
			*list = append(*list, section.Identity(k.ID))
		}
	}
	// Every node must hang off the root; a parent cycle leaves nodes unreachable.
	if reached := len(t.Flatten()); reached != len(t.nodes) {
		return nil, fmt.Errorf("%d nodes are not reachable from the root", len(t.nodes)-reached)
	}
	return t, nil
}
