// Package outline is an in-memory ordered tree of named nodes. It implements
// section.Host: mutations are recorded as pending notifications which Flush
// delivers to subscribers once the mutating call has returned.
package outline

import (
	"slices"

	"github.com/kastheco/hisect/log"
	"github.com/kastheco/hisect/section"
)

// maxFlushRounds bounds how often Flush re-delivers when subscribers mutate the
// tree from inside a callback.
const maxFlushRounds = 8

type node struct {
	id       section.Identity
	name     string
	tag      string
	parent   section.Identity
	children []section.Identity
}

type subscriber struct {
	onChange    func()
	onSelection func()
}

// Tree is an ordered forest. The zero value is not usable; call New.
type Tree struct {
	nodes     map[section.Identity]*node
	roots     []section.Identity
	nextID    section.Identity
	selection []section.Identity

	changed    bool
	selChanged bool
	subs       []subscriber
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{
		nodes:  make(map[section.Identity]*node),
		nextID: 1,
	}
}

// Subscribe registers notification callbacks. Either may be nil.
func (t *Tree) Subscribe(onChange, onSelection func()) {
	t.subs = append(t.subs, subscriber{onChange: onChange, onSelection: onSelection})
}

// Pending reports whether a change or selection notification is queued.
func (t *Tree) Pending() bool {
	return t.changed || t.selChanged
}

// Flush delivers queued notifications, change before selection, until nothing
// is pending or the round limit is hit. It returns the number of rounds run.
func (t *Tree) Flush() int {
	rounds := 0
	for t.Pending() {
		if rounds == maxFlushRounds {
			log.WarningLog.Printf("outline: notifications still pending after %d rounds", rounds)
			break
		}
		rounds++
		if t.changed {
			t.changed = false
			for _, s := range t.subs {
				if s.onChange != nil {
					s.onChange()
				}
			}
		}
		if t.selChanged {
			t.selChanged = false
			for _, s := range t.subs {
				if s.onSelection != nil {
					s.onSelection()
				}
			}
		}
	}
	return rounds
}

// Len is the total number of live nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

func (t *Tree) RootCount() int {
	return len(t.roots)
}

func (t *Tree) RootItems() []section.Identity {
	return slices.Clone(t.roots)
}

func (t *Tree) Resolve(id section.Identity) bool {
	_, ok := t.nodes[id]
	return ok
}

func (t *Tree) DisplayName(id section.Identity) string {
	if n, ok := t.nodes[id]; ok {
		return n.name
	}
	return ""
}

func (t *Tree) SetDisplayName(id section.Identity, name string) {
	n, ok := t.nodes[id]
	if !ok || n.name == name {
		return
	}
	n.name = name
	t.changed = true
}

// Tag returns the node's tag, empty when untagged.
func (t *Tree) Tag(id section.Identity) string {
	if n, ok := t.nodes[id]; ok {
		return n.tag
	}
	return ""
}

func (t *Tree) SetTag(id section.Identity, tag string) {
	n, ok := t.nodes[id]
	if !ok || n.tag == tag {
		return
	}
	n.tag = tag
	t.changed = true
}

// Children returns the ordered child identities of id. NoIdentity lists roots.
func (t *Tree) Children(id section.Identity) []section.Identity {
	if id == section.NoIdentity {
		return t.RootItems()
	}
	if n, ok := t.nodes[id]; ok {
		return slices.Clone(n.children)
	}
	return nil
}

func (t *Tree) Parent(id section.Identity) section.Identity {
	if n, ok := t.nodes[id]; ok {
		return n.parent
	}
	return section.NoIdentity
}

// siblings returns a pointer to the list holding children of parent.
func (t *Tree) siblings(parent section.Identity) *[]section.Identity {
	if parent == section.NoIdentity {
		return &t.roots
	}
	return &t.nodes[parent].children
}

// SiblingIndex is id's position among its siblings, or -1 for dead handles.
func (t *Tree) SiblingIndex(id section.Identity) int {
	n, ok := t.nodes[id]
	if !ok {
		return -1
	}
	return slices.Index(*t.siblings(n.parent), id)
}

// SetSiblingIndex removes id from its sibling list and reinserts it at index,
// clamped to the list bounds.
func (t *Tree) SetSiblingIndex(id section.Identity, index int) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	list := t.siblings(n.parent)
	from := slices.Index(*list, id)
	*list = slices.Delete(*list, from, from+1)
	index = max(0, min(index, len(*list)))
	*list = slices.Insert(*list, index, id)
	if index != from {
		t.changed = true
	}
}

// SetParent moves id to the end of parent's children. Moving a node under
// itself or one of its descendants is ignored.
func (t *Tree) SetParent(id, parent section.Identity) {
	n, ok := t.nodes[id]
	if !ok || n.parent == parent {
		return
	}
	if parent != section.NoIdentity {
		if _, ok := t.nodes[parent]; !ok || t.isDescendant(parent, id) {
			return
		}
	}
	t.detach(n)
	n.parent = parent
	list := t.siblings(parent)
	*list = append(*list, id)
	t.changed = true
}

// isDescendant reports whether id sits in the subtree rooted at ancestor,
// ancestor included.
func (t *Tree) isDescendant(id, ancestor section.Identity) bool {
	for id != section.NoIdentity {
		if id == ancestor {
			return true
		}
		id = t.nodes[id].parent
	}
	return false
}

func (t *Tree) detach(n *node) {
	list := t.siblings(n.parent)
	if i := slices.Index(*list, n.id); i >= 0 {
		*list = slices.Delete(*list, i, i+1)
	}
}

// CreateNode appends a new root node.
func (t *Tree) CreateNode(name string) section.Identity {
	return t.Insert(section.NoIdentity, -1, name)
}

// Insert adds a node under parent at index; a negative index appends.
func (t *Tree) Insert(parent section.Identity, index int, name string) section.Identity {
	if parent != section.NoIdentity && !t.Resolve(parent) {
		parent = section.NoIdentity
	}
	id := t.nextID
	t.nextID++
	t.nodes[id] = &node{id: id, name: name, parent: parent}
	list := t.siblings(parent)
	if index < 0 || index > len(*list) {
		index = len(*list)
	}
	*list = slices.Insert(*list, index, id)
	t.changed = true
	return id
}

// DeleteNode removes id and its subtree and drops them from the selection.
func (t *Tree) DeleteNode(id section.Identity) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	t.detach(n)
	t.drop(n)
	t.changed = true

	live := t.selection[:0]
	for _, s := range t.selection {
		if t.Resolve(s) {
			live = append(live, s)
		}
	}
	if len(live) != len(t.selection) {
		t.selChanged = true
	}
	t.selection = live
}

func (t *Tree) drop(n *node) {
	for _, c := range n.children {
		t.drop(t.nodes[c])
	}
	delete(t.nodes, n.id)
}

// Duplicate copies id and its subtree right after id and selects the copy.
func (t *Tree) Duplicate(id section.Identity) section.Identity {
	n, ok := t.nodes[id]
	if !ok {
		return section.NoIdentity
	}
	cp := t.copySubtree(n, n.parent, t.SiblingIndex(id)+1)
	t.SetActiveSelection([]section.Identity{cp})
	return cp
}

func (t *Tree) copySubtree(n *node, parent section.Identity, index int) section.Identity {
	cp := t.Insert(parent, index, n.name)
	t.nodes[cp].tag = n.tag
	for _, c := range n.children {
		t.copySubtree(t.nodes[c], cp, -1)
	}
	return cp
}

// Indent makes id the last child of its previous sibling.
func (t *Tree) Indent(id section.Identity) bool {
	idx := t.SiblingIndex(id)
	if idx <= 0 {
		return false
	}
	prev := (*t.siblings(t.nodes[id].parent))[idx-1]
	t.SetParent(id, prev)
	return true
}

// Outdent moves id out of its parent, right after the parent.
func (t *Tree) Outdent(id section.Identity) bool {
	n, ok := t.nodes[id]
	if !ok || n.parent == section.NoIdentity {
		return false
	}
	parent := n.parent
	at := t.SiblingIndex(parent) + 1
	t.SetParent(id, t.nodes[parent].parent)
	t.SetSiblingIndex(id, at)
	return true
}

// ActiveSelection returns the selected live nodes in selection order.
func (t *Tree) ActiveSelection() []section.Identity {
	return slices.Clone(t.selection)
}

func (t *Tree) SetActiveSelection(ids []section.Identity) {
	next := make([]section.Identity, 0, len(ids))
	for _, id := range ids {
		if t.Resolve(id) && !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	if slices.Equal(next, t.selection) {
		return
	}
	t.selection = next
	t.selChanged = true
}

// ToggleSelected adds id to the selection or removes it.
func (t *Tree) ToggleSelected(id section.Identity) {
	if i := slices.Index(t.selection, id); i >= 0 {
		t.SetActiveSelection(slices.Delete(slices.Clone(t.selection), i, i+1))
		return
	}
	t.SetActiveSelection(append(slices.Clone(t.selection), id))
}

// Row is one visible line of the flattened tree.
type Row struct {
	ID    section.Identity
	Depth int
}

// Flatten lists every node in display order.
func (t *Tree) Flatten() []Row {
	rows := make([]Row, 0, len(t.nodes))
	var walk func(ids []section.Identity, depth int)
	walk = func(ids []section.Identity, depth int) {
		for _, id := range ids {
			rows = append(rows, Row{ID: id, Depth: depth})
			walk(t.nodes[id].children, depth+1)
		}
	}
	walk(t.roots, 0)
	return rows
}
