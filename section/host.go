// Package section keeps an index of section markers consistent with an outline
// tree it can only observe through coarse change notifications.
//
// A marker is a root-level node whose display name carries the "---" delimiter.
// The name is the durable source of truth; everything held here is a cache that
// Rebuild can recreate from the tree at any time.
package section

// Identity is a host-assigned handle to a tree node. It stays stable across
// renames and moves and stops resolving once the node is deleted.
type Identity int64

// NoIdentity is the zero handle. Used as "no parent" (the tree root) and
// "no marker".
const NoIdentity Identity = 0

// EditorOnlyTag is applied to newly registered markers when auto-tagging is on.
const EditorOnlyTag = "EditorOnly"

// Host is the tree/view the markers live in. Node references and identities are
// the same value; Resolve reports whether a handle still points at a live node.
//
// Host implementations are expected to raise their change notification after
// mutations and deliver it outside the call that caused it.
type Host interface {
	RootCount() int
	RootItems() []Identity

	DisplayName(id Identity) string
	SetDisplayName(id Identity, name string)

	SiblingIndex(id Identity) int
	SetSiblingIndex(id Identity, index int)

	// Parent returns NoIdentity for root-level nodes.
	Parent(id Identity) Identity
	SetParent(id Identity, parent Identity)

	Resolve(id Identity) bool

	ActiveSelection() []Identity
	SetActiveSelection(ids []Identity)

	CreateNode(name string) Identity
	DeleteNode(id Identity)
	SetTag(id Identity, tag string)
}
