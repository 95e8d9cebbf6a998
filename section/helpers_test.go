package section_test

import (
	"testing"

	"github.com/kastheco/hisect/outline"
	"github.com/kastheco/hisect/section"
	"github.com/stretchr/testify/require"
)

// newDoc builds a tree from names, opens a session on it and wires the tree's
// notifications to the session.
func newDoc(t *testing.T, names []string, opts ...section.Option) (*outline.Tree, *section.Session, []section.Identity) {
	t.Helper()
	tree := outline.New()
	ids := make([]section.Identity, 0, len(names))
	for _, n := range names {
		ids = append(ids, tree.CreateNode(n))
	}
	tree.Flush()

	s := section.NewSession(tree, opts...)
	tree.Subscribe(func() { s.OnTreeChanged() }, s.OnSelectionChanged)
	tree.Flush()
	return tree, s, ids
}

func ordinal(t *testing.T, s *section.Session, id section.Identity) int {
	t.Helper()
	m, ok := s.Registry().Get(id)
	require.True(t, ok, "identity %d is not registered", id)
	return m.Ordinal
}

func rootNames(tree *outline.Tree) []string {
	var out []string
	for _, id := range tree.RootItems() {
		out = append(out, tree.DisplayName(id))
	}
	return out
}

func denseOrdinals(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func selectAndFlush(tree *outline.Tree, ids ...section.Identity) {
	tree.SetActiveSelection(ids)
	tree.Flush()
}

func always(string) bool { return true }
func never(string) bool  { return false }
