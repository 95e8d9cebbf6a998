package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kastheco/hisect/outline"
	"github.com/kastheco/hisect/section"
)

func buildTree(t *testing.T, names ...string) *outline.Tree {
	t.Helper()
	tree := outline.New()
	for _, n := range names {
		tree.CreateNode(n)
	}
	tree.Flush()
	return tree
}

func TestAudit_Statuses(t *testing.T) {
	tree := buildTree(t, "--- Intro ---", "A", "---Body", "--- Pinned -*-")
	a := tree.RootItems()[1]
	nested := tree.Insert(a, -1, "--- Inner ---")
	tree.Flush()

	result, err := Audit("doc", tree)
	require.NoError(t, err)

	require.Len(t, result.Markers, 4)
	byName := map[string]MarkerEntry{}
	for _, m := range result.Markers {
		byName[m.Name] = m
	}

	assert.Equal(t, StatusOK, byName["--- Intro ---"].Status)
	assert.Equal(t, 0, byName["--- Intro ---"].Ordinal)

	assert.Equal(t, StatusNonCanonical, byName["---Body"].Status)
	assert.Equal(t, "--- Body ---", byName["---Body"].Detail)
	assert.Equal(t, 1, byName["---Body"].Ordinal)

	assert.Equal(t, StatusStalePin, byName["--- Pinned -*-"].Status)
	assert.Equal(t, "--- Pinned ---", byName["--- Pinned -*-"].Detail)

	inner := byName["--- Inner ---"]
	assert.Equal(t, StatusNested, inner.Status)
	assert.Equal(t, nested, inner.ID)
	assert.Equal(t, -1, inner.Ordinal)
	assert.Contains(t, inner.Detail, `"A"`)

	assert.True(t, result.DenseOrdinals)
	assert.Equal(t, 5, result.Nodes)
}

func TestAudit_DoesNotModifyTree(t *testing.T) {
	tree := buildTree(t, "---Body", "A")
	before := tree.Records()

	_, err := Audit("doc", tree)
	require.NoError(t, err)

	assert.Equal(t, before, tree.Records())
	assert.False(t, tree.Pending())
}

func TestAudit_Summary(t *testing.T) {
	tests := []struct {
		name      string
		names     []string
		wantOK    int
		wantTotal int
	}{
		{name: "no markers", names: []string{"A"}, wantOK: 1, wantTotal: 1},
		{name: "all canonical", names: []string{"--- A ---", "x", "--- B ---"}, wantOK: 3, wantTotal: 3},
		{name: "one broken", names: []string{"--- A ---", "-- B ---"}, wantOK: 2, wantTotal: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Audit("doc", buildTree(t, tt.names...))
			require.NoError(t, err)
			ok, total := result.Summary()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.wantOK == tt.wantTotal, result.Healthy())
		})
	}
}

func TestCheckOrdinals(t *testing.T) {
	tree := buildTree(t, "--- A ---", "--- B ---")
	reg := section.NewRegistry()
	section.NewReconciler(tree, reg, false, nil).Rebuild()

	ok, _ := checkOrdinals(tree, reg)
	assert.True(t, ok)

	// Swap the nodes without renumbering.
	tree.SetSiblingIndex(tree.RootItems()[1], 0)
	ok, detail := checkOrdinals(tree, reg)
	assert.False(t, ok)
	assert.Contains(t, detail, "sibling order")

	m, _ := reg.ByOrdinal(1)
	m.Ordinal = 5
	ok, detail = checkOrdinals(tree, reg)
	assert.False(t, ok)
	assert.Contains(t, detail, "not dense")
}

func TestFix(t *testing.T) {
	tree := buildTree(t, "---Intro", "A", "--- Pinned -*-")
	a := tree.RootItems()[1]
	tree.Insert(a, -1, "--- Inner ---")
	tree.Flush()

	report, moved := Fix(tree)

	assert.Equal(t, 1, moved)
	assert.Len(t, report.Registered, 3)
	assert.Empty(t, tree.Children(a))

	result, err := Audit("doc", tree)
	require.NoError(t, err)
	assert.True(t, result.Healthy())
	assert.Equal(t, "--- Inner ---", tree.DisplayName(tree.RootItems()[3]))
}
