package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kastheco/hisect/config"
	"github.com/kastheco/hisect/config/auditlog"
	"github.com/kastheco/hisect/outline"
	"github.com/kastheco/hisect/outline/treestore"
	"github.com/kastheco/hisect/section"
)

// setupTestDeps creates in-memory stores holding one document "doc" whose
// root items carry the given names.
func setupTestDeps(t *testing.T, names ...string) Deps {
	t.Helper()
	store, err := treestore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	audit, err := auditlog.NewSQLiteLogger(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { audit.Close() })

	tree := outline.New()
	for _, n := range names {
		tree.CreateNode(n)
	}
	tree.Flush()
	require.NoError(t, treestore.SaveTree(store, "doc", tree))
	return Deps{Store: store, Audit: audit, Config: config.DefaultConfig()}
}

func storedNames(t *testing.T, deps Deps) []string {
	t.Helper()
	tree, err := treestore.LoadTree(deps.Store, "doc")
	require.NoError(t, err)
	var out []string
	for _, id := range tree.RootItems() {
		out = append(out, tree.DisplayName(id))
	}
	return out
}

func yes(string) bool { return true }
func no(string) bool  { return false }

func TestMarkersList(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		want  string
	}{
		{name: "empty", nodes: []string{"A"}, want: "no markers\n"},
		{
			name:  "ordinal order",
			nodes: []string{"--- Intro ---", "A", "---Body"},
			want:  "  1  #1     Intro\n  2  #3     Body\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := setupTestDeps(t, tt.nodes...)
			out, err := executeMarkersList(deps, "doc")
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestMarkersListDefaultsToFirstDocument(t *testing.T) {
	deps := setupTestDeps(t, "--- Intro ---")
	out, err := executeMarkersList(deps, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Intro")

	_, err = executeMarkersList(deps, "missing")
	assert.ErrorIs(t, err, treestore.ErrNotFound)
}

func TestMarkersCreate(t *testing.T) {
	tests := []struct {
		name  string
		after string
		title string
		want  []string
	}{
		{name: "at the end", want: []string{"A", "B", "--- Section ---"}},
		{name: "after a node", after: "A", title: "Part one", want: []string{"A", "--- Part one ---", "B"}},
		{name: "after an id", after: "#2", title: "--Tail", want: []string{"A", "B", "--- Tail ---"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := setupTestDeps(t, "A", "B")
			m, err := executeMarkersCreate(deps, "doc", tt.after, tt.title)
			require.NoError(t, err)
			assert.Equal(t, 0, m.Ordinal)
			assert.Equal(t, tt.want, storedNames(t, deps))
		})
	}

	t.Run("unknown anchor", func(t *testing.T) {
		deps := setupTestDeps(t, "A")
		_, err := executeMarkersCreate(deps, "doc", "nope", "")
		assert.Error(t, err)
		assert.Equal(t, []string{"A"}, storedNames(t, deps))
	})
}

func TestMarkersStep(t *testing.T) {
	deps := setupTestDeps(t, "--- One ---", "A", "--- Two ---", "--- Three ---")

	tests := []struct {
		name  string
		from  string
		delta int
		want  string
	}{
		{name: "first without start", delta: 1, want: "One"},
		{name: "last without start", delta: -1, want: "Three"},
		{name: "next", from: "One", delta: 1, want: "Two"},
		{name: "next wraps", from: "Three", delta: 1, want: "One"},
		{name: "prev wraps", from: "One", delta: -1, want: "Three"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := executeMarkersStep(deps, "doc", tt.from, tt.delta)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Title)
		})
	}

	_, err := executeMarkersStep(deps, "doc", "A", 1)
	assert.Error(t, err, "plain nodes are not a starting point")

	empty := setupTestDeps(t, "A")
	_, err = executeMarkersStep(empty, "doc", "", 1)
	assert.Error(t, err)
}

func TestMarkersRenumber(t *testing.T) {
	deps := setupTestDeps(t, "--- One ---", "--- Two ---")
	reordered, err := executeMarkersRenumber(deps, "doc")
	require.NoError(t, err)
	assert.False(t, reordered)
}

func TestMarkersRebuild(t *testing.T) {
	deps := setupTestDeps(t, "---Intro", "A")

	_, _, err := executeMarkersRebuild(deps, "doc", no)
	assert.ErrorIs(t, err, section.ErrDeclined)

	_, n, err := executeMarkersRebuild(deps, "doc", yes)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"--- Intro ---", "A"}, storedNames(t, deps))

	events, err := deps.Audit.Query(auditlog.QueryFilter{Document: "doc", Kinds: []auditlog.EventKind{auditlog.EventDeclined}})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestMarkersClear(t *testing.T) {
	t.Run("declined keeps everything", func(t *testing.T) {
		deps := setupTestDeps(t, "--- One ---", "A")
		_, err := executeMarkersClear(deps, "doc", no)
		assert.ErrorIs(t, err, section.ErrDeclined)
		assert.Equal(t, []string{"--- One ---", "A"}, storedNames(t, deps))
	})

	t.Run("confirmed", func(t *testing.T) {
		deps := setupTestDeps(t, "--- One ---", "A", "--- Two ---")
		n, err := executeMarkersClear(deps, "doc", yes)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []string{"A"}, storedNames(t, deps))
	})

	t.Run("nothing to clear asks nothing", func(t *testing.T) {
		deps := setupTestDeps(t, "A")
		n, err := executeMarkersClear(deps, "doc", nil)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}

func TestMarkersMove(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		upper bool
		want  []string
	}{
		{name: "below", nodes: []string{"A"}, want: []string{"--- One ---", "B", "--- Two ---", "A"}},
		{name: "above", nodes: []string{"A"}, upper: true, want: []string{"--- One ---", "B", "A", "--- Two ---"}},
		{name: "several keep their order", nodes: []string{"A", "B"}, want: []string{"--- One ---", "--- Two ---", "A", "B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := setupTestDeps(t, "--- One ---", "A", "B", "--- Two ---")
			require.NoError(t, executeMarkersMove(deps, "doc", "Two", tt.nodes, tt.upper))
			assert.Equal(t, tt.want, storedNames(t, deps))
		})
	}

	t.Run("markers are not moved", func(t *testing.T) {
		deps := setupTestDeps(t, "--- One ---", "--- Two ---")
		assert.Error(t, executeMarkersMove(deps, "doc", "Two", []string{"One"}, false))
	})

	t.Run("target must be a marker", func(t *testing.T) {
		deps := setupTestDeps(t, "A", "B")
		assert.Error(t, executeMarkersMove(deps, "doc", "A", []string{"B"}, false))
	})
}

func TestMarkersRename(t *testing.T) {
	deps := setupTestDeps(t, "--- One ---", "A")

	m, err := executeMarkersRename(deps, "doc", "One", "  First ")
	require.NoError(t, err)
	assert.Equal(t, "First", m.Title)
	assert.Equal(t, []string{"--- First ---", "A"}, storedNames(t, deps))

	_, err = executeMarkersRename(deps, "doc", "A", "x")
	assert.Error(t, err)
}

func TestMarkersCmd(t *testing.T) {
	deps := setupTestDeps(t, "--- One ---", "A")
	released := 0
	open := func() (Deps, func(), error) {
		return deps, func() { released++ }, nil
	}

	run := func(args ...string) string {
		t.Helper()
		cmd := NewMarkersCmd(open)
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetErr(&buf)
		cmd.SetArgs(args)
		require.NoError(t, cmd.Execute())
		return buf.String()
	}

	assert.Contains(t, run("list", "-d", "doc"), "One")
	assert.Contains(t, run("create", "--title", "Two"), "created:")
	assert.Contains(t, run("next", "One"), "Two")
	assert.Contains(t, run("rename", "Two", "Second"), "Second")
	assert.Contains(t, run("move", "One", "A", "--upper"), "moved 1 nodes")
	assert.Contains(t, run("renumber"), "order unchanged")
	assert.Contains(t, run("clear", "--yes"), "removed 2 markers")
	assert.Equal(t, []string{"A"}, storedNames(t, deps))
	assert.Equal(t, 7, released)
}
