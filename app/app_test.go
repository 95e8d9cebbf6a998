package app

import (
	"context"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kastheco/hisect/config"
	"github.com/kastheco/hisect/config/auditlog"
	"github.com/kastheco/hisect/log"
	"github.com/kastheco/hisect/outline"
	"github.com/kastheco/hisect/outline/treestore"
	"github.com/kastheco/hisect/section"
)

// TestMain runs before all tests to set up the test environment
func TestMain(m *testing.M) {
	// Initialize the logger before any tests run
	log.Initialize(false)
	defer log.Close()
	zone.NewGlobal()

	exitCode := m.Run()
	os.Exit(exitCode)
}

type testEnv struct {
	h     *home
	store *treestore.SQLiteStore
	audit *auditlog.SQLiteLogger
}

// newTestHome stores one document per entry of docs and opens the first.
// Each document is a list of root item names.
func newTestHome(t *testing.T, cfg *config.Config, docs map[string][]string, open string) *testEnv {
	t.Helper()
	store, err := treestore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	audit, err := auditlog.NewSQLiteLogger(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { audit.Close() })

	for name, items := range docs {
		tree := outline.New()
		for _, item := range items {
			tree.CreateNode(item)
		}
		tree.Flush()
		require.NoError(t, treestore.SaveTree(store, name, tree))
	}

	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	h, err := newHome(context.Background(), Options{Config: cfg, Store: store, Audit: audit, Document: open})
	require.NoError(t, err)
	h.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return &testEnv{h: h, store: store, audit: audit}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends keys one by one, skipping the menu highlight round trip.
func press(h *home, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		h.keySent = true
		_, cmd = h.Update(keyMsg(k))
	}
	return cmd
}

func rootNames(h *home) []string {
	var out []string
	for _, id := range h.tree.RootItems() {
		out = append(out, h.tree.DisplayName(id))
	}
	return out
}

func TestNewHomeOpensFirstStoredDocument(t *testing.T) {
	env := newTestHome(t, nil, map[string][]string{
		"beta":  {"B"},
		"alpha": {"--- Intro ---", "A"},
	}, "")

	assert.Equal(t, "alpha", env.h.document)
	assert.Equal(t, 1, env.h.session.Registry().Len())
	assert.False(t, env.h.dirty)
}

func TestNewHomeStartsUnknownDocumentEmpty(t *testing.T) {
	env := newTestHome(t, nil, nil, "fresh")

	assert.Equal(t, "fresh", env.h.document)
	assert.Equal(t, 0, env.h.tree.Len())
	assert.Contains(t, env.h.View(), "empty outline")
}

func TestCreateMarkerAfterCursorRow(t *testing.T) {
	env := newTestHome(t, nil, map[string][]string{"doc": {"A", "B", "C"}}, "doc")
	h := env.h

	press(h, "n")

	assert.Equal(t, []string{"A", "--- Section ---", "B", "C"}, rootNames(h))
	assert.Equal(t, 1, h.session.Registry().Len())
	assert.Equal(t, 1, h.outlinePanel.CursorIndex(), "cursor follows the new marker")
	assert.True(t, h.dirty)

	cur, ok := h.session.Current()
	require.True(t, ok)
	assert.Equal(t, "Section", cur.Title)
	assert.Equal(t, "Section", h.computeStatusBarData().Current)
}

func TestNavigateAndPin(t *testing.T) {
	env := newTestHome(t, nil, map[string][]string{
		"doc": {"--- Intro ---", "A", "--- Body ---", "B"},
	}, "doc")
	h := env.h

	press(h, "]")
	cur, ok := h.session.Current()
	require.True(t, ok)
	assert.Equal(t, "Intro", cur.Title)

	press(h, "]")
	cur, _ = h.session.Current()
	assert.Equal(t, "Body", cur.Title)
	assert.Equal(t, 2, h.outlinePanel.CursorIndex())

	press(h, "p")
	assert.Equal(t, "--- Body -*-", h.tree.DisplayName(cur.ID))
	assert.True(t, h.computeStatusBarData().Pinned)

	// Stepping past the pin keeps it.
	press(h, "[")
	assert.True(t, h.session.Navigator().IsPinned(cur.ID))

	press(h, "]", "p")
	assert.Equal(t, "--- Body ---", h.tree.DisplayName(cur.ID))
	assert.False(t, h.computeStatusBarData().Pinned)
}

func TestMoveSelectionToMarker(t *testing.T) {
	env := newTestHome(t, nil, map[string][]string{
		"doc": {"--- Intro ---", "A", "B", "--- Body ---"},
	}, "doc")
	h := env.h

	press(h, "]", "]") // current is Body
	// Select B with the cursor and move it below Body.
	press(h, "up", "enter", "m")

	assert.Equal(t, []string{"--- Intro ---", "A", "--- Body ---", "B"}, rootNames(h))
}

func TestMoveRootItemsUpAndDown(t *testing.T) {
	env := newTestHome(t, nil, map[string][]string{"doc": {"A", "B", "C"}}, "doc")
	h := env.h

	press(h, "J")
	assert.Equal(t, []string{"B", "A", "C"}, rootNames(h))
	assert.Equal(t, 1, h.outlinePanel.CursorIndex())

	press(h, "K", "K")
	assert.Equal(t, []string{"A", "B", "C"}, rootNames(h))
}

func TestRenameMarker(t *testing.T) {
	tests := []struct {
		name  string
		keys  []string
		want  string
		state state
	}{
		{name: "submit canonicalizes", keys: []string{"ctrl+u", "Body", "enter"}, want: "--- Body ---"},
		{name: "decorated input is kept canonical", keys: []string{"ctrl+u", "--Body---", "enter"}, want: "--- Body ---"},
		{name: "escape keeps the old name", keys: []string{"ctrl+u", "Body", "esc"}, want: "--- Intro ---"},
		{name: "blank input does not submit", keys: []string{"ctrl+u", "enter"}, want: "--- Intro ---", state: stateRename},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestHome(t, nil, map[string][]string{"doc": {"--- Intro ---", "A"}}, "doc")
			h := env.h

			press(h, "r")
			require.Equal(t, stateRename, h.state)
			require.NotNil(t, h.textInputOverlay)
			assert.Equal(t, "--- Intro ---", h.textInputOverlay.GetValue())
			_, renaming := h.session.Navigator().Renaming()
			assert.True(t, renaming)

			press(h, tt.keys...)

			id := h.tree.RootItems()[0]
			if tt.state == stateRename {
				assert.Equal(t, stateRename, h.state)
				return
			}
			assert.Equal(t, tt.want, h.tree.DisplayName(id))
			assert.Equal(t, stateDefault, h.state)
			_, renaming = h.session.Navigator().Renaming()
			assert.False(t, renaming)
		})
	}
}

func TestRenameRequiresSingleMarker(t *testing.T) {
	env := newTestHome(t, nil, map[string][]string{"doc": {"A", "--- Intro ---"}}, "doc")
	h := env.h

	press(h, "r")

	assert.Equal(t, stateDefault, h.state)
	assert.Nil(t, h.textInputOverlay)
	assert.True(t, h.toastManager.HasActiveToasts())
}

func TestClickOutsideCommitsRename(t *testing.T) {
	env := newTestHome(t, nil, map[string][]string{"doc": {"--- Intro ---"}}, "doc")
	h := env.h

	press(h, "r", "ctrl+u", "Body")
	h.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	assert.Equal(t, stateDefault, h.state)
	assert.Equal(t, "--- Body ---", h.tree.DisplayName(h.tree.RootItems()[0]))
}

func TestRefreshRegistryConfirmation(t *testing.T) {
	env := newTestHome(t, nil, map[string][]string{"doc": {"--- Intro ---", "A"}}, "doc")
	h := env.h
	a := h.tree.RootItems()[1]
	// A rename of an unselected node is only picked up by a rescan.
	h.tree.SetDisplayName(a, "---Later")

	press(h, "R")
	require.Equal(t, stateConfirm, h.state)
	assert.Equal(t, section.RefreshPrompt, h.confirmOverlay.Prompt())

	press(h, "n")
	assert.Equal(t, stateDefault, h.state)
	declined, err := env.audit.Query(auditlog.QueryFilter{Document: "doc", Kinds: []auditlog.EventKind{auditlog.EventDeclined}})
	require.NoError(t, err)
	assert.Len(t, declined, 1)

	press(h, "R", "y")
	assert.Equal(t, 2, h.session.Registry().Len())
	assert.Equal(t, "--- Later ---", h.tree.DisplayName(a))
}

func TestClearMarkers(t *testing.T) {
	docs := map[string][]string{"doc": {"--- Intro ---", "A", "--- Body ---"}}

	t.Run("declined", func(t *testing.T) {
		env := newTestHome(t, nil, docs, "doc")
		press(env.h, "X")
		require.Equal(t, stateConfirm, env.h.state)
		assert.Contains(t, env.h.confirmOverlay.Prompt(), "2 markers")

		press(env.h, "esc")
		assert.Equal(t, 2, env.h.session.Registry().Len())
		assert.Len(t, env.h.tree.RootItems(), 3)
	})

	t.Run("confirmed", func(t *testing.T) {
		env := newTestHome(t, nil, docs, "doc")
		press(env.h, "X", "y")
		assert.Equal(t, 0, env.h.session.Registry().Len())
		assert.Equal(t, []string{"A"}, rootNames(env.h))
	})

	t.Run("auto yes skips the prompt", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.AutoYes = true
		env := newTestHome(t, cfg, docs, "doc")
		press(env.h, "X")
		assert.Equal(t, stateDefault, env.h.state)
		assert.Equal(t, []string{"A"}, rootNames(env.h))
	})

	t.Run("nothing to clear", func(t *testing.T) {
		env := newTestHome(t, nil, map[string][]string{"doc": {"A"}}, "doc")
		press(env.h, "X")
		assert.Equal(t, stateDefault, env.h.state)
		assert.True(t, env.h.toastManager.HasActiveToasts())
	})
}

func TestDeletingMarkerPrunesIt(t *testing.T) {
	env := newTestHome(t, nil, map[string][]string{"doc": {"--- Intro ---", "A", "--- Body ---"}}, "doc")
	h := env.h

	press(h, "x")

	assert.Equal(t, 1, h.session.Registry().Len())
	m, ok := h.session.Registry().ByOrdinal(0)
	require.True(t, ok)
	assert.Equal(t, "Body", m.Title)
}

func TestOutlineEditing(t *testing.T) {
	env := newTestHome(t, nil, map[string][]string{"doc": {"A", "B"}}, "doc")
	h := env.h

	press(h, "a")
	assert.Equal(t, []string{"A", "New Node", "B"}, rootNames(h))

	press(h, "down", "down", ">")
	n := h.tree.RootItems()[1]
	assert.Equal(t, "New Node", h.tree.DisplayName(n))
	assert.Len(t, h.tree.Children(n), 1)
	assert.Equal(t, 2, h.outlinePanel.CursorIndex())

	press(h, "<")
	assert.Len(t, h.tree.RootItems(), 3)

	press(h, "d")
	assert.Len(t, h.tree.RootItems(), 4)
}

func TestSelectionKeys(t *testing.T) {
	env := newTestHome(t, nil, map[string][]string{"doc": {"A", "B", "C"}}, "doc")
	h := env.h
	ids := h.tree.RootItems()

	press(h, "enter", "down", "space")
	assert.Equal(t, []section.Identity{ids[0], ids[1]}, h.tree.ActiveSelection())

	press(h, "space")
	assert.Equal(t, []section.Identity{ids[0]}, h.tree.ActiveSelection())

	press(h, "down", "enter")
	assert.Equal(t, []section.Identity{ids[2]}, h.tree.ActiveSelection())
}

func TestHelpScreen(t *testing.T) {
	env := newTestHome(t, nil, map[string][]string{"doc": {"A"}}, "doc")
	h := env.h

	press(h, "?")
	assert.Equal(t, stateHelp, h.state)
	assert.Contains(t, h.View(), "markers:")

	press(h, "j")
	assert.Equal(t, stateDefault, h.state)
	assert.Equal(t, 0, h.outlinePanel.CursorIndex(), "the closing key is not handled")
}

func TestConfigChangeSwapsSettings(t *testing.T) {
	env := newTestHome(t, nil, map[string][]string{"doc": {"--- Intro ---"}}, "doc")
	h := env.h

	cfg := config.DefaultConfig()
	cfg.AutoYes = true
	cfg.Colors.Background = "#112233"
	h.Update(configChangedMsg{config: cfg})

	assert.Same(t, cfg, h.appConfig)
	style, ok := h.session.RenderRow(h.tree.RootItems()[0], section.RowInfo{Width: 40})
	require.True(t, ok)
	assert.Equal(t, "#112233", style.Background)
}

func TestEventPane(t *testing.T) {
	env := newTestHome(t, nil, map[string][]string{"doc": {"A"}}, "doc")
	h := env.h

	press(h, "n")
	assert.Contains(t, h.View(), "events")
	events := h.recentEvents()
	require.NotEmpty(t, events)
	assert.Equal(t, string(auditlog.EventMarkerRegistered), events[0].Kind)

	press(h, "e")
	assert.False(t, h.auditPane.Visible())
	assert.NotContains(t, h.View(), "── events ──")
}

func TestViewInEveryState(t *testing.T) {
	env := newTestHome(t, nil, map[string][]string{"doc": {"--- Intro ---", "A"}}, "doc")
	h := env.h

	for _, keys := range [][]string{{}, {"r"}, {"esc", "X"}, {"esc", "N"}, {"esc", "?"}} {
		press(h, keys...)
		view := h.View()
		assert.Contains(t, view, "hisect")
	}
}

func TestQuitSaves(t *testing.T) {
	env := newTestHome(t, nil, map[string][]string{"doc": {"A"}}, "doc")
	h := env.h

	press(h, "n")
	require.True(t, h.dirty)
	cmd := press(h, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	tree, err := treestore.LoadTree(env.store, "doc")
	require.NoError(t, err)
	assert.Equal(t, 2, tree.RootCount())
}
