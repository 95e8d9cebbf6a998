package section_test

import (
	"testing"

	"github.com/kastheco/hisect/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    section.Mode
		event   section.Event
		want    section.Mode
		wantErr bool
	}{
		{name: "start rename", from: section.ModeIdle, event: section.RenameStart, want: section.ModeRenaming},
		{name: "confirm", from: section.ModeRenaming, event: section.RenameConfirm, want: section.ModeIdle},
		{name: "cancel", from: section.ModeRenaming, event: section.RenameCancel, want: section.ModeIdle},
		{name: "click outside", from: section.ModeRenaming, event: section.ClickOutside, want: section.ModeIdle},
		{name: "switch while renaming", from: section.ModeRenaming, event: section.DocumentSwitch, want: section.ModeIdle},
		{name: "switch while idle", from: section.ModeIdle, event: section.DocumentSwitch, want: section.ModeIdle},
		{name: "confirm while idle", from: section.ModeIdle, event: section.RenameConfirm, wantErr: true},
		{name: "start twice", from: section.ModeRenaming, event: section.RenameStart, wantErr: true},
		{name: "unknown mode", from: section.Mode("bogus"), event: section.RenameStart, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := section.ApplyTransition(tt.from, tt.event)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func threeMarkers(t *testing.T) (*section.Session, []section.Identity) {
	t.Helper()
	_, s, ids := newDoc(t, []string{"--- M0 ---", "a", "--- M1 ---", "b", "--- M2 ---"})
	return s, []section.Identity{ids[0], ids[2], ids[4]}
}

func TestSelectNextWraps(t *testing.T) {
	tree, s, ids := newDoc(t, []string{"--- M0 ---", "a", "--- M1 ---", "b", "--- M2 ---"})
	markers := []section.Identity{ids[0], ids[2], ids[4]}

	var visited []section.Identity
	for i := 0; i < 4; i++ {
		require.True(t, s.SelectNextMarker())
		tree.Flush()
		cur, ok := s.Current()
		require.True(t, ok)
		visited = append(visited, cur.ID)
		assert.Equal(t, []section.Identity{cur.ID}, tree.ActiveSelection())
	}
	assert.Equal(t, []section.Identity{markers[0], markers[1], markers[2], markers[0]}, visited)
}

func TestSelectPreviousWraps(t *testing.T) {
	s, markers := threeMarkers(t)

	// With no current marker, previous lands on the last one.
	require.True(t, s.SelectPreviousMarker())
	cur, _ := s.Current()
	assert.Equal(t, markers[2], cur.ID)

	s.Navigator().SetCurrent(markers[0])
	require.True(t, s.SelectPreviousMarker())
	cur, _ = s.Current()
	assert.Equal(t, 2, cur.Ordinal)
}

func TestSelectOnEmptyRegistry(t *testing.T) {
	tree, s, _ := newDoc(t, []string{"a", "b"})

	assert.False(t, s.SelectNextMarker())
	assert.False(t, s.SelectPreviousMarker())
	assert.Empty(t, tree.ActiveSelection())
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestSelectReanchorsFromStaleCurrent(t *testing.T) {
	tree, s, ids := newDoc(t, []string{"--- M0 ---", "--- M1 ---", "--- M2 ---", "--- M3 ---"})

	s.Navigator().SetCurrent(ids[1])
	tree.DeleteNode(ids[1])
	tree.Flush()
	require.Equal(t, 3, s.Registry().Len())

	// Next re-anchors at ordinal 0 and steps to ordinal 1.
	require.True(t, s.SelectNextMarker())
	cur, _ := s.Current()
	assert.Equal(t, ids[2], cur.ID)

	s.Navigator().SetCurrent(ids[3])
	tree.DeleteNode(ids[3])
	tree.Flush()

	// Previous re-anchors at the max ordinal (1) and steps to ordinal 0.
	require.True(t, s.SelectPreviousMarker())
	cur, _ = s.Current()
	assert.Equal(t, ids[0], cur.ID)
}

func TestPinToggle(t *testing.T) {
	t.Run("pins the selected marker and renames it", func(t *testing.T) {
		tree, s, ids := newDoc(t, []string{"--- A ---", "--- B ---"})
		selectAndFlush(tree, ids[1])

		require.True(t, s.PinToggle())
		tree.Flush()

		pinned, ok := s.Navigator().Pinned()
		require.True(t, ok)
		assert.Equal(t, ids[1], pinned)
		cur, _ := s.Current()
		assert.Equal(t, ids[1], cur.ID, "pinned implies current")
		assert.Equal(t, "--- B -*-", tree.DisplayName(ids[1]))
		assert.Equal(t, "B", cur.Title)
	})

	t.Run("toggling the pinned marker unpins it", func(t *testing.T) {
		tree, s, ids := newDoc(t, []string{"--- A ---"})
		selectAndFlush(tree, ids[0])
		require.True(t, s.PinToggle())
		require.True(t, s.PinToggle())
		tree.Flush()

		_, ok := s.Navigator().Pinned()
		assert.False(t, ok)
		assert.Equal(t, "--- A ---", tree.DisplayName(ids[0]))
		cur, ok := s.Current()
		require.True(t, ok)
		assert.Equal(t, ids[0], cur.ID)
	})

	t.Run("pinning another marker moves the pin", func(t *testing.T) {
		tree, s, ids := newDoc(t, []string{"--- A ---", "--- B ---"})
		selectAndFlush(tree, ids[0])
		require.True(t, s.PinToggle())
		selectAndFlush(tree, ids[1])
		require.True(t, s.PinToggle())
		tree.Flush()

		assert.Equal(t, "--- A ---", tree.DisplayName(ids[0]))
		assert.Equal(t, "--- B -*-", tree.DisplayName(ids[1]))
	})

	t.Run("pin requires a registered marker", func(t *testing.T) {
		tree, s, ids := newDoc(t, []string{"--- A ---", "Lamp"})
		selectAndFlush(tree, ids[0])
		require.True(t, s.PinToggle())

		selectAndFlush(tree, ids[1])
		assert.False(t, s.PinToggle())

		pinned, _ := s.Navigator().Pinned()
		assert.Equal(t, ids[0], pinned)
	})

	t.Run("without a selection the current marker is pinned", func(t *testing.T) {
		tree, s, ids := newDoc(t, []string{"--- A ---", "--- B ---"})
		s.Navigator().SetCurrent(ids[1])
		require.Empty(t, tree.ActiveSelection())

		require.True(t, s.PinToggle())
		pinned, _ := s.Navigator().Pinned()
		assert.Equal(t, ids[1], pinned)
	})

	t.Run("nothing to pin", func(t *testing.T) {
		_, s, _ := newDoc(t, []string{"--- A ---"})
		assert.False(t, s.PinToggle())
	})

	t.Run("deleting the pinned marker clears the pin", func(t *testing.T) {
		tree, s, ids := newDoc(t, []string{"--- A ---", "--- B ---"})
		selectAndFlush(tree, ids[0])
		require.True(t, s.PinToggle())

		tree.DeleteNode(ids[0])
		tree.Flush()

		_, ok := s.Navigator().Pinned()
		assert.False(t, ok)
	})
}

func TestPinnedStaysTargetWhileNavigating(t *testing.T) {
	tree, s, ids := newDoc(t, []string{"--- A ---", "--- B ---", "--- C ---"})
	selectAndFlush(tree, ids[0])
	require.True(t, s.PinToggle())

	require.True(t, s.SelectNextMarker())
	require.True(t, s.SelectNextMarker())
	tree.Flush()

	assert.Equal(t, []section.Identity{ids[2]}, tree.ActiveSelection())
	cur, _ := s.Current()
	assert.Equal(t, ids[0], cur.ID)
}

func TestRenameMode(t *testing.T) {
	t.Run("needs exactly one selected marker", func(t *testing.T) {
		tree, s, ids := newDoc(t, []string{"--- A ---", "--- B ---", "Lamp"})

		_, ok := s.BeginRename()
		assert.False(t, ok, "nothing selected")

		selectAndFlush(tree, ids[0], ids[1])
		_, ok = s.BeginRename()
		assert.False(t, ok, "two selected")

		selectAndFlush(tree, ids[2])
		_, ok = s.BeginRename()
		assert.False(t, ok, "not a marker")

		assert.Equal(t, section.ModeIdle, s.Navigator().Mode())
	})

	t.Run("confirm canonicalizes the edited name", func(t *testing.T) {
		tree, s, ids := newDoc(t, []string{"--- A ---"})
		selectAndFlush(tree, ids[0])

		id, ok := s.BeginRename()
		require.True(t, ok)
		assert.Equal(t, ids[0], id)
		assert.Equal(t, section.ModeRenaming, s.Navigator().Mode())

		_, ok = s.BeginRename()
		assert.False(t, ok, "already renaming")

		tree.SetDisplayName(id, "Lighting")
		require.True(t, s.ConfirmRename())
		tree.Flush()

		assert.Equal(t, section.ModeIdle, s.Navigator().Mode())
		assert.Equal(t, "--- Lighting ---", tree.DisplayName(id))
	})

	t.Run("cancel and click outside leave rename mode", func(t *testing.T) {
		tree, s, ids := newDoc(t, []string{"--- A ---"})
		selectAndFlush(tree, ids[0])

		_, ok := s.BeginRename()
		require.True(t, ok)
		require.True(t, s.CancelRename())
		assert.False(t, s.CancelRename(), "not renaming any more")

		_, ok = s.BeginRename()
		require.True(t, ok)
		require.True(t, s.EndRename(section.ClickOutside))
		_, renaming := s.Navigator().Renaming()
		assert.False(t, renaming)
	})

	t.Run("deleting the renamed marker ends rename mode", func(t *testing.T) {
		tree, s, ids := newDoc(t, []string{"--- A ---", "x"})
		selectAndFlush(tree, ids[0])
		_, ok := s.BeginRename()
		require.True(t, ok)

		tree.DeleteNode(ids[0])
		tree.Flush()

		assert.Equal(t, section.ModeIdle, s.Navigator().Mode())
	})
}

func TestMoveSelectionToMarker(t *testing.T) {
	names := []string{"--- S1 ---", "a", "b", "--- S2 ---", "c"}

	tests := []struct {
		name   string
		target int
		selected []int
		upper  bool
		want   []string
	}{
		{name: "below", target: 0, selected: []int{4}, want: []string{"--- S1 ---", "c", "a", "b", "--- S2 ---"}},
		{name: "below keeps order", target: 3, selected: []int{1, 4}, want: []string{"--- S1 ---", "b", "--- S2 ---", "a", "c"}},
		{name: "above from below", target: 3, selected: []int{4}, upper: true, want: []string{"--- S1 ---", "a", "b", "c", "--- S2 ---"}},
		{name: "above from above", target: 3, selected: []int{1}, upper: true, want: []string{"--- S1 ---", "b", "a", "--- S2 ---", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, s, ids := newDoc(t, names)
			require.True(t, s.Navigator().SetCurrent(ids[tt.target]))
			var sel []section.Identity
			for _, i := range tt.selected {
				sel = append(sel, ids[i])
			}
			selectAndFlush(tree, sel...)

			var moved bool
			if tt.upper {
				moved = s.MoveSelectionToMarkerUpper()
			} else {
				moved = s.MoveSelectionToMarker()
			}
			tree.Flush()

			require.True(t, moved)
			assert.Equal(t, tt.want, rootNames(tree))
			assert.Equal(t, denseOrdinals(2), s.Registry().Ordinals())
		})
	}
}

func TestMoveSelectionToMarkerEdges(t *testing.T) {
	t.Run("no current marker", func(t *testing.T) {
		tree, s, ids := newDoc(t, []string{"--- S ---", "a"})
		selectAndFlush(tree, ids[1])
		assert.False(t, s.MoveSelectionToMarker())
	})

	t.Run("selection contains a marker", func(t *testing.T) {
		tree, s, ids := newDoc(t, []string{"--- S ---", "a", "--- T ---"})
		s.Navigator().SetCurrent(ids[0])
		selectAndFlush(tree, ids[1], ids[2])
		assert.False(t, s.MoveSelectionToMarker())
		assert.Equal(t, []string{"--- S ---", "a", "--- T ---"}, rootNames(tree))
	})

	t.Run("empty selection", func(t *testing.T) {
		_, s, ids := newDoc(t, []string{"--- S ---", "a"})
		s.Navigator().SetCurrent(ids[0])
		assert.False(t, s.MoveSelectionToMarkerUpper())
	})

	t.Run("nested nodes are lifted to the root", func(t *testing.T) {
		tree, s, ids := newDoc(t, []string{"--- S ---", "a", "--- T ---"})
		child := tree.Insert(ids[1], -1, "a1")
		tree.Flush()
		s.Navigator().SetCurrent(ids[2])
		selectAndFlush(tree, child)

		require.True(t, s.MoveSelectionToMarker())
		tree.Flush()

		assert.Equal(t, []string{"--- S ---", "a", "--- T ---", "a1"}, rootNames(tree))
	})

	t.Run("pinned marker wins over the cursor", func(t *testing.T) {
		tree, s, ids := newDoc(t, []string{"--- S ---", "a", "--- T ---", "b"})
		selectAndFlush(tree, ids[2])
		require.True(t, s.PinToggle())
		s.Navigator().SetCurrent(ids[0])
		selectAndFlush(tree, ids[1])

		require.True(t, s.MoveSelectionToMarker())
		tree.Flush()

		assert.Equal(t, []string{"--- S ---", "--- T -*-", "a", "b"}, rootNames(tree))
	})
}
