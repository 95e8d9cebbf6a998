package app

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/kastheco/hisect/config"
	"github.com/kastheco/hisect/keys"
	"github.com/kastheco/hisect/log"
	"github.com/kastheco/hisect/section"
	"github.com/kastheco/hisect/ui"
	"github.com/kastheco/hisect/ui/overlay"
)

func (m *home) handleMenuHighlighting(msg tea.KeyMsg) (cmd tea.Cmd, returnEarly bool) {
	// Handle menu highlighting when you press a button. We intercept it here and immediately return to
	// update the ui while re-sending the keypress. Then, on the next call to this, we actually handle the keypress.
	if m.keySent {
		m.keySent = false
		return nil, false
	}
	if m.state != stateDefault {
		return nil, false
	}
	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return nil, false
	}
	// Cursor movement repeats fast; highlighting it only adds latency.
	if name == keys.KeyUp || name == keys.KeyDown {
		return nil, false
	}
	m.keySent = true
	return tea.Batch(
		func() tea.Msg { return msg },
		m.keydownCallback(name)), true
}

// handleMouse processes mouse events for click and scroll interactions.
func (m *home) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	switch m.state {
	case stateRename:
		if msg.Button == tea.MouseButtonLeft && !zone.Get(ui.ZoneRename).InBounds(msg) {
			// A click outside the editor commits what was typed.
			m.commitRename(section.ClickOutside)
		}
		return m, nil
	case stateDefault:
	default:
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.outlinePanel.CursorUp()
		return m, nil
	case tea.MouseButtonWheelDown:
		m.outlinePanel.CursorDown()
		return m, nil
	case tea.MouseButtonLeft:
	default:
		return m, nil
	}

	for i, row := range m.outlinePanel.Rows() {
		if !zone.Get(ui.OutlineRowZoneID(i)).InBounds(msg) {
			continue
		}
		m.outlinePanel.SetCursorIndex(i)
		if msg.Ctrl {
			m.tree.ToggleSelected(row.ID)
		} else {
			m.tree.SetActiveSelection([]section.Identity{row.ID})
		}
		return m, nil
	}
	return m, nil
}

func (m *home) handleKeyPress(msg tea.KeyMsg) (mod tea.Model, cmd tea.Cmd) {
	cmd, returnEarly := m.handleMenuHighlighting(msg)
	if returnEarly {
		return m, cmd
	}

	if msg.Type == tea.KeyCtrlC {
		return m.handleQuit()
	}

	switch m.state {
	case stateRename:
		return m.handleRenameState(msg)
	case stateConfirm:
		return m.handleConfirmState(msg)
	case stateNewDocument:
		return m.handleNewDocumentState(msg)
	case stateHelp:
		m.state = stateDefault
		return m, nil
	}

	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return m, nil
	}

	switch name {
	case keys.KeyQuit:
		return m.handleQuit()
	case keys.KeyHelp:
		m.state = stateHelp
		return m, nil
	case keys.KeyUp:
		m.outlinePanel.CursorUp()
	case keys.KeyDown:
		m.outlinePanel.CursorDown()
	case keys.KeyEnter:
		if id := m.outlinePanel.CursorID(); id != section.NoIdentity {
			m.tree.SetActiveSelection([]section.Identity{id})
		}
	case keys.KeySpace:
		if id := m.outlinePanel.CursorID(); id != section.NoIdentity {
			m.tree.ToggleSelected(id)
		}
	case keys.KeyTab:
		return m, m.cycleDocument()
	case keys.KeyNewDocument:
		m.formOverlay = overlay.NewFormOverlay("new document", 60)
		m.state = stateNewDocument
	case keys.KeySave:
		if err := m.saveDocument(); err != nil {
			return m, m.handleError(err)
		}
		return m, m.notify(fmt.Sprintf("saved %s", m.document))
	case keys.KeyToggleEvents:
		m.auditPane.ToggleVisible()
		m.updateHandleWindowSizeEvent(tea.WindowSizeMsg{Width: m.termWidth, Height: m.termHeight})

	case keys.KeyCreateMarker:
		m.selectCursorIfEmpty()
		m.session.CreateMarkerAtSelection()
		m.followSelection()
	case keys.KeyNextMarker:
		if m.session.SelectNextMarker() {
			m.followSelection()
		}
	case keys.KeyPrevMarker:
		if m.session.SelectPreviousMarker() {
			m.followSelection()
		}
	case keys.KeyPin:
		m.session.PinToggle()
	case keys.KeyMoveToMarker:
		m.session.MoveSelectionToMarker()
	case keys.KeyMoveToMarkerUpper:
		m.session.MoveSelectionToMarkerUpper()
	case keys.KeyMoveUp:
		m.selectCursorIfEmpty()
		m.session.MoveSelectionUp()
		m.followSelection()
	case keys.KeyMoveDown:
		m.selectCursorIfEmpty()
		m.session.MoveSelectionDown()
		m.followSelection()
	case keys.KeyRefreshOrder:
		report := m.session.RefreshOrder()
		if report.Reordered {
			return m, m.notify("markers renumbered")
		}
	case keys.KeyRefreshRegistry:
		return m, m.confirmAction(section.RefreshPrompt, func(ok bool) tea.Cmd {
			report, err := m.session.RefreshRegistry(answer(ok))
			if errors.Is(err, section.ErrDeclined) {
				return m.notify("rescan declined")
			}
			return m.notify(fmt.Sprintf("rescanned: %d markers, %d renamed", m.session.Registry().Len(), len(report.Renamed)))
		})
	case keys.KeyClearMarkers:
		n := m.session.Registry().Len()
		if n == 0 {
			return m, m.notify("no markers to remove")
		}
		return m, m.confirmAction(fmt.Sprintf(section.ClearPrompt, n), func(ok bool) tea.Cmd {
			removed, err := m.session.RemoveAllMarkers(answer(ok))
			if errors.Is(err, section.ErrDeclined) {
				return m.notify("clear declined")
			}
			return m.notify(fmt.Sprintf("removed %d markers", removed))
		})
	case keys.KeyRename:
		m.selectCursorIfEmpty()
		id, ok := m.session.BeginRename()
		if !ok {
			return m, m.notify("select a single marker to rename")
		}
		m.textInputOverlay = overlay.NewTextInputOverlay("rename marker", m.tree.DisplayName(id))
		m.textInputOverlay.SetSize(int(float32(m.termWidth)*0.6), 0)
		m.menu.SetState(ui.StateRename)
		m.state = stateRename

	case keys.KeyNewNode:
		m.insertNode()
	case keys.KeyDuplicate:
		if id := m.outlinePanel.CursorID(); id != section.NoIdentity {
			m.tree.Duplicate(id)
			m.followSelection()
		}
	case keys.KeyIndent:
		m.tree.Indent(m.outlinePanel.CursorID())
	case keys.KeyOutdent:
		m.tree.Outdent(m.outlinePanel.CursorID())
	case keys.KeyDeleteNode:
		m.tree.DeleteNode(m.outlinePanel.CursorID())
	case keys.KeyResetColors:
		m.appConfig.ResetColors()
		m.session.SetColors(m.appConfig.Colors)
		if err := config.SaveConfig(m.appConfig); err != nil {
			return m, m.handleError(err)
		}
		return m, m.notify("colors reset to defaults")
	}
	return m, nil
}

// handleRenameState feeds keys to the rename editor.
func (m *home) handleRenameState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.textInputOverlay == nil || !m.textInputOverlay.HandleKeyPress(msg) {
		return m, nil
	}
	if m.textInputOverlay.IsSubmitted() {
		m.commitRename(section.RenameConfirm)
	} else {
		m.session.CancelRename()
		m.closeOverlay()
	}
	return m, nil
}

// commitRename writes the edited raw name; the change notification that
// follows canonicalizes it.
func (m *home) commitRename(ev section.Event) {
	if id, ok := m.session.Navigator().Renaming(); ok && m.textInputOverlay != nil {
		m.tree.SetDisplayName(id, m.textInputOverlay.GetValue())
	}
	if ev == section.RenameConfirm {
		m.session.ConfirmRename()
	} else {
		m.session.EndRename(ev)
	}
	m.closeOverlay()
}

func (m *home) handleConfirmState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmOverlay == nil || !m.confirmOverlay.HandleKeyPress(msg) {
		return m, nil
	}
	ok := m.confirmOverlay.Confirmed()
	action := m.pendingConfirm
	m.pendingConfirm = nil
	m.closeOverlay()
	if action == nil {
		return m, nil
	}
	return m, action(ok)
}

func (m *home) handleNewDocumentState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.formOverlay == nil || !m.formOverlay.HandleKeyPress(msg) {
		return m, nil
	}
	form := m.formOverlay
	m.closeOverlay()
	if !form.IsSubmitted() {
		return m, nil
	}
	if err := m.createDocument(form.Name(), form.ImportPath()); err != nil {
		return m, m.handleError(err)
	}
	return m, m.notify(fmt.Sprintf("opened %s", m.document))
}

func (m *home) closeOverlay() {
	m.state = stateDefault
	m.textInputOverlay = nil
	m.confirmOverlay = nil
	m.formOverlay = nil
	m.menu.SetState(ui.StateEmpty)
}

// selectCursorIfEmpty makes the cursor row the selection when nothing is
// selected, so commands that act on the selection work from the keyboard.
func (m *home) selectCursorIfEmpty() {
	if len(m.tree.ActiveSelection()) > 0 {
		return
	}
	if id := m.outlinePanel.CursorID(); id != section.NoIdentity {
		m.tree.SetActiveSelection([]section.Identity{id})
	}
}

// followSelection moves the cursor onto the first selected node.
func (m *home) followSelection() {
	sel := m.tree.ActiveSelection()
	if len(sel) == 0 {
		return
	}
	m.outlinePanel.Refresh()
	m.outlinePanel.SetCursorTo(sel[0])
}

// insertNode adds a plain node after the cursor row, under the same parent.
func (m *home) insertNode() {
	cur := m.outlinePanel.CursorID()
	if cur == section.NoIdentity {
		m.tree.CreateNode("New Node")
	} else {
		m.tree.Insert(m.tree.Parent(cur), m.tree.SiblingIndex(cur)+1, "New Node")
	}
}

func answer(ok bool) section.Confirmer {
	return func(string) bool { return ok }
}

func (m *home) handleError(err error) tea.Cmd {
	log.ErrorLog.Printf("%v", err)
	m.toastManager.Error(err.Error())
	return m.toastTickCmd()
}

func (m *home) notify(msg string) tea.Cmd {
	m.toastManager.Info(msg)
	return m.toastTickCmd()
}

// confirmAction shows a confirmation modal and stores the action to run with
// the answer.
func (m *home) confirmAction(message string, action func(ok bool) tea.Cmd) tea.Cmd {
	if m.appConfig.AutoYes {
		return action(true)
	}
	m.state = stateConfirm
	m.pendingConfirm = action
	m.confirmOverlay = overlay.NewConfirmOverlay(message, 60)
	m.menu.SetState(ui.StateConfirm)
	return nil
}

// keydownCallback clears the menu option highlighting after 500ms.
func (m *home) keydownCallback(name keys.KeyName) tea.Cmd {
	m.menu.Keydown(name)
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
		case <-time.After(500 * time.Millisecond):
		}
		return keyupMsg{}
	}
}
