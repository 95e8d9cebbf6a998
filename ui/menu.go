package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kastheco/hisect/keys"
)

var keyStyle = lipgloss.NewStyle().Foreground(ColorSubtle)

var descStyle = lipgloss.NewStyle().Foreground(ColorMuted)

var sepStyle = lipgloss.NewStyle().Foreground(ColorOverlay)

var actionGroupStyle = lipgloss.NewStyle().Foreground(ColorRose)

var separator = " • "
var verticalSeparator = " │ "

var menuStyle = lipgloss.NewStyle().
	Foreground(ColorFoam)

// MenuState represents different states the menu can be in
type MenuState int

const (
	// StateEmpty is an outline without markers.
	StateEmpty MenuState = iota
	// StateDefault is an outline with at least one marker.
	StateDefault
	// StateRename is shown while a marker is being renamed.
	StateRename
	// StateConfirm is shown while a destructive command waits for an answer.
	StateConfirm
)

// Menu is the one-line key hint rail at the bottom of the screen. Options are
// laid out in three groups: edit, marker actions, system.
type Menu struct {
	options       []keys.KeyName
	height, width int
	state         MenuState

	// keyDown is the key which is pressed. The default is -1.
	keyDown keys.KeyName

	editGroupSize   int
	systemGroupSize int
}

var (
	emptyEditGroup    = []keys.KeyName{keys.KeyNewNode, keys.KeyCreateMarker}
	defaultEditGroup  = []keys.KeyName{keys.KeyCreateMarker, keys.KeyRename}
	emptyActionGroup  = []keys.KeyName{keys.KeySpace, keys.KeyMoveUp, keys.KeyMoveDown}
	markerActionGroup = []keys.KeyName{keys.KeyNextMarker, keys.KeyPrevMarker, keys.KeyPin, keys.KeyMoveToMarker, keys.KeySpace}
	systemGroup       = []keys.KeyName{keys.KeyTab, keys.KeyHelp, keys.KeyQuit}
	renameOptions     = []keys.KeyName{keys.KeySubmitName, keys.KeyCancel}
	confirmOptions    = []keys.KeyName{keys.KeyCancel}
)

func NewMenu() *Menu {
	m := &Menu{keyDown: -1}
	m.SetState(StateEmpty)
	return m
}

func (m *Menu) Keydown(name keys.KeyName) {
	m.keyDown = name
}

func (m *Menu) ClearKeydown() {
	m.keyDown = -1
}

// State returns the current menu state.
func (m *Menu) State() MenuState {
	return m.state
}

// SetState updates the menu state and options accordingly
func (m *Menu) SetState(state MenuState) {
	m.state = state
	m.updateOptions()
}

// SetMarkerCount switches between the empty and default states unless an
// overlay state is active.
func (m *Menu) SetMarkerCount(n int) {
	if m.state == StateRename || m.state == StateConfirm {
		return
	}
	if n > 0 {
		m.SetState(StateDefault)
	} else {
		m.SetState(StateEmpty)
	}
}

func (m *Menu) updateOptions() {
	var edit, action, system []keys.KeyName
	switch m.state {
	case StateEmpty:
		edit, action, system = emptyEditGroup, emptyActionGroup, systemGroup
	case StateDefault:
		edit, action, system = defaultEditGroup, markerActionGroup, systemGroup
	case StateRename:
		edit = renameOptions
	case StateConfirm:
		edit = confirmOptions
	}
	options := make([]keys.KeyName, 0, len(edit)+len(action)+len(system))
	options = append(options, edit...)
	options = append(options, action...)
	options = append(options, system...)
	m.options = options
	m.editGroupSize = len(edit)
	m.systemGroupSize = len(system)
}

// SetSize sets the width of the window. The menu will be centered horizontally within this width.
func (m *Menu) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Menu) String() string {
	var s strings.Builder

	actionEnd := len(m.options) - m.systemGroupSize
	groupEnds := []int{m.editGroupSize, actionEnd, len(m.options)}

	for i, k := range m.options {
		help := keys.GlobalkeyBindings[k].Help()

		var (
			localActionStyle = actionGroupStyle
			localKeyStyle    = keyStyle
			localDescStyle   = descStyle
		)
		if m.keyDown == k {
			localActionStyle = localActionStyle.Underline(true)
			localKeyStyle = localKeyStyle.Underline(true)
			localDescStyle = localDescStyle.Underline(true)
		}

		if i >= m.editGroupSize && i < actionEnd {
			s.WriteString(localActionStyle.Render(help.Key + " " + help.Desc))
		} else {
			s.WriteString(localKeyStyle.Render(help.Key))
			s.WriteString(descStyle.Render(" "))
			s.WriteString(localDescStyle.Render(help.Desc))
		}

		if i == len(m.options)-1 {
			continue
		}
		if isGroupEnd(i, groupEnds) {
			s.WriteString(sepStyle.Render(verticalSeparator))
		} else {
			s.WriteString(sepStyle.Render(separator))
		}
	}

	centeredMenuText := menuStyle.Render(s.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, centeredMenuText)
}

func isGroupEnd(i int, ends []int) bool {
	for _, end := range ends {
		if i == end-1 {
			return true
		}
	}
	return false
}
