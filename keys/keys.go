package keys

import (
	"github.com/charmbracelet/bubbles/key"
)

type KeyName int

const (
	KeyUp KeyName = iota
	KeyDown
	KeyEnter
	KeyQuit
	KeyHelp

	KeySpace // Space toggles the cursor row in the multi-selection.
	KeyTab   // Tab cycles through stored documents.

	KeySubmitName // SubmitName is a special keybinding for submitting a marker rename.
	KeyCancel     // Cancel is a special keybinding for leaving an overlay.

	// Marker commands
	KeyCreateMarker
	KeyNextMarker
	KeyPrevMarker
	KeyPin
	KeyMoveToMarker
	KeyMoveToMarkerUpper
	KeyMoveUp
	KeyMoveDown
	KeyRefreshOrder
	KeyRefreshRegistry
	KeyClearMarkers
	KeyRename

	// Outline editing
	KeyNewNode
	KeyDuplicate
	KeyIndent
	KeyOutdent
	KeyDeleteNode
	KeySave
	KeyResetColors
	KeyNewDocument
	KeyToggleEvents
)

// GlobalKeyStringsMap is a global, immutable map string to keybinding.
var GlobalKeyStringsMap = map[string]KeyName{
	"up":         KeyUp,
	"k":          KeyUp,
	"down":       KeyDown,
	"j":          KeyDown,
	"enter":      KeyEnter,
	"q":          KeyQuit,
	"?":          KeyHelp,
	" ":          KeySpace,
	"tab":        KeyTab,
	"n":          KeyCreateMarker,
	"]":          KeyNextMarker,
	"[":          KeyPrevMarker,
	"p":          KeyPin,
	"m":          KeyMoveToMarker,
	"M":          KeyMoveToMarkerUpper,
	"K":          KeyMoveUp,
	"shift+up":   KeyMoveUp,
	"J":          KeyMoveDown,
	"shift+down": KeyMoveDown,
	"o":          KeyRefreshOrder,
	"R":          KeyRefreshRegistry,
	"X":          KeyClearMarkers,
	"r":          KeyRename,
	"a":          KeyNewNode,
	"d":          KeyDuplicate,
	">":          KeyIndent,
	"<":          KeyOutdent,
	"x":          KeyDeleteNode,
	"ctrl+s":     KeySave,
	"C":          KeyResetColors,
	"N":          KeyNewDocument,
	"e":          KeyToggleEvents,
}

// GlobalkeyBindings is a global, immutable map of KeyName to keybinding.
var GlobalkeyBindings = map[KeyName]key.Binding{
	KeyUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	KeyDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	KeyEnter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("↵", "select"),
	),
	KeyQuit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	KeyHelp: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	KeySpace: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle"),
	),
	KeyTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next document"),
	),
	KeyCreateMarker: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new marker"),
	),
	KeyNextMarker: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next marker"),
	),
	KeyPrevMarker: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "prev marker"),
	),
	KeyPin: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pin"),
	),
	KeyMoveToMarker: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "move to marker"),
	),
	KeyMoveToMarkerUpper: key.NewBinding(
		key.WithKeys("M"),
		key.WithHelp("M", "move above marker"),
	),
	KeyMoveUp: key.NewBinding(
		key.WithKeys("K", "shift+up"),
		key.WithHelp("K", "move up"),
	),
	KeyMoveDown: key.NewBinding(
		key.WithKeys("J", "shift+down"),
		key.WithHelp("J", "move down"),
	),
	KeyRefreshOrder: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "renumber"),
	),
	KeyRefreshRegistry: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "rescan"),
	),
	KeyClearMarkers: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "clear markers"),
	),
	KeyRename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	KeyNewNode: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add node"),
	),
	KeyDuplicate: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "duplicate"),
	),
	KeyIndent: key.NewBinding(
		key.WithKeys(">"),
		key.WithHelp(">", "indent"),
	),
	KeyOutdent: key.NewBinding(
		key.WithKeys("<"),
		key.WithHelp("<", "outdent"),
	),
	KeyDeleteNode: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "delete"),
	),
	KeySave: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	KeyResetColors: key.NewBinding(
		key.WithKeys("C"),
		key.WithHelp("C", "default colors"),
	),
	KeyNewDocument: key.NewBinding(
		key.WithKeys("N"),
		key.WithHelp("N", "new document"),
	),
	KeyToggleEvents: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "events"),
	),

	// -- Special keybindings --

	KeySubmitName: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit name"),
	),
	KeyCancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}
