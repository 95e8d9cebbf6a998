package section

import "fmt"

// Mode is the edit mode of the navigator.
type Mode string

const (
	ModeIdle     Mode = "idle"
	ModeRenaming Mode = "renaming"
)

// Event triggers a mode transition.
type Event string

const (
	RenameStart    Event = "rename_start"
	RenameConfirm  Event = "rename_confirm"
	RenameCancel   Event = "rename_cancel"
	ClickOutside   Event = "click_outside"
	DocumentSwitch Event = "document_switch"
)

// transitionTable defines all valid mode transitions.
// Key: current mode → event → new mode.
var transitionTable = map[Mode]map[Event]Mode{
	ModeIdle: {
		RenameStart:    ModeRenaming,
		DocumentSwitch: ModeIdle,
	},
	ModeRenaming: {
		RenameConfirm:  ModeIdle,
		RenameCancel:   ModeIdle,
		ClickOutside:   ModeIdle,
		DocumentSwitch: ModeIdle,
	},
}

// ApplyTransition returns the new mode for the given current mode and event.
// Returns an error if the transition is not valid.
func ApplyTransition(current Mode, event Event) (Mode, error) {
	events, ok := transitionTable[current]
	if !ok {
		return "", fmt.Errorf("no transitions defined for mode %q", current)
	}
	next, ok := events[event]
	if !ok {
		return "", fmt.Errorf("invalid transition: %q + %q", current, event)
	}
	return next, nil
}

// Navigator tracks the current, pinned and renaming markers and moves the host
// selection between markers. Every operation that finds nothing to act on is a
// no-op and returns false.
type Navigator struct {
	host Host
	reg  *Registry

	cursor   Identity
	pinned   Identity
	renaming Identity
	mode     Mode
}

// NewNavigator returns an idle navigator.
func NewNavigator(host Host, reg *Registry) *Navigator {
	return &Navigator{host: host, reg: reg, mode: ModeIdle}
}

// Current is the pinned marker if any, else the last navigated-to marker.
func (n *Navigator) Current() (Identity, bool) {
	if n.pinned != NoIdentity {
		return n.pinned, true
	}
	if n.cursor != NoIdentity {
		return n.cursor, true
	}
	return NoIdentity, false
}

// Pinned returns the pinned marker.
func (n *Navigator) Pinned() (Identity, bool) {
	return n.pinned, n.pinned != NoIdentity
}

// IsPinned reports whether id is the pinned marker.
func (n *Navigator) IsPinned(id Identity) bool {
	return id != NoIdentity && id == n.pinned
}

// Mode returns the edit mode.
func (n *Navigator) Mode() Mode {
	return n.mode
}

// Renaming returns the marker being renamed.
func (n *Navigator) Renaming() (Identity, bool) {
	return n.renaming, n.mode == ModeRenaming && n.renaming != NoIdentity
}

// SetCurrent moves the cursor to a registered marker.
func (n *Navigator) SetCurrent(id Identity) bool {
	if !n.reg.Contains(id) {
		return false
	}
	n.cursor = id
	return true
}

// SelectNext selects the marker after the current one, wrapping around.
func (n *Navigator) SelectNext() bool {
	return n.step(1)
}

// SelectPrevious selects the marker before the current one, wrapping around.
func (n *Navigator) SelectPrevious() bool {
	return n.step(-1)
}

func (n *Navigator) step(delta int) bool {
	count := n.reg.Len()
	if count == 0 {
		return false
	}

	// Stepping follows the cursor, so a pinned marker stays the move target
	// while the selection walks through the other markers.
	var target int
	cur := n.cursor
	hasCur := cur != NoIdentity
	m, registered := n.reg.Get(cur)
	switch {
	case !hasCur:
		// Nothing remembered yet: land on the first or last marker.
		target = 0
		if delta < 0 {
			target = n.reg.MaxOrdinal()
		}
	case !registered:
		anchor := 0
		if delta < 0 {
			anchor = n.reg.MaxOrdinal()
		}
		target = mod(anchor+delta, count)
	default:
		target = mod(m.Ordinal+delta, count)
	}

	next, ok := n.reg.ByOrdinal(target)
	if !ok || !n.host.Resolve(next.ID) {
		return false
	}
	n.host.SetActiveSelection([]Identity{next.ID})
	n.cursor = next.ID
	return true
}

// PinTarget resolves the marker a pin toggle would act on: the first active
// selection, else the current marker.
func (n *Navigator) PinTarget() (Identity, bool) {
	if sel := n.host.ActiveSelection(); len(sel) > 0 {
		return sel[0], n.reg.Contains(sel[0])
	}
	cur, ok := n.Current()
	if !ok {
		return NoIdentity, false
	}
	return cur, n.reg.Contains(cur)
}

// PinToggle pins the target marker, or unpins it when it is already pinned.
// It returns the previously pinned identity so callers can refresh names.
func (n *Navigator) PinToggle() (prev Identity, changed bool) {
	target, ok := n.PinTarget()
	if !ok {
		return NoIdentity, false
	}
	prev = n.pinned
	if n.pinned == target {
		n.pinned = NoIdentity
		n.cursor = target
		return prev, true
	}
	n.pinned = target
	n.cursor = target
	return prev, true
}

// Unpin clears the pin.
func (n *Navigator) Unpin() (Identity, bool) {
	prev := n.pinned
	n.pinned = NoIdentity
	return prev, prev != NoIdentity
}

// BeginRename enters rename mode when exactly one marker is selected.
func (n *Navigator) BeginRename() bool {
	sel := n.host.ActiveSelection()
	if len(sel) != 1 || !n.reg.Contains(sel[0]) {
		return false
	}
	next, err := ApplyTransition(n.mode, RenameStart)
	if err != nil {
		return false
	}
	n.mode = next
	n.renaming = sel[0]
	return true
}

// EndRename leaves rename mode on confirm, cancel or a click outside the editor.
func (n *Navigator) EndRename(ev Event) bool {
	next, err := ApplyTransition(n.mode, ev)
	if err != nil {
		return false
	}
	n.mode = next
	n.renaming = NoIdentity
	return true
}

// Revalidate drops references to markers that are no longer registered.
func (n *Navigator) Revalidate() {
	if n.pinned != NoIdentity && !n.reg.Contains(n.pinned) {
		n.pinned = NoIdentity
	}
	if n.renaming != NoIdentity && !n.reg.Contains(n.renaming) {
		n.renaming = NoIdentity
		n.mode = ModeIdle
	}
	// The cursor is kept: step re-anchors from a stale cursor.
}

// Reset clears all navigation state.
func (n *Navigator) Reset() {
	n.mode, _ = ApplyTransition(n.mode, DocumentSwitch)
	n.cursor = NoIdentity
	n.pinned = NoIdentity
	n.renaming = NoIdentity
}

// MoveTarget returns the marker that moved selections are placed next to.
func (n *Navigator) MoveTarget() (Identity, bool) {
	cur, ok := n.Current()
	if !ok || !n.reg.Contains(cur) || !n.host.Resolve(cur) {
		return NoIdentity, false
	}
	return cur, true
}

// MoveSelectionToMarker places the selected nodes right after the target marker.
func (n *Navigator) MoveSelectionToMarker() bool {
	return n.moveSelection(false)
}

// MoveSelectionToMarkerUpper places the selected nodes right before the target
// marker.
func (n *Navigator) MoveSelectionToMarkerUpper() bool {
	return n.moveSelection(true)
}

func (n *Navigator) moveSelection(upper bool) bool {
	target, ok := n.MoveTarget()
	if !ok {
		return false
	}
	var sel []Identity
	for _, id := range n.host.ActiveSelection() {
		if n.reg.Contains(id) {
			return false
		}
		if n.host.Resolve(id) {
			sel = append(sel, id)
		}
	}
	if len(sel) == 0 {
		return false
	}

	anchor := target
	for _, id := range sel {
		if n.host.Parent(id) != NoIdentity {
			n.host.SetParent(id, NoIdentity)
		}
		at := n.host.SiblingIndex(anchor)
		from := n.host.SiblingIndex(id)
		if upper {
			if from < at {
				at--
			}
			n.host.SetSiblingIndex(id, at)
			continue
		}
		if from > at {
			at++
		}
		n.host.SetSiblingIndex(id, at)
		anchor = id
	}
	return true
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
