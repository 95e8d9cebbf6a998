package auditlog

import "time"

// EventKind identifies the type of audit event.
type EventKind string

// String returns the string representation of the EventKind.
func (k EventKind) String() string {
	return string(k)
}

// Registry events.
const (
	EventMarkerRegistered EventKind = "marker_registered"
	EventMarkerPruned     EventKind = "marker_pruned"
	EventMarkerRenamed    EventKind = "marker_renamed"
	EventMarkerReparented EventKind = "marker_reparented"
	EventOrderRecomputed  EventKind = "order_recomputed"
	EventRegistryRebuilt  EventKind = "registry_rebuilt"
)

// Navigation events.
const (
	EventMarkerPinned   EventKind = "marker_pinned"
	EventMarkerUnpinned EventKind = "marker_unpinned"
	EventSelectionMoved EventKind = "selection_moved"
)

// Destructive operations.
const (
	EventMarkersCleared EventKind = "markers_cleared"
	EventDeclined       EventKind = "declined"
	EventError          EventKind = "error"
)

// Event is a single audit log entry.
type Event struct {
	ID        int64
	Kind      EventKind
	Timestamp time.Time
	Document  string
	NodeID    int64
	Title     string
	Ordinal   int
	Message   string
	Detail    string // JSON-encoded extra data
	Level     string // info, warn, error
}
