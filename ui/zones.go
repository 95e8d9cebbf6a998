package ui

import "fmt"

// Zone ID constants for bubblezone hit detection.
// These are used both in render paths (zone.Mark) and input paths (zone.Get().InBounds).
const (
	ZoneOutline = "zone-outline"
	ZoneRename  = "zone-rename"
	ZoneConfirm = "zone-confirm"
)

// OutlineRowZoneID returns the zone ID for a visible outline row by its
// position in the flattened tree.
func OutlineRowZoneID(idx int) string {
	return fmt.Sprintf("zone-outline-row-%d", idx)
}
