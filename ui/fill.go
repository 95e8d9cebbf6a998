package ui

import (
	"strings"
)

// FillHeight pads s with blank lines up to height so bubbletea's alt-screen
// renderer doesn't leave stale content below the rendered view.
func FillHeight(s string, height int) string {
	if height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
