package section

import "github.com/kastheco/hisect/config"

// RowInfo describes the row being painted.
type RowInfo struct {
	// SoleActive is true when this row is the only selected item.
	SoleActive bool
	Width      int
}

// RowStyle is what the presentation layer needs to paint a marker row.
type RowStyle struct {
	Label      string
	Ordinal    int
	Foreground string
	Background string

	Highlighted bool
	Current     bool
	Pinned      bool
	// Suppressed rows are being renamed; the host's editor owns the row.
	Suppressed bool
}

// RenderRow returns the style for id, or false when id is not a marker.
// It never mutates session state.
func (s *Session) RenderRow(id Identity, info RowInfo) (RowStyle, bool) {
	m, ok := s.reg.Get(id)
	if !ok {
		return RowStyle{}, false
	}
	if renaming, ok := s.nav.Renaming(); ok && renaming == id {
		return RowStyle{Label: m.Title, Ordinal: m.Ordinal, Suppressed: true}, true
	}
	cur, _ := s.nav.Current()
	style := RowStyle{
		Label:      m.Title,
		Ordinal:    m.Ordinal,
		Current:    cur == id,
		Pinned:     s.nav.IsPinned(id),
		Foreground: s.colors.Foreground,
		Background: s.colors.Background,
	}
	if info.SoleActive || m.Selected {
		style.Highlighted = true
		style.Foreground = s.colors.HighlightForeground
		style.Background = s.colors.HighlightBackground
	}
	return style, true
}

func defaultColors() config.Colors {
	return config.DefaultColors()
}
