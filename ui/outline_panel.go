package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/kastheco/hisect/outline"
	"github.com/kastheco/hisect/section"
)

var (
	outlineTitleStyle = lipgloss.NewStyle().Foreground(ColorIris).Bold(true)
	outlineEmptyStyle = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	nodeStyle         = lipgloss.NewStyle().Foreground(ColorText)
	selectedNodeStyle = lipgloss.NewStyle().Foreground(ColorFoam).Bold(true)
	taggedNodeStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	cursorStyle       = lipgloss.NewStyle().Foreground(ColorIris).Bold(true)
	renamingStyle     = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	pinGlyphStyle     = lipgloss.NewStyle().Foreground(ColorGold)
)

const (
	cursorGlyph   = "›"
	selectedGlyph = "●"
	pinGlyph      = "⚑"
	indentWidth   = 2
)

// OutlinePanel renders the outline tree with marker rows painted by the
// section session. It owns the cursor and scroll offset; the tree owns the
// selection.
type OutlinePanel struct {
	tree    *outline.Tree
	session *section.Session

	rows   []outline.Row
	cursor int
	offset int

	title         string
	width, height int
}

// NewOutlinePanel returns an empty panel. Call SetSource before rendering.
func NewOutlinePanel() *OutlinePanel {
	return &OutlinePanel{}
}

// SetSource points the panel at a document and resets the cursor.
func (p *OutlinePanel) SetSource(title string, tree *outline.Tree, session *section.Session) {
	p.title = title
	p.tree = tree
	p.session = session
	p.cursor = 0
	p.offset = 0
	p.Refresh()
}

// SetSize sets the panel dimensions including the title line.
func (p *OutlinePanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.clamp()
}

// Refresh re-reads the flattened tree. Call it after every tree mutation.
func (p *OutlinePanel) Refresh() {
	if p.tree == nil {
		p.rows = nil
		return
	}
	prev := p.CursorID()
	p.rows = p.tree.Flatten()
	if prev != section.NoIdentity && !p.SetCursorTo(prev) {
		// The cursor node is gone; stay on the same line.
		p.clamp()
	}
}

// Rows returns the visible rows in display order.
func (p *OutlinePanel) Rows() []outline.Row {
	return p.rows
}

// CursorID returns the node under the cursor, or NoIdentity on an empty tree.
func (p *OutlinePanel) CursorID() section.Identity {
	if p.cursor < 0 || p.cursor >= len(p.rows) {
		return section.NoIdentity
	}
	return p.rows[p.cursor].ID
}

// CursorIndex returns the cursor's row index.
func (p *OutlinePanel) CursorIndex() int {
	return p.cursor
}

// CursorUp moves the cursor one row up.
func (p *OutlinePanel) CursorUp() {
	if p.cursor > 0 {
		p.cursor--
	}
	p.clamp()
}

// CursorDown moves the cursor one row down.
func (p *OutlinePanel) CursorDown() {
	if p.cursor < len(p.rows)-1 {
		p.cursor++
	}
	p.clamp()
}

// SetCursorTo moves the cursor onto id. It returns false when id is not shown.
func (p *OutlinePanel) SetCursorTo(id section.Identity) bool {
	i := slices.IndexFunc(p.rows, func(r outline.Row) bool { return r.ID == id })
	if i < 0 {
		return false
	}
	p.cursor = i
	p.clamp()
	return true
}

// SetCursorIndex moves the cursor onto row idx, e.g. after a click.
func (p *OutlinePanel) SetCursorIndex(idx int) {
	p.cursor = idx
	p.clamp()
}

// bodyHeight is the number of row lines below the title.
func (p *OutlinePanel) bodyHeight() int {
	return max(p.height-1, 1)
}

func (p *OutlinePanel) clamp() {
	p.cursor = max(0, min(p.cursor, len(p.rows)-1))
	h := p.bodyHeight()
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+h {
		p.offset = p.cursor - h + 1
	}
	p.offset = max(0, min(p.offset, len(p.rows)-h))
}

// String renders the title line and the visible rows. Each row is wrapped in a
// bubblezone mark so clicks can be mapped back with OutlineRowZoneID.
func (p *OutlinePanel) String() string {
	var b strings.Builder
	b.WriteString(outlineTitleStyle.Render(runewidth.Truncate(p.title, max(p.width, 1), "…")))

	if len(p.rows) == 0 {
		b.WriteString("\n")
		b.WriteString(outlineEmptyStyle.Render("empty outline"))
		return zone.Mark(ZoneOutline, b.String())
	}

	sel := p.tree.ActiveSelection()
	end := min(p.offset+p.bodyHeight(), len(p.rows))
	for i := p.offset; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(zone.Mark(OutlineRowZoneID(i), p.renderRow(i, sel)))
	}
	return zone.Mark(ZoneOutline, b.String())
}

func (p *OutlinePanel) renderRow(i int, sel []section.Identity) string {
	row := p.rows[i]
	selected := slices.Contains(sel, row.ID)

	cur, mark := " ", " "
	if i == p.cursor {
		cur = cursorStyle.Render(cursorGlyph)
	}
	if selected {
		mark = selectedNodeStyle.Render(selectedGlyph)
	}
	gutter := cur + mark
	indent := strings.Repeat(" ", row.Depth*indentWidth)
	avail := max(p.width-2-len(indent), 1)

	info := section.RowInfo{SoleActive: len(sel) == 1 && sel[0] == row.ID, Width: avail}
	if style, ok := p.session.RenderRow(row.ID, info); ok {
		return gutter + indent + renderMarker(style, p.tree.DisplayName(row.ID), avail)
	}

	name := runewidth.Truncate(p.tree.DisplayName(row.ID), avail, "…")
	switch {
	case selected:
		return gutter + indent + selectedNodeStyle.Render(name)
	case p.tree.Tag(row.ID) == section.EditorOnlyTag:
		return gutter + indent + taggedNodeStyle.Render(name)
	default:
		return gutter + indent + nodeStyle.Render(name)
	}
}

// renderMarker paints a marker row as a full-width band with the title
// centered and the ordinal on the left.
func renderMarker(style section.RowStyle, rawName string, width int) string {
	if style.Suppressed {
		return renamingStyle.Render(runewidth.Truncate(rawName, width, "…"))
	}

	prefix := fmt.Sprintf("%d ", style.Ordinal+1)
	suffix := ""
	if style.Pinned {
		suffix = " " + pinGlyph
	}
	labelWidth := max(width-runewidth.StringWidth(prefix)-runewidth.StringWidth(suffix), 1)
	label := runewidth.Truncate(style.Label, labelWidth, "…")

	band := lipgloss.NewStyle().
		Foreground(MarkerColor(style.Foreground, ColorText)).
		Background(MarkerColor(style.Background, ColorBase)).
		Bold(style.Current).
		Width(labelWidth).
		Align(lipgloss.Center)

	out := band.Render(label)
	out = lipgloss.NewStyle().
		Foreground(MarkerColor(style.Foreground, ColorText)).
		Background(MarkerColor(style.Background, ColorBase)).
		Render(prefix) + out
	if style.Pinned {
		out += pinGlyphStyle.Render(suffix)
	}
	return out
}
