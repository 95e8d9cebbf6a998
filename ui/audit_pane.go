package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// AuditEventDisplay is a pre-formatted event for rendering in the audit pane.
type AuditEventDisplay struct {
	Time    string         // formatted as "HH:MM"
	Kind    string         // event kind string (e.g. "marker_registered")
	Icon    string         // single-char icon
	Message string         // human-readable message
	Color   lipgloss.Color // icon color
	Level   string         // "info", "warn", "error"
}

// AuditPane renders a scrollable list of recent reconciliation events below
// the outline.
type AuditPane struct {
	events   []AuditEventDisplay
	viewport viewport.Model
	width    int
	height   int
	visible  bool
	document string
}

// NewAuditPane creates a new AuditPane (visible by default).
func NewAuditPane() *AuditPane {
	vp := viewport.New(0, 0)
	return &AuditPane{
		visible:  true,
		viewport: vp,
	}
}

// SetSize updates the pane dimensions and rebuilds the viewport content.
func (p *AuditPane) SetSize(w, h int) {
	p.width = w
	// Reserve 1 line for the header.
	bodyH := h - 1
	if bodyH < 0 {
		bodyH = 0
	}
	p.height = h
	p.viewport.Width = w
	p.viewport.Height = bodyH
	p.viewport.SetContent(p.renderBody())
}

// SetEvents replaces the event list and refreshes the viewport.
func (p *AuditPane) SetEvents(events []AuditEventDisplay) {
	p.events = events
	p.viewport.SetContent(p.renderBody())
	p.viewport.GotoTop()
}

// SetDocument updates the document name shown in the header.
func (p *AuditPane) SetDocument(name string) {
	p.document = name
}

// Height returns the pane height including the header.
func (p *AuditPane) Height() int {
	return p.height
}

// ScrollDown scrolls the viewport down by n lines.
func (p *AuditPane) ScrollDown(n int) {
	p.viewport.LineDown(n)
}

// ScrollUp scrolls the viewport up by n lines.
func (p *AuditPane) ScrollUp(n int) {
	p.viewport.LineUp(n)
}

// Visible returns whether the pane is currently shown.
func (p *AuditPane) Visible() bool {
	return p.visible
}

// ToggleVisible flips the visibility state.
func (p *AuditPane) ToggleVisible() {
	p.visible = !p.visible
}

var (
	auditHeaderStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	auditTimeStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	auditMsgStyle    = lipgloss.NewStyle().Foreground(ColorText)
	auditEmptyStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
)

// String renders the audit pane: a 1-line header + scrollable body.
func (p *AuditPane) String() string {
	header := p.renderHeader()
	body := p.viewport.View()
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (p *AuditPane) renderHeader() string {
	left := "── events ──"
	right := p.document

	leftW := lipgloss.Width(left)
	rightW := lipgloss.Width(right)
	gap := p.width - leftW - rightW
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right
	return auditHeaderStyle.Render(line)
}

func (p *AuditPane) renderBody() string {
	if len(p.events) == 0 {
		return auditEmptyStyle.Render("no events")
	}

	lines := make([]string, 0, len(p.events))
	for _, e := range p.events {
		icon := lipgloss.NewStyle().Foreground(e.Color).Render(e.Icon)
		time := auditTimeStyle.Render(e.Time)
		// time + space + icon + space
		avail := max(p.width-runewidth.StringWidth(e.Time)-3, 1)
		msg := auditMsgStyle.Render(runewidth.Truncate(e.Message, avail, "…"))
		line := time + " " + icon + " " + msg
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// EventKindIcon returns the icon and color for a given event kind string.
// Used by the app layer when building AuditEventDisplay values.
func EventKindIcon(kind string) (icon string, color lipgloss.Color) {
	switch kind {
	case "marker_registered":
		return "+", ColorFoam
	case "marker_pruned":
		return "−", ColorMuted
	case "marker_renamed":
		return "✎", ColorIris
	case "marker_reparented":
		return "↰", ColorGold
	case "order_recomputed":
		return "⇅", ColorIris
	case "registry_rebuilt":
		return "⟳", ColorFoam
	case "marker_pinned":
		return "⚑", ColorGold
	case "marker_unpinned":
		return "⚐", ColorMuted
	case "selection_moved":
		return "→", ColorFoam
	case "markers_cleared":
		return "✕", ColorLove
	case "declined":
		return "·", ColorSubtle
	case "error":
		return "!", ColorLove
	default:
		return "·", ColorMuted
	}
}
