package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StatusBarData holds the contextual information displayed in the status bar.
type StatusBarData struct {
	Document string
	Nodes    int
	Markers  int
	// Current is the title of the pinned or current marker, empty for none.
	Current string
	Pinned  bool
	Dirty   bool
}

// StatusBar is the top status bar component.
type StatusBar struct {
	width int
	data  StatusBarData
}

// NewStatusBar creates a new StatusBar.
func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

// SetSize sets the terminal width for the status bar.
func (s *StatusBar) SetSize(width int) {
	s.width = width
}

// SetData updates the status bar content.
func (s *StatusBar) SetData(data StatusBarData) {
	s.data = data
}

var statusBarStyle = lipgloss.NewStyle().
	Background(ColorSurface).
	Foreground(ColorText).
	Padding(0, 1)

var statusBarAppNameStyle = lipgloss.NewStyle().
	Foreground(ColorIris).
	Background(ColorSurface).
	Bold(true)

var statusBarSepStyle = lipgloss.NewStyle().
	Foreground(ColorOverlay).
	Background(ColorSurface)

var statusBarDocumentStyle = lipgloss.NewStyle().
	Foreground(ColorText).
	Background(ColorSurface)

var statusBarCountStyle = lipgloss.NewStyle().
	Foreground(ColorSubtle).
	Background(ColorSurface)

var statusBarMarkerStyle = lipgloss.NewStyle().
	Foreground(ColorFoam).
	Background(ColorSurface)

var statusBarPinnedStyle = lipgloss.NewStyle().
	Foreground(ColorGold).
	Background(ColorSurface)

var statusBarDirtyStyle = lipgloss.NewStyle().
	Foreground(ColorLove).
	Background(ColorSurface)

const statusBarSep = " │ "

func (s *StatusBar) String() string {
	if s.width < 10 {
		return ""
	}

	parts := make([]string, 0, 4)
	parts = append(parts, statusBarAppNameStyle.Render("hisect"))

	if s.data.Document != "" {
		doc := statusBarDocumentStyle.Render(s.data.Document)
		if s.data.Dirty {
			doc += statusBarDirtyStyle.Render(" ●")
		}
		parts = append(parts, doc)
	}

	parts = append(parts, statusBarCountStyle.Render(fmt.Sprintf("%d nodes, %d markers", s.data.Nodes, s.data.Markers)))

	if s.data.Current != "" {
		if s.data.Pinned {
			parts = append(parts, statusBarPinnedStyle.Render(pinGlyph+" "+s.data.Current))
		} else {
			parts = append(parts, statusBarMarkerStyle.Render(s.data.Current))
		}
	}

	sep := statusBarSepStyle.Render(statusBarSep)
	content := strings.Join(parts, sep)

	return statusBarStyle.Width(s.width).Render(content)
}
