package ui

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuditPane_RenderEmpty(t *testing.T) {
	pane := NewAuditPane()
	pane.SetSize(60, 10)
	assert.Contains(t, pane.String(), "no events")
}

func TestAuditPane_RenderEvents(t *testing.T) {
	pane := NewAuditPane()
	pane.SetSize(60, 10)
	pane.SetEvents([]AuditEventDisplay{
		{Time: "12:34", Kind: "marker_registered", Icon: "+", Message: "registered Intro", Color: ColorFoam, Level: "info"},
		{Time: "12:35", Kind: "order_recomputed", Icon: "⇅", Message: "renumbered 3 markers", Color: ColorIris, Level: "info"},
	})
	output := pane.String()
	assert.Contains(t, output, "registered Intro")
	assert.Contains(t, output, "renumbered 3 markers")
}

func manyEvents(n int) []AuditEventDisplay {
	events := make([]AuditEventDisplay, n)
	for i := range events {
		events[i] = AuditEventDisplay{
			Time:    fmt.Sprintf("12:%02d", i),
			Kind:    "test",
			Icon:    "·",
			Message: fmt.Sprintf("event %d", i),
			Color:   ColorText,
			Level:   "info",
		}
	}
	return events
}

func TestAuditPane_ScrollDown(t *testing.T) {
	pane := NewAuditPane()
	pane.SetSize(60, 3)
	pane.SetEvents(manyEvents(20))
	pane.ScrollDown(5)
	assert.NotContains(t, pane.String(), "event 0")
	assert.Contains(t, pane.String(), "event 5")
}

func TestAuditPane_ScrollUp(t *testing.T) {
	pane := NewAuditPane()
	pane.SetSize(60, 3)
	pane.SetEvents(manyEvents(20))
	pane.ScrollDown(10)
	pane.ScrollUp(10)
	assert.Contains(t, pane.String(), "event 0")
}

func TestAuditPane_ToggleVisibility(t *testing.T) {
	pane := NewAuditPane()
	assert.True(t, pane.Visible())
	pane.ToggleVisible()
	assert.False(t, pane.Visible())
	pane.ToggleVisible()
	assert.True(t, pane.Visible())
}

func TestAuditPane_HeaderShowsDocument(t *testing.T) {
	pane := NewAuditPane()
	pane.SetDocument("level-1")
	pane.SetSize(60, 10)
	output := pane.String()
	assert.Contains(t, output, "events")
	assert.Contains(t, output, "level-1")
}

func TestAuditPane_MessageTruncation(t *testing.T) {
	pane := NewAuditPane()
	pane.SetSize(40, 5)
	longMsg := "this is a very long message that should be truncated because it exceeds the available width"
	pane.SetEvents([]AuditEventDisplay{
		{Time: "12:34", Kind: "test", Icon: "·", Message: longMsg, Color: ColorText, Level: "info"},
	})
	output := pane.String()
	assert.NotContains(t, output, longMsg)
	assert.Contains(t, output, "this is a very")
}

func TestAuditPane_Height(t *testing.T) {
	pane := NewAuditPane()
	pane.SetSize(60, 8)
	assert.Equal(t, 8, pane.Height())
}

func TestEventKindIcon(t *testing.T) {
	tests := []struct {
		kind string
		icon string
	}{
		{"marker_registered", "+"},
		{"marker_pinned", "⚑"},
		{"markers_cleared", "✕"},
		{"something_else", "·"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			icon, _ := EventKindIcon(tt.kind)
			assert.Equal(t, tt.icon, icon)
		})
	}
}
