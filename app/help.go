package app

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kastheco/hisect/ui"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorIris)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorFoam)
	keyStyle    = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorGold)
	descStyle   = lipgloss.NewStyle().Foreground(ui.ColorText)
	helpBox     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.ColorIris).
			Padding(1, 2)
)

// helpContent renders the key reference. Any key closes it.
func helpContent() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("hisect"),
		"",
		descStyle.Render("section markers for outlines. a root item named \"--- title ---\""),
		descStyle.Render("is a marker; markers are numbered top to bottom and can be pinned."),
		"",
		headerStyle.Render("markers:"),
		keyStyle.Render("n")+descStyle.Render("             - new marker after the selection"),
		keyStyle.Render("]/[")+descStyle.Render("           - select next / previous marker"),
		keyStyle.Render("p")+descStyle.Render("             - pin or unpin the marker"),
		keyStyle.Render("m/M")+descStyle.Render("           - move selection below / above the marker"),
		keyStyle.Render("r")+descStyle.Render("             - rename the selected marker"),
		keyStyle.Render("o")+descStyle.Render("             - renumber markers"),
		keyStyle.Render("R")+descStyle.Render("             - rescan the outline for markers"),
		keyStyle.Render("X")+descStyle.Render("             - delete all markers"),
		"",
		headerStyle.Render("outline:"),
		keyStyle.Render("↑↓/jk")+descStyle.Render("         - move the cursor"),
		keyStyle.Render("↵")+descStyle.Render("             - select the cursor row"),
		keyStyle.Render("space")+descStyle.Render("         - add or remove the row from the selection"),
		keyStyle.Render("K/J")+descStyle.Render("           - move selected root items up / down"),
		keyStyle.Render("a/d/x")+descStyle.Render("         - add / duplicate / delete node"),
		keyStyle.Render(">/<")+descStyle.Render("           - indent / outdent"),
		"",
		headerStyle.Render("documents:"),
		keyStyle.Render("tab")+descStyle.Render("           - next document"),
		keyStyle.Render("N")+descStyle.Render("             - new document"),
		keyStyle.Render("ctrl+s")+descStyle.Render("        - save"),
		keyStyle.Render("e")+descStyle.Render("             - toggle the event pane"),
		keyStyle.Render("C")+descStyle.Render("             - reset marker colors"),
		keyStyle.Render("q")+descStyle.Render("             - save and quit"),
	)
	return helpBox.Render(content)
}
