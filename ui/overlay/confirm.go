package overlay

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmOverlay asks a yes/no question before a destructive command. It is
// backed by a huh confirm field so it looks like the CLI prompt.
type ConfirmOverlay struct {
	form     *huh.Form
	prompt   string
	value    bool
	answered bool
	width    int
}

// NewConfirmOverlay builds the overlay. The default answer is no.
func NewConfirmOverlay(prompt string, width int) *ConfirmOverlay {
	c := &ConfirmOverlay{prompt: prompt, width: width}

	formWidth := max(width-6, 34)
	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Yes").
				Negative("No").
				Value(&c.value),
		),
	).
		WithTheme(ThemeRosePine()).
		WithWidth(formWidth).
		WithShowHelp(false).
		WithShowErrors(false)

	_ = c.form.Init()
	return c
}

// HandleKeyPress processes a key and returns true when the overlay should
// close. Confirmed reports the answer afterwards.
func (c *ConfirmOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "y", "Y":
		c.value = true
	case "n", "N", "esc":
		c.value = false
	case "enter":
	case "left", "right", "h", "l", "tab", "shift+tab":
		c.value = !c.value
		return false
	default:
		return false
	}
	c.answered = true
	return true
}

// Confirmed reports whether the user answered yes.
func (c *ConfirmOverlay) Confirmed() bool {
	return c.answered && c.value
}

// Prompt returns the question being asked.
func (c *ConfirmOverlay) Prompt() string {
	return c.prompt
}

// Render renders the overlay.
func (c *ConfirmOverlay) Render() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorLove).
		Padding(1, 2)

	hint := lipgloss.NewStyle().Foreground(colorMuted).Render("y yes · n/esc no · ←/→ toggle")
	return style.Render(c.form.View() + "\n" + hint)
}
