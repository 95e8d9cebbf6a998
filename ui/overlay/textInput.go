package overlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TextInputOverlay is a single-line editor used to rename a marker in place.
// It edits the raw display name; canonicalization happens after submit.
type TextInputOverlay struct {
	input     textinput.Model
	Title     string
	Submitted bool
	Canceled  bool
	width     int
	sizeSet   bool // true after the first SetSize call
}

// NewTextInputOverlay creates a focused overlay with the given title and
// initial value, cursor at the end.
func NewTextInputOverlay(title string, initialValue string) *TextInputOverlay {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 0
	ti.SetValue(initialValue)
	ti.CursorEnd()
	ti.Focus()

	return &TextInputOverlay{
		input: ti,
		Title: title,
	}
}

// SetPlaceholder sets the placeholder shown while the value is empty.
func (t *TextInputOverlay) SetPlaceholder(text string) {
	t.input.Placeholder = text
}

// SetSize sizes the overlay once; later calls from window resizes are ignored.
func (t *TextInputOverlay) SetSize(width, _ int) {
	if t.sizeSet {
		return
	}
	t.sizeSet = true
	t.width = width
}

// HandleKeyPress processes a key press and updates the state accordingly.
// Returns true if the overlay should be closed.
func (t *TextInputOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEsc:
		t.Canceled = true
		return true
	case tea.KeyEnter:
		if strings.TrimSpace(t.input.Value()) == "" {
			return false
		}
		t.Submitted = true
		return true
	default:
		t.input, _ = t.input.Update(msg)
		return false
	}
}

// GetValue returns the current value of the text input.
func (t *TextInputOverlay) GetValue() string {
	return t.input.Value()
}

// IsSubmitted returns whether the value was submitted.
func (t *TextInputOverlay) IsSubmitted() bool {
	return t.Submitted
}

// Render renders the text input overlay.
func (t *TextInputOverlay) Render() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorIris).
		Padding(0, 2)

	titleStyle := lipgloss.NewStyle().
		Foreground(colorIris).
		Bold(true)

	hintStyle := lipgloss.NewStyle().Foreground(colorMuted)

	w := max(t.width, 40)
	t.input.Width = w - 6 // padding and border

	content := titleStyle.Render(t.Title) + "\n\n"
	content += t.input.View() + "\n\n"
	content += hintStyle.Render("enter save · esc cancel")
	return style.Width(w - 2).Render(content)
}
