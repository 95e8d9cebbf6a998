package overlay

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldName = iota
	fieldImport
	fieldCount
)

// FormOverlay is the new-document form backed by huh.Form: a document name and
// an optional YAML outline to seed it from. Tab and shift-tab wrap around.
type FormOverlay struct {
	form      *huh.Form
	nameVal   string
	pathVal   string
	focused   int
	err       string
	title     string
	submitted bool
	canceled  bool
	width     int
}

// NewFormOverlay creates a form overlay with name and import path inputs.
func NewFormOverlay(title string, width int) *FormOverlay {
	f := &FormOverlay{
		title: title,
		width: width,
	}

	formWidth := width - 6
	if formWidth < 34 {
		formWidth = 34
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("name").
				Value(&f.nameVal),
			huh.NewInput().
				Key("import").
				Title("import from YAML (optional)").
				Value(&f.pathVal),
		),
	).
		WithTheme(ThemeRosePine()).
		WithWidth(formWidth).
		WithShowHelp(false).
		WithShowErrors(false)

	_ = f.form.Init()

	return f
}

func (f *FormOverlay) updateForm(msg tea.Msg) {
	updated, _ := f.form.Update(msg)
	if form, ok := updated.(*huh.Form); ok {
		f.form = form
	}
}

// HandleKeyPress processes a key and returns true when the overlay should close.
func (f *FormOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEsc:
		f.canceled = true
		return true

	case tea.KeyEnter:
		if f.Name() == "" {
			f.err = "a document needs a name"
			f.focus(fieldName)
			return false
		}
		if path := f.ImportPath(); path != "" {
			if _, err := os.Stat(path); err != nil {
				f.err = fmt.Sprintf("cannot read %s", path)
				f.focus(fieldImport)
				return false
			}
		}
		f.submitted = true
		return true

	case tea.KeyTab, tea.KeyDown:
		f.focus((f.focused + 1) % fieldCount)
		return false

	case tea.KeyShiftTab, tea.KeyUp:
		f.focus((f.focused + fieldCount - 1) % fieldCount)
		return false

	default:
		f.err = ""
		f.updateForm(msg)
		return false
	}
}

// focus steps the huh form field by field until target has focus. The form
// stops at its first and last field, so wrapping is done here.
func (f *FormOverlay) focus(target int) {
	for f.focused < target {
		f.updateForm(huh.NextField())
		f.focused++
	}
	for f.focused > target {
		f.updateForm(huh.PrevField())
		f.focused--
	}
}

// Focused is the index of the focused field: 0 for the name, 1 for the import path.
func (f *FormOverlay) Focused() int {
	return f.focused
}

// Err is the validation message shown under the form, if any.
func (f *FormOverlay) Err() string {
	return f.err
}

// Render returns the styled overlay string.
func (f *FormOverlay) Render() string {
	w := f.width
	if w < 40 {
		w = 40
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(colorIris).
		Bold(true).
		MarginBottom(1)

	hintStyle := lipgloss.NewStyle().
		Foreground(colorMuted).
		MarginTop(1)

	content := titleStyle.Render(f.title) + "\n"
	content += f.form.View() + "\n"
	if f.err != "" {
		content += lipgloss.NewStyle().Foreground(colorLove).Render(f.err) + "\n"
	}
	content += hintStyle.Render("tab/↑↓ navigate · enter create · esc cancel")

	style := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(colorIris).
		Padding(1, 2).
		Width(w)

	return style.Render(content)
}

// Name returns the name field value.
func (f *FormOverlay) Name() string {
	return strings.TrimSpace(f.nameVal)
}

// ImportPath returns the import path field value.
func (f *FormOverlay) ImportPath() string {
	return strings.TrimSpace(f.pathVal)
}

// IsSubmitted returns true when the form was submitted.
func (f *FormOverlay) IsSubmitted() bool {
	return f.submitted
}
