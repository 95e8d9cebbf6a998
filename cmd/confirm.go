package cmd

import (
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/kastheco/hisect/log"
	"github.com/kastheco/hisect/section"
	"github.com/kastheco/hisect/ui/overlay"
)

// NewConfirmer answers the prompts of destructive commands. With yes set every
// prompt is accepted. Otherwise the user is asked on the terminal, and the
// prompt is declined when stdin is not one.
func NewConfirmer(yes bool) section.Confirmer {
	if yes {
		return func(string) bool { return true }
	}
	return func(prompt string) bool {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			log.WarningLog.Printf("declined %q: stdin is not a terminal, pass --yes to accept", prompt)
			return false
		}
		var ok bool
		err := huh.NewConfirm().
			Title(prompt).
			Affirmative("yes").
			Negative("no").
			Value(&ok).
			WithTheme(overlay.ThemeRosePine()).
			Run()
		if err != nil {
			log.WarningLog.Printf("confirmation aborted: %v", err)
			return false
		}
		return ok
	}
}
