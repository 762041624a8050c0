package components

import (
	"github.com/abhisek/habitcheck/internal/ui/theme"
)

// Button is a styled button. It has no behavior of its own; screens decide
// what enter does while it is focused.
type Button struct {
	Label  string
	Active bool
}

// NewButton creates a new button.
func NewButton(label string, active bool) Button {
	return Button{Label: label, Active: active}
}

// View renders the button.
func (b Button) View() string {
	if b.Active {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}
