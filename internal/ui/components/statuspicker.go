package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/habitcheck/internal/tracker"
	"github.com/abhisek/habitcheck/internal/ui/theme"
)

// StatusPicker lets the user choose one of the three day statuses.
type StatusPicker struct {
	Options  []tracker.Status
	Selected int
	Current  tracker.Status // already logged status, if any
}

// NewStatusPicker creates a picker preselecting current when set.
func NewStatusPicker(current tracker.Status) StatusPicker {
	p := StatusPicker{Options: tracker.AllStatuses(), Current: current}
	for i, s := range p.Options {
		if s == current {
			p.Selected = i
		}
	}
	return p
}

// Value returns the highlighted status.
func (p StatusPicker) Value() tracker.Status {
	return p.Options[p.Selected]
}

// Update moves the selection. Number keys 1-3 jump directly.
func (p StatusPicker) Update(msg tea.Msg) StatusPicker {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return p
	}
	switch k := kmsg.String(); k {
	case "up", "k", "left":
		if p.Selected > 0 {
			p.Selected--
		}
	case "down", "j", "right":
		if p.Selected < len(p.Options)-1 {
			p.Selected++
		}
	case "1", "2", "3":
		p.Selected = int(k[0] - '1')
	}
	return p
}

// View renders the options with their helper lines.
func (p StatusPicker) View() string {
	var s string
	for i, st := range p.Options {
		prefix := "  "
		if i == p.Selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d  %s %s", prefix, i+1, st.Icon(), st.Label())
		if st == p.Current {
			line += " (logged)"
		}

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == p.Selected {
			style = theme.StatusStyle(st)
		}
		s += style.Render(line) + "  " + theme.Hint.Render(st.Helper()) + "\n"
	}
	return s
}
