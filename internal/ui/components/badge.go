package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/habitcheck/internal/badges"
	"github.com/abhisek/habitcheck/internal/ui/theme"
)

// BadgeLine renders one earned badge.
func BadgeLine(b badges.Badge) string {
	return fmt.Sprintf("%s %s  %s",
		b.Icon,
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(b.Title),
		theme.Hint.Render(b.Description+" · "+b.EarnedAt))
}

// LockedBadgeLine renders a badge that has not been earned yet.
func LockedBadgeLine(d badges.Definition) string {
	return theme.Muted.Render(fmt.Sprintf("·  %s  %s", d.Title, d.Description))
}

// AwardNotice is the one-line celebration for newly earned badges, or ""
// when there are none.
func AwardNotice(list []badges.Badge) string {
	if len(list) == 0 {
		return ""
	}
	names := make([]string, 0, len(list))
	for _, b := range list {
		names = append(names, b.Icon+" "+b.Title)
	}
	label := "New badge"
	if len(list) > 1 {
		label = "New badges"
	}
	return lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(label + ": " + strings.Join(names, ", "))
}
