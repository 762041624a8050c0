package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/habitcheck/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64 // 0..1, clamped when rendered
	Detail      string  // shown after the bar instead of the percentage
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	suffix := p.Detail
	if suffix == "" && p.ShowPercent {
		suffix = fmt.Sprintf("%d%%", int(clamp01(p.Percent)*100+0.5))
	}
	suffixWidth := 0
	if suffix != "" {
		suffixWidth = lipgloss.Width(suffix) + 2
	}

	barWidth := max(p.Width-lipgloss.Width(result)-suffixWidth, 4)
	filled := int(float64(barWidth) * clamp01(p.Percent))

	fill := theme.ProgressFilled
	if p.Percent >= 1 {
		fill = theme.ProgressDone
	}
	result += fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))

	if suffix != "" {
		result += "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
	}
	return result
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
