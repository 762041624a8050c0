package insights

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/habitcheck/internal/badges"
	"github.com/abhisek/habitcheck/internal/journal"
	"github.com/abhisek/habitcheck/internal/router"
	"github.com/abhisek/habitcheck/internal/scoring"
	"github.com/abhisek/habitcheck/internal/screen"
	"github.com/abhisek/habitcheck/internal/ui/components"
	"github.com/abhisek/habitcheck/internal/ui/layout"
	"github.com/abhisek/habitcheck/internal/ui/theme"
)

type loadedMsg struct {
	summary journal.Summary
	err     error
}

type tab int

const (
	tabStats tab = iota
	tabBadges
)

// InsightsScreen shows stats, goal progress, the weekly trend and badges for
// the active tracker.
type InsightsScreen struct {
	svc     *journal.Service
	summary journal.Summary
	tab     tab
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*InsightsScreen)(nil)
var _ screen.KeyHintProvider = (*InsightsScreen)(nil)

// New creates a new InsightsScreen.
func New(svc *journal.Service) *InsightsScreen {
	return &InsightsScreen{svc: svc}
}

func (s *InsightsScreen) Init() tea.Cmd {
	svc := s.svc
	return func() tea.Msg {
		sum, err := svc.Summary("", svc.Today())
		return loadedMsg{summary: sum, err: err}
	}
}

func (s *InsightsScreen) Title() string {
	return "Insights"
}

func (s *InsightsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Stats / Badges"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *InsightsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
		}
		s.summary = msg.summary
	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab", "left", "right":
			s.tab = 1 - s.tab
		}
	}
	return s, nil
}

func (s *InsightsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered(lipgloss.NewStyle().Foreground(theme.Error).Render("\n\nError: "+s.errMsg), width)
	}
	if !s.loaded {
		return layout.Centered(theme.Hint.Render("\n\nLoading..."), width)
	}

	cw := min(width-4, 76)
	var body string
	if s.tab == tabStats {
		body = s.renderStats(cw)
	} else {
		body = s.renderBadges()
	}

	tabs := tabLabel("Stats", s.tab == tabStats) + "  " + tabLabel("Badges", s.tab == tabBadges)
	content := theme.Title.Render(s.summary.Tracker.Name) + "   " + tabs + "\n\n" + body
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, lipgloss.NewStyle().Width(cw).Render(content))
}

func tabLabel(name string, active bool) string {
	if active {
		return theme.Selected.Render("[" + name + "]")
	}
	return theme.Subtitle.Render(" " + name + " ")
}

func (s *InsightsScreen) renderStats(cw int) string {
	sum := s.summary
	st := sum.Stats
	mode := sum.Tracker.GoalMode

	var b strings.Builder
	b.WriteString(theme.Section.Render("Streaks") + "\n")
	fmt.Fprintf(&b, "All good   now %-4d best %d\n", st.CurrentGoodStreak, st.BestGoodStreak)
	fmt.Fprintf(&b, "Logging    now %-4d best %d\n\n", st.LoggingStreak, st.BestLoggingStreak)

	b.WriteString(theme.Section.Render("Last 7 / 30 days") + "\n")
	fmt.Fprintf(&b, "%s %d / %d   %s %d / %d   %s %d / %d\n",
		theme.StatusStyle("good").Render("good"), st.Last7.Good, st.Last30.Good,
		theme.StatusStyle("mixed").Render("mixed"), st.Last7.Mixed, st.Last30.Mixed,
		theme.StatusStyle("reset").Render("reset"), st.Last7.Reset, st.Last30.Reset)
	fmt.Fprintf(&b, "Points %s / %s   Consistency %d%% / %d%%   Recovery sessions (30d) %d\n",
		trim(st.MomentumWeekly), trim(st.MomentumMonthly), st.ConsistencyWeekly, st.ConsistencyMonthly, sum.Recovery30)
	fmt.Fprintf(&b, "Lifetime points %s\n\n", trim(sum.TotalPoints))

	b.WriteString(theme.Section.Render("Goal: "+mode.Label()) + "  " + theme.Hint.Render(mode.Description()) + "\n")
	b.WriteString(goalBar("Week ", sum.Goal.Weekly, mode.Unit(true), cw) + "\n")
	b.WriteString(goalBar("Month", sum.Goal.Monthly, mode.Unit(true), cw) + "\n\n")

	b.WriteString(theme.Section.Render("Weekly trend") + "  " + theme.Hint.Render(Sparkline(sum.Timeline)) + "\n")
	b.WriteString(theme.Section.Render("Last 14 days") + "  " + theme.Hint.Render(Sparkline(tail(st.DailyScores, 14))))
	return b.String()
}

func goalBar(label string, p scoring.Progress, unit string, width int) string {
	bar := components.NewProgressBar(label, p.Percent, false, width)
	bar.Detail = fmt.Sprintf("%s/%s %s", trim(p.Current), trim(p.Target), unit)
	if p.Done() {
		bar.Detail += " ✓"
	}
	return bar.View()
}

func (s *InsightsScreen) renderBadges() string {
	var b strings.Builder
	writeScope(&b, "This tracker", badges.ScopeTracker, s.summary.Badges)
	b.WriteString("\n")
	writeScope(&b, "All trackers", badges.ScopeGlobal, s.summary.GlobalBadges)
	return b.String()
}

func writeScope(b *strings.Builder, title string, scope badges.Scope, earned []badges.Badge) {
	defs := badges.Definitions(scope)
	fmt.Fprintf(b, "%s  %s\n", theme.Section.Render(title), theme.Hint.Render(fmt.Sprintf("%d of %d", len(earned), len(defs))))
	for _, e := range earned {
		b.WriteString(components.BadgeLine(e) + "\n")
	}
	for _, d := range defs {
		if !badges.Earned(earned, d.ID) {
			b.WriteString(components.LockedBadgeLine(d) + "\n")
		}
	}
}

var sparks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as a row of block characters scaled to the
// largest value.
func Sparkline(values []float64) string {
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	out := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if peak > 0 {
			idx = int(v / peak * float64(len(sparks)-1))
		}
		out[i] = sparks[min(max(idx, 0), len(sparks)-1)]
	}
	return string(out)
}

func tail(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func trim(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}
