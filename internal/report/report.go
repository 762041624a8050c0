// Package report renders a tracker's insight summary as Markdown or HTML.
package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/abhisek/habitcheck/internal/badges"
	"github.com/abhisek/habitcheck/internal/dates"
	"github.com/abhisek/habitcheck/internal/journal"
	"github.com/abhisek/habitcheck/internal/notes"
	"github.com/abhisek/habitcheck/internal/scoring"
	"github.com/abhisek/habitcheck/internal/tracker"
)

// RecentDays is how many days the report's day table covers.
const RecentDays = 14

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps(), goldmarkhtml.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// Markdown renders sum as a Markdown document.
func Markdown(sum journal.Summary) string {
	var b strings.Builder
	st := sum.Stats
	mode := sum.Tracker.GoalMode

	fmt.Fprintf(&b, "# %s\n\n", escape(sum.Tracker.Name))
	fmt.Fprintf(&b, "Report for %s. Lifetime points: **%s**.\n\n", sum.Today, num(sum.TotalPoints))

	b.WriteString("## Streaks\n\n")
	b.WriteString("| | Current | Best |\n|---|---:|---:|\n")
	fmt.Fprintf(&b, "| All good | %d | %d |\n", st.CurrentGoodStreak, st.BestGoodStreak)
	fmt.Fprintf(&b, "| Logging | %d | %d |\n\n", st.LoggingStreak, st.BestLoggingStreak)

	b.WriteString("## Last 7 and 30 days\n\n")
	b.WriteString("| | 7 days | 30 days |\n|---|---:|---:|\n")
	fmt.Fprintf(&b, "| %s | %d | %d |\n", tracker.StatusGood.Label(), st.Last7.Good, st.Last30.Good)
	fmt.Fprintf(&b, "| %s | %d | %d |\n", tracker.StatusMixed.Label(), st.Last7.Mixed, st.Last30.Mixed)
	fmt.Fprintf(&b, "| %s | %d | %d |\n", tracker.StatusReset.Label(), st.Last7.Reset, st.Last30.Reset)
	fmt.Fprintf(&b, "| Points | %s | %s |\n", num(st.MomentumWeekly), num(st.MomentumMonthly))
	fmt.Fprintf(&b, "| Consistency | %d%% | %d%% |\n", st.ConsistencyWeekly, st.ConsistencyMonthly)
	fmt.Fprintf(&b, "| Recovery sessions | | %d |\n\n", sum.Recovery30)

	fmt.Fprintf(&b, "## Goal: %s\n\n", mode.Label())
	writeGoal(&b, "This week", sum.Goal.Weekly, mode)
	writeGoal(&b, "This month", sum.Goal.Monthly, mode)
	b.WriteString("\n")

	if len(sum.Timeline) > 0 {
		b.WriteString("### Weekly trend\n\n")
		vals := make([]string, len(sum.Timeline))
		for i, v := range sum.Timeline {
			vals[i] = num(v)
		}
		fmt.Fprintf(&b, "%s (%s, oldest first)\n\n", strings.Join(vals, " → "), mode.Unit(true))
	}

	b.WriteString("## Recent days\n\n")
	b.WriteString("| Day | Status | Score | Notes |\n|---|---|---:|---|\n")
	today := dates.Parse(sum.Today)
	byDate := tracker.ByDate(sum.Entries)
	scores := scoring.DailyScores(sum.Entries, sum.Runs, RecentDays, today)
	days := dates.LastNKeys(RecentDays, today)
	for i := len(days) - 1; i >= 0; i-- {
		day := days[i]
		e, ok := byDate[day]
		if !ok {
			fmt.Fprintf(&b, "| %s | · | | |\n", day)
			continue
		}
		fmt.Fprintf(&b, "| %s | %s %s | %s | %s |\n", day, e.Status.Icon(), e.Status.Label(), num(scores[i]), noteCell(e.Note))
	}
	b.WriteString("\n")

	writeBadges(&b, "Badges", sum.Badges)
	writeBadges(&b, "Badges across trackers", sum.GlobalBadges)
	return b.String()
}

func writeGoal(b *strings.Builder, label string, p scoring.Progress, mode tracker.GoalMode) {
	state := fmt.Sprintf("%s to go", num(p.Remaining))
	if p.Done() {
		state = "done"
	}
	fmt.Fprintf(b, "- %s: %s / %s %s (%d%%, %s)\n", label, num(p.Current), num(p.Target), mode.Unit(false), int(p.Percent*100+0.5), state)
}

func writeBadges(b *strings.Builder, title string, list []badges.Badge) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(list) == 0 {
		b.WriteString("None yet.\n\n")
		return
	}
	for _, badge := range list {
		fmt.Fprintf(b, "- %s **%s** (%s): %s\n", badge.Icon, escape(badge.Title), badge.EarnedAt, escape(badge.Description))
	}
	b.WriteString("\n")
}

func noteCell(value string) string {
	list := notes.Parse(value)
	texts := make([]string, 0, len(list))
	for _, n := range list {
		texts = append(texts, escape(n.Text))
	}
	return strings.Join(texts, " / ")
}

var mdEscaper = strings.NewReplacer("|", "\\|", "\n", " ", "\r", "")

// escape keeps user text from breaking table rows.
func escape(s string) string {
	return mdEscaper.Replace(s)
}

// num formats a score with at most one decimal.
func num(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}

// HTML converts Markdown to sanitized HTML.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return string(sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// Document wraps the HTML rendering of sum in a standalone page.
func Document(sum journal.Summary) (string, error) {
	body, err := HTML(Markdown(sum))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s · habitcheck</title>\n", html.EscapeString(sum.Tracker.Name))
	b.WriteString("<style>body{font-family:system-ui,sans-serif;max-width:48rem;margin:2rem auto;padding:0 1rem}table{border-collapse:collapse}td,th{padding:.25rem .75rem;border-bottom:1px solid #ddd}</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}
