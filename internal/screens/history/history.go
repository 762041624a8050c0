package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/habitcheck/internal/dates"
	"github.com/abhisek/habitcheck/internal/journal"
	"github.com/abhisek/habitcheck/internal/notes"
	"github.com/abhisek/habitcheck/internal/router"
	"github.com/abhisek/habitcheck/internal/screen"
	"github.com/abhisek/habitcheck/internal/tracker"
	"github.com/abhisek/habitcheck/internal/ui/components"
	"github.com/abhisek/habitcheck/internal/ui/layout"
	"github.com/abhisek/habitcheck/internal/ui/theme"
)

type historyLoadedMsg struct {
	Summary journal.Summary
	Err     error
}

type changedMsg struct {
	Awarded journal.Awarded
	Err     error
}

// HistoryScreen shows a month calendar of logged days. Past days can be
// logged or cleared from here.
type HistoryScreen struct {
	svc      *journal.Service
	today    time.Time
	selected time.Time
	byDate   map[string]tracker.Entry
	name     string
	trackID  string
	loaded   bool
	errMsg   string
	flash    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen focused on today.
func New(svc *journal.Service) *HistoryScreen {
	today := svc.Today()
	return &HistoryScreen{
		svc:      svc,
		today:    today,
		selected: today,
		byDate:   map[string]tracker.Entry{},
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	svc := s.svc
	today := s.today
	return func() tea.Msg {
		sum, err := svc.Summary("", today)
		return historyLoadedMsg{Summary: sum, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←↑↓→", Description: "Move"},
		{Key: "[ ]", Description: "Month"},
		{Key: "1-3", Description: "Set status"},
		{Key: "x", Description: "Clear"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.name = msg.Summary.Tracker.Name
		s.trackID = msg.Summary.Tracker.ID
		s.byDate = tracker.ByDate(msg.Summary.Entries)
		return s, nil

	case changedMsg:
		if msg.Err != nil {
			s.flash = "Error: " + msg.Err.Error()
			return s, nil
		}
		s.flash = components.AwardNotice(msg.Awarded.All())
		return s, s.Init()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "left", "h":
			s.move(-1)
		case "right", "l":
			s.move(1)
		case "up", "k":
			s.move(-7)
		case "down", "j":
			s.move(7)
		case "[":
			s.move(-dates.DaysInMonth(dates.AddDays(dates.StartOfMonth(s.selected), -1)))
		case "]":
			s.move(dates.DaysInMonth(s.selected))
		case "1", "2", "3":
			return s, s.setStatus(tracker.AllStatuses()[msg.String()[0]-'1'])
		case "x":
			return s, s.clear()
		}
	}
	return s, nil
}

// move shifts the selection, never past today.
func (s *HistoryScreen) move(days int) {
	next := dates.AddDays(s.selected, days)
	if next.After(s.today) {
		next = s.today
	}
	s.selected = next
}

func (s *HistoryScreen) setStatus(st tracker.Status) tea.Cmd {
	if s.trackID == "" {
		return nil
	}
	svc, id, day := s.svc, s.trackID, dates.Format(s.selected)
	return func() tea.Msg {
		awarded, err := svc.LogDay(context.Background(), id, day, st, "")
		return changedMsg{Awarded: awarded, Err: err}
	}
}

func (s *HistoryScreen) clear() tea.Cmd {
	day := dates.Format(s.selected)
	if _, ok := s.byDate[day]; !ok || s.trackID == "" {
		return nil
	}
	svc, id := s.svc, s.trackID
	return func() tea.Msg {
		return changedMsg{Err: svc.ClearDay(context.Background(), id, day)}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(s.name) + "  " + theme.Subtitle.Render(s.selected.Format("January 2006")))
	b.WriteString("\n\n")
	b.WriteString(s.renderGrid())
	b.WriteString("\n")
	b.WriteString(s.renderDay())
	if s.flash != "" {
		b.WriteString("\n\n" + s.flash)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func (s *HistoryScreen) renderGrid() string {
	var b strings.Builder
	for _, wd := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf(" %s ", wd)))
	}
	b.WriteString("\n")

	month := s.selected.Month()
	for i, day := range dates.CalendarGrid(s.selected) {
		key := dates.Format(day)
		cell := fmt.Sprintf(" %2d ", day.Day())

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if e, ok := s.byDate[key]; ok {
			style = lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.StatusColor(e.Status))
		}
		if day.Month() != month || day.After(s.today) {
			style = theme.Muted
		}
		if dates.SameDay(day, s.selected) {
			style = style.Bold(true).Underline(true)
			cell = fmt.Sprintf("[%2d]", day.Day())
		}
		b.WriteString(style.Render(cell))
		if i%7 == 6 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (s *HistoryScreen) renderDay() string {
	key := dates.Format(s.selected)
	e, ok := s.byDate[key]
	if !ok {
		return theme.Hint.Render(s.selected.Format("Mon Jan 2") + ": not logged")
	}
	lines := []string{theme.StatusStyle(e.Status).Render(fmt.Sprintf("%s: %s %s", s.selected.Format("Mon Jan 2"), e.Status.Icon(), e.Status.Label()))}
	for _, n := range notes.Parse(e.Note) {
		prefix := "  • "
		if n.CreatedAt > 0 {
			prefix += dates.FromMillis(n.CreatedAt).Format("15:04") + "  "
		}
		lines = append(lines, theme.Body.Render(prefix+n.Text))
	}
	return strings.Join(lines, "\n")
}
