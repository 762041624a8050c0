package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/habitcheck/internal/journal"
	"github.com/abhisek/habitcheck/internal/notes"
	"github.com/abhisek/habitcheck/internal/router"
	"github.com/abhisek/habitcheck/internal/screen"
	"github.com/abhisek/habitcheck/internal/screens/history"
	"github.com/abhisek/habitcheck/internal/screens/insights"
	"github.com/abhisek/habitcheck/internal/screens/protocol"
	"github.com/abhisek/habitcheck/internal/screens/trackers"
	"github.com/abhisek/habitcheck/internal/tracker"
	"github.com/abhisek/habitcheck/internal/ui/components"
	"github.com/abhisek/habitcheck/internal/ui/layout"
	"github.com/abhisek/habitcheck/internal/ui/theme"
)

type loadedMsg struct {
	summary journal.Summary
	quote   string
	err     error
}

type loggedMsg struct {
	status  tracker.Status
	awarded journal.Awarded
	err     error
}

// HomeScreen logs today's status and shows a short overview of the active
// tracker.
type HomeScreen struct {
	svc *journal.Service

	summary journal.Summary
	quote   string
	loaded  bool

	picker  components.StatusPicker
	note    components.TextInput
	writing bool

	flash  string
	errMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)
var _ screen.InputCapturer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(svc *journal.Service) *HomeScreen {
	return &HomeScreen{
		svc:    svc,
		picker: components.NewStatusPicker(""),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load(true)
}

// Resume reloads the summary after returning from another screen.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.load(false)
}

func (h *HomeScreen) load(withQuote bool) tea.Cmd {
	svc := h.svc
	return func() tea.Msg {
		sum, err := svc.Summary("", svc.Today())
		if err != nil {
			return loadedMsg{err: err}
		}
		msg := loadedMsg{summary: sum}
		if withQuote {
			// A missing quote is not worth failing the screen for.
			msg.quote, _ = svc.NextQuote(context.Background())
		}
		return msg
	}
}

func (h *HomeScreen) logStatus(status tracker.Status, note string) tea.Cmd {
	svc := h.svc
	trackerID := h.summary.Tracker.ID
	return func() tea.Msg {
		awarded, err := svc.LogDay(context.Background(), trackerID, "", status, note)
		return loggedMsg{status: status, awarded: awarded, err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Today"
}

func (h *HomeScreen) CapturingInput() bool {
	return h.writing
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.writing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save with note"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-3", Description: "Pick"},
		{Key: "Enter", Description: "Log"},
		{Key: "n", Description: "Note"},
		{Key: "h", Description: "History"},
		{Key: "i", Description: "Insights"},
		{Key: "p", Description: "Protocol"},
		{Key: "t", Description: "Trackers"},
		{Key: "q", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		h.loaded = true
		if msg.err != nil {
			h.errMsg = msg.err.Error()
			return h, nil
		}
		h.errMsg = ""
		h.summary = msg.summary
		if msg.quote != "" {
			h.quote = msg.quote
		}
		if h.summary.TodayEntry != nil {
			h.picker = components.NewStatusPicker(h.summary.TodayEntry.Status)
		} else {
			h.picker = components.NewStatusPicker("")
		}
		return h, nil

	case loggedMsg:
		if msg.err != nil {
			h.errMsg = msg.err.Error()
			return h, nil
		}
		h.flash = fmt.Sprintf("Logged %s %s for today.", msg.status.Icon(), msg.status.Label())
		if notice := components.AwardNotice(msg.awarded.All()); notice != "" {
			h.flash = notice
		}
		return h, h.load(false)

	case tea.KeyPressMsg:
		if h.writing {
			return h.updateNote(msg)
		}
		return h.updatePick(msg)
	}

	if h.writing {
		var cmd tea.Cmd
		h.note, cmd = h.note.Update(msg)
		return h, cmd
	}
	return h, nil
}

func (h *HomeScreen) updatePick(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if h.summary.Tracker.ID == "" {
		if msg.String() == "t" {
			return h, push(trackers.New(h.svc))
		}
		return h, nil
	}
	switch msg.String() {
	case "enter":
		return h, h.logStatus(h.picker.Value(), "")
	case "n":
		h.writing = true
		h.note = components.NewTextInput(h.noteHint(), 280, 50)
		return h, h.note.Model.Focus()
	case "h":
		return h, push(history.New(h.svc))
	case "i":
		return h, push(insights.New(h.svc))
	case "p":
		return h, push(protocol.New(h.svc, h.summary.Tracker.ID))
	case "t":
		return h, push(trackers.New(h.svc))
	}
	h.picker = h.picker.Update(msg)
	return h, nil
}

func (h *HomeScreen) updateNote(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		h.writing = false
		return h, nil
	case "enter":
		h.writing = false
		return h, h.logStatus(h.picker.Value(), h.note.Value())
	}
	var cmd tea.Cmd
	h.note, cmd = h.note.Update(msg)
	return h, cmd
}

func (h *HomeScreen) noteHint() string {
	if q := h.summary.Tracker.Question(); q != "" {
		return q
	}
	return "Add a note for today"
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) View(width, height int) string {
	if !h.loaded {
		return layout.Centered(theme.Hint.Render("\n\nLoading..."), width)
	}
	if h.summary.Tracker.ID == "" {
		msg := "No tracker yet. Press t to add one."
		if h.errMsg != "" && !strings.Contains(h.errMsg, journal.ErrTrackerNotFound.Error()) {
			msg = "Error: " + h.errMsg
		}
		return layout.Centered(theme.Hint.Render("\n\n"+msg), width)
	}

	sum := h.summary
	cw := min(width-4, 72)
	var sections []string

	title := theme.Title.Render(sum.Tracker.Name) + "  " + theme.Subtitle.Render(sum.Today)
	sections = append(sections, title)

	if sum.TodayEntry != nil {
		st := sum.TodayEntry.Status
		line := theme.StatusStyle(st).Render(fmt.Sprintf("Today: %s %s", st.Icon(), st.Label()))
		if n := len(notes.Parse(sum.TodayEntry.Note)); n > 0 {
			line += theme.Hint.Render(fmt.Sprintf("  (%d note%s)", n, plural(n)))
		}
		sections = append(sections, line)
	} else {
		sections = append(sections, theme.Hint.Render("How did today go?"))
	}

	sections = append(sections, h.picker.View())

	if h.writing {
		sections = append(sections, h.note.View())
	}

	st := sum.Stats
	statsLine := fmt.Sprintf("✦ %d good streak   ↻ %d logging streak   ◆ %s pts this week   %d%% consistent",
		st.CurrentGoodStreak, st.LoggingStreak, trim(st.MomentumWeekly), st.ConsistencyWeekly)
	sections = append(sections, theme.Body.Render(statsLine))

	bar := components.NewProgressBar("Week", sum.Goal.Weekly.Percent, false, cw)
	bar.Detail = fmt.Sprintf("%s/%s %s", trim(sum.Goal.Weekly.Current), trim(sum.Goal.Weekly.Target), sum.Tracker.GoalMode.Unit(true))
	sections = append(sections, bar.View())

	if h.flash != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).Render(h.flash))
	}
	if h.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render("Error: "+h.errMsg))
	}
	if h.quote != "" {
		sections = append(sections, theme.Hint.Width(cw).Render("“"+h.quote+"”"))
	}

	content := lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func trim(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}
