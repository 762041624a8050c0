package protocol

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/habitcheck/internal/dates"
	"github.com/abhisek/habitcheck/internal/journal"
	recovery "github.com/abhisek/habitcheck/internal/protocol"
	"github.com/abhisek/habitcheck/internal/router"
	"github.com/abhisek/habitcheck/internal/screen"
	"github.com/abhisek/habitcheck/internal/ui/components"
	"github.com/abhisek/habitcheck/internal/ui/layout"
	"github.com/abhisek/habitcheck/internal/ui/theme"
)

type startedMsg struct {
	run recovery.Run
	err error
}

type completedMsg struct {
	run     recovery.Run
	awarded journal.Awarded
	err     error
}

type tickMsg time.Time

const tickInterval = time.Second

// ProtocolScreen walks through the recovery steps. A run is recorded when
// the screen opens and completed when the user finishes.
type ProtocolScreen struct {
	svc       *journal.Service
	trackerID string
	steps     []recovery.Step
	checked   []bool
	cursor    int // len(steps) is the finish button
	run       recovery.Run
	now       func() time.Time
	done      bool
	notice    string
	errMsg    string
}

var _ screen.Screen = (*ProtocolScreen)(nil)
var _ screen.KeyHintProvider = (*ProtocolScreen)(nil)

// New creates a ProtocolScreen for trackerID (empty means active).
func New(svc *journal.Service, trackerID string) *ProtocolScreen {
	steps := recovery.Steps()
	return &ProtocolScreen{
		svc:       svc,
		trackerID: trackerID,
		steps:     steps,
		checked:   make([]bool, len(steps)),
		now:       time.Now,
	}
}

func (s *ProtocolScreen) Init() tea.Cmd {
	svc, id := s.svc, s.trackerID
	start := func() tea.Msg {
		if run, ok := svc.OpenRun(id); ok && run.Date == dates.Format(svc.Today()) {
			return startedMsg{run: run}
		}
		run, err := svc.StartRecovery(context.Background(), id)
		return startedMsg{run: run, err: err}
	}
	return tea.Batch(start, tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (s *ProtocolScreen) Title() string {
	return "Recovery protocol"
}

func (s *ProtocolScreen) KeyHints() []layout.KeyHint {
	if s.done {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Space", Description: "Check"},
		{Key: "Enter", Description: "Check / Finish"},
		{Key: "Esc", Description: "Leave"},
	}
}

// Checked returns how many steps are ticked.
func (s *ProtocolScreen) Checked() int {
	n := 0
	for _, c := range s.checked {
		if c {
			n++
		}
	}
	return n
}

func (s *ProtocolScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.run = msg.run
		return s, nil

	case completedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.run = msg.run
		s.done = true
		s.notice = fmt.Sprintf("Done. %d of %d steps. Recovery counts toward today's points.", msg.run.CompletedSteps, len(s.steps))
		if n := components.AwardNotice(msg.awarded.All()); n != "" {
			s.notice += "\n" + n
		}
		return s, nil

	case tickMsg:
		if s.done {
			return s, nil
		}
		return s, tick()

	case tea.KeyPressMsg:
		if msg.String() == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		if s.done || s.run.ID == "" {
			return s, nil
		}
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j", "tab":
			if s.cursor < len(s.steps) {
				s.cursor++
			}
		case "space", " ":
			s.toggle()
		case "enter":
			if s.cursor == len(s.steps) {
				return s, s.complete()
			}
			s.toggle()
		}
	}
	return s, nil
}

func (s *ProtocolScreen) toggle() {
	if s.cursor < len(s.steps) {
		s.checked[s.cursor] = !s.checked[s.cursor]
		if s.checked[s.cursor] {
			s.cursor++
		}
	}
}

func (s *ProtocolScreen) complete() tea.Cmd {
	svc, runID, steps := s.svc, s.run.ID, s.Checked()
	return func() tea.Msg {
		run, awarded, err := svc.CompleteRecovery(context.Background(), runID, steps)
		return completedMsg{run: run, awarded: awarded, err: err}
	}
}

// remaining is the time left on the run's suggested duration.
func (s *ProtocolScreen) remaining() time.Duration {
	if s.run.ID == "" {
		return 0
	}
	total := time.Duration(s.run.DurationMinutes) * time.Minute
	left := total - s.now().Sub(s.run.Started())
	return max(left, 0).Round(time.Second)
}

func (s *ProtocolScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered(lipgloss.NewStyle().Foreground(theme.Error).Render("\n\nError: "+s.errMsg), width)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("One step at a time"))
	if !s.done {
		b.WriteString("  " + theme.Subtitle.Render(fmt.Sprintf("%s left", s.remaining())))
	}
	b.WriteString("\n\n")

	for i, step := range s.steps {
		box := "[ ]"
		if s.checked[i] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, step.Title)
		style := theme.Unselected
		if s.checked[i] {
			style = lipgloss.NewStyle().Foreground(theme.Success)
		}
		if i == s.cursor && !s.done {
			style = theme.Selected
			line = "▸ " + line
		} else {
			line = "  " + line
		}
		b.WriteString(style.Render(line))
		if i == s.cursor && step.Caption != "" && !s.done {
			b.WriteString("  " + theme.Hint.Render(step.Caption))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if s.done {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(s.notice))
	} else {
		label := fmt.Sprintf("Finish (%d/%d)", s.Checked(), len(s.steps))
		b.WriteString(components.NewButton(label, s.cursor == len(s.steps)).View())
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
