package trackers

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/habitcheck/internal/journal"
	"github.com/abhisek/habitcheck/internal/router"
	"github.com/abhisek/habitcheck/internal/screen"
	"github.com/abhisek/habitcheck/internal/tracker"
	"github.com/abhisek/habitcheck/internal/ui/components"
	"github.com/abhisek/habitcheck/internal/ui/layout"
	"github.com/abhisek/habitcheck/internal/ui/theme"
)

type doneMsg struct {
	pop bool
	err error
}

type mode int

const (
	modeList mode = iota
	modeAdd
	modeConfirmDelete
)

// TrackersScreen lists trackers and lets the user switch, add, remove and
// change goal modes.
type TrackersScreen struct {
	svc    *journal.Service
	list   []tracker.Tracker
	active string
	menu   components.Menu
	input  components.TextInput
	mode   mode
	errMsg string
}

var _ screen.Screen = (*TrackersScreen)(nil)
var _ screen.KeyHintProvider = (*TrackersScreen)(nil)
var _ screen.InputCapturer = (*TrackersScreen)(nil)

// New creates a new TrackersScreen.
func New(svc *journal.Service) *TrackersScreen {
	s := &TrackersScreen{svc: svc}
	s.reload()
	if len(s.list) == 0 {
		s.startAdd()
	}
	return s
}

func (s *TrackersScreen) reload() {
	d := s.svc.Data()
	s.list = d.Trackers
	s.active = d.ActiveTrackerID

	selected := s.menu.Selected
	items := make([]components.MenuItem, 0, len(s.list))
	for _, t := range s.list {
		id := t.ID
		label := t.Name
		if id == s.active {
			label += " ●"
		}
		items = append(items, components.MenuItem{
			Label: label,
			Hint:  fmt.Sprintf("%s · %d/%d %s", t.GoalMode.Label(), t.WeeklyTarget, t.MonthlyTarget, t.GoalMode.Unit(true)),
			Action: func() tea.Cmd {
				return s.run(true, func(ctx context.Context) error { return s.svc.SwitchTracker(ctx, id) })
			},
		})
	}
	s.menu = components.NewMenu(items)
	if selected < len(items) {
		s.menu.Selected = selected
	}
}

func (s *TrackersScreen) run(pop bool, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return doneMsg{pop: pop, err: fn(context.Background())}
	}
}

func (s *TrackersScreen) startAdd() {
	s.mode = modeAdd
	s.input = components.NewTextInput("Name your goal, e.g. No sugar", 60, 40)
}

func (s *TrackersScreen) selected() (tracker.Tracker, bool) {
	if s.menu.Selected < 0 || s.menu.Selected >= len(s.list) {
		return tracker.Tracker{}, false
	}
	return s.list[s.menu.Selected], true
}

func (s *TrackersScreen) Init() tea.Cmd {
	return nil
}

func (s *TrackersScreen) Title() string {
	return "Trackers"
}

func (s *TrackersScreen) CapturingInput() bool {
	return s.mode == modeAdd
}

func (s *TrackersScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeAdd:
		return []layout.KeyHint{{Key: "Enter", Description: "Create"}, {Key: "Esc", Description: "Cancel"}}
	case modeConfirmDelete:
		return []layout.KeyHint{{Key: "y", Description: "Delete"}, {Key: "n", Description: "Keep"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Use"},
		{Key: "a", Description: "Add"},
		{Key: "g", Description: "Goal mode"},
		{Key: "d", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TrackersScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.reload()
		if msg.pop {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil

	case tea.KeyPressMsg:
		switch s.mode {
		case modeAdd:
			return s.updateAdd(msg)
		case modeConfirmDelete:
			return s.updateConfirm(msg)
		}
		return s.updateList(msg)
	}

	if s.mode == modeAdd {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *TrackersScreen) updateList(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "a":
		s.startAdd()
		return s, s.input.Model.Focus()
	case "d":
		if _, ok := s.selected(); ok {
			s.mode = modeConfirmDelete
		}
		return s, nil
	case "g":
		t, ok := s.selected()
		if !ok {
			return s, nil
		}
		t.SetGoal(nextMode(t.GoalMode), 0, 0)
		return s, s.run(false, func(ctx context.Context) error { return s.svc.UpdateTracker(ctx, t) })
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *TrackersScreen) updateAdd(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.mode = modeList
		if len(s.list) == 0 {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	case "enter":
		name := s.input.Value()
		s.mode = modeList
		return s, s.run(true, func(ctx context.Context) error {
			_, err := s.svc.AddTracker(ctx, name)
			return err
		})
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *TrackersScreen) updateConfirm(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	s.mode = modeList
	t, ok := s.selected()
	if !ok || msg.String() != "y" {
		return s, nil
	}
	s.menu.Selected = 0
	return s, s.run(false, func(ctx context.Context) error { return s.svc.RemoveTracker(ctx, t.ID) })
}

func nextMode(m tracker.GoalMode) tracker.GoalMode {
	modes := tracker.AllGoalModes()
	for i, mm := range modes {
		if mm == m {
			return modes[(i+1)%len(modes)]
		}
	}
	return modes[0]
}

func (s *TrackersScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Your trackers") + "\n\n")

	if len(s.list) == 0 && s.mode != modeAdd {
		b.WriteString(theme.Hint.Render("No trackers yet.") + "\n")
	}
	b.WriteString(s.menu.View())

	switch s.mode {
	case modeAdd:
		b.WriteString("\n" + theme.Body.Render("New tracker") + "\n" + s.input.View() + "\n")
	case modeConfirmDelete:
		if t, ok := s.selected(); ok {
			b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Error).
				Render(fmt.Sprintf("Delete %q with all its days, runs and badges? (y/n)", t.Name)) + "\n")
		}
	}
	if s.errMsg != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Error).Render("Error: "+s.errMsg) + "\n")
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
