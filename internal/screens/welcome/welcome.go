package welcome

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/habitcheck/internal/journal"
	"github.com/abhisek/habitcheck/internal/router"
	"github.com/abhisek/habitcheck/internal/screen"
	"github.com/abhisek/habitcheck/internal/ui/components"
	"github.com/abhisek/habitcheck/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	totalDur     = 1500 * time.Millisecond
)

var sparkleFrames = []string{"·", "✦", "✧", "✦"}

type tickMsg time.Time

type finishedMsg struct {
	err error
}

// WelcomeScreen is the first-run flow: a short splash, then naming the first
// tracker. It replaces itself with the home screen when done.
type WelcomeScreen struct {
	svc          *journal.Service
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	naming       bool
	input        components.TextInput
	transitioned bool
	errMsg       string
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.InputCapturer = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by
// homeFactory.
func New(svc *journal.Service, homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		svc:         svc,
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) CapturingInput() bool {
	return w.naming
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		if w.naming || w.transitioned {
			return w, nil
		}
		return w, tea.Tick(tickInterval, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})

	case finishedMsg:
		if msg.err != nil {
			w.errMsg = msg.err.Error()
			return w, nil
		}
		return w, w.transition()

	case tea.KeyPressMsg:
		if w.naming {
			return w.updateName(msg)
		}
		// Any key skips the splash.
		w.elapsed = totalDur
		if len(w.svc.Data().Trackers) > 0 {
			return w, w.finish("")
		}
		w.naming = true
		w.input = components.NewTextInput("e.g. Stay off social media", 60, 40)
		return w, w.input.Model.Focus()
	}

	if w.naming {
		var cmd tea.Cmd
		w.input, cmd = w.input.Update(msg)
		return w, cmd
	}
	return w, nil
}

func (w *WelcomeScreen) updateName(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "enter" {
		return w, w.finish(w.input.Value())
	}
	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

// finish creates the first tracker (when name is set) and records that
// onboarding is complete.
func (w *WelcomeScreen) finish(name string) tea.Cmd {
	svc, naming := w.svc, w.naming
	return func() tea.Msg {
		ctx := context.Background()
		if naming {
			if _, err := svc.AddTracker(ctx, name); err != nil {
				return finishedMsg{err: err}
			}
		}
		return finishedMsg{err: svc.SetOnboardingComplete(ctx, true)}
	}
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	banner := RenderBanner(width)
	if w.elapsed >= phase1End && !w.naming {
		frame := sparkleFrames[w.tickCount%len(sparkleFrames)]
		s := lipgloss.NewStyle().Foreground(theme.Accent).Render(frame)
		banner = s + "  " + banner + "  " + s
	}
	sections = append(sections, banner, "")

	if w.naming {
		sections = append(sections,
			theme.Body.Bold(true).Render("What do you want to track?"),
			theme.Hint.Render("One goal per tracker. You can add more later."),
			"",
			w.input.View(),
			"",
			theme.Hint.Render("enter to start"))
	} else {
		sections = append(sections,
			theme.Body.Bold(true).Render("One check-in a day. Good, mixed or reset."),
			"",
			theme.Hint.Render("press any key to begin"))
	}

	if w.errMsg != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(theme.Error).Render("Error: "+w.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
