package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/habitcheck/internal/journal"
	"github.com/abhisek/habitcheck/internal/logger"
	"github.com/abhisek/habitcheck/internal/router"
	"github.com/abhisek/habitcheck/internal/screen"
	"github.com/abhisek/habitcheck/internal/screens/home"
	"github.com/abhisek/habitcheck/internal/screens/welcome"
	"github.com/abhisek/habitcheck/internal/ui/layout"
)

// Options holds dependencies for the TUI.
type Options struct {
	Service *journal.Service
	Logger  *logger.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	svc    *journal.Service
	log    *logger.Logger
	router *router.Router
	width  int
	height int
}

// newAppModel starts on the welcome flow until onboarding is done, then on
// the home screen.
func newAppModel(opts Options) AppModel {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	svc := opts.Service
	homeFactory := func() screen.Screen { return home.New(svc) }

	done, err := svc.OnboardingComplete(context.Background())
	if err != nil {
		log.Warn("read onboarding flag", "error", err)
	}

	var start screen.Screen
	if done {
		start = homeFactory()
	} else {
		start = welcome.New(svc, homeFactory)
	}
	return AppModel{
		svc:    svc,
		log:    log,
		router: router.New(start),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

// capturing reports whether the active screen wants raw keystrokes.
func (m AppModel) capturing() bool {
	if c, ok := m.router.Active().(screen.InputCapturer); ok {
		return c.CapturingInput()
	}
	return false
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if !m.capturing() {
				return m, tea.Quit
			}
		case "esc":
			if m.router.Depth() > 1 && !m.capturing() {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) headerInfo() layout.HeaderInfo {
	if _, ok := m.svc.ActiveTracker(); !ok {
		return layout.HeaderInfo{}
	}
	sum, err := m.svc.Summary("", m.svc.Today())
	if err != nil {
		return layout.HeaderInfo{}
	}
	return layout.HeaderInfo{
		Tracker:    sum.Tracker.Name,
		GoodStreak: sum.Stats.CurrentGoodStreak,
		Points:     sum.TotalPoints,
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.headerInfo(), m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Service == nil {
		return fmt.Errorf("app: journal service is required")
	}
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
