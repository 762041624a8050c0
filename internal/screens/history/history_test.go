package history

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/habitcheck/internal/dates"
	"github.com/abhisek/habitcheck/internal/journal/journaltest"
	"github.com/abhisek/habitcheck/internal/tracker"
)

func loaded(t *testing.T) *HistoryScreen {
	t.Helper()
	s := New(journaltest.WithTracker(t, "Walk"))
	s.Update(s.Init()())
	return s
}

func TestMoveNeverPassesToday(t *testing.T) {
	s := loaded(t)

	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if got := dates.Format(s.selected); got != "2024-01-10" {
		t.Errorf("selected = %s, want 2024-01-10", got)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if got := dates.Format(s.selected); got != "2024-01-03" {
		t.Errorf("selected = %s, want 2024-01-03", got)
	}

	s.Update(tea.KeyPressMsg{Code: '['})
	if got := dates.Format(s.selected); got != "2023-12-03" {
		t.Errorf("selected = %s, want 2023-12-03", got)
	}
}

func TestSetAndClearPastDay(t *testing.T) {
	s := loaded(t)
	s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})

	_, cmd := s.Update(tea.KeyPressMsg{Code: '3'})
	if cmd == nil {
		t.Fatal("3 should log the selected day")
	}
	_, reload := s.Update(cmd())
	s.Update(reload())

	e, ok := s.byDate["2024-01-09"]
	if !ok {
		t.Fatal("2024-01-09 should be logged")
	}
	if e.Status != tracker.StatusReset {
		t.Errorf("status = %v, want %v", e.Status, tracker.StatusReset)
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: 'x'})
	if cmd == nil {
		t.Fatal("x should clear a logged day")
	}
	_, reload = s.Update(cmd())
	s.Update(reload())
	if _, ok := s.byDate["2024-01-09"]; ok {
		t.Error("2024-01-09 should be cleared")
	}

	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'x'}); cmd != nil {
		t.Error("clearing an empty day should be a no-op")
	}
}
