package insights

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/habitcheck/internal/journal/journaltest"
)

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"empty", nil, ""},
		{"all zero", []float64{0, 0}, "▁▁"},
		{"scaled to peak", []float64{0, 1, 2}, "▁▄█"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sparkline(tt.values); got != tt.want {
				t.Errorf("Sparkline(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

func TestTabsSwitch(t *testing.T) {
	s := New(journaltest.WithTracker(t, "Walk"))
	s.Update(s.Init()())

	if !strings.Contains(s.View(100, 40), "Streaks") {
		t.Error("stats tab should show streaks")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if s.tab != tabBadges {
		t.Fatalf("tab = %v, want badges", s.tab)
	}
	if !strings.Contains(s.View(100, 40), "All trackers") {
		t.Error("badges tab should list global badges")
	}
}
