package journal

import (
	"time"

	"github.com/abhisek/habitcheck/internal/badges"
	"github.com/abhisek/habitcheck/internal/dates"
	"github.com/abhisek/habitcheck/internal/protocol"
	"github.com/abhisek/habitcheck/internal/scoring"
	"github.com/abhisek/habitcheck/internal/tracker"
)

// TimelineWeeks is how many weeks Summary includes in the goal timeline.
const TimelineWeeks = 8

// Summary is everything the insights views show for one tracker.
type Summary struct {
	Tracker      tracker.Tracker      `json:"tracker"`
	Today        string               `json:"today"`
	TodayEntry   *tracker.Entry       `json:"todayEntry,omitempty"`
	Stats        scoring.Stats        `json:"stats"`
	Goal         scoring.GoalProgress `json:"goal"`
	Timeline     []float64            `json:"timeline"`
	TotalPoints  float64              `json:"totalPoints"`
	Context      badges.Context       `json:"context"`
	Badges       []badges.Badge       `json:"badges"`
	GlobalBadges []badges.Badge       `json:"globalBadges"`
	Recovery30   int                  `json:"recovery30"`
	Entries      []tracker.Entry      `json:"-"`
	Runs         []protocol.Run       `json:"-"`
}

// Summary computes the insight summary for a tracker (empty id means the
// active tracker) as of today.
func (s *Service) Summary(trackerID string, today time.Time) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.resolve(s.data, trackerID)
	if err != nil {
		return Summary{}, err
	}
	entries := tracker.Sorted(s.data.Entries[t.ID])
	runs := s.data.RunsFor(t.ID)

	sum := Summary{
		Tracker:      t,
		Today:        dates.Format(today),
		Stats:        scoring.ComputeStats(entries, runs, today),
		Goal:         scoring.GoalProgressFor(entries, runs, t.GoalMode, float64(t.WeeklyTarget), float64(t.MonthlyTarget), today),
		Timeline:     scoring.WeeklyGoalTimeline(entries, runs, t.GoalMode, TimelineWeeks, today),
		TotalPoints:  scoring.TotalPoints(entries, runs),
		Context:      badges.BuildContext(entries, runs, today),
		Badges:       append([]badges.Badge{}, s.data.Badges.Trackers[t.ID]...),
		GlobalBadges: append([]badges.Badge{}, s.data.Badges.Global...),
		Recovery30:   len(protocol.CompletedRunsInRange(runs, t.ID, 30, today)),
		Entries:      entries,
		Runs:         runs,
	}
	if e, ok := tracker.Find(entries, sum.Today); ok {
		sum.TodayEntry = &e
	}
	return sum, nil
}
