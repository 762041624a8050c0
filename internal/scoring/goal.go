package scoring

import (
	"math"
	"time"

	"github.com/abhisek/habitcheck/internal/dates"
	"github.com/abhisek/habitcheck/internal/protocol"
	"github.com/abhisek/habitcheck/internal/tracker"
)

// Progress is the state of one goal window.
type Progress struct {
	Current   float64 `json:"current"`
	Target    float64 `json:"target"`
	Remaining float64 `json:"remaining"`
	Percent   float64 `json:"percent"` // 0..1
}

// Done reports whether the target has been reached.
func (p Progress) Done() bool {
	return p.Target > 0 && p.Current >= p.Target
}

// GoalProgress covers the trailing 7-day and 30-day windows.
type GoalProgress struct {
	Weekly  Progress `json:"weekly"`
	Monthly Progress `json:"monthly"`
}

// GoalValue measures the trailing days ending at today in the unit of mode.
func GoalValue(entries []tracker.Entry, runs []protocol.Run, mode tracker.GoalMode, days int, today time.Time) float64 {
	sum := RangeScore(entries, dates.LastNDays(days, today), protocol.RecoveryDates(runs))
	switch mode {
	case tracker.GoalGood:
		return float64(sum.Counts.Good)
	case tracker.GoalPoints:
		return sum.TotalScore
	default:
		return float64(sum.Logged)
	}
}

// GoalProgressFor computes weekly and monthly progress towards the targets.
// A zero target yields Percent 0.
func GoalProgressFor(entries []tracker.Entry, runs []protocol.Run, mode tracker.GoalMode, weeklyTarget, monthlyTarget float64, today time.Time) GoalProgress {
	return GoalProgress{
		Weekly:  progress(GoalValue(entries, runs, mode, 7, today), weeklyTarget),
		Monthly: progress(GoalValue(entries, runs, mode, 30, today), monthlyTarget),
	}
}

func progress(current, target float64) Progress {
	p := Progress{
		Current:   round1(current),
		Target:    target,
		Remaining: round1(math.Max(0, target-current)),
	}
	if target != 0 {
		p.Percent = math.Max(0, math.Min(1, current/target))
	}
	return p
}

// WeeklyGoalTimeline returns one trailing-7-day goal value per week, oldest
// first, the last ending at today.
func WeeklyGoalTimeline(entries []tracker.Entry, runs []protocol.Run, mode tracker.GoalMode, weeks int, today time.Time) []float64 {
	if weeks <= 0 {
		return []float64{}
	}
	values := make([]float64, 0, weeks)
	for i := weeks - 1; i >= 0; i-- {
		end := dates.AddDays(today, -7*i)
		values = append(values, round1(GoalValue(entries, runs, mode, 7, end)))
	}
	return values
}
