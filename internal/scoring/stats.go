package scoring

import (
	"math"
	"time"

	"github.com/abhisek/habitcheck/internal/dates"
	"github.com/abhisek/habitcheck/internal/protocol"
	"github.com/abhisek/habitcheck/internal/tracker"
)

// Stats is the derived summary shown for one tracker.
type Stats struct {
	Last7              Counts    `json:"last7"`
	Last30             Counts    `json:"last30"`
	LoggedLast7        int       `json:"loggedLast7"`
	LoggedLast30       int       `json:"loggedLast30"`
	CurrentGoodStreak  int       `json:"currentGoodStreak"`
	BestGoodStreak     int       `json:"bestGoodStreak"`
	LoggingStreak      int       `json:"loggingStreak"`
	BestLoggingStreak  int       `json:"bestLoggingStreak"`
	MomentumWeekly     float64   `json:"momentumWeekly"`
	MomentumMonthly    float64   `json:"momentumMonthly"`
	ConsistencyWeekly  int       `json:"consistencyWeekly"`
	ConsistencyMonthly int       `json:"consistencyMonthly"`
	DailyScores        []float64 `json:"dailyScores"`
}

// Streaks holds current and best streak lengths.
type Streaks struct {
	CurrentGood    int
	BestGood       int
	CurrentLogging int
	BestLogging    int
}

// ComputeStats derives the full stats summary for entries as of today.
// An empty history yields all-zero stats.
func ComputeStats(entries []tracker.Entry, runs []protocol.Run, today time.Time) Stats {
	byDate := tracker.ByDate(entries)
	recovered := protocol.RecoveryDates(runs)

	week := rangeScore(byDate, dates.LastNDays(7, today), recovered)
	month := rangeScore(byDate, dates.LastNDays(30, today), recovered)
	streaks := ComputeStreaks(entries, today)

	return Stats{
		Last7:              week.Counts,
		Last30:             month.Counts,
		LoggedLast7:        week.Logged,
		LoggedLast30:       month.Logged,
		CurrentGoodStreak:  streaks.CurrentGood,
		BestGoodStreak:     streaks.BestGood,
		LoggingStreak:      streaks.CurrentLogging,
		BestLoggingStreak:  streaks.BestLogging,
		MomentumWeekly:     week.TotalScore,
		MomentumMonthly:    month.TotalScore,
		ConsistencyWeekly:  percentOf(week.Logged, 7),
		ConsistencyMonthly: percentOf(month.Logged, 30),
		DailyScores:        DailyScores(entries, runs, 30, today),
	}
}

// ComputeStreaks walks the sorted history for best streaks, then counts
// backward from today for current ones. When today is unlogged both current
// streaks are 0.
func ComputeStreaks(entries []tracker.Entry, today time.Time) Streaks {
	var (
		s       Streaks
		good    int
		logging int
		prev    string
	)
	for _, e := range tracker.Sorted(entries) {
		if prev != "" && dates.NextKey(prev) != e.Date {
			good, logging = 0, 0
		}
		logging++
		if e.Status == tracker.StatusGood {
			good++
		} else {
			good = 0
		}
		s.BestGood = max(s.BestGood, good)
		s.BestLogging = max(s.BestLogging, logging)
		prev = e.Date
	}

	byDate := tracker.ByDate(entries)
	cursor := dates.Midnight(today)
	todayEntry, ok := byDate[dates.Format(cursor)]
	if !ok {
		return s
	}
	s.CurrentLogging = 1
	goodActive := todayEntry.Status == tracker.StatusGood
	if goodActive {
		s.CurrentGood = 1
	}
	for {
		cursor = dates.AddDays(cursor, -1)
		e, ok := byDate[dates.Format(cursor)]
		if !ok {
			break
		}
		s.CurrentLogging++
		if goodActive {
			if e.Status == tracker.StatusGood {
				s.CurrentGood++
			} else {
				goodActive = false
			}
		}
	}
	return s
}

func percentOf(n, of int) int {
	if of == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(of) * 100))
}
