package scoring

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/abhisek/habitcheck/internal/dates"
	"github.com/abhisek/habitcheck/internal/protocol"
	"github.com/abhisek/habitcheck/internal/tracker"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}

func entry(date string, s tracker.Status) tracker.Entry {
	return tracker.Entry{Date: date, Status: s, UpdatedAt: 1}
}

func completedRun(date string) protocol.Run {
	done := int64(2)
	return protocol.Run{ID: "run-" + date, TrackerID: "tracker-1", Date: date, StartedAt: 1, CompletedAt: &done, CompletedSteps: 6, DurationMinutes: 10}
}

// goodDays returns n consecutive good entries starting at start.
func goodDays(start time.Time, n int) []tracker.Entry {
	out := make([]tracker.Entry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, entry(dates.Format(dates.AddDays(start, i)), tracker.StatusGood))
	}
	return out
}

func TestComputeStats_StreaksAndCounts(t *testing.T) {
	entries := []tracker.Entry{
		entry("2024-01-01", tracker.StatusGood),
		entry("2024-01-02", tracker.StatusGood),
		entry("2024-01-03", tracker.StatusMixed),
		entry("2024-01-04", tracker.StatusGood),
		entry("2024-01-05", tracker.StatusGood),
	}

	stats := ComputeStats(entries, nil, day(2024, 1, 5))

	if stats.BestGoodStreak != 2 {
		t.Errorf("BestGoodStreak = %d, want 2", stats.BestGoodStreak)
	}
	if stats.CurrentGoodStreak != 2 {
		t.Errorf("CurrentGoodStreak = %d, want 2", stats.CurrentGoodStreak)
	}
	if stats.LoggingStreak != 5 {
		t.Errorf("LoggingStreak = %d, want 5", stats.LoggingStreak)
	}
	if stats.BestLoggingStreak != 5 {
		t.Errorf("BestLoggingStreak = %d, want 5", stats.BestLoggingStreak)
	}
	if stats.Last7.Good != 4 || stats.Last7.Mixed != 1 || stats.Last7.Reset != 0 {
		t.Errorf("Last7 = %+v, want {4 1 0}", stats.Last7)
	}
	if stats.LoggedLast7 != 5 || stats.LoggedLast30 != 5 {
		t.Errorf("logged = %d/%d, want 5/5", stats.LoggedLast7, stats.LoggedLast30)
	}
	if stats.ConsistencyWeekly != 71 {
		t.Errorf("ConsistencyWeekly = %d, want 71", stats.ConsistencyWeekly)
	}
	if stats.ConsistencyMonthly != 17 {
		t.Errorf("ConsistencyMonthly = %d, want 17", stats.ConsistencyMonthly)
	}
	if stats.MomentumWeekly != 14.2 {
		t.Errorf("MomentumWeekly = %v, want 14.2", stats.MomentumWeekly)
	}
	if len(stats.DailyScores) != 30 {
		t.Errorf("len(DailyScores) = %d, want 30", len(stats.DailyScores))
	}
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil, nil, day(2024, 3, 1))

	if stats.BestGoodStreak != 0 || stats.LoggingStreak != 0 || stats.MomentumMonthly != 0 || stats.ConsistencyWeekly != 0 {
		t.Errorf("empty stats = %+v", stats)
	}
	for i, v := range stats.DailyScores {
		if v != 0 {
			t.Errorf("DailyScores[%d] = %v, want 0", i, v)
		}
	}
}

func TestComputeStats_ResetBreaksGoodStreak(t *testing.T) {
	entries := []tracker.Entry{
		entry("2024-01-01", tracker.StatusGood),
		entry("2024-01-02", tracker.StatusReset),
		entry("2024-01-03", tracker.StatusGood),
	}

	stats := ComputeStats(entries, nil, day(2024, 1, 3))
	if stats.CurrentGoodStreak != 1 {
		t.Errorf("CurrentGoodStreak = %d, want 1", stats.CurrentGoodStreak)
	}
	if stats.BestGoodStreak != 1 {
		t.Errorf("BestGoodStreak = %d, want 1", stats.BestGoodStreak)
	}
}

func TestComputeStreaks_ResetAfterLongStreak(t *testing.T) {
	entries := goodDays(day(2024, 1, 1), 12)
	entries = append(entries, entry("2024-01-13", tracker.StatusReset))

	s := ComputeStreaks(entries, day(2024, 1, 13))
	if s.CurrentGood != 0 {
		t.Errorf("CurrentGood = %d, want 0", s.CurrentGood)
	}
	if s.BestGood != 12 {
		t.Errorf("BestGood = %d, want 12", s.BestGood)
	}
	if s.CurrentLogging != 13 {
		t.Errorf("CurrentLogging = %d, want 13", s.CurrentLogging)
	}

	entries = append(entries, entry("2024-01-14", tracker.StatusGood))
	s = ComputeStreaks(entries, day(2024, 1, 14))
	if s.CurrentGood != 1 {
		t.Errorf("CurrentGood after reset = %d, want 1", s.CurrentGood)
	}
}

func TestComputeStreaks_TodayUnlogged(t *testing.T) {
	entries := goodDays(day(2024, 1, 1), 5)

	s := ComputeStreaks(entries, day(2024, 1, 6))
	if s.CurrentGood != 0 || s.CurrentLogging != 0 {
		t.Errorf("current = %d/%d, want 0/0", s.CurrentGood, s.CurrentLogging)
	}
	if s.BestGood != 5 || s.BestLogging != 5 {
		t.Errorf("best = %d/%d, want 5/5", s.BestGood, s.BestLogging)
	}
}

func TestComputeStreaks_GapResets(t *testing.T) {
	entries := []tracker.Entry{
		entry("2024-01-01", tracker.StatusGood),
		entry("2024-01-02", tracker.StatusGood),
		entry("2024-01-04", tracker.StatusGood),
	}
	s := ComputeStreaks(entries, day(2024, 1, 4))
	if s.BestGood != 2 || s.BestLogging != 2 {
		t.Errorf("best = %d/%d, want 2/2", s.BestGood, s.BestLogging)
	}
	if s.CurrentGood != 1 || s.CurrentLogging != 1 {
		t.Errorf("current = %d/%d, want 1/1", s.CurrentGood, s.CurrentLogging)
	}
}

func TestComputeStreaks_OrderIndependent(t *testing.T) {
	sorted := []tracker.Entry{
		entry("2024-01-01", tracker.StatusGood),
		entry("2024-01-02", tracker.StatusMixed),
		entry("2024-01-03", tracker.StatusGood),
		entry("2024-01-04", tracker.StatusGood),
	}
	shuffled := []tracker.Entry{sorted[2], sorted[0], sorted[3], sorted[1]}

	today := day(2024, 1, 4)
	if a, b := ComputeStreaks(sorted, today), ComputeStreaks(shuffled, today); a != b {
		t.Errorf("streaks differ: %+v vs %+v", a, b)
	}
}

func TestBestStreakNeverBelowCurrent(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	statuses := tracker.AllStatuses()
	today := day(2024, 6, 30)

	for trial := 0; trial < 200; trial++ {
		var entries []tracker.Entry
		for i := 0; i < 60; i++ {
			if r.IntN(4) == 0 {
				continue
			}
			d := dates.AddDays(today, -i)
			entries = append(entries, entry(dates.Format(d), statuses[r.IntN(len(statuses))]))
		}
		s := ComputeStreaks(entries, today)
		if s.BestGood < s.CurrentGood {
			t.Fatalf("trial %d: BestGood %d < CurrentGood %d", trial, s.BestGood, s.CurrentGood)
		}
		if s.BestLogging < s.CurrentLogging {
			t.Fatalf("trial %d: BestLogging %d < CurrentLogging %d", trial, s.BestLogging, s.CurrentLogging)
		}
	}
}

func TestChainBonus_MonotonicAndCapped(t *testing.T) {
	prev := 0.0
	for n := 1; n <= 40; n++ {
		b := ChainBonus(n)
		if b < prev {
			t.Errorf("ChainBonus(%d) = %v < ChainBonus(%d) = %v", n, b, n-1, prev)
		}
		if b > ChainBonusCap {
			t.Errorf("ChainBonus(%d) = %v exceeds cap", n, b)
		}
		prev = b
	}
	if got := ChainBonus(20); got != 3.0 {
		t.Errorf("ChainBonus(20) = %v, want 3.0", got)
	}
}

func TestDailyScores_TwentyGoodDaysCapBonus(t *testing.T) {
	entries := goodDays(day(2024, 1, 1), 20)

	scores := DailyScores(entries, nil, 20, day(2024, 1, 20))
	if len(scores) != 20 {
		t.Fatalf("len = %d, want 20", len(scores))
	}
	if scores[0] != 3.2 {
		t.Errorf("scores[0] = %v, want 3.2", scores[0])
	}
	if scores[13] != 5.8 {
		t.Errorf("scores[13] = %v, want 5.8", scores[13])
	}
	for _, i := range []int{14, 15, 19} {
		if scores[i] != 6.0 {
			t.Errorf("scores[%d] = %v, want 6.0", i, scores[i])
		}
	}
	if got := PointsInRange(entries, nil, 20, day(2024, 1, 20)); got != 99.0 {
		t.Errorf("PointsInRange = %v, want 99", got)
	}
}

func TestDailyScores_Trend(t *testing.T) {
	entries := []tracker.Entry{
		entry("2024-01-01", tracker.StatusGood),
		entry("2024-01-02", tracker.StatusGood),
		entry("2024-01-03", tracker.StatusMixed),
	}

	trend := DailyScores(entries, nil, 3, day(2024, 1, 3))
	want := []float64{3.2, 3.4, 1}
	for i := range want {
		if trend[i] != want[i] {
			t.Errorf("trend[%d] = %v, want %v", i, trend[i], want[i])
		}
	}
}

func TestDailyScores_MissingDaysAreZero(t *testing.T) {
	entries := []tracker.Entry{entry("2024-01-01", tracker.StatusGood), entry("2024-01-03", tracker.StatusGood)}

	trend := DailyScores(entries, nil, 3, day(2024, 1, 3))
	if trend[1] != 0 {
		t.Errorf("trend[1] = %v, want 0", trend[1])
	}
	if trend[2] != 3.2 {
		t.Errorf("trend[2] = %v, want 3.2 (chain reset by gap)", trend[2])
	}
}

func TestRangeScore_MixedBreaksChain(t *testing.T) {
	entries := []tracker.Entry{
		entry("2024-01-01", tracker.StatusGood),
		entry("2024-01-02", tracker.StatusMixed),
		entry("2024-01-03", tracker.StatusGood),
	}
	sum := RangeScore(entries, dates.LastNDays(3, day(2024, 1, 3)), nil)
	if sum.TotalScore != 7.4 {
		t.Errorf("TotalScore = %v, want 7.4", sum.TotalScore)
	}
	if sum.Logged != 3 || sum.Counts.Good != 2 || sum.Counts.Mixed != 1 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestRangeScore_DuplicateDateLastWins(t *testing.T) {
	entries := []tracker.Entry{
		entry("2024-01-01", tracker.StatusReset),
		entry("2024-01-01", tracker.StatusGood),
	}
	sum := RangeScore(entries, dates.LastNDays(1, day(2024, 1, 1)), nil)
	if sum.Logged != 1 || sum.Counts.Good != 1 || sum.TotalScore != 3.2 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestRecoveryPoints(t *testing.T) {
	entries := []tracker.Entry{entry("2024-01-01", tracker.StatusGood)}
	today := day(2024, 1, 1)

	tests := []struct {
		name string
		runs []protocol.Run
		want float64
	}{
		{"no runs", nil, 3.2},
		{"completed run", []protocol.Run{completedRun("2024-01-01")}, 4.2},
		{"two runs same day", []protocol.Run{completedRun("2024-01-01"), completedRun("2024-01-01")}, 4.2},
		{"abandoned run", []protocol.Run{{ID: "a", TrackerID: "tracker-1", Date: "2024-01-01"}}, 3.2},
		{"run on unlogged day", []protocol.Run{completedRun("2023-12-31")}, 3.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointsInRange(entries, tt.runs, 1, today); got != tt.want {
				t.Errorf("PointsInRange = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTotalPoints(t *testing.T) {
	entries := []tracker.Entry{
		entry("2024-01-04", tracker.StatusGood),
		entry("2024-01-01", tracker.StatusGood),
		entry("2024-01-02", tracker.StatusGood),
	}
	if got := TotalPoints(entries, nil); got != 9.8 {
		t.Errorf("TotalPoints = %v, want 9.8", got)
	}
	if got := TotalPoints(nil, nil); got != 0 {
		t.Errorf("TotalPoints(empty) = %v, want 0", got)
	}
}

func TestTotalPoints_FortyGoodDays(t *testing.T) {
	entries := goodDays(day(2024, 2, 1), 40)
	got := TotalPoints(entries, nil)
	if got < 100 {
		t.Errorf("TotalPoints = %v, want >= 100", got)
	}
	if got != 219 {
		t.Errorf("TotalPoints = %v, want 219", got)
	}
}

func TestGoalProgressFor_Modes(t *testing.T) {
	entries := []tracker.Entry{
		entry("2024-01-01", tracker.StatusGood),
		entry("2024-01-02", tracker.StatusMixed),
		entry("2024-01-03", tracker.StatusGood),
		entry("2024-01-04", tracker.StatusReset),
		entry("2024-01-05", tracker.StatusGood),
	}
	today := day(2024, 1, 5)

	consistency := GoalProgressFor(entries, nil, tracker.GoalConsistency, 5, 20, today)
	if consistency.Weekly.Current != 5 {
		t.Errorf("consistency weekly = %v, want 5", consistency.Weekly.Current)
	}
	if consistency.Monthly.Remaining != 15 || consistency.Monthly.Percent != 0.25 {
		t.Errorf("consistency monthly = %+v", consistency.Monthly)
	}
	if !consistency.Weekly.Done() {
		t.Error("weekly consistency goal should be done")
	}

	good := GoalProgressFor(entries, nil, tracker.GoalGood, 3, 12, today)
	if good.Weekly.Current != 3 {
		t.Errorf("good weekly = %v, want 3", good.Weekly.Current)
	}

	points := GoalProgressFor(entries, nil, tracker.GoalPoints, 10, 40, today)
	if want := PointsInRange(entries, nil, 7, today); points.Weekly.Current != want {
		t.Errorf("points weekly = %v, want %v", points.Weekly.Current, want)
	}
	if points.Weekly.Current != 10.6 {
		t.Errorf("points weekly = %v, want 10.6", points.Weekly.Current)
	}
	if points.Weekly.Percent != 1 || points.Weekly.Remaining != 0 {
		t.Errorf("points weekly = %+v, want clamped to 1 with nothing remaining", points.Weekly)
	}
}

func TestGoalProgressFor_ZeroTarget(t *testing.T) {
	entries := goodDays(day(2024, 1, 1), 5)
	p := GoalProgressFor(entries, nil, tracker.GoalPoints, 0, 0, day(2024, 1, 5))

	if p.Weekly.Percent != 0 || p.Monthly.Percent != 0 {
		t.Errorf("percent = %v/%v, want 0/0", p.Weekly.Percent, p.Monthly.Percent)
	}
	if p.Weekly.Remaining != 0 {
		t.Errorf("remaining = %v, want 0", p.Weekly.Remaining)
	}
}

func TestWeeklyGoalTimeline(t *testing.T) {
	today := day(2024, 3, 21)
	entries := goodDays(dates.AddDays(today, -6), 7)

	got := WeeklyGoalTimeline(entries, nil, tracker.GoalConsistency, 3, today)
	want := []float64{0, 0, 7}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("timeline[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if got := WeeklyGoalTimeline(entries, nil, tracker.GoalGood, 0, today); len(got) != 0 {
		t.Errorf("zero weeks = %v, want empty", got)
	}
}
