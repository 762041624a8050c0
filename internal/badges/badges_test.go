package badges

import (
	"slices"
	"testing"
	"time"

	"github.com/abhisek/habitcheck/internal/dates"
	"github.com/abhisek/habitcheck/internal/protocol"
	"github.com/abhisek/habitcheck/internal/tracker"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.Local)
}

func goodDays(start time.Time, n int) []tracker.Entry {
	out := make([]tracker.Entry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, tracker.Entry{Date: dates.Format(dates.AddDays(start, i)), Status: tracker.StatusGood})
	}
	return out
}

func TestPerfectWeek(t *testing.T) {
	entries := goodDays(day(2024, 1, 1), 7)
	ctx := BuildContext(entries, nil, day(2024, 1, 7))

	if ctx.BestGoodStreak != 7 {
		t.Errorf("BestGoodStreak = %d, want 7", ctx.BestGoodStreak)
	}
	if ctx.Last7Good != 7 {
		t.Errorf("Last7Good = %d, want 7", ctx.Last7Good)
	}

	unlocked := Unlocked(Definitions(ScopeTracker), ctx)
	for _, id := range []string{"perfect-week", "good-streak-7", "first-log", "logged-7", "logging-streak-7"} {
		if !slices.Contains(unlocked, id) {
			t.Errorf("%s not unlocked; got %v", id, unlocked)
		}
	}
	if slices.Contains(unlocked, "good-streak-14") {
		t.Error("good-streak-14 should still be locked")
	}
}

func TestBackOnTrack(t *testing.T) {
	entries := []tracker.Entry{
		{Date: "2024-01-01", Status: tracker.StatusReset},
		{Date: "2024-01-02", Status: tracker.StatusGood},
	}
	ctx := BuildContext(entries, nil, day(2024, 1, 2))

	if ctx.BackOnTrackCount != 1 {
		t.Errorf("BackOnTrackCount = %d, want 1", ctx.BackOnTrackCount)
	}
	if !slices.Contains(Unlocked(Definitions(ScopeTracker), ctx), "back-on-track-1") {
		t.Error("back-on-track-1 not unlocked")
	}
}

func TestBackOnTrack_RequiresAdjacentDays(t *testing.T) {
	tests := []struct {
		name    string
		entries []tracker.Entry
		want    int
	}{
		{"gap between", []tracker.Entry{
			{Date: "2024-01-01", Status: tracker.StatusReset},
			{Date: "2024-01-03", Status: tracker.StatusGood},
		}, 0},
		{"mixed after reset", []tracker.Entry{
			{Date: "2024-01-01", Status: tracker.StatusReset},
			{Date: "2024-01-02", Status: tracker.StatusMixed},
		}, 0},
		{"across month boundary", []tracker.Entry{
			{Date: "2024-01-31", Status: tracker.StatusReset},
			{Date: "2024-02-01", Status: tracker.StatusGood},
		}, 1},
		{"three recoveries", []tracker.Entry{
			{Date: "2024-03-01", Status: tracker.StatusReset},
			{Date: "2024-03-02", Status: tracker.StatusGood},
			{Date: "2024-03-03", Status: tracker.StatusReset},
			{Date: "2024-03-04", Status: tracker.StatusGood},
			{Date: "2024-03-05", Status: tracker.StatusReset},
			{Date: "2024-03-06", Status: tracker.StatusGood},
		}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countBackOnTrack(tt.entries); got != tt.want {
				t.Errorf("countBackOnTrack = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPoints100(t *testing.T) {
	entries := goodDays(day(2024, 2, 1), 40)
	ctx := BuildContext(entries, nil, day(2024, 3, 11))

	if ctx.TotalPoints < 100 {
		t.Errorf("TotalPoints = %v, want >= 100", ctx.TotalPoints)
	}
	unlocked := Unlocked(Definitions(ScopeTracker), ctx)
	if !slices.Contains(unlocked, "points-100") {
		t.Errorf("points-100 not unlocked; got %v", unlocked)
	}
	if !slices.Contains(unlocked, "good-streak-30") {
		t.Error("good-streak-30 not unlocked")
	}
}

func TestRecoveryCount_SkipsAbandonedRuns(t *testing.T) {
	done := int64(10)
	runs := []protocol.Run{
		{ID: "a", TrackerID: "t", Date: "2024-01-01", CompletedAt: &done},
		{ID: "b", TrackerID: "t", Date: "2024-01-01", CompletedAt: &done},
		{ID: "c", TrackerID: "t", Date: "2024-01-02"},
	}
	ctx := BuildContext(nil, runs, day(2024, 1, 2))
	if ctx.RecoveryCount != 2 {
		t.Errorf("RecoveryCount = %d, want 2", ctx.RecoveryCount)
	}
}

func TestAward_Idempotent(t *testing.T) {
	entries := goodDays(day(2024, 1, 1), 7)
	today := day(2024, 1, 7)
	ctx := BuildContext(entries, nil, today)
	defs := Definitions(ScopeTracker)

	first := Award(nil, defs, ctx, today)
	if len(first.NewlyEarned) == 0 {
		t.Fatal("expected newly earned badges")
	}
	for _, b := range first.NewlyEarned {
		if b.EarnedAt != "2024-01-07" {
			t.Errorf("%s EarnedAt = %q, want 2024-01-07", b.ID, b.EarnedAt)
		}
	}

	second := Award(first.Updated, defs, ctx, day(2024, 1, 8))
	if len(second.NewlyEarned) != 0 {
		t.Errorf("second award earned %v, want none", second.NewlyEarned)
	}
	if len(second.Updated) != len(first.Updated) {
		t.Errorf("len(Updated) = %d, want %d", len(second.Updated), len(first.Updated))
	}
	seen := map[string]bool{}
	for _, b := range second.Updated {
		if seen[b.ID] {
			t.Errorf("duplicate badge %s", b.ID)
		}
		seen[b.ID] = true
	}
}

func TestAward_CatalogOrderAndNoRevoke(t *testing.T) {
	earned := []Badge{{ID: "points-500", Title: "500 points", EarnedAt: "2023-01-01"}}
	ctx := Context{LoggedDays: 1}

	res := Award(earned, Definitions(ScopeTracker), ctx, day(2024, 1, 1))
	if len(res.Updated) != 2 {
		t.Fatalf("Updated = %+v", res.Updated)
	}
	if res.Updated[0].ID != "points-500" || res.Updated[0].EarnedAt != "2023-01-01" {
		t.Errorf("existing badge changed: %+v", res.Updated[0])
	}
	if res.Updated[1].ID != "first-log" {
		t.Errorf("new badge = %s, want first-log", res.Updated[1].ID)
	}
}

func TestAward_LegacyIDNotDuplicated(t *testing.T) {
	earned := []Badge{{ID: "green-streak-7", EarnedAt: "2023-05-01"}}
	ctx := Context{BestGoodStreak: 7}

	res := Award(earned, Definitions(ScopeTracker), ctx, day(2024, 1, 1))
	for _, b := range res.NewlyEarned {
		if b.ID == "good-streak-7" {
			t.Error("good-streak-7 re-awarded over legacy green-streak-7")
		}
	}
	if !Earned(res.Updated, "good-streak-7") {
		t.Error("Earned(good-streak-7) = false")
	}
}

func TestAward_DoesNotMutateInput(t *testing.T) {
	earned := make([]Badge, 0, 10)
	earned = append(earned, Badge{ID: "logged-60"})
	_ = Award(earned, Definitions(ScopeTracker), Context{LoggedDays: 1}, day(2024, 1, 1))
	if len(earned) != 1 || earned[:2][1].ID != "" {
		t.Error("Award wrote into the caller's backing array")
	}
}

func TestBuildGlobalContext(t *testing.T) {
	today := day(2024, 1, 20)
	a := Group{Entries: goodDays(day(2024, 1, 1), 20)}
	b := Group{Entries: goodDays(day(2024, 1, 11), 10)}

	ctx := BuildGlobalContext([]Group{a, b}, today)
	if ctx.LoggedDays != 30 {
		t.Errorf("LoggedDays = %d, want 30 (same dates on two trackers both count)", ctx.LoggedDays)
	}
	if ctx.BestGoodStreak != 20 {
		t.Errorf("BestGoodStreak = %d, want 20", ctx.BestGoodStreak)
	}
	want := BuildContext(a.Entries, nil, today).TotalPoints + BuildContext(b.Entries, nil, today).TotalPoints
	if ctx.TotalPoints != want {
		t.Errorf("TotalPoints = %v, want %v", ctx.TotalPoints, want)
	}
	unlocked := Unlocked(Definitions(ScopeGlobal), ctx)
	if !slices.Equal(unlocked, []string{"global-first-log", "global-30-logs"}) {
		t.Errorf("global unlocked = %v", unlocked)
	}
}

func TestCatalog(t *testing.T) {
	if n := len(Definitions(ScopeTracker)); n != 18 {
		t.Errorf("tracker catalog = %d, want 18", n)
	}
	if n := len(Definitions(ScopeGlobal)); n != 4 {
		t.Errorf("global catalog = %d, want 4", n)
	}
	seen := map[string]bool{}
	for _, scope := range []Scope{ScopeTracker, ScopeGlobal} {
		for _, d := range Definitions(scope) {
			if seen[d.ID] {
				t.Errorf("duplicate id %s", d.ID)
			}
			seen[d.ID] = true
			if d.Scope != scope {
				t.Errorf("%s scope = %s, want %s", d.ID, d.Scope, scope)
			}
			if d.Check == nil {
				t.Errorf("%s has no check", d.ID)
			}
		}
	}
	if d, ok := Lookup(ScopeTracker, "green-streak-14"); !ok || d.ID != "good-streak-14" {
		t.Errorf("Lookup legacy id = %+v, %v", d, ok)
	}
	if _, ok := Lookup(ScopeGlobal, "first-log"); ok {
		t.Error("first-log should not be in the global catalog")
	}
}
