// Package badges evaluates the fixed achievement catalog against a derived
// context and reports which badges have been newly earned.
package badges

import (
	"math"
	"time"

	"github.com/abhisek/habitcheck/internal/dates"
	"github.com/abhisek/habitcheck/internal/protocol"
	"github.com/abhisek/habitcheck/internal/scoring"
	"github.com/abhisek/habitcheck/internal/tracker"
)

// Badge is an earned badge as persisted. EarnedAt is a day key.
type Badge struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	EarnedAt    string `json:"earnedAt"`
}

// Context is everything a badge check may look at.
type Context struct {
	LoggedDays        int     `json:"loggedDays"`
	BestGoodStreak    int     `json:"bestGoodStreak"`
	BestLoggingStreak int     `json:"bestLoggingStreak"`
	Last7Good         int     `json:"last7Good"`
	TotalPoints       float64 `json:"totalPoints"`
	RecoveryCount     int     `json:"recoveryCount"`
	BackOnTrackCount  int     `json:"backOnTrackCount"`
}

// Group is one tracker's history, used to build the cross-tracker context.
type Group struct {
	Entries []tracker.Entry
	Runs    []protocol.Run
}

// BuildContext derives the badge context for a single tracker. runs should
// already be limited to that tracker.
func BuildContext(entries []tracker.Entry, runs []protocol.Run, today time.Time) Context {
	stats := scoring.ComputeStats(entries, runs, today)
	return Context{
		LoggedDays:        len(tracker.ByDate(entries)),
		BestGoodStreak:    stats.BestGoodStreak,
		BestLoggingStreak: stats.BestLoggingStreak,
		Last7Good:         stats.Last7.Good,
		TotalPoints:       scoring.TotalPoints(entries, runs),
		RecoveryCount:     len(protocol.Completed(runs)),
		BackOnTrackCount:  countBackOnTrack(entries),
	}
}

// BuildGlobalContext derives the context across all trackers. Each tracker is
// scored on its own; counts and points are summed and streaks take the best
// tracker, so days from different trackers never collide.
func BuildGlobalContext(groups []Group, today time.Time) Context {
	var c Context
	for _, g := range groups {
		tc := BuildContext(g.Entries, g.Runs, today)
		c.LoggedDays += tc.LoggedDays
		c.BestGoodStreak = max(c.BestGoodStreak, tc.BestGoodStreak)
		c.BestLoggingStreak = max(c.BestLoggingStreak, tc.BestLoggingStreak)
		c.Last7Good += tc.Last7Good
		c.TotalPoints += tc.TotalPoints
		c.RecoveryCount += tc.RecoveryCount
		c.BackOnTrackCount += tc.BackOnTrackCount
	}
	c.TotalPoints = math.Round(c.TotalPoints*10) / 10
	return c
}

// countBackOnTrack counts good days whose previous calendar day was a reset.
func countBackOnTrack(entries []tracker.Entry) int {
	byDate := tracker.ByDate(entries)
	n := 0
	for key, e := range byDate {
		if e.Status != tracker.StatusGood {
			continue
		}
		if prev, ok := byDate[dates.PrevKey(key)]; ok && prev.Status == tracker.StatusReset {
			n++
		}
	}
	return n
}

// Unlocked returns the IDs of every definition whose check passes.
func Unlocked(defs []Definition, ctx Context) []string {
	ids := make([]string, 0, len(defs))
	for _, d := range defs {
		if d.Check != nil && d.Check(ctx) {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// Result is the outcome of Award.
type Result struct {
	Updated     []Badge
	NewlyEarned []Badge
}

// Award appends every newly passing definition to earned, stamped with today.
// Badges already in earned are never re-evaluated, revoked or duplicated.
func Award(earned []Badge, defs []Definition, ctx Context, today time.Time) Result {
	have := make(map[string]bool, len(earned))
	for _, b := range earned {
		have[CanonicalID(b.ID)] = true
	}

	updated := make([]Badge, len(earned), len(earned)+len(defs))
	copy(updated, earned)
	var fresh []Badge

	stamp := dates.Format(today)
	for _, d := range defs {
		if have[d.ID] || d.Check == nil || !d.Check(ctx) {
			continue
		}
		b := Badge{ID: d.ID, Title: d.Title, Description: d.Description, Icon: d.Icon, EarnedAt: stamp}
		updated = append(updated, b)
		fresh = append(fresh, b)
		have[d.ID] = true
	}
	return Result{Updated: updated, NewlyEarned: fresh}
}

// Earned reports whether id is among badges.
func Earned(badges []Badge, id string) bool {
	id = CanonicalID(id)
	for _, b := range badges {
		if CanonicalID(b.ID) == id {
			return true
		}
	}
	return false
}
