// Package scoring turns a tracker's logged days and recovery runs into
// streaks, weighted point totals and goal progress. Every function is pure:
// identical inputs always produce identical outputs.
package scoring

import (
	"math"
	"time"

	"github.com/abhisek/habitcheck/internal/dates"
	"github.com/abhisek/habitcheck/internal/protocol"
	"github.com/abhisek/habitcheck/internal/tracker"
)

// Point weights.
const (
	GoodPoints     = 3.0
	MixedPoints    = 1.0
	ResetPoints    = 0.0
	RecoveryPoints = 1.0

	ChainBonusPerDay = 0.2
	ChainBonusCap    = 3.0
)

// Counts tallies entries by status.
type Counts struct {
	Good  int `json:"good"`
	Mixed int `json:"mixed"`
	Reset int `json:"reset"`
}

func (c *Counts) add(s tracker.Status) {
	switch s {
	case tracker.StatusGood:
		c.Good++
	case tracker.StatusMixed:
		c.Mixed++
	default:
		c.Reset++
	}
}

// Summary is the aggregate of a date range.
type Summary struct {
	Counts     Counts  `json:"counts"`
	Logged     int     `json:"logged"`
	TotalScore float64 `json:"totalScore"`
}

// StatusPoints returns the base weight of a status.
func StatusPoints(s tracker.Status) float64 {
	switch s {
	case tracker.StatusGood:
		return GoodPoints
	case tracker.StatusMixed:
		return MixedPoints
	default:
		return ResetPoints
	}
}

// ChainBonus is the extra credit for the chain-th consecutive good day.
func ChainBonus(chain int) float64 {
	if chain <= 0 {
		return 0
	}
	return math.Min(float64(chain)*ChainBonusPerDay, ChainBonusCap)
}

// chain accumulates day scores while tracking the run of consecutive good
// days. Any gap or non-good day resets the run.
type chain struct {
	length int
}

func (c *chain) gap() { c.length = 0 }

func (c *chain) score(e tracker.Entry, recovered bool) float64 {
	points := StatusPoints(e.Status)
	if e.Status == tracker.StatusGood {
		c.length++
		points += ChainBonus(c.length)
	} else {
		c.length = 0
	}
	if recovered {
		points += RecoveryPoints
	}
	return points
}

// RangeScore aggregates entries over days, which must be ascending and
// consecutive. recoveryDates holds days with at least one completed recovery
// run; each contributes RecoveryPoints once. The total is rounded to one
// decimal.
func RangeScore(entries []tracker.Entry, days []time.Time, recoveryDates map[string]bool) Summary {
	return rangeScore(tracker.ByDate(entries), days, recoveryDates)
}

func rangeScore(byDate map[string]tracker.Entry, days []time.Time, recoveryDates map[string]bool) Summary {
	var (
		sum   Summary
		total float64
		c     chain
	)
	for _, day := range days {
		key := dates.Format(day)
		e, ok := byDate[key]
		if !ok {
			c.gap()
			continue
		}
		sum.Logged++
		sum.Counts.add(e.Status)
		total += c.score(e, recoveryDates[key])
	}
	sum.TotalScore = round1(total)
	return sum
}

// DailyScores returns the weighted score for each of the last n days ending
// at today, oldest first. Missing days score 0.
func DailyScores(entries []tracker.Entry, runs []protocol.Run, n int, today time.Time) []float64 {
	byDate := tracker.ByDate(entries)
	recovered := protocol.RecoveryDates(runs)
	days := dates.LastNDays(n, today)

	scores := make([]float64, len(days))
	var c chain
	for i, day := range days {
		key := dates.Format(day)
		e, ok := byDate[key]
		if !ok {
			c.gap()
			continue
		}
		scores[i] = round1(c.score(e, recovered[key]))
	}
	return scores
}

// PointsInRange is the weighted score of the last n days ending at today.
func PointsInRange(entries []tracker.Entry, runs []protocol.Run, n int, today time.Time) float64 {
	return RangeScore(entries, dates.LastNDays(n, today), protocol.RecoveryDates(runs)).TotalScore
}

// TotalPoints is the lifetime weighted score over the whole history.
func TotalPoints(entries []tracker.Entry, runs []protocol.Run) float64 {
	recovered := protocol.RecoveryDates(runs)
	var (
		total float64
		c     chain
		prev  string
	)
	for _, e := range tracker.Sorted(entries) {
		if prev != "" && dates.NextKey(prev) != e.Date {
			c.gap()
		}
		total += c.score(e, recovered[e.Date])
		prev = e.Date
	}
	return round1(total)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
