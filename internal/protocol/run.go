package protocol

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/habitcheck/internal/dates"
)

// DefaultDurationMinutes is the suggested length of a recovery session.
const DefaultDurationMinutes = 10

// Run is one recovery session. Timestamps are unix milliseconds. A run
// without CompletedAt is abandoned: it is kept for history but earns
// nothing.
type Run struct {
	ID              string `json:"id"`
	TrackerID       string `json:"trackerId"`
	Date            string `json:"date"`
	StartedAt       int64  `json:"startedAt"`
	CompletedAt     *int64 `json:"completedAt,omitempty"`
	CompletedSteps  int    `json:"completedSteps"`
	DurationMinutes int    `json:"durationMinutes"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return "protocol-" + uuid.NewString()
}

// CreateRun starts a run for trackerID. The run's Date is the local day of
// startedAt.
func CreateRun(trackerID string, durationMinutes int, startedAt time.Time) Run {
	if durationMinutes <= 0 {
		durationMinutes = DefaultDurationMinutes
	}
	return Run{
		ID:              NewRunID(),
		TrackerID:       trackerID,
		Date:            dates.Format(startedAt.In(time.Local)),
		StartedAt:       startedAt.UnixMilli(),
		DurationMinutes: durationMinutes,
	}
}

// CompleteRun returns a copy of run marked complete.
func CompleteRun(run Run, completedSteps int, completedAt time.Time) Run {
	ms := completedAt.UnixMilli()
	run.CompletedAt = &ms
	if completedSteps < 0 {
		completedSteps = 0
	}
	run.CompletedSteps = completedSteps
	return run
}

// Completed reports whether the run was finished.
func (r Run) Completed() bool {
	return r.CompletedAt != nil
}

// Abandoned reports whether the run was started but never finished.
func (r Run) Abandoned() bool {
	return r.CompletedAt == nil
}

// Started returns the local start time.
func (r Run) Started() time.Time {
	return dates.FromMillis(r.StartedAt)
}

// ForTracker returns the runs belonging to trackerID.
func ForTracker(runs []Run, trackerID string) []Run {
	out := make([]Run, 0, len(runs))
	for _, r := range runs {
		if r.TrackerID == trackerID {
			out = append(out, r)
		}
	}
	return out
}

// Completed filters out abandoned runs.
func Completed(runs []Run) []Run {
	out := make([]Run, 0, len(runs))
	for _, r := range runs {
		if r.Completed() {
			out = append(out, r)
		}
	}
	return out
}

// RunsInRange returns trackerID's runs dated within the trailing days ending
// at today.
func RunsInRange(runs []Run, trackerID string, days int, today time.Time) []Run {
	window := make(map[string]bool, days)
	for _, key := range dates.LastNKeys(days, today) {
		window[key] = true
	}
	out := make([]Run, 0)
	for _, r := range runs {
		if r.TrackerID == trackerID && window[r.Date] {
			out = append(out, r)
		}
	}
	return out
}

// CompletedRunsInRange is RunsInRange without abandoned runs.
func CompletedRunsInRange(runs []Run, trackerID string, days int, today time.Time) []Run {
	return Completed(RunsInRange(runs, trackerID, days, today))
}

// RecoveryDates returns the set of days with at least one completed run.
// Several completed runs on one day still yield a single date.
func RecoveryDates(runs []Run) map[string]bool {
	set := make(map[string]bool)
	for _, r := range runs {
		if r.Completed() {
			set[r.Date] = true
		}
	}
	return set
}

// Find returns the run with id.
func Find(runs []Run, id string) (Run, int, bool) {
	for i, r := range runs {
		if r.ID == id {
			return r, i, true
		}
	}
	return Run{}, -1, false
}
