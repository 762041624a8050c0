package tracker

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultName is used when a tracker is created without a usable name.
const DefaultName = "My goal"

// DefaultQuestion is the daily reflection prompt for new trackers.
const DefaultQuestion = "What made today easier or harder?"

// Tracker is one goal being tracked. Each tracker owns its own entries and
// recovery runs.
type Tracker struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	DailyQuestionEnabled bool     `json:"dailyQuestionEnabled"`
	DailyQuestionText    string   `json:"dailyQuestionText"`
	GoalMode             GoalMode `json:"goalMode"`
	WeeklyTarget         int      `json:"weeklyTarget"`
	MonthlyTarget        int      `json:"monthlyTarget"`
}

// NewID returns a fresh tracker identifier.
func NewID() string {
	return uuid.NewString()
}

// New creates a tracker with the default goal mode and targets.
func New(name string) Tracker {
	defaults := DefaultTargets(GoalConsistency)
	return Tracker{
		ID:                NewID(),
		Name:              CleanName(name),
		DailyQuestionText: DefaultQuestion,
		GoalMode:          GoalConsistency,
		WeeklyTarget:      defaults.Weekly,
		MonthlyTarget:     defaults.Monthly,
	}
}

// CleanName trims name and falls back to DefaultName.
func CleanName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName
	}
	return name
}

// Question returns the daily question, or "" when disabled.
func (t Tracker) Question() string {
	if !t.DailyQuestionEnabled {
		return ""
	}
	if strings.TrimSpace(t.DailyQuestionText) == "" {
		return DefaultQuestion
	}
	return t.DailyQuestionText
}

// SetGoal changes the goal mode. Non-positive targets fall back to the mode's
// defaults.
func (t *Tracker) SetGoal(mode GoalMode, weekly, monthly int) {
	defaults := DefaultTargets(mode)
	t.GoalMode = mode
	t.WeeklyTarget = weekly
	if weekly <= 0 {
		t.WeeklyTarget = defaults.Weekly
	}
	t.MonthlyTarget = monthly
	if monthly <= 0 {
		t.MonthlyTarget = defaults.Monthly
	}
}
