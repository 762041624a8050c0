package tracker

import "strings"

// GoalMode selects which figure a tracker's weekly/monthly targets measure.
type GoalMode string

const (
	GoalConsistency GoalMode = "consistency" // days logged
	GoalGood        GoalMode = "good"        // good days
	GoalPoints      GoalMode = "points"      // weighted score
)

// Targets holds weekly and monthly goal targets.
type Targets struct {
	Weekly  int
	Monthly int
}

// AllGoalModes returns the goal modes in display order.
func AllGoalModes() []GoalMode {
	return []GoalMode{GoalConsistency, GoalGood, GoalPoints}
}

// ParseGoalMode maps s to a goal mode; unknown values (and the legacy
// "green") are handled leniently.
func ParseGoalMode(s string) GoalMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "good", "green":
		return GoalGood
	case "points":
		return GoalPoints
	default:
		return GoalConsistency
	}
}

// DefaultTargets returns the suggested targets for mode.
func DefaultTargets(mode GoalMode) Targets {
	switch mode {
	case GoalGood:
		return Targets{Weekly: 4, Monthly: 16}
	case GoalPoints:
		return Targets{Weekly: 15, Monthly: 60}
	default:
		return Targets{Weekly: 7, Monthly: 30}
	}
}

// Label returns the display name of the goal mode.
func (m GoalMode) Label() string {
	switch m {
	case GoalGood:
		return "Good days"
	case GoalPoints:
		return "Points"
	default:
		return "Consistency"
	}
}

// Description explains the goal mode in one line.
func (m GoalMode) Description() string {
	switch m {
	case GoalGood:
		return "Aim for good days each week"
	case GoalPoints:
		return "Aim for points each week"
	default:
		return "Log every day"
	}
}

// Unit returns the unit label for goal values.
func (m GoalMode) Unit(short bool) string {
	switch m {
	case GoalPoints:
		if short {
			return "pts"
		}
		return "points"
	case GoalGood:
		if short {
			return "days"
		}
		return "good days"
	default:
		if short {
			return "days"
		}
		return "days logged"
	}
}
