package tracker

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidStatus is returned by ParseStatus for unknown status strings.
var ErrInvalidStatus = errors.New("invalid status")

// Status is the logged outcome of a single day.
type Status string

const (
	StatusGood  Status = "good"
	StatusMixed Status = "mixed"
	StatusReset Status = "reset"
)

// AllStatuses returns the statuses in display order.
func AllStatuses() []Status {
	return []Status{StatusGood, StatusMixed, StatusReset}
}

// ParseStatus accepts the current vocabulary and the legacy colour names
// (green, yellow, red).
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "good", "green", "g":
		return StatusGood, nil
	case "mixed", "yellow", "m", "y":
		return StatusMixed, nil
	case "reset", "red", "r":
		return StatusReset, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// NormalizeStatus is the lenient form of ParseStatus used at the persistence
// boundary: anything unrecognised becomes StatusGood.
func NormalizeStatus(s string) Status {
	st, err := ParseStatus(s)
	if err != nil {
		return StatusGood
	}
	return st
}

// Valid reports whether s is one of the three statuses.
func (s Status) Valid() bool {
	return s == StatusGood || s == StatusMixed || s == StatusReset
}

// Label returns the short human-readable label.
func (s Status) Label() string {
	switch s {
	case StatusGood:
		return "All good"
	case StatusMixed:
		return "Mixed day"
	case StatusReset:
		return "Reset day"
	default:
		return string(s)
	}
}

// Helper returns the one-line explanation shown under the label.
func (s Status) Helper() string {
	switch s {
	case StatusGood:
		return "Aligned with my goal"
	case StatusMixed:
		return "Some friction today"
	case StatusReset:
		return "Not my day, starting fresh"
	default:
		return ""
	}
}

// Icon returns the display icon for the status.
func (s Status) Icon() string {
	switch s {
	case StatusGood:
		return "✅"
	case StatusMixed:
		return "🌊"
	case StatusReset:
		return "🔄"
	default:
		return "·"
	}
}
