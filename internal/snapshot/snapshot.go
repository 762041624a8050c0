// Package snapshot defines the persisted application state and upgrades
// older shapes of it to the current version.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/habitcheck/internal/badges"
	"github.com/abhisek/habitcheck/internal/protocol"
	"github.com/abhisek/habitcheck/internal/tracker"
)

// CurrentVersion is the schema version written by Encode.
const CurrentVersion = 4

// Theme values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Settings are app-wide preferences.
type Settings struct {
	SoundsEnabled  bool   `json:"soundsEnabled"`
	Theme          string `json:"theme"`
	HapticsEnabled bool   `json:"hapticsEnabled"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{SoundsEnabled: true, Theme: ThemeLight, HapticsEnabled: true}
}

// BadgesState holds earned badges, global and per tracker.
type BadgesState struct {
	Global   []badges.Badge            `json:"global"`
	Trackers map[string][]badges.Badge `json:"trackers"`
}

// Data is the complete persisted state.
type Data struct {
	Version         int                        `json:"version"`
	Settings        Settings                   `json:"settings"`
	Trackers        []tracker.Tracker          `json:"trackers"`
	Entries         map[string][]tracker.Entry `json:"entries"`
	ActiveTrackerID string                     `json:"activeTrackerId,omitempty"`
	ProtocolRuns    []protocol.Run             `json:"protocolRuns"`
	Badges          BadgesState                `json:"badges"`
}

// Empty returns a valid snapshot with no trackers.
func Empty() Data {
	return Data{
		Version:      CurrentVersion,
		Settings:     DefaultSettings(),
		Trackers:     []tracker.Tracker{},
		Entries:      map[string][]tracker.Entry{},
		ProtocolRuns: []protocol.Run{},
		Badges:       BadgesState{Global: []badges.Badge{}, Trackers: map[string][]badges.Badge{}},
	}
}

// Tracker returns the tracker with id.
func (d Data) Tracker(id string) (tracker.Tracker, int, bool) {
	for i, t := range d.Trackers {
		if t.ID == id {
			return t, i, true
		}
	}
	return tracker.Tracker{}, -1, false
}

// Active returns the active tracker, falling back to the first one.
func (d Data) Active() (tracker.Tracker, bool) {
	if t, _, ok := d.Tracker(d.ActiveTrackerID); ok {
		return t, true
	}
	if len(d.Trackers) > 0 {
		return d.Trackers[0], true
	}
	return tracker.Tracker{}, false
}

// RunsFor returns the recovery runs of one tracker.
func (d Data) RunsFor(trackerID string) []protocol.Run {
	return protocol.ForTracker(d.ProtocolRuns, trackerID)
}

// Groups returns every tracker's history for the cross-tracker badge context.
func (d Data) Groups() []badges.Group {
	groups := make([]badges.Group, 0, len(d.Trackers))
	for _, t := range d.Trackers {
		groups = append(groups, badges.Group{Entries: d.Entries[t.ID], Runs: d.RunsFor(t.ID)})
	}
	return groups
}

// Clone returns a deep copy of d.
func (d Data) Clone() Data {
	out := d
	out.Trackers = append([]tracker.Tracker{}, d.Trackers...)
	out.Entries = make(map[string][]tracker.Entry, len(d.Entries))
	for k, v := range d.Entries {
		out.Entries[k] = append([]tracker.Entry{}, v...)
	}
	out.ProtocolRuns = make([]protocol.Run, len(d.ProtocolRuns))
	for i, r := range d.ProtocolRuns {
		if r.CompletedAt != nil {
			at := *r.CompletedAt
			r.CompletedAt = &at
		}
		out.ProtocolRuns[i] = r
	}
	out.Badges.Global = append([]badges.Badge{}, d.Badges.Global...)
	out.Badges.Trackers = make(map[string][]badges.Badge, len(d.Badges.Trackers))
	for k, v := range d.Badges.Trackers {
		out.Badges.Trackers[k] = append([]badges.Badge{}, v...)
	}
	return out
}

// Encode serializes d as JSON.
func Encode(d Data) ([]byte, error) {
	d.Version = CurrentVersion
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// Decode parses and migrates a stored snapshot. Unreadable input decodes to
// an empty snapshot.
func Decode(b []byte) Data {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return Migrate(nil)
	}
	return Migrate(raw)
}
