package snapshot

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/habitcheck/internal/badges"
	"github.com/abhisek/habitcheck/internal/dates"
	"github.com/abhisek/habitcheck/internal/protocol"
	"github.com/abhisek/habitcheck/internal/tracker"
)

// link upgrades a raw snapshot from one version to the next.
type link func(m *Migrator, raw map[string]any) map[string]any

// upgrades[v] turns version v into version v+1. Adding a schema version means
// appending one link and bumping CurrentVersion.
var upgrades = map[int]link{
	1: (*Migrator).upgradeV1,
	2: (*Migrator).upgradeV2,
	3: (*Migrator).upgradeV3,
}

// Migrator upgrades and sanitizes raw snapshots. NewID and Now are
// overridable for tests.
type Migrator struct {
	NewID func() string
	Now   func() time.Time
}

var defaultMigrator = &Migrator{NewID: uuid.NewString, Now: time.Now}

// Migrate upgrades raw (a decoded JSON value) to the current version. It
// never fails: anything unusable degrades to defaults.
func Migrate(raw any) Data {
	return defaultMigrator.Migrate(raw)
}

// Migrate is the package-level Migrate with m's ID and clock.
func (m *Migrator) Migrate(raw any) Data {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Empty()
	}

	version, ok := versionOf(obj)
	switch {
	case !ok:
		// Single-tracker installs never wrote a version.
		version = 1
	case version < 1 || version > CurrentVersion:
		// Best effort: treat it as the legacy shape.
		version = 1
	}

	for v := version; v < CurrentVersion; v++ {
		obj = upgrades[v](m, obj)
	}
	return m.sanitize(obj)
}

func versionOf(obj map[string]any) (int, bool) {
	switch v := obj["version"].(type) {
	case int:
		return v, true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	}
	return 0, false
}

// upgradeV1 converts the legacy single-tracker shape
// {settings{goalName, dailyQuestion*, soundsEnabled, theme}, entries[]} into
// a multi-tracker snapshot.
func (m *Migrator) upgradeV1(raw map[string]any) map[string]any {
	settings, _ := raw["settings"].(map[string]any)
	entries, _ := raw["entries"].([]any)
	name, _ := settings["goalName"].(string)
	name = strings.TrimSpace(name)

	out := map[string]any{
		"version":  2,
		"settings": map[string]any{"soundsEnabled": settings["soundsEnabled"], "theme": settings["theme"]},
		"trackers": []any{},
		"entries":  map[string]any{},
	}
	if name == "" && len(entries) == 0 {
		return out
	}

	id := m.NewID()
	question, _ := settings["dailyQuestionText"].(string)
	enabled, _ := settings["dailyQuestionEnabled"].(bool)
	out["trackers"] = []any{map[string]any{
		"id":                   id,
		"name":                 tracker.CleanName(name),
		"dailyQuestionEnabled": enabled,
		"dailyQuestionText":    question,
		"goalMode":             string(tracker.GoalConsistency),
	}}
	out["entries"] = map[string]any{id: entries}
	out["activeTrackerId"] = id
	return out
}

// upgradeV2 introduces the recovery run log. Version 2 never stored runs.
func (m *Migrator) upgradeV2(raw map[string]any) map[string]any {
	raw["version"] = 3
	raw["protocolRuns"] = []any{}
	return raw
}

// upgradeV3 introduces badge state. Version 3 never stored badges.
func (m *Migrator) upgradeV3(raw map[string]any) map[string]any {
	raw["version"] = 4
	raw["badges"] = map[string]any{"global": []any{}, "trackers": map[string]any{}}
	return raw
}

func (m *Migrator) sanitize(raw map[string]any) Data {
	d := Empty()
	d.Settings = sanitizeSettings(raw["settings"])

	if list, ok := raw["trackers"].([]any); ok {
		for _, item := range list {
			if t, ok := m.sanitizeTracker(item); ok {
				d.Trackers = append(d.Trackers, t)
			}
		}
	}

	if entries, ok := raw["entries"].(map[string]any); ok {
		for id, list := range entries {
			d.Entries[id] = m.sanitizeEntries(list)
		}
	}

	if active, ok := raw["activeTrackerId"].(string); ok {
		d.ActiveTrackerID = active
	} else if len(d.Trackers) > 0 {
		d.ActiveTrackerID = d.Trackers[0].ID
	}

	if runs, ok := raw["protocolRuns"].([]any); ok {
		for _, item := range runs {
			if r, ok := m.sanitizeRun(item); ok {
				d.ProtocolRuns = append(d.ProtocolRuns, r)
			}
		}
	}

	if state, ok := raw["badges"].(map[string]any); ok {
		d.Badges.Global = m.sanitizeBadges(state["global"])
		if perTracker, ok := state["trackers"].(map[string]any); ok {
			for id, list := range perTracker {
				d.Badges.Trackers[id] = m.sanitizeBadges(list)
			}
		}
	}
	return d
}

func sanitizeSettings(v any) Settings {
	s := DefaultSettings()
	obj, ok := v.(map[string]any)
	if !ok {
		return s
	}
	if theme, _ := obj["theme"].(string); theme == ThemeDark {
		s.Theme = ThemeDark
	}
	if b, ok := obj["soundsEnabled"].(bool); ok && !b {
		s.SoundsEnabled = false
	}
	if b, ok := obj["hapticsEnabled"].(bool); ok && !b {
		s.HapticsEnabled = false
	}
	return s
}

func (m *Migrator) sanitizeTracker(v any) (tracker.Tracker, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return tracker.Tracker{}, false
	}
	name, ok := obj["name"].(string)
	if !ok {
		return tracker.Tracker{}, false
	}

	t := tracker.Tracker{Name: tracker.CleanName(name), DailyQuestionText: tracker.DefaultQuestion}
	if id, ok := obj["id"].(string); ok {
		t.ID = id
	} else {
		t.ID = m.NewID()
	}
	t.DailyQuestionEnabled, _ = obj["dailyQuestionEnabled"].(bool)
	if q, ok := obj["dailyQuestionText"].(string); ok && strings.TrimSpace(q) != "" {
		t.DailyQuestionText = strings.TrimSpace(q)
	}

	t.GoalMode = tracker.GoalConsistency
	if mode, ok := obj["goalMode"].(string); ok {
		t.GoalMode = tracker.ParseGoalMode(mode)
	}
	defaults := tracker.DefaultTargets(t.GoalMode)
	t.WeeklyTarget = target(obj["weeklyTarget"], defaults.Weekly)
	t.MonthlyTarget = target(obj["monthlyTarget"], defaults.Monthly)
	return t, true
}

func target(v any, fallback int) int {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return fallback
	}
	return int(math.Round(f))
}

func (m *Migrator) sanitizeEntries(v any) []tracker.Entry {
	out := []tracker.Entry{}
	list, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		date, ok1 := obj["date"].(string)
		status, ok2 := obj["status"].(string)
		if !ok1 || !ok2 {
			continue
		}
		e := tracker.Entry{Date: date, Status: tracker.NormalizeStatus(status)}
		e.Note, _ = obj["note"].(string)
		if at, ok := obj["updatedAt"].(float64); ok {
			e.UpdatedAt = int64(at)
		} else {
			e.UpdatedAt = m.Now().UnixMilli()
		}
		out = append(out, e)
	}
	return out
}

func (m *Migrator) sanitizeRun(v any) (protocol.Run, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return protocol.Run{}, false
	}
	trackerID, ok1 := obj["trackerId"].(string)
	started, ok2 := obj["startedAt"].(float64)
	if !ok1 || !ok2 {
		return protocol.Run{}, false
	}

	r := protocol.Run{
		TrackerID:       trackerID,
		StartedAt:       int64(started),
		DurationMinutes: protocol.DefaultDurationMinutes,
	}
	if id, ok := obj["id"].(string); ok {
		r.ID = id
	} else {
		r.ID = m.NewID()
	}
	if date, ok := obj["date"].(string); ok {
		r.Date = date
	} else {
		r.Date = dates.Format(dates.FromMillis(r.StartedAt))
	}
	if at, ok := obj["completedAt"].(float64); ok {
		ms := int64(at)
		r.CompletedAt = &ms
	}
	if steps, ok := obj["completedSteps"].(float64); ok {
		r.CompletedSteps = int(steps)
	}
	if dur, ok := obj["durationMinutes"].(float64); ok {
		r.DurationMinutes = int(dur)
	}
	return r, true
}

func (m *Migrator) sanitizeBadges(v any) []badges.Badge {
	out := []badges.Badge{}
	list, ok := v.([]any)
	if !ok {
		return out
	}
	seen := make(map[string]bool, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, ok1 := obj["id"].(string)
		title, ok2 := obj["title"].(string)
		desc, ok3 := obj["description"].(string)
		icon, ok4 := obj["icon"].(string)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		id = badges.CanonicalID(id)
		if seen[id] {
			continue
		}
		seen[id] = true

		b := badges.Badge{ID: id, Title: title, Description: desc, Icon: icon}
		if earned, ok := obj["earnedAt"].(string); ok {
			b.EarnedAt = earned
		} else {
			b.EarnedAt = dates.Format(m.Now())
		}
		out = append(out, b)
	}
	return out
}
