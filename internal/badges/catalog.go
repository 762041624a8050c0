package badges

// Scope separates per-tracker badges from badges earned across all trackers.
type Scope string

const (
	ScopeTracker Scope = "tracker"
	ScopeGlobal  Scope = "global"
)

// Category groups badges for display.
type Category string

const (
	CategoryConsistency Category = "Consistency"
	CategoryStreak      Category = "Streak"
	CategoryRecovery    Category = "Recovery"
	CategoryMilestone   Category = "Milestone"
)

// Categories returns the categories in display order.
func Categories() []Category {
	return []Category{CategoryConsistency, CategoryStreak, CategoryRecovery, CategoryMilestone}
}

// Definition is one entry of the badge catalog. Check must be a pure
// function of the context.
type Definition struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Scope       Scope
	Category    Category
	Check       func(Context) bool
}

// The catalog is append-only: IDs are the persistence key for earned badges
// and must never be renamed or removed.
var trackerCatalog = []Definition{
	{"first-log", "First check-in", "Logged your first day.", "🌱", ScopeTracker, CategoryConsistency,
		func(c Context) bool { return c.LoggedDays >= 1 }},
	{"logged-7", "7 days logged", "Logged seven days total.", "📆", ScopeTracker, CategoryConsistency,
		func(c Context) bool { return c.LoggedDays >= 7 }},
	{"logged-30", "30 days logged", "Logged thirty days total.", "🗓️", ScopeTracker, CategoryConsistency,
		func(c Context) bool { return c.LoggedDays >= 30 }},
	{"logged-60", "60 days logged", "Logged sixty days total.", "🗓️", ScopeTracker, CategoryConsistency,
		func(c Context) bool { return c.LoggedDays >= 60 }},
	{"logging-streak-7", "7-day log streak", "Logged seven days in a row.", "🔥", ScopeTracker, CategoryConsistency,
		func(c Context) bool { return c.BestLoggingStreak >= 7 }},
	{"logging-streak-14", "14-day log streak", "Logged fourteen days in a row.", "🔥", ScopeTracker, CategoryConsistency,
		func(c Context) bool { return c.BestLoggingStreak >= 14 }},
	{"good-streak-7", "7 all-good streak", "All good for seven days in a row.", "✅", ScopeTracker, CategoryStreak,
		func(c Context) bool { return c.BestGoodStreak >= 7 }},
	{"good-streak-14", "14 all-good streak", "All good for fourteen days in a row.", "🌿", ScopeTracker, CategoryStreak,
		func(c Context) bool { return c.BestGoodStreak >= 14 }},
	{"good-streak-30", "30 all-good streak", "All good for thirty days in a row.", "🏆", ScopeTracker, CategoryStreak,
		func(c Context) bool { return c.BestGoodStreak >= 30 }},
	{"protocol-1", "First protocol", "Completed the Emergency Protocol once.", "🛟", ScopeTracker, CategoryRecovery,
		func(c Context) bool { return c.RecoveryCount >= 1 }},
	{"protocol-3", "Steady reset", "Completed the protocol three times.", "🧭", ScopeTracker, CategoryRecovery,
		func(c Context) bool { return c.RecoveryCount >= 3 }},
	{"protocol-7", "Recovery toolkit", "Completed the protocol seven times.", "🧰", ScopeTracker, CategoryRecovery,
		func(c Context) bool { return c.RecoveryCount >= 7 }},
	{"back-on-track-1", "Back on track", "Turned a reset day into a good day.", "🌤️", ScopeTracker, CategoryRecovery,
		func(c Context) bool { return c.BackOnTrackCount >= 1 }},
	{"back-on-track-3", "Bounce back", "Recovered from three reset days.", "🌈", ScopeTracker, CategoryRecovery,
		func(c Context) bool { return c.BackOnTrackCount >= 3 }},
	{"points-100", "100 points", "Earned 100 points total.", "💯", ScopeTracker, CategoryMilestone,
		func(c Context) bool { return c.TotalPoints >= 100 }},
	{"points-250", "250 points", "Earned 250 points total.", "✨", ScopeTracker, CategoryMilestone,
		func(c Context) bool { return c.TotalPoints >= 250 }},
	{"points-500", "500 points", "Earned 500 points total.", "🌟", ScopeTracker, CategoryMilestone,
		func(c Context) bool { return c.TotalPoints >= 500 }},
	{"perfect-week", "Perfect week", "Seven all-good days in the last week.", "🏅", ScopeTracker, CategoryMilestone,
		func(c Context) bool { return c.Last7Good >= 7 }},
}

var globalCatalog = []Definition{
	{"global-first-log", "First check-in (all trackers)", "Logged your first day anywhere.", "🌍", ScopeGlobal, CategoryMilestone,
		func(c Context) bool { return c.LoggedDays >= 1 }},
	{"global-30-logs", "30 total logs", "Logged thirty days across trackers.", "🧭", ScopeGlobal, CategoryConsistency,
		func(c Context) bool { return c.LoggedDays >= 30 }},
	{"global-100-logs", "100 total logs", "Logged one hundred days across trackers.", "🏁", ScopeGlobal, CategoryConsistency,
		func(c Context) bool { return c.LoggedDays >= 100 }},
	{"global-1000-points", "1,000 points", "Earned 1,000 points across trackers.", "🚀", ScopeGlobal, CategoryMilestone,
		func(c Context) bool { return c.TotalPoints >= 1000 }},
}

// legacyIDs maps retired badge IDs to their current equivalents.
var legacyIDs = map[string]string{
	"green-streak-7":  "good-streak-7",
	"green-streak-14": "good-streak-14",
	"green-streak-30": "good-streak-30",
}

// CanonicalID returns the current ID for a possibly legacy badge ID.
func CanonicalID(id string) string {
	if current, ok := legacyIDs[id]; ok {
		return current
	}
	return id
}

// Definitions returns the catalog for scope in order.
func Definitions(scope Scope) []Definition {
	var src []Definition
	switch scope {
	case ScopeTracker:
		src = trackerCatalog
	case ScopeGlobal:
		src = globalCatalog
	}
	out := make([]Definition, len(src))
	copy(out, src)
	return out
}

// Lookup finds a definition by ID within scope.
func Lookup(scope Scope, id string) (Definition, bool) {
	id = CanonicalID(id)
	for _, d := range Definitions(scope) {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
