package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// KeyLayout is the layout of a day key (YYYY-MM-DD).
const KeyLayout = "2006-01-02"

// Format returns the zero-padded YYYY-MM-DD key of t in t's own location.
func Format(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// Parse converts a day key back into local midnight. Missing or malformed
// month/day components default to 1; a malformed year defaults to 1970.
// Out-of-range values are normalized by time.Date (e.g. 2024-02-30 → Mar 1).
func Parse(key string) time.Time {
	parts := strings.Split(strings.TrimSpace(key), "-")

	year := 1970
	month, day := 1, 1

	if len(parts) > 0 {
		if v, err := strconv.Atoi(parts[0]); err == nil {
			year = v
		}
	}
	if len(parts) > 1 {
		if v, err := strconv.Atoi(parts[1]); err == nil {
			month = v
		}
	}
	if len(parts) > 2 {
		if v, err := strconv.Atoi(parts[2]); err == nil {
			day = v
		}
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
}

// Valid reports whether key is a well-formed day key.
func Valid(key string) bool {
	_, err := time.ParseInLocation(KeyLayout, key, time.Local)
	return err == nil
}

// Midnight truncates t to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays shifts t by n calendar days. DST transitions do not skew the result.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// NextKey returns the key of the day after key.
func NextKey(key string) string {
	return Format(AddDays(Parse(key), 1))
}

// PrevKey returns the key of the day before key.
func PrevKey(key string) string {
	return Format(AddDays(Parse(key), -1))
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of days in t's month.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// FromMillis converts a unix-millisecond timestamp to local time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).In(time.Local)
}

// LastNDays returns n days ending at end (inclusive), oldest first.
func LastNDays(n int, end time.Time) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}
	end = Midnight(end)
	days := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, AddDays(end, -i))
	}
	return days
}

// LastNKeys is LastNDays formatted as day keys.
func LastNKeys(n int, end time.Time) []string {
	days := LastNDays(n, end)
	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = Format(d)
	}
	return keys
}

// CalendarGrid returns the days of month's calendar page: full Sunday-first
// weeks, padded with days from the neighbouring months.
func CalendarGrid(month time.Time) []time.Time {
	start := StartOfMonth(month)
	lead := int(start.Weekday())
	total := DaysInMonth(month)

	days := make([]time.Time, 0, 42)
	for i := 0; i < lead; i++ {
		days = append(days, AddDays(start, i-lead))
	}
	for i := 0; i < total; i++ {
		days = append(days, AddDays(start, i))
	}
	for len(days)%7 != 0 {
		days = append(days, AddDays(days[len(days)-1], 1))
	}
	return days
}

// Today returns the day key of now in local time.
func Today(now time.Time) string {
	return Format(now.In(time.Local))
}
