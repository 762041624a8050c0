package tracker

import "sort"

// Entry is one logged day for a tracker. Date is a day key (YYYY-MM-DD);
// UpdatedAt is unix milliseconds.
type Entry struct {
	Date      string `json:"date"`
	Status    Status `json:"status"`
	Note      string `json:"note,omitempty"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Upsert replaces the entry for e.Date or appends it. The input slice is not
// modified.
func Upsert(entries []Entry, e Entry) []Entry {
	out := make([]Entry, 0, len(entries)+1)
	for _, existing := range entries {
		if existing.Date != e.Date {
			out = append(out, existing)
		}
	}
	return append(out, e)
}

// Remove drops the entry for date, if any.
func Remove(entries []Entry, date string) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Date != date {
			out = append(out, e)
		}
	}
	return out
}

// Find returns the entry for date.
func Find(entries []Entry, date string) (Entry, bool) {
	var found Entry
	ok := false
	// Later duplicates win.
	for _, e := range entries {
		if e.Date == date {
			found, ok = e, true
		}
	}
	return found, ok
}

// ByDate indexes entries by day key. When a date appears more than once the
// last occurrence wins.
func ByDate(entries []Entry) map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Date] = e
	}
	return m
}

// Sorted returns the de-duplicated entries in ascending date order.
func Sorted(entries []Entry) []Entry {
	m := ByDate(entries)
	out := make([]Entry, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
