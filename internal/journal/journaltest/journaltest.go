// Package journaltest builds journal services over throwaway SQLite files
// for tests.
package journaltest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/habitcheck/internal/journal"
	"github.com/abhisek/habitcheck/internal/store"
)

// FixedNow is the clock used by New: 2024-01-10 12:00 local time.
func FixedNow() time.Time {
	return time.Date(2024, time.January, 10, 12, 0, 0, 0, time.Local)
}

// New returns a loaded service backed by a temp-dir database. The store is
// closed when the test ends.
func New(t testing.TB) *journal.Service {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "habitcheck.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	svc := journal.NewService(st.SnapshotRepo(), st.PrefRepo(), journal.Options{Now: FixedNow})
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("load journal: %v", err)
	}
	return svc
}

// WithTracker is New plus one tracker named name.
func WithTracker(t testing.TB, name string) *journal.Service {
	t.Helper()
	svc := New(t)
	if _, err := svc.AddTracker(context.Background(), name); err != nil {
		t.Fatalf("add tracker: %v", err)
	}
	return svc
}
