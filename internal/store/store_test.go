package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/habitcheck/internal/snapshot"
	"github.com/abhisek/habitcheck/internal/tracker"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.PrefRepo().Set(ctx, "k", "v"))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.PrefRepo().Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func sampleData(name string) snapshot.Data {
	d := snapshot.Empty()
	tr := tracker.New(name)
	d.Trackers = []tracker.Tracker{tr}
	d.ActiveTrackerID = tr.ID
	d.Entries[tr.ID] = []tracker.Entry{{Date: "2024-01-01", Status: tracker.StatusGood, UpdatedAt: 1}}
	return d
}

func TestSnapshotSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	snap, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap, "expected nil snapshot when none exist")

	now := time.Now().Truncate(time.Millisecond)
	first := &Snapshot{Timestamp: now, Data: sampleData("first")}
	require.NoError(t, repo.Save(ctx, first))
	second := &Snapshot{Timestamp: now, Data: sampleData("second")}
	require.NoError(t, repo.Save(ctx, second))

	assert.Greater(t, second.Sequence, first.Sequence)

	snap, err = repo.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, second.Sequence, snap.Sequence)
	assert.True(t, snap.Timestamp.Equal(now))
	assert.Equal(t, second.Data, snap.Data)
}

func TestSnapshotLatest_MigratesOldRows(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.DB().ExecContext(ctx,
		`INSERT INTO snapshots (sequence, created_at, version, data) VALUES (?, ?, ?, ?)`,
		1, time.Now().UnixMilli(), 1,
		`{"settings":{"goalName":"Legacy"},"entries":[{"date":"2024-01-01","status":"red","updatedAt":1}]}`)
	require.NoError(t, err)

	snap, err := s.SnapshotRepo().Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Len(t, snap.Data.Trackers, 1)
	assert.Equal(t, "Legacy", snap.Data.Trackers[0].Name)
	assert.Equal(t, snapshot.CurrentVersion, snap.Data.Version)
}

func TestSnapshotPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Save(ctx, &Snapshot{Data: sampleData("x")}))
	}

	require.NoError(t, repo.Prune(ctx, 2))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Pruning with fewer than keep snapshots is a no-op.
	require.NoError(t, repo.Prune(ctx, 10))
	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), latest.Sequence)
}

func TestPrefRepo(t *testing.T) {
	s := openTestStore(t)
	prefs := s.PrefRepo()
	ctx := context.Background()

	_, ok, err := prefs.Get(ctx, PrefQuoteBag)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, prefs.Set(ctx, PrefQuoteBag, "a"))
	require.NoError(t, prefs.Set(ctx, PrefQuoteBag, "b"))
	v, ok, err := prefs.Get(ctx, PrefQuoteBag)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	require.NoError(t, prefs.Delete(ctx, PrefQuoteBag))
	_, ok, err = prefs.Get(ctx, PrefQuoteBag)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("HABITCHECK_DB", filepath.Join(dir, "env", "custom.db"))
	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "env", "custom.db"), p)
	_, err = os.Stat(filepath.Join(dir, "env"))
	assert.NoError(t, err)

	t.Setenv("HABITCHECK_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "habitcheck", "habitcheck.db"), p)
}
