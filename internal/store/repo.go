package store

import (
	"context"
	"time"

	"github.com/abhisek/habitcheck/internal/snapshot"
)

// Snapshot is one saved copy of the application state.
type Snapshot struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	Data      snapshot.Data
}

// SnapshotRepo manages the saved state history.
type SnapshotRepo interface {
	// Save stores a new snapshot. Sequence is assigned by the store and
	// written back into snap.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, migrated to the current
	// version, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the keep most recent snapshots.
	Prune(ctx context.Context, keep int) error

	// Count returns the number of stored snapshots.
	Count(ctx context.Context) (int, error)
}

// Preference keys.
const (
	PrefQuoteBag           = "quote_bag"
	PrefOnboardingComplete = "onboarding_complete"
)

// PrefRepo is a small key-value store for UI state that is not part of the
// exported snapshot.
type PrefRepo interface {
	// Get returns the value for key and whether it was set.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
