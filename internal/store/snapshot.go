package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/habitcheck/internal/logger"
	"github.com/abhisek/habitcheck/internal/snapshot"
)

const snapshotsTable = "snapshots"

// snapshotRepo implements SnapshotRepo with the ent SQL builder.
type snapshotRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	log *logger.Logger
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := snapshot.Encode(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now()
	}

	query, args := builder().Insert(snapshotsTable).
		Columns("sequence", "created_at", "version", "data").
		Values(seq, snap.Timestamp.UnixMilli(), snapshot.CurrentVersion, string(data)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		snap.ID = id
	}
	snap.Sequence = seq
	r.log.Debug("snapshot saved", "sequence", seq, "bytes", len(data))
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	t := entsql.Table(snapshotsTable)
	query, args := builder().Select(t.C("id"), t.C("sequence"), t.C("created_at"), t.C("version"), t.C("data")).
		From(t).
		OrderBy(entsql.Desc(t.C("sequence"))).
		Limit(1).
		Query()

	var (
		snap    Snapshot
		created int64
		version int
		data    string
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&snap.ID, &snap.Sequence, &created, &version, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}

	snap.Timestamp = time.UnixMilli(created)
	snap.Data = snapshot.Decode([]byte(data))
	if version != snapshot.CurrentVersion {
		r.log.Info("snapshot migrated", "from", version, "to", snapshot.CurrentVersion)
	}
	return &snap, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	if keep < 1 {
		keep = 1
	}
	// Find the sequence of the newest snapshot that falls outside keep.
	t := entsql.Table(snapshotsTable)
	query, args := builder().Select(t.C("sequence")).
		From(t).
		OrderBy(entsql.Desc(t.C("sequence"))).
		Offset(keep).
		Limit(1).
		Query()

	var threshold int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // fewer than keep snapshots exist
	}
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	query, args = builder().Delete(snapshotsTable).
		Where(entsql.LTE("sequence", threshold)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		r.log.Debug("snapshots pruned", "deleted", n, "kept", keep)
	}
	return nil
}

func (r *snapshotRepo) Count(ctx context.Context) (int, error) {
	query, args := builder().Select(entsql.Count("*")).From(entsql.Table(snapshotsTable)).Query()
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return n, nil
}
