package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/habitcheck/internal/config"
	"github.com/abhisek/habitcheck/internal/journal"
	"github.com/abhisek/habitcheck/internal/logger"
	"github.com/abhisek/habitcheck/internal/store"
)

// journalEnv is what every command needs: the loaded journal plus the
// resources behind it.
type journalEnv struct {
	cfg   config.Config
	log   *logger.Logger
	store *store.Store
	svc   *journal.Service
}

func (e *journalEnv) close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("close store", "error", err)
	}
	e.log.Sync()
}

// openJournal loads config, builds the logger, opens the store and loads the
// latest snapshot. Flags override environment settings.
func openJournal(cmd *cobra.Command) (*journalEnv, error) {
	cfg := config.Load()
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}

	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	cfg.DBPath = dbPath

	ctx := commandContext(cmd)
	st, err := store.Open(ctx, dbPath, store.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	svc := journal.NewService(st.SnapshotRepo(), st.PrefRepo(), journal.Options{
		SnapshotKeep:    cfg.SnapshotKeep,
		RecoveryMinutes: cfg.RecoveryMinutes,
		Logger:          log,
	})
	if err := svc.Load(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("load journal: %w", err)
	}
	log.Debug("journal opened", "db", dbPath)

	return &journalEnv{cfg: cfg, log: log, store: st, svc: svc}, nil
}

// withJournal runs fn against an open journal and closes it afterwards.
func withJournal(cmd *cobra.Command, fn func(env *journalEnv) error) error {
	env, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer env.close()
	return fn(env)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
