package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/habitcheck/internal/app"
	"github.com/abhisek/habitcheck/internal/store"
)

var rootCmd = &cobra.Command{
	Use:          "habitcheck",
	Short:        "Daily status tracker",
	Long:         "habitcheck: log each day as good, mixed or reset, and watch streaks, points and badges add up.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJournal(cmd, func(env *journalEnv) error {
			return app.Run(app.Options{Service: env.svc, Logger: env.log})
		})
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides HABITCHECK_DB env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides HABITCHECK_LOG_LEVEL)")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(badgesCmd)
	rootCmd.AddCommand(trackerCmd)
	rootCmd.AddCommand(protocolCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then HABITCHECK_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, envPath string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if envPath != "" {
		return envPath, store.EnsureDir(envPath)
	}
	return store.DefaultDBPath()
}
