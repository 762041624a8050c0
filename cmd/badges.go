package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/habitcheck/internal/badges"
)

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "List earned and locked badges",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		trackerID, _ := cmd.Flags().GetString("tracker")

		return withJournal(cmd, func(env *journalEnv) error {
			sum, err := env.svc.Summary(trackerID, env.svc.Today())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printScope(out, sum.Tracker.Name, badges.ScopeTracker, sum.Badges)
			fmt.Fprintln(out)
			printScope(out, "All trackers", badges.ScopeGlobal, sum.GlobalBadges)
			return nil
		})
	},
}

func init() {
	badgesCmd.Flags().String("tracker", "", "Tracker ID or name (default active tracker)")
}

func printScope(w io.Writer, title string, scope badges.Scope, earned []badges.Badge) {
	defs := badges.Definitions(scope)
	fmt.Fprintf(w, "%s: %d of %d\n", title, len(earned), len(defs))
	for _, b := range earned {
		fmt.Fprintf(w, "  %s %-22s %s  (%s)\n", b.Icon, b.Title, b.Description, b.EarnedAt)
	}
	for _, d := range defs {
		if badges.Earned(earned, d.ID) {
			continue
		}
		fmt.Fprintf(w, "  🔒 %-22s %s\n", d.Title, d.Description)
	}
}
