package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/habitcheck/internal/scoring"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show streaks, points and goal progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		trackerID, _ := cmd.Flags().GetString("tracker")
		asJSON, _ := cmd.Flags().GetBool("json")

		return withJournal(cmd, func(env *journalEnv) error {
			sum, err := env.svc.Summary(trackerID, env.svc.Today())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sum)
			}

			st := sum.Stats
			mode := sum.Tracker.GoalMode
			fmt.Fprintf(out, "%s  (%s)\n", sum.Tracker.Name, sum.Today)
			fmt.Fprintln(out, strings.Repeat("─", 48))
			if sum.TodayEntry != nil {
				fmt.Fprintf(out, "%-22s %s %s\n", "Today", sum.TodayEntry.Status.Icon(), sum.TodayEntry.Status.Label())
			} else {
				fmt.Fprintf(out, "%-22s %s\n", "Today", "not logged")
			}
			fmt.Fprintf(out, "%-22s %d (best %d)\n", "All-good streak", st.CurrentGoodStreak, st.BestGoodStreak)
			fmt.Fprintf(out, "%-22s %d (best %d)\n", "Logging streak", st.LoggingStreak, st.BestLoggingStreak)
			fmt.Fprintf(out, "%-22s %d good / %d mixed / %d reset\n", "Last 7 days", st.Last7.Good, st.Last7.Mixed, st.Last7.Reset)
			fmt.Fprintf(out, "%-22s %d good / %d mixed / %d reset\n", "Last 30 days", st.Last30.Good, st.Last30.Mixed, st.Last30.Reset)
			fmt.Fprintf(out, "%-22s %s / %s\n", "Points 7d / 30d", trimFloat(st.MomentumWeekly), trimFloat(st.MomentumMonthly))
			fmt.Fprintf(out, "%-22s %d%% / %d%%\n", "Consistency 7d / 30d", st.ConsistencyWeekly, st.ConsistencyMonthly)
			fmt.Fprintf(out, "%-22s %d\n", "Recovery runs (30d)", sum.Recovery30)
			fmt.Fprintf(out, "%-22s %s\n", "Lifetime points", trimFloat(sum.TotalPoints))
			fmt.Fprintf(out, "%-22s %s\n", "Goal", mode.Label())
			fmt.Fprintf(out, "%-22s %s\n", "  this week", goalLine(sum.Goal.Weekly, mode.Unit(true)))
			fmt.Fprintf(out, "%-22s %s\n", "  this month", goalLine(sum.Goal.Monthly, mode.Unit(true)))
			return nil
		})
	},
}

func init() {
	statsCmd.Flags().String("tracker", "", "Tracker ID or name (default active tracker)")
	statsCmd.Flags().Bool("json", false, "Print the summary as JSON")
}

func goalLine(p scoring.Progress, unit string) string {
	line := fmt.Sprintf("%s / %s %s (%.0f%%)", trimFloat(p.Current), trimFloat(p.Target), unit, p.Percent*100)
	if p.Done() {
		line += " done"
	}
	return line
}

func trimFloat(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}
