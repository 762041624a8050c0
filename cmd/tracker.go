package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/habitcheck/internal/tracker"
)

var trackerCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Manage trackers",
}

var trackerAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a tracker and make it active",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		return withJournal(cmd, func(env *journalEnv) error {
			t, err := env.svc.AddTracker(commandContext(cmd), name)
			if err != nil {
				return fmt.Errorf("add tracker: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s)\n", t.Name, t.ID)
			return nil
		})
	},
}

var trackerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trackers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJournal(cmd, func(env *journalEnv) error {
			d := env.svc.Data()
			out := cmd.OutOrStdout()
			if len(d.Trackers) == 0 {
				fmt.Fprintln(out, "No trackers yet. Add one with: habitcheck tracker add NAME")
				return nil
			}
			fmt.Fprintf(out, "   %-36s  %-24s  %-12s  %s\n", "ID", "Name", "Goal", "Targets")
			fmt.Fprintln(out, strings.Repeat("─", 90))
			for _, t := range d.Trackers {
				marker := " "
				if t.ID == d.ActiveTrackerID {
					marker = "*"
				}
				fmt.Fprintf(out, "%s  %-36s  %-24s  %-12s  %d/wk %d/mo\n",
					marker, t.ID, t.Name, t.GoalMode.Label(), t.WeeklyTarget, t.MonthlyTarget)
			}
			return nil
		})
	},
}

var trackerUseCmd = &cobra.Command{
	Use:   "use ID|NAME",
	Short: "Make a tracker active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJournal(cmd, func(env *journalEnv) error {
			t, err := env.svc.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := env.svc.SwitchTracker(commandContext(cmd), t.ID); err != nil {
				return fmt.Errorf("switch tracker: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Now tracking %q\n", t.Name)
			return nil
		})
	},
}

var trackerRemoveCmd = &cobra.Command{
	Use:   "remove ID|NAME",
	Short: "Delete a tracker with its days, runs and badges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return errors.New("remove deletes the tracker's history; re-run with --yes to confirm")
		}
		return withJournal(cmd, func(env *journalEnv) error {
			t, err := env.svc.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := env.svc.RemoveTracker(commandContext(cmd), t.ID); err != nil {
				return fmt.Errorf("remove tracker: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", t.Name)
			return nil
		})
	},
}

var trackerSetGoalCmd = &cobra.Command{
	Use:   "set-goal MODE",
	Short: "Set the goal mode (consistency, good, points) and targets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		trackerID, _ := cmd.Flags().GetString("tracker")
		weekly, _ := cmd.Flags().GetInt("weekly")
		monthly, _ := cmd.Flags().GetInt("monthly")
		mode := tracker.ParseGoalMode(args[0])

		return withJournal(cmd, func(env *journalEnv) error {
			t, err := env.svc.Resolve(trackerID)
			if err != nil {
				return err
			}
			t.SetGoal(mode, weekly, monthly)
			if err := env.svc.UpdateTracker(commandContext(cmd), t); err != nil {
				return fmt.Errorf("update tracker: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, %d/wk %d/mo %s\n",
				t.Name, mode.Label(), t.WeeklyTarget, t.MonthlyTarget, mode.Unit(false))
			return nil
		})
	},
}

func init() {
	trackerRemoveCmd.Flags().Bool("yes", false, "Confirm deleting the tracker")

	trackerSetGoalCmd.Flags().String("tracker", "", "Tracker ID or name (default active tracker)")
	trackerSetGoalCmd.Flags().Int("weekly", 0, "Weekly target (default depends on mode)")
	trackerSetGoalCmd.Flags().Int("monthly", 0, "Monthly target (default depends on mode)")

	trackerCmd.AddCommand(trackerAddCmd)
	trackerCmd.AddCommand(trackerListCmd)
	trackerCmd.AddCommand(trackerUseCmd)
	trackerCmd.AddCommand(trackerRemoveCmd)
	trackerCmd.AddCommand(trackerSetGoalCmd)
}
