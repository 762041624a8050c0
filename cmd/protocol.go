package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/habitcheck/internal/protocol"
)

var protocolCmd = &cobra.Command{
	Use:   "protocol",
	Short: "Run the guided recovery protocol",
}

var protocolStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a recovery run for today",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		trackerID, _ := cmd.Flags().GetString("tracker")
		return withJournal(cmd, func(env *journalEnv) error {
			run, err := env.svc.StartRecovery(commandContext(cmd), trackerID)
			if err != nil {
				return fmt.Errorf("start recovery: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s started (%d min).\n\n", run.ID, run.DurationMinutes)
			printSteps(cmd, protocol.Steps())
			fmt.Fprintf(out, "\nWhen done: habitcheck protocol complete %s --steps N\n", run.ID)
			return nil
		})
	},
}

var protocolCompleteCmd = &cobra.Command{
	Use:   "complete RUN_ID",
	Short: "Complete a recovery run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		return withJournal(cmd, func(env *journalEnv) error {
			run, awarded, err := env.svc.CompleteRecovery(commandContext(cmd), args[0], steps)
			if err != nil {
				return fmt.Errorf("complete recovery: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recovery recorded for %s: %d of %d steps.\n", run.Date, run.CompletedSteps, len(protocol.Steps()))
			printAwarded(out, awarded.All())
			return nil
		})
	},
}

var protocolStepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Print the protocol steps",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printSteps(cmd, protocol.Steps())
	},
}

func printSteps(cmd *cobra.Command, steps []protocol.Step) {
	out := cmd.OutOrStdout()
	for i, s := range steps {
		fmt.Fprintf(out, "%d. %s\n", i+1, s.Title)
		if s.Caption != "" {
			fmt.Fprintf(out, "   %s\n", s.Caption)
		}
	}
}

func init() {
	protocolStartCmd.Flags().String("tracker", "", "Tracker ID or name (default active tracker)")
	protocolCompleteCmd.Flags().Int("steps", len(protocol.Steps()), "Number of steps completed")

	protocolCmd.AddCommand(protocolStartCmd)
	protocolCmd.AddCommand(protocolCompleteCmd)
	protocolCmd.AddCommand(protocolStepsCmd)
}
