package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/habitcheck/internal/badges"
	"github.com/abhisek/habitcheck/internal/tracker"
)

var logCmd = &cobra.Command{
	Use:   "log STATUS",
	Short: "Log a day as good, mixed or reset",
	Long: `Log a day as good, mixed or reset. Logging the same day again replaces the
status and appends the note. The date defaults to today.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := tracker.ParseStatus(args[0])
		if err != nil {
			return err
		}
		date, _ := cmd.Flags().GetString("date")
		note, _ := cmd.Flags().GetString("note")
		trackerID, _ := cmd.Flags().GetString("tracker")

		return withJournal(cmd, func(env *journalEnv) error {
			t, err := env.svc.Resolve(trackerID)
			if err != nil {
				return err
			}
			awarded, err := env.svc.LogDay(commandContext(cmd), t.ID, date, status, note)
			if err != nil {
				return fmt.Errorf("log day: %w", err)
			}

			day := date
			if day == "" {
				day = "today"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s logged for %s (%s)\n", status.Icon(), status.Label(), day, t.Name)
			printAwarded(out, awarded.All())
			return nil
		})
	},
}

func init() {
	logCmd.Flags().String("date", "", "Day to log as YYYY-MM-DD (default today)")
	logCmd.Flags().String("note", "", "Note to attach to the day")
	logCmd.Flags().String("tracker", "", "Tracker ID or name (default active tracker)")
}

func printAwarded(w io.Writer, list []badges.Badge) {
	for _, b := range list {
		fmt.Fprintf(w, "%s New badge: %s. %s\n", b.Icon, b.Title, b.Description)
	}
}
