package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/habitcheck/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a Markdown or HTML progress report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		trackerID, _ := cmd.Flags().GetString("tracker")
		asHTML, _ := cmd.Flags().GetBool("html")
		outPath, _ := cmd.Flags().GetString("out")

		return withJournal(cmd, func(env *journalEnv) error {
			sum, err := env.svc.Summary(trackerID, env.svc.Today())
			if err != nil {
				return err
			}

			doc := report.Markdown(sum)
			if asHTML {
				if doc, err = report.Document(sum); err != nil {
					return fmt.Errorf("render html: %w", err)
				}
			}

			if outPath == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
				return err
			}
			if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			env.log.Info("report written", "path", outPath, "html", asHTML)
			fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", outPath)
			return nil
		})
	},
}

func init() {
	reportCmd.Flags().String("tracker", "", "Tracker ID or name (default active tracker)")
	reportCmd.Flags().Bool("html", false, "Render a standalone HTML page instead of Markdown")
	reportCmd.Flags().String("out", "", "Write to this file instead of stdout")
}
