package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Write a JSON backup (stdout when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJournal(cmd, func(env *journalEnv) error {
			raw, err := env.svc.Export()
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if len(args) == 0 {
				_, err := cmd.OutOrStdout().Write(append(raw, '\n'))
				return err
			}
			if err := os.WriteFile(args[0], raw, 0o600); err != nil {
				return fmt.Errorf("write backup: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Backup written to %s\n", args[0])
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace all data with a JSON backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read backup: %w", err)
		}
		return withJournal(cmd, func(env *journalEnv) error {
			awarded, err := env.svc.Import(commandContext(cmd), raw)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d trackers.\n", len(env.svc.Data().Trackers))
			printAwarded(out, awarded.All())
			return nil
		})
	},
}
