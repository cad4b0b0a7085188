package main

import (
	"os"

	"github.com/hooktree/hooktree/internal/orchestrator"
	"github.com/spf13/cobra"
)

func newLintCommand() *cobra.Command {
	var dryRun, jsonOut bool

	cmd := &cobra.Command{
		Use:   "lint <name>",
		Short: "Run a hook or group against every non-ignored file under the current directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}

			orch := orchestrator.New(dir)
			report, err := orch.Lint(cmd.Context(), args[0], orchestrator.LintFlags{DryRun: dryRun})
			if err != nil {
				return err
			}

			if err := report.Print(jsonOut); err != nil {
				return err
			}
			if report.ExitCode() != 0 {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would run without spawning any process")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the report as JSON")
	return cmd
}
