package main

import (
	"fmt"
	"os"

	"github.com/hooktree/hooktree/internal/orchestrator"
	"github.com/hooktree/hooktree/pkg/console"
	"github.com/spf13/cobra"
)

func newRunCommand() *cobra.Command {
	var allFiles, dryRun, jsonOut bool

	cmd := &cobra.Command{
		Use:   "run <event> [-- <git-args>]",
		Short: "Run the hooks that resolve for a git event against the current change set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			event := args[0]
			gitArgs := args[1:]

			dir, err := os.Getwd()
			if err != nil {
				return err
			}

			orch := orchestrator.New(dir)
			report, err := orch.Run(cmd.Context(), event, orchestrator.RunFlags{
				AllFiles: allFiles,
				DryRun:   dryRun,
				GitArgs:  gitArgs,
			})
			if err != nil {
				return err
			}

			for _, o := range report.Failed() {
				if o.Stderr != "" {
					fmt.Fprintln(os.Stderr, console.FormatErrorMessage(o.HookName+": "+o.Stderr))
				}
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

	cmd.Flags().BoolVar(&allFiles, "all-files", false, "run against every non-ignored file instead of the working-tree change set")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would run without spawning any process")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the report as JSON")
	return cmd
}
