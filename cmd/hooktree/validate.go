package main

import (
	"fmt"
	"os"

	"github.com/hooktree/hooktree/internal/config"
	"github.com/hooktree/hooktree/internal/orchestrator"
	"github.com/hooktree/hooktree/pkg/console"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	var traceImports, jsonOut bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the repository root's hooks.toml for problems without running anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}

			orch := orchestrator.New(dir)
			diags, valErr := orch.Validate(cmd.Context(), orchestrator.ValidateFlags{
				TraceImports: traceImports,
				JSON:         jsonOut,
			})

			if jsonOut {
				if err := console.OutputStructOrJSON(diags, jsonOut); err != nil {
					return err
				}
			} else {
				verbose, _ := cmd.Flags().GetBool("verbose")
				fmt.Print(console.FormatValidationSummary(toValidationResults(diags), verbose))
			}

			if valErr != nil {
				fmt.Fprintln(os.Stderr, console.FormatErrorMessage(valErr.Error()))
				os.Exit(2)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&traceImports, "trace-imports", false, "include import resolution diagnostics (overrides, cycles, unused imports)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print diagnostics as JSON")
	return cmd
}

// toValidationResults adapts config.Diagnostic, the loader's own
// diagnostic type, into console.ValidationResults for human-readable
// rendering; JSON output uses the diagnostics directly instead.
func toValidationResults(diags []config.Diagnostic) *console.ValidationResults {
	results := &console.ValidationResults{}
	for _, d := range diags {
		v := console.ValidationError{Severity: d.Severity.String(), Message: d.Message, File: d.File}
		switch d.Severity {
		case config.SeverityError:
			results.Errors = append(results.Errors, v)
		case config.SeverityWarning:
			results.Warnings = append(results.Warnings, v)
		default:
			results.Infos = append(results.Infos, v)
		}
	}
	return results
}
