package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/hooktree/hooktree/pkg/console"
	"github.com/hooktree/hooktree/pkg/logger"
	"github.com/spf13/cobra"
)

// Build-time variable set by the release pipeline.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "hooktree",
	Short:   "Hierarchical git hook manager",
	Version: version,
	Long: `hooktree runs per-directory hooks.toml configuration against git events.

Common tasks:
  hooktree run pre-commit     # run hooks for the current working-tree changes
  hooktree lint <name>        # run a hook/group against all non-ignored files
  hooktree validate           # check hooks.toml for problems
  hooktree install            # write git hook shims that call hooktree run`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable DEBUG=* style verbose logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable ANSI color output")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			os.Setenv("NO_COLOR", "1")
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logger.SetVerbose(true)
		}
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("%s\n", console.FormatInfoMessage("hooktree version {{.Version}}")))

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newLintCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newInstallCommand())
	rootCmd.AddCommand(newDoctorCommand())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd.SetContext(ctx)
	err := rootCmd.Execute()

	switch {
	case err == nil:
		os.Exit(0)
	case ctx.Err() != nil:
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage("interrupted"))
		os.Exit(130)
	default:
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		os.Exit(exitCodeFor(err))
	}
}
