package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/hooktree/hooktree/internal/config"
	"github.com/hooktree/hooktree/pkg/console"
	"github.com/hooktree/hooktree/pkg/gitutil"
	"github.com/spf13/cobra"
)

type doctorCheck struct {
	Name string `json:"name" console:"header:Check"`
	OK   bool   `json:"ok" console:"header:OK"`
	Note string `json:"note,omitempty" console:"header:Note"`
}

func newDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that this environment can run hooktree",
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := runDoctorChecks(cmd.Context())
			fmt.Print(console.RenderStruct(checks))

			for _, c := range checks {
				if !c.OK {
					os.Exit(1)
				}
			}
			return nil
		},
	}
	return cmd
}

func runDoctorChecks(ctx context.Context) []doctorCheck {
	var checks []doctorCheck

	if _, err := exec.LookPath("git"); err != nil {
		checks = append(checks, doctorCheck{Name: "git on PATH", OK: false, Note: err.Error()})
	} else {
		checks = append(checks, doctorCheck{Name: "git on PATH", OK: true})
	}

	dir, err := os.Getwd()
	if err != nil {
		checks = append(checks, doctorCheck{Name: "current directory", OK: false, Note: err.Error()})
		return checks
	}

	repo, err := gitutil.DiscoverRepo(ctx, dir)
	if err != nil {
		checks = append(checks, doctorCheck{Name: "inside a git repository", OK: false, Note: err.Error()})
		return checks
	}
	checks = append(checks, doctorCheck{Name: "inside a git repository", OK: true, Note: repo.Root})

	path := filepath.Join(repo.Root, "hooks.toml")
	if _, err := os.Stat(path); err != nil {
		checks = append(checks, doctorCheck{Name: "root hooks.toml present", OK: false, Note: err.Error()})
		return checks
	}

	loader := config.NewLoader(repo.Root, "")
	if _, err := loader.Load(path); err != nil {
		checks = append(checks, doctorCheck{Name: "root hooks.toml parses", OK: false, Note: err.Error()})
		return checks
	}
	checks = append(checks, doctorCheck{Name: "root hooks.toml parses", OK: true})

	return checks
}
