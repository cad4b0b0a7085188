package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hooktree/hooktree/internal/changeset"
	"github.com/hooktree/hooktree/internal/config"
	"github.com/hooktree/hooktree/pkg/console"
	"github.com/spf13/cobra"
)

const shimTemplate = `#!/bin/sh
# installed by hooktree; do not edit by hand
exec hooktree run %s "$@"
`

func newInstallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install [event...]",
		Short: "Write git hook shims that forward to hooktree run",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}

			provider, err := changeset.New(cmd.Context(), dir)
			if err != nil {
				return err
			}

			events := args
			if len(events) == 0 {
				events, err = rootEvents(provider.Root())
				if err != nil {
					return err
				}
			}

			info, err := provider.WorktreeInfo(cmd.Context())
			if err != nil {
				return err
			}
			hooksDir := filepath.Join(provider.Root(), ".git", "hooks")
			if info.IsWorktree && info.CommonDir != "" {
				hooksDir = filepath.Join(info.CommonDir, "hooks")
			}
			if err := os.MkdirAll(hooksDir, 0o755); err != nil {
				return err
			}

			for _, event := range events {
				path := filepath.Join(hooksDir, event)
				shim := fmt.Sprintf(shimTemplate, event)
				if err := os.WriteFile(path, []byte(shim), 0o755); err != nil {
					return err
				}
				fmt.Fprintln(os.Stderr, console.FormatSuccessMessage(fmt.Sprintf("installed %s", path)))
			}
			return nil
		},
	}
	return cmd
}

func rootEvents(repoRoot string) ([]string, error) {
	loader := config.NewLoader(repoRoot, "")
	eff, err := loader.Load(filepath.Join(repoRoot, "hooks.toml"))
	if err != nil {
		return nil, err
	}
	var events []string
	for name := range eff.Hooks {
		events = append(events, name)
	}
	for name := range eff.Groups {
		events = append(events, name)
	}
	return events, nil
}
