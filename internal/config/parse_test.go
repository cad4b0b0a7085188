package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseFileBasic(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "hooks.toml", `
[hooks.lint]
command = ["golangci-lint", "run"]
modifies_repository = false

[hooks.fmt]
command = "gofmt -w ."
modifies_repository = true

[groups.pre-commit]
includes = ["lint", "fmt"]
execution = "parallel"
`)

	cfg, diags, err := ParseFile(path)
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Len(t, cfg.Hooks, 2)
	require.False(t, cfg.Hooks["lint"].Command.IsShell())
	require.Equal(t, []string{"golangci-lint", "run"}, cfg.Hooks["lint"].Command.Argv)
	require.True(t, cfg.Hooks["fmt"].Command.IsShell())
	require.Equal(t, "gofmt -w .", cfg.Hooks["fmt"].Command.Raw)
	require.Equal(t, GroupExecution("parallel"), cfg.Groups["pre-commit"].Execution)
}

func TestParseFileRejectsUnknownTopLevelKey(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "hooks.toml", `
bogus = true

[hooks.lint]
command = ["true"]
`)
	_, _, err := ParseFile(path)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseFileWarnsOnUnknownHookKey(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "hooks.toml", `
[hooks.lint]
command = ["true"]
modifies_repository = false
future_feature = "staged-rollout"
`)
	_, diags, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	require.Equal(t, SeverityWarning, diags[0].Severity)
}

func TestParseFileRejectsInvalidHookName(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "hooks.toml", `
[hooks."bad name"]
command = ["true"]
`)
	_, _, err := ParseFile(path)
	require.Error(t, err)
}

func TestParseFileRejectsEmptyCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "hooks.toml", `
[hooks.lint]
command = []
`)
	_, _, err := ParseFile(path)
	require.Error(t, err)
}

func TestParseFileWarnsOnMissingModifiesRepository(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "hooks.toml", `
[hooks.lint]
command = ["true"]
`)
	_, diags, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "modifies_repository")
}
