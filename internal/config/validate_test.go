package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateStrictModeOnMissingModifiesRepository(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "hooks.toml", `
[hooks.lint]
command = ["true"]
`)
	loader := NewLoader(dir, "")
	eff, err := loader.Load(path)
	require.NoError(t, err)

	lenient := Validate(eff, false)
	require.False(t, HasErrors(lenient))

	strict := Validate(eff, true)
	require.True(t, HasErrors(strict))
}

func TestValidateDanglingInclude(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "hooks.toml", `
[hooks.lint]
command = ["true"]
modifies_repository = false

[groups.pre-commit]
includes = ["lint", "missing"]
`)
	loader := NewLoader(dir, "")
	eff, err := loader.Load(path)
	require.NoError(t, err)

	diags := Validate(eff, false)
	require.True(t, HasErrors(diags))
}

func TestValidateInvalidGroupExecution(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "hooks.toml", `
[hooks.lint]
command = ["true"]
modifies_repository = false

[groups.pre-commit]
includes = ["lint"]
execution = "whenever"
`)
	loader := NewLoader(dir, "")
	eff, err := loader.Load(path)
	require.NoError(t, err)

	diags := Validate(eff, false)
	require.True(t, HasErrors(diags))
}
