package executor

import "strings"

// DryRunPreview is what a --dry-run run prints for one hook instead of
// spawning it: the resolved command, working directory, secret-redacted
// environment delta, and the paths it would have received.
type DryRunPreview struct {
	HookName     string              `json:"hook" console:"header:Hook"`
	Command      string              `json:"command" console:"header:Command"`
	Workdir      string              `json:"workdir" console:"header:Workdir"`
	Env          []string            `json:"env,omitempty" console:"header:Env"`
	MatchedPaths int                 `json:"matched_paths" console:"header:Matched"`
}

// Preview builds the DryRunPreview for inv without spawning a process.
func Preview(inv Invocation, matchedPaths int) DryRunPreview {
	command := inv.Shell
	if command == "" {
		command = strings.Join(inv.Argv, " ")
	}
	return DryRunPreview{
		HookName:     inv.HookName,
		Command:      command,
		Workdir:      inv.Workdir,
		Env:          RedactedEnv(inv),
		MatchedPaths: matchedPaths,
	}
}
