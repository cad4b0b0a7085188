package executor

import (
	"github.com/hooktree/hooktree/internal/config"
	"github.com/hooktree/hooktree/internal/planner"
	"github.com/hooktree/hooktree/internal/template"
)

// BuildInvocation expands sh's command, env, and workdir against engine and
// assembles the argv the process will actually run, per the hook's
// execution_type. gitArgs are extra positional arguments passed through
// from git itself (e.g. the commit-msg file path); they are appended after
// matched paths for per-file and in-place hooks, and passed to shell-string
// hooks as sh -c's positional parameters.
func BuildInvocation(sh planner.ScheduledHook, engine *template.Engine, repoRoot string, gitArgs []string) (Invocation, error) {
	hook := sh.Hook
	inv := Invocation{HookName: hook.Name}

	// Resolve workdir first and push it back into engine so that WORKING_DIR
	// and WORKING_DIR_REL reflect it in the command and env expanded below,
	// rather than always equaling HOOK_DIR/HOOK_DIR_REL.
	workdir, err := resolveWorkdir(hook, engine, repoRoot)
	if err != nil {
		return Invocation{}, err
	}
	engine.SetWorkingDir(workdir)
	inv.Workdir = workdir

	if hook.Command.IsShell() {
		expanded, err := engine.Expand(hook.Command.Raw)
		if err != nil {
			return Invocation{}, err
		}
		inv.Shell = expanded
		// gitArgs reach a shell hook as sh -c's positional parameters
		// ($1, $2, ... or "$@"), the same as matched paths/gitArgs reach an
		// argv hook as trailing elements.
		inv.ShellArgs = append([]string{}, gitArgs...)
	} else {
		argv, err := engine.ExpandArgv(hook.Command.Argv)
		if err != nil {
			return Invocation{}, err
		}
		switch hook.Type() {
		case config.ExecutionPerFile:
			argv = append(append([]string{}, argv...), sh.MatchedPaths...)
			argv = append(argv, gitArgs...)
		case config.ExecutionInPlace:
			argv = append(append([]string{}, argv...), gitArgs...)
		case config.ExecutionOther:
			// paths are available only through template variables
		}
		inv.Argv = argv
	}

	env, err := engine.ExpandEnv(hook.Env)
	if err != nil {
		return Invocation{}, err
	}
	inv.Env = make([]string, 0, len(env))
	for k, v := range env {
		inv.Env = append(inv.Env, k+"="+v)
	}

	return inv, nil
}

func resolveWorkdir(hook *config.HookDefinition, engine *template.Engine, repoRoot string) (string, error) {
	if hook.Workdir != "" {
		return engine.Expand(hook.Workdir)
	}
	if hook.RunAtRoot {
		return repoRoot, nil
	}
	return engine.Expand("{HOOK_DIR}")
}
