// Package orchestrator is the single entry point per verb (run, lint,
// validate): it drives Change Provider, Resolver, Planner, and Executor
// in sequence and aggregates their results into one exit code.
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/hooktree/hooktree/internal/changeset"
	"github.com/hooktree/hooktree/internal/config"
	"github.com/hooktree/hooktree/internal/executor"
	"github.com/hooktree/hooktree/internal/planner"
	"github.com/hooktree/hooktree/internal/resolver"
	"github.com/hooktree/hooktree/internal/template"
	"github.com/hooktree/hooktree/pkg/gitutil"
	"github.com/hooktree/hooktree/pkg/logger"
)

var orchestratorLog = logger.New("orchestrator")

// rangePushEvents are the event names this rewrite treats as pre-push-style
// (range mode) rather than pre-commit-style (working-tree mode); everything
// else defaults to working-tree mode, matching the common case of custom
// application-defined events.
var rangePushEvents = map[string]bool{
	"pre-push":    true,
	"pre-receive": true,
	"update":      true,
}

// ExitUsageError reports a configuration or invocation problem that maps
// to exit code 2 (distinct from a hook failure, which maps to 1).
type ExitUsageError struct {
	Err error
}

func (e *ExitUsageError) Error() string { return e.Err.Error() }
func (e *ExitUsageError) Unwrap() error { return e.Err }

// RunFlags controls a `run` invocation.
type RunFlags struct {
	AllFiles bool
	DryRun   bool
	GitArgs  []string
}

// LintFlags controls a `lint` invocation.
type LintFlags struct {
	DryRun bool
}

// ValidateFlags controls a `validate` invocation.
type ValidateFlags struct {
	TraceImports bool
	JSON         bool
}

// Orchestrator glues the core components together for one invocation
// directory.
type Orchestrator struct {
	InvocationDir string
}

// New creates an Orchestrator rooted at invocationDir (typically the
// process's working directory).
func New(invocationDir string) *Orchestrator {
	return &Orchestrator{InvocationDir: invocationDir}
}

// Run executes event against the repository's working-tree or range
// change set, per event family, and returns the aggregate report.
func (o *Orchestrator) Run(ctx context.Context, event string, flags RunFlags) (executor.Report, error) {
	provider, err := changeset.New(ctx, o.InvocationDir)
	if err != nil {
		return executor.Report{}, &ExitUsageError{Err: err}
	}

	paths, err := o.changeSetForRun(ctx, provider, event, flags)
	if err != nil {
		return executor.Report{}, &ExitUsageError{Err: err}
	}

	loader := config.NewLoader(provider.Root(), "")
	res := resolver.New(loader, provider.Root())
	groups, err := res.ResolveForEvent(event, paths)
	if err != nil {
		return executor.Report{}, &ExitUsageError{Err: err}
	}

	worktreeInfo, err := provider.WorktreeInfo(ctx)
	if err != nil {
		return executor.Report{}, &ExitUsageError{Err: err}
	}

	var report executor.Report
	for _, group := range groups {
		plan, err := planner.Build(group.Config, event, group.Paths)
		if err != nil {
			return executor.Report{}, &ExitUsageError{Err: err}
		}
		groupReport, err := runGroup(ctx, plan, provider.Root(), worktreeInfo, flags.DryRun, flags.GitArgs)
		if err != nil {
			return executor.Report{}, err
		}
		report.Outcomes = append(report.Outcomes, groupReport.Outcomes...)
	}

	orchestratorLog.Printf("run %q: %d hooks, exit %d", event, len(report.Outcomes), report.ExitCode())
	return report, nil
}

// Lint runs name against every non-ignored file under the invocation
// directory, with no git event semantics.
func (o *Orchestrator) Lint(ctx context.Context, name string, flags LintFlags) (executor.Report, error) {
	provider, err := changeset.New(ctx, o.InvocationDir)
	if err != nil {
		return executor.Report{}, &ExitUsageError{Err: err}
	}

	paths, err := provider.Lint(o.InvocationDir)
	if err != nil {
		return executor.Report{}, &ExitUsageError{Err: err}
	}

	loader := config.NewLoader(provider.Root(), "")
	res := resolver.New(loader, provider.Root())
	eff, err := res.ResolveByName(o.InvocationDir, name)
	if err != nil {
		return executor.Report{}, &ExitUsageError{Err: err}
	}

	worktreeInfo, err := provider.WorktreeInfo(ctx)
	if err != nil {
		return executor.Report{}, &ExitUsageError{Err: err}
	}

	plan, err := planner.Build(eff, name, paths)
	if err != nil {
		return executor.Report{}, &ExitUsageError{Err: err}
	}

	return runGroup(ctx, plan, provider.Root(), worktreeInfo, flags.DryRun, nil)
}

// Validate parses and validates the repository root's hooks.toml (with
// its imports) without running any hook.
func (o *Orchestrator) Validate(ctx context.Context, flags ValidateFlags) ([]config.Diagnostic, error) {
	provider, err := changeset.New(ctx, o.InvocationDir)
	if err != nil {
		return nil, &ExitUsageError{Err: err}
	}

	loader := config.NewLoader(provider.Root(), "")
	path := provider.Root() + "/hooks.toml"
	eff, err := loader.Load(path)
	if err != nil {
		return nil, &ExitUsageError{Err: err}
	}

	diags := append([]config.Diagnostic{}, config.Validate(eff, true)...)
	if flags.TraceImports {
		diags = append(diags, eff.Diagnostics...)
	}
	if config.HasErrors(diags) {
		errCount := 0
		for _, d := range diags {
			if d.Severity == config.SeverityError {
				errCount++
			}
		}
		return diags, &ExitUsageError{Err: fmt.Errorf("validation failed with %d error(s)", errCount)}
	}
	return diags, nil
}

func (o *Orchestrator) changeSetForRun(ctx context.Context, provider *changeset.Provider, event string, flags RunFlags) ([]string, error) {
	if flags.AllFiles {
		return provider.Lint(o.InvocationDir)
	}
	if rangePushEvents[event] {
		repo, err := gitutil.DiscoverRepo(ctx, o.InvocationDir)
		if err != nil {
			return nil, err
		}
		localRef, err := repo.CurrentRef(ctx)
		if err != nil {
			return nil, err
		}
		return provider.Range(ctx, localRef, "@{push}")
	}
	return provider.WorkingTree(ctx)
}

// runGroup builds a per-hook template.Engine and executor.Invocation
// factory for plan and executes it, returning the group's report. Every
// Engine created (and any CHANGED_FILES_FILE temp file it lazily wrote) is
// cleaned up only after the whole plan has finished running, since a
// child process reads that file after BuildInvocation returns.
func runGroup(ctx context.Context, plan *planner.Plan, repoRoot string, worktreeInfo changeset.WorktreeInfo, dryRun bool, gitArgs []string) (executor.Report, error) {
	var mu sync.Mutex
	var engines []*template.Engine

	factory := func(sh planner.ScheduledHook) (executor.Invocation, error) {
		hookDir := repoRoot
		if sh.Hook.SourceFile != "" {
			hookDir = dirOf(sh.Hook.SourceFile)
		}
		engine := template.New(template.Vars{
			HookDir: hookDir,
			// Default until BuildInvocation resolves workdir/run_at_root and
			// calls engine.SetWorkingDir with the hook's actual working directory.
			WorkingDir:   hookDir,
			RepoRoot:     repoRoot,
			HomeDir:      homeDir(),
			PathEnv:      pathEnv(),
			IsWorktree:   worktreeInfo.IsWorktree,
			WorktreeName: worktreeInfo.Name,
			CommonDir:    worktreeInfo.CommonDir,
			MatchedPaths: sh.MatchedPaths,
		})
		mu.Lock()
		engines = append(engines, engine)
		mu.Unlock()
		return executor.BuildInvocation(sh, engine, repoRoot, gitArgs)
	}

	report := executor.RunPlan(ctx, plan, factory, dryRun)

	mu.Lock()
	for _, e := range engines {
		e.Cleanup()
	}
	mu.Unlock()

	return report, nil
}
