package executor

import (
	"context"
	"time"

	"github.com/hooktree/hooktree/internal/planner"
	"golang.org/x/sync/errgroup"
)

// InvocationFactory builds the Invocation for one scheduled hook. The
// orchestrator supplies this so each hook gets a template.Engine bound to
// its own HOOK_DIR/matched paths.
type InvocationFactory func(sh planner.ScheduledHook) (Invocation, error)

// RunPlan executes every phase of plan in order, honoring the
// safety-invariant partitioning the planner already performed: it simply
// trusts each phase's Kind. Hooks whose transitive dependency failed are
// skipped rather than run.
func RunPlan(ctx context.Context, plan *planner.Plan, factory InvocationFactory, dryRun bool) Report {
	var report Report
	failed := map[string]bool{}

	for _, skipped := range plan.Skipped {
		report.Outcomes = append(report.Outcomes, Outcome{
			HookName:   skipped.Name,
			Skipped:    true,
			SkipReason: string(skipped.Reason),
		})
	}

	for phaseIdx, phase := range plan.Phases {
		switch phase.Kind {
		case planner.Parallel:
			report.Outcomes = append(report.Outcomes, runParallelPhase(ctx, phaseIdx, phase, factory, failed, dryRun)...)
		default:
			report.Outcomes = append(report.Outcomes, runSequentialPhase(ctx, phaseIdx, phase, factory, failed, dryRun)...)
		}
	}

	return report
}

func dependencyFailed(sh planner.ScheduledHook, failed map[string]bool) bool {
	for _, dep := range sh.Hook.DependsOn {
		if failed[dep] {
			return true
		}
	}
	return false
}

func runSequentialPhase(ctx context.Context, phaseIdx int, phase planner.Phase, factory InvocationFactory, failed map[string]bool, dryRun bool) []Outcome {
	outcomes := make([]Outcome, 0, len(phase.Hooks))
	for _, sh := range phase.Hooks {
		outcome := runOne(ctx, phaseIdx, phase.Kind, sh, factory, failed, dryRun)
		// A hook skipped for a failed dependency blocks its own dependents
		// too, so the skip cascades transitively.
		if !outcome.Succeeded() || outcome.SkipReason == "dependency failed" {
			failed[sh.Hook.Name] = true
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func runParallelPhase(ctx context.Context, phaseIdx int, phase planner.Phase, factory InvocationFactory, failed map[string]bool, dryRun bool) []Outcome {
	outcomes := make([]Outcome, len(phase.Hooks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(len(phase.Hooks)))

	for i, sh := range phase.Hooks {
		i, sh := i, sh
		g.Go(func() error {
			outcomes[i] = runOne(gctx, phaseIdx, phase.Kind, sh, factory, failed, dryRun)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		if !o.Succeeded() || o.SkipReason == "dependency failed" {
			failed[o.HookName] = true
		}
	}
	return outcomes
}

func runOne(ctx context.Context, phaseIdx int, kind planner.PhaseKind, sh planner.ScheduledHook, factory InvocationFactory, failed map[string]bool, dryRun bool) Outcome {
	base := Outcome{
		HookName:  sh.Hook.Name,
		Phase:     phaseIdx,
		PhaseKind: kind,
		MatchedN:  len(sh.MatchedPaths),
	}

	if dependencyFailed(sh, failed) {
		base.Skipped = true
		base.SkipReason = "dependency failed"
		return base
	}

	inv, err := factory(sh)
	if err != nil {
		base.Err = err
		return base
	}
	inv.DryRun = dryRun

	if dryRun {
		base.DryRun = true
		preview := Preview(inv, len(sh.MatchedPaths))
		base.Preview = &preview
		return base
	}

	base.Started = startTime()
	stdout, stderr, exitCode, runErr := run(ctx, inv)
	base.Finished = startTime()
	base.Stdout = stdout
	base.Stderr = stderr
	base.ExitCode = exitCode
	base.Err = runErr
	return base
}

// startTime is a seam so tests never depend on wall-clock time directly
// through this package's exported surface.
var startTime = time.Now
