package planner

import (
	"fmt"

	"github.com/hooktree/hooktree/internal/config"
	"github.com/hooktree/hooktree/internal/glob"
	"github.com/hooktree/hooktree/pkg/logger"
)

var plannerLog = logger.New("planner:graph")

// Build expands name (a hook or group defined in eff) against paths and
// produces an ExecutionPlan: a dependency-ordered, phase-partitioned
// schedule honoring the repository-safety invariant.
func Build(eff *config.EffectiveConfig, name string, paths []string) (*Plan, error) {
	if !eff.Defines(name) {
		return nil, fmt.Errorf("planner: %q is not defined as a hook or group", name)
	}

	mode := config.ExecutionSequential
	if group, ok := eff.Groups[name]; ok {
		mode = group.Mode()
	}

	expanded, err := expand(eff, name)
	if err != nil {
		return nil, err
	}

	plan := &Plan{}
	byName := map[string]ScheduledHook{}
	var retained []string

	for _, hookName := range expanded {
		hook := eff.Hooks[hookName]
		patterns := glob.Compile(hook.Files)

		switch {
		case hook.RunAlways:
			byName[hookName] = ScheduledHook{Hook: hook, MatchedPaths: matchedOrAll(patterns, paths)}
			retained = append(retained, hookName)
		case patterns.Empty():
			byName[hookName] = ScheduledHook{Hook: hook, MatchedPaths: paths}
			retained = append(retained, hookName)
		default:
			matched := patterns.Filter(paths)
			if len(matched) == 0 {
				plan.Skipped = append(plan.Skipped, SkippedHook{Name: hookName, Reason: SkipNoMatchingFiles})
				continue
			}
			byName[hookName] = ScheduledHook{Hook: hook, MatchedPaths: matched}
			retained = append(retained, hookName)
		}
	}

	retainedSet := make(map[string]bool, len(retained))
	for _, n := range retained {
		retainedSet[n] = true
	}

	dependsOn := map[string][]string{}
	for _, hookName := range retained {
		hook := byName[hookName].Hook
		for _, dep := range hook.DependsOn {
			if !retainedSet[dep] {
				plan.Diagnostics = append(plan.Diagnostics, fmt.Sprintf(
					"hook %q depends on %q, which is absent or skipped; edge dropped", hookName, dep))
				continue
			}
			dependsOn[hookName] = append(dependsOn[hookName], dep)
		}
	}

	switch mode {
	case config.ExecutionForceParallel:
		plannerLog.Printf("building force-parallel plan for %q: %d hooks, safety invariant not enforced", name, len(retained))
		plan.Phases = partitionForceParallel(retained, byName)
	case config.ExecutionParallel:
		layers, err := layeredTopoSort(retained, dependsOn)
		if err != nil {
			return nil, err
		}
		plan.Phases = partitionParallel(layers, byName)
	default:
		layers, err := layeredTopoSort(retained, dependsOn)
		if err != nil {
			return nil, err
		}
		plan.Phases = partitionSequential(layers, byName)
	}

	return plan, nil
}

// matchedOrAll computes the glob-matched subset of paths, or the full
// path list when the hook declares no patterns at all (run_always only
// disables the gate, not argv passing).
func matchedOrAll(patterns glob.Patterns, paths []string) []string {
	if patterns.Empty() {
		return paths
	}
	return patterns.Filter(paths)
}
