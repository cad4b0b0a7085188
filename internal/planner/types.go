// Package planner expands a resolved hook or group entry into hooks,
// filters them against a change set, orders them by dependency, and
// partitions the result into execution phases honoring the
// repository-safety invariant.
package planner

import "github.com/hooktree/hooktree/internal/config"

// PhaseKind distinguishes a phase whose hooks run concurrently from one
// whose hooks run one at a time.
type PhaseKind int

const (
	Sequential PhaseKind = iota
	Parallel
)

func (k PhaseKind) String() string {
	if k == Parallel {
		return "parallel"
	}
	return "sequential"
}

// ScheduledHook is one hook placed into a phase, with the paths it was
// matched against.
type ScheduledHook struct {
	Hook         *config.HookDefinition
	MatchedPaths []string
}

// Phase is a scheduled subset of hooks that run together.
type Phase struct {
	Kind  PhaseKind
	Hooks []ScheduledHook
}

// SkipReason classifies why a hook did not make it into the plan.
type SkipReason string

const (
	SkipNoMatchingFiles    SkipReason = "no matching files"
	SkipDependencyDropped  SkipReason = "dependency unavailable"
)

// SkippedHook records a hook that was expanded but excluded from
// execution, and why.
type SkippedHook struct {
	Name   string
	Reason SkipReason
	Detail string
}

// Plan is the ordered list of phases produced for one (config, entry)
// pair, plus the hooks that were filtered out before scheduling.
type Plan struct {
	Phases      []Phase
	Skipped     []SkippedHook
	Diagnostics []string
}
