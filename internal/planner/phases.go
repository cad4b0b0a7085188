package planner

import "sort"

// partitionSequential places each name from a flattened layer order into
// its own single-hook Sequential phase.
func partitionSequential(layers [][]string, byName map[string]ScheduledHook) []Phase {
	var phases []Phase
	for _, layer := range layers {
		for _, name := range layer {
			phases = append(phases, Phase{Kind: Sequential, Hooks: []ScheduledHook{byName[name]}})
		}
	}
	return phases
}

// partitionParallel builds a layered schedule: within each dependency
// layer, read-only hooks form one Parallel sub-phase, followed by one
// single-hook Sequential sub-phase per repository-modifying hook (in
// lexicographic order), so no Parallel phase ever contains a modifying
// hook.
func partitionParallel(layers [][]string, byName map[string]ScheduledHook) []Phase {
	var phases []Phase
	for _, layer := range layers {
		var readOnly, modifying []string
		for _, name := range layer {
			if byName[name].Hook.Modifies() {
				modifying = append(modifying, name)
			} else {
				readOnly = append(readOnly, name)
			}
		}
		if len(readOnly) > 0 {
			hooks := make([]ScheduledHook, 0, len(readOnly))
			for _, name := range readOnly {
				hooks = append(hooks, byName[name])
			}
			phases = append(phases, Phase{Kind: Parallel, Hooks: hooks})
		}
		for _, name := range modifying {
			phases = append(phases, Phase{Kind: Sequential, Hooks: []ScheduledHook{byName[name]}})
		}
	}
	return phases
}

// partitionForceParallel collapses every retained hook into a single
// Parallel phase, ignoring dependency ordering and the safety invariant;
// this is documented as unsafe.
func partitionForceParallel(names []string, byName map[string]ScheduledHook) []Phase {
	sorted := append([]string{}, names...)
	sort.Strings(sorted)
	hooks := make([]ScheduledHook, 0, len(sorted))
	for _, name := range sorted {
		hooks = append(hooks, byName[name])
	}
	if len(hooks) == 0 {
		return nil
	}
	return []Phase{{Kind: Parallel, Hooks: hooks}}
}
