package planner

import "sort"

// layeredTopoSort returns names partitioned into dependency layers: layer
// 0 contains every name with no (retained) dependency, layer 1 contains
// names whose dependencies are all in layer 0, and so on. Within a layer,
// names are sorted lexicographically for deterministic tie-breaking.
// dependsOn maps a name to the names it must follow; entries pointing to
// names absent from `names` are ignored by the caller before this is
// called.
func layeredTopoSort(names []string, dependsOn map[string][]string) ([][]string, error) {
	nameSet := make(map[string]bool, len(names))
	for _, n := range names {
		nameSet[n] = true
	}

	inDegree := make(map[string]int, len(names))
	dependents := map[string][]string{}
	for _, n := range names {
		inDegree[n] = 0
	}
	for _, a := range names {
		for _, b := range dependsOn[a] {
			if !nameSet[b] {
				continue
			}
			inDegree[a]++
			dependents[b] = append(dependents[b], a)
		}
	}

	processed := make(map[string]bool, len(names))
	var layers [][]string
	remaining := len(names)

	for remaining > 0 {
		var layer []string
		for _, n := range names {
			if !processed[n] && inDegree[n] == 0 {
				layer = append(layer, n)
			}
		}
		if len(layer) == 0 {
			var stuck []string
			for _, n := range names {
				if !processed[n] {
					stuck = append(stuck, n)
				}
			}
			sort.Strings(stuck)
			return nil, &CycleInDependenciesError{Remaining: stuck}
		}
		sort.Strings(layer)
		layers = append(layers, layer)
		for _, n := range layer {
			processed[n] = true
			remaining--
		}
		for _, n := range layer {
			for _, dependent := range dependents[n] {
				inDegree[dependent]--
			}
		}
	}
	return layers, nil
}
