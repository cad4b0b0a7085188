package planner

import (
	"fmt"
	"strings"
)

// CycleInGroupError reports a cycle discovered while flattening group
// includes.
type CycleInGroupError struct {
	Chain []string
}

func (e *CycleInGroupError) Error() string {
	return fmt.Sprintf("cycle in group includes: %s", strings.Join(e.Chain, " -> "))
}

// CycleInDependenciesError reports a cycle in the depends_on graph that
// survives filtering.
type CycleInDependenciesError struct {
	Remaining []string
}

func (e *CycleInDependenciesError) Error() string {
	return fmt.Sprintf("cycle in depends_on graph among: %s", strings.Join(e.Remaining, ", "))
}
