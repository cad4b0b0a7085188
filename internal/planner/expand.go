package planner

import "github.com/hooktree/hooktree/internal/config"

// expand recursively flattens name into an ordered, de-duplicated
// (keep-first-occurrence) list of hook names. name may itself be a hook,
// in which case the result is a single-element list.
func expand(eff *config.EffectiveConfig, name string) ([]string, error) {
	var order []string
	seen := map[string]bool{}
	if err := expandInto(eff, name, map[string]bool{}, seen, &order); err != nil {
		return nil, err
	}
	return order, nil
}

func expandInto(eff *config.EffectiveConfig, name string, inProgress, seen map[string]bool, order *[]string) error {
	if _, ok := eff.Hooks[name]; ok {
		if !seen[name] {
			seen[name] = true
			*order = append(*order, name)
		}
		return nil
	}

	group, ok := eff.Groups[name]
	if !ok {
		// Not a hook, not a group: nothing to expand. Callers validate
		// existence before reaching here.
		return nil
	}

	if inProgress[name] {
		return &CycleInGroupError{Chain: []string{name, name}}
	}
	inProgress[name] = true
	defer delete(inProgress, name)

	for _, member := range group.Includes {
		if err := expandInto(eff, member, inProgress, seen, order); err != nil {
			if cycleErr, ok := err.(*CycleInGroupError); ok {
				return &CycleInGroupError{Chain: append([]string{name}, cycleErr.Chain...)}
			}
			return err
		}
	}
	return nil
}
