package config

import "fmt"

// Validate checks an EffectiveConfig for problems beyond what ParseFile
// already rejects: group execution values, dangling includes, and (in
// strict mode, used by the validate verb) hooks missing an explicit
// modifies_repository.
func Validate(eff *EffectiveConfig, strict bool) []Diagnostic {
	var diags []Diagnostic

	for _, name := range sortedKeys(eff.Groups) {
		g := eff.Groups[name]
		switch g.Mode() {
		case ExecutionSequential, ExecutionParallel, ExecutionForceParallel:
		default:
			diags = append(diags, Diagnostic{
				Severity: SeverityError, File: g.SourceFile,
				Message: fmt.Sprintf("group %q: invalid execution %q", name, g.Execution),
			})
		}
		for _, inc := range g.Includes {
			if !eff.Defines(inc) {
				diags = append(diags, Diagnostic{
					Severity: SeverityError, File: g.SourceFile,
					Message: fmt.Sprintf("group %q includes undefined name %q", name, inc),
				})
			}
		}
	}

	for _, name := range sortedKeys(eff.Hooks) {
		h := eff.Hooks[name]
		if h.ModifiesRepository == nil {
			sev := SeverityWarning
			if strict {
				sev = SeverityError
			}
			diags = append(diags, Diagnostic{
				Severity: sev, File: h.SourceFile,
				Message: fmt.Sprintf("hook %q: modifies_repository must be set explicitly", name),
			})
		}
		switch h.Type() {
		case ExecutionPerFile, ExecutionInPlace, ExecutionOther:
		default:
			diags = append(diags, Diagnostic{
				Severity: SeverityError, File: h.SourceFile,
				Message: fmt.Sprintf("hook %q: invalid execution_type %q", name, h.ExecutionType),
			})
		}
		for _, dep := range h.DependsOn {
			if _, ok := eff.Hooks[dep]; !ok {
				diags = append(diags, Diagnostic{
					Severity: SeverityWarning, File: h.SourceFile,
					Message: fmt.Sprintf("hook %q depends_on undefined hook %q", name, dep),
				})
			}
		}
	}

	return diags
}

// HasErrors reports whether diags contains any SeverityError entries.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
