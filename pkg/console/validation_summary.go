package console

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError represents a single problem surfaced by the validate
// verb: a rejected import path, a cycle, an override, an unused import, or
// a missing modifies_repository declaration.
type ValidationError struct {
	Severity string // "error", "warning", "info"
	Message  string
	File     string
	Line     int
}

// ValidationResults groups validation diagnostics by severity for summary
// and detailed rendering.
type ValidationResults struct {
	Errors   []ValidationError
	Warnings []ValidationError
	Infos    []ValidationError
}

// FormatValidationSummary formats a hooks.toml validation pass into a
// human-readable summary: counts by severity, then (in verbose mode) every
// diagnostic with its file location.
func FormatValidationSummary(results *ValidationResults, verbose bool) string {
	if len(results.Errors) == 0 && len(results.Warnings) == 0 && len(results.Infos) == 0 {
		return FormatSuccessMessage("no problems found")
	}

	var output strings.Builder

	if len(results.Errors) > 0 {
		output.WriteString(FormatErrorMessage(fmt.Sprintf("validation failed with %d error(s)", len(results.Errors))))
		output.WriteString("\n\n")
	}

	output.WriteString(FormatListHeader("Summary:"))
	output.WriteString("\n")
	if len(results.Errors) > 0 {
		output.WriteString(fmt.Sprintf("  %d error(s)\n", len(results.Errors)))
	}
	if len(results.Warnings) > 0 {
		output.WriteString(fmt.Sprintf("  %d warning(s)\n", len(results.Warnings)))
	}
	if len(results.Infos) > 0 {
		output.WriteString(fmt.Sprintf("  %d note(s)\n", len(results.Infos)))
	}
	output.WriteString("\n")

	if !verbose {
		output.WriteString(FormatInfoMessage("Use --verbose to see every diagnostic"))
		output.WriteString("\n")
		return output.String()
	}

	output.WriteString(FormatListHeader("Diagnostics:"))
	output.WriteString("\n\n")

	for i, e := range sortedDiagnostics(results) {
		output.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, strings.ToUpper(e.Severity), e.Message))
		if e.File != "" {
			location := e.File
			if e.Line > 0 {
				location = fmt.Sprintf("%s:%d", location, e.Line)
			}
			output.WriteString(fmt.Sprintf("   Location: %s\n", location))
		}
		output.WriteString("\n")
	}

	return output.String()
}

// sortedDiagnostics flattens results into one severity-ordered (errors,
// then warnings, then info) slice, preserving each group's original order.
func sortedDiagnostics(results *ValidationResults) []ValidationError {
	all := make([]ValidationError, 0, len(results.Errors)+len(results.Warnings)+len(results.Infos))
	all = append(all, results.Errors...)
	all = append(all, results.Warnings...)
	all = append(all, results.Infos...)
	sort.SliceStable(all, func(i, j int) bool {
		return severityRank(all[i].Severity) < severityRank(all[j].Severity)
	})
	return all
}

func severityRank(severity string) int {
	switch severity {
	case "error":
		return 0
	case "warning":
		return 1
	default:
		return 2
	}
}
