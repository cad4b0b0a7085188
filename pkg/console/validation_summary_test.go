package console

import (
	"strings"
	"testing"
)

func TestFormatValidationSummary_NoProblems(t *testing.T) {
	results := &ValidationResults{}

	output := FormatValidationSummary(results, false)
	if !strings.Contains(output, "no problems found") {
		t.Errorf("expected a no-problems message, got: %s", output)
	}
}

func TestFormatValidationSummary_SingleError(t *testing.T) {
	results := &ValidationResults{
		Errors: []ValidationError{
			{Severity: "error", Message: "hook \"lint\": modifies_repository must be set explicitly", File: "hooks.toml", Line: 5},
		},
	}

	output := FormatValidationSummary(results, false)

	if !strings.Contains(output, "validation failed with 1 error(s)") {
		t.Errorf("expected error count in output, got: %s", output)
	}
	if !strings.Contains(output, "1 error(s)") {
		t.Errorf("expected error summary line, got: %s", output)
	}
	if !strings.Contains(output, "Use --verbose") {
		t.Errorf("expected verbose hint, got: %s", output)
	}
}

func TestFormatValidationSummary_MixedSeverities(t *testing.T) {
	results := &ValidationResults{
		Errors:   []ValidationError{{Severity: "error", Message: "group \"ci\": invalid execution \"bogus\""}},
		Warnings: []ValidationError{{Severity: "warning", Message: "hook \"fmt\" depends_on undefined hook \"missing\""}},
		Infos:    []ValidationError{{Severity: "info", Message: "import \"lib.toml\": unused, every hook/group it defines was overridden"}},
	}

	output := FormatValidationSummary(results, false)

	if !strings.Contains(output, "1 error(s)") {
		t.Errorf("expected error count, got: %s", output)
	}
	if !strings.Contains(output, "1 warning(s)") {
		t.Errorf("expected warning count, got: %s", output)
	}
	if !strings.Contains(output, "1 note(s)") {
		t.Errorf("expected note count, got: %s", output)
	}
}

func TestFormatValidationSummary_VerboseMode(t *testing.T) {
	results := &ValidationResults{
		Errors:   []ValidationError{{Severity: "error", Message: "invalid execution_type \"bogus\"", File: "hooks.toml", Line: 5}},
		Warnings: []ValidationError{{Severity: "warning", Message: "depends_on undefined hook \"missing\"", File: "hooks.toml", Line: 8}},
	}

	output := FormatValidationSummary(results, true)

	if !strings.Contains(output, "Diagnostics:") {
		t.Errorf("expected a diagnostics section in verbose mode, got: %s", output)
	}
	if !strings.Contains(output, "invalid execution_type \"bogus\"") {
		t.Errorf("expected detailed error message in verbose mode, got: %s", output)
	}
	if !strings.Contains(output, "Location: hooks.toml:5") {
		t.Errorf("expected file location in verbose mode, got: %s", output)
	}
	if strings.Contains(output, "Use --verbose") {
		t.Errorf("should not show verbose hint when already verbose, got: %s", output)
	}
}

func TestFormatValidationSummary_ErrorsSortBeforeWarningsAndInfo(t *testing.T) {
	results := &ValidationResults{
		Infos:    []ValidationError{{Severity: "info", Message: "info item"}},
		Warnings: []ValidationError{{Severity: "warning", Message: "warning item"}},
		Errors:   []ValidationError{{Severity: "error", Message: "error item"}},
	}

	sorted := sortedDiagnostics(results)
	if len(sorted) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(sorted))
	}
	if sorted[0].Message != "error item" || sorted[1].Message != "warning item" || sorted[2].Message != "info item" {
		t.Errorf("expected errors, then warnings, then info; got %+v", sorted)
	}
}
