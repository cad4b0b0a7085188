package executor

import "github.com/hooktree/hooktree/pkg/console"

// SummaryRow is one line of the final report table, shaped for
// console.RenderStruct's reflection-based renderer.
type SummaryRow struct {
	Hook     string `json:"hook" console:"header:Hook"`
	Phase    int    `json:"phase" console:"header:Phase"`
	Kind     string `json:"kind" console:"header:Kind"`
	Matched  int    `json:"matched_paths" console:"header:Matched"`
	ExitCode int    `json:"exit_code" console:"header:Exit"`
	Status   string `json:"status" console:"header:Status"`
}

func (r Report) summary() []SummaryRow {
	rows := make([]SummaryRow, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		row := SummaryRow{
			Hook:     o.HookName,
			Phase:    o.Phase,
			Kind:     o.PhaseKind.String(),
			Matched:  o.MatchedN,
			ExitCode: o.ExitCode,
			Status:   status(o),
		}
		rows = append(rows, row)
	}
	return rows
}

func status(o Outcome) string {
	switch {
	case o.Skipped:
		return "skipped: " + o.SkipReason
	case o.DryRun:
		return "dry-run"
	case o.Err != nil:
		return "error: " + o.Err.Error()
	case o.ExitCode == 0:
		return "ok"
	default:
		return "failed"
	}
}

// Print renders the report as a console table, or as JSON when asJSON is
// set, matching run/validate's --json flag.
func (r Report) Print(asJSON bool) error {
	return console.OutputStructOrJSON(r.summary(), asJSON)
}
