package http

import "careplan-assistant/pkg"

// PlanRow is one rendered row of the care-plan table.
type PlanRow struct {
	Problem      string
	Assessment   string
	Goal         string
	Intervention string
	Evaluation   string
}

// PlanRows zips the five plan-table columns into rows. The row count is the
// longest column's length; shorter columns are padded with empty cells, so a
// ragged table from the model never causes an out-of-range failure.
func PlanRows(t pkg.PlanTable) []PlanRow {
	n := t.MaxLen()
	rows := make([]PlanRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, PlanRow{
			Problem:      cell(t.Problems, i),
			Assessment:   cell(t.Assessments, i),
			Goal:         cell(t.Goals, i),
			Intervention: cell(t.Interventions, i),
			Evaluation:   cell(t.Evaluation, i),
		})
	}
	return rows
}

func cell(col []string, i int) string {
	if i < len(col) {
		return col[i]
	}
	return ""
}

// resultView is the template data for one rendered generation result.
// Only the sections the chosen output format asks for are shown.
type resultView struct {
	ShowSOAP   bool
	Assessment []string
	Plan       []string
	ShowTable  bool
	Rows       []PlanRow
}

// followupView controls the follow-up box template: whether it is visible
// and whether it is being re-sent as an htmx out-of-band swap.
type followupView struct {
	HasContext bool
	OOB        bool
}

func newResultView(format pkg.OutputFormat, res *pkg.GenerationResult) resultView {
	return resultView{
		ShowSOAP:   format.WantsSOAP(),
		Assessment: res.Soap.Assessment,
		Plan:       res.Soap.Plan,
		ShowTable:  format.WantsPlanTable(),
		Rows:       PlanRows(res.PlanTable),
	}
}
