package pkg

import "time"

// OutputFormat selects which result sections the caller wants rendered.
// The values are the literal Japanese labels shown in the format selector
// and echoed to the model inside the generation prompt.
type OutputFormat string

const (
	FormatSOAP  OutputFormat = "SOAP形式"
	FormatTable OutputFormat = "看護計画表形式"
	FormatBoth  OutputFormat = "両方"
)

// Valid reports whether f is one of the three supported formats.
func (f OutputFormat) Valid() bool {
	return f == FormatSOAP || f == FormatTable || f == FormatBoth
}

// WantsSOAP reports whether the SOAP excerpt should be rendered.
func (f OutputFormat) WantsSOAP() bool { return f == FormatSOAP || f == FormatBoth }

// WantsPlanTable reports whether the plan table should be rendered.
func (f OutputFormat) WantsPlanTable() bool { return f == FormatTable || f == FormatBoth }

// SoapExcerpt holds the Assessment and Plan portions of a SOAP note.
// Subjective/Objective are implicit in the patient text and not modeled.
type SoapExcerpt struct {
	Assessment []string `json:"assessment"`
	Plan       []string `json:"plan"`
}

// PlanTable holds the five columns of a nursing care-plan table as parallel
// sequences. The columns are zipped into rows by index at render time; the
// producer never forces them to equal length.
type PlanTable struct {
	Problems      []string `json:"problems"`
	Assessments   []string `json:"assessments"`
	Goals         []string `json:"goals"`
	Interventions []string `json:"interventions"`
	Evaluation    []string `json:"evaluation"`
}

// MaxLen returns the longest column length, i.e. the rendered row count.
func (t PlanTable) MaxLen() int {
	n := len(t.Problems)
	for _, m := range []int{len(t.Assessments), len(t.Goals), len(t.Interventions), len(t.Evaluation)} {
		if m > n {
			n = m
		}
	}
	return n
}

// ReasoningSummary is the model's condensed clinical reasoning. It is used
// only as follow-up context and is never rendered as primary output.
type ReasoningSummary struct {
	KeyFindings   []string `json:"key_findings"`
	Rationales    []string `json:"rationales"`
	Differentials []string `json:"differentials"`
}

// GenerationResult is the normalized model output for one generation call.
// All three fields are always present; the parser fills empty defaults for
// anything the model omitted.
type GenerationResult struct {
	Soap             SoapExcerpt      `json:"soap"`
	PlanTable        PlanTable        `json:"plan_table"`
	ReasoningSummary ReasoningSummary `json:"reasoning_summary"`
}

// LastOutputs is the single most recent generation, kept as the only context
// available to follow-up questions. It is overwritten wholesale on every
// successful generation; prior values survive only as history entries.
type LastOutputs struct {
	PatientText      string           `json:"patient_text"`
	OutputFormat     OutputFormat     `json:"output_format"`
	Soap             SoapExcerpt      `json:"soap"`
	PlanTable        PlanTable        `json:"plan_table"`
	ReasoningSummary ReasoningSummary `json:"reasoning_summary"`
}

// HistoryKind tags a HistoryEntry variant.
type HistoryKind string

const (
	HistoryGeneration HistoryKind = "generation"
	HistoryFollowUp   HistoryKind = "followup"
)

// HistoryEntry is one event in the session transcript. Entries are immutable
// once appended; which fields are set depends on Kind.
type HistoryEntry struct {
	Kind      HistoryKind `json:"kind"`
	Timestamp time.Time   `json:"ts"`

	// Generation fields
	PatientText  string            `json:"patient_text,omitempty"`
	OutputFormat OutputFormat      `json:"output_format,omitempty"`
	Result       *GenerationResult `json:"result,omitempty"`

	// FollowUp fields
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}
