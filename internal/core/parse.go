package core

import (
	"encoding/json"
	"regexp"
	"strings"

	"careplan-assistant/pkg"
)

// The model is instructed to return a single JSON object but compliance is
// not guaranteed: replies sometimes arrive wrapped in a code fence or carry a
// trailing comma. ParseGenerationResult therefore tries a strict parse, then
// one bounded repair-and-retry, and gives up with ErrParseFailure after that.
// It is intentionally not a general-purpose lenient parser.

var (
	codeFenceRe     = regexp.MustCompile("(?m)^```(json)?|```$")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// ParseGenerationResult parses raw model text into a GenerationResult.
// On success every top-level field is present: anything the model omitted is
// filled with its empty-default shape.
func ParseGenerationResult(raw string) (*pkg.GenerationResult, error) {
	res, err := decodeResult(raw)
	if err == nil {
		return res, nil
	}
	res, err = decodeResult(repairJSON(raw))
	if err != nil {
		return nil, ErrParseFailure
	}
	return res, nil
}

// repairJSON strips wrapping code-fence lines and removes trailing commas
// immediately before a closing brace or bracket.
func repairJSON(s string) string {
	s = codeFenceRe.ReplaceAllString(strings.TrimSpace(s), "")
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

func decodeResult(s string) (*pkg.GenerationResult, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		// "null" decodes without error but is not an object
		return nil, ErrParseFailure
	}
	res := &pkg.GenerationResult{}
	if raw, ok := obj["soap"]; ok {
		if err := json.Unmarshal(raw, &res.Soap); err != nil {
			return nil, err
		}
	}
	if raw, ok := obj["plan_table"]; ok {
		if err := json.Unmarshal(raw, &res.PlanTable); err != nil {
			return nil, err
		}
	}
	if raw, ok := obj["reasoning_summary"]; ok {
		if err := json.Unmarshal(raw, &res.ReasoningSummary); err != nil {
			return nil, err
		}
	}
	normalizeResult(res)
	return res, nil
}

// normalizeResult replaces nil sequences with empty ones so a
// GenerationResult is never partially null.
func normalizeResult(r *pkg.GenerationResult) {
	for _, p := range []*[]string{
		&r.Soap.Assessment, &r.Soap.Plan,
		&r.PlanTable.Problems, &r.PlanTable.Assessments, &r.PlanTable.Goals,
		&r.PlanTable.Interventions, &r.PlanTable.Evaluation,
		&r.ReasoningSummary.KeyFindings, &r.ReasoningSummary.Rationales, &r.ReasoningSummary.Differentials,
	} {
		if *p == nil {
			*p = []string{}
		}
	}
}
