package compliance

import "slices"

// Details carries the type-specific evidence gathered during classification.
// The string lists behave as ordered sets.
type Details struct {
	Category1Count   int      `json:"category1_count"`
	Category2Count   int      `json:"category2_count"`
	IntolerableRisks []string `json:"intolerable_risks"`
	UrgentActions    []string `json:"urgent_actions"`
	RemedialWorks    []string `json:"remedial_works"`
}

// Result is the outcome of classifying one document's extracted text.
// Results are values: functions that adjust a Result work on a copy.
type Result struct {
	Kind                      Kind      `json:"document_kind"`
	Status                    Status    `json:"status"`
	Priority                  Priority  `json:"priority"`
	RiskLevel                 RiskLevel `json:"risk_level"`
	Findings                  []string  `json:"findings"`
	ActionRequired            *string   `json:"action_required"`
	Details                   Details   `json:"compliance_details"`
	ContractorRecommendations []string  `json:"contractor_recommendations,omitempty"`
	RegulatoryNotes           []string  `json:"regulatory_notes,omitempty"`
}

// Clone returns a deep copy of r.
func (r Result) Clone() Result {
	c := r
	c.Findings = slices.Clone(r.Findings)
	c.Details.IntolerableRisks = slices.Clone(r.Details.IntolerableRisks)
	c.Details.UrgentActions = slices.Clone(r.Details.UrgentActions)
	c.Details.RemedialWorks = slices.Clone(r.Details.RemedialWorks)
	c.ContractorRecommendations = slices.Clone(r.ContractorRecommendations)
	c.RegulatoryNotes = slices.Clone(r.RegulatoryNotes)
	if r.ActionRequired != nil {
		action := *r.ActionRequired
		c.ActionRequired = &action
	}
	return c
}

// Matched reports whether any rule produced a risk assessment.
// An unmatched result carries the permissive compliant default.
func (r Result) Matched() bool {
	return r.RiskLevel != RiskUnknown
}

// Confidence is the rules layer's own confidence in the result, on a 0-100 scale.
func (r Result) Confidence() int {
	if r.Matched() {
		return 85
	}
	return 60
}

// Actions flattens the action required, urgent actions, and remedial works
// into a single ordered list.
func (r Result) Actions() []string {
	var actions []string
	if r.ActionRequired != nil {
		actions = append(actions, *r.ActionRequired)
	}
	actions = appendUnique(actions, r.Details.UrgentActions...)
	actions = appendUnique(actions, r.Details.RemedialWorks...)
	return actions
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		if !slices.Contains(list, v) {
			list = append(list, v)
		}
	}
	return list
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
