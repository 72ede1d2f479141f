package compliance

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule is one row of a classifier's ordered rule table. When Pattern matches,
// the classifier escalates to Tier and records Finding. A Finding containing
// %s quotes each distinct match as it appears in the source text; Once limits
// quoting to the first match.
type Rule struct {
	Pattern *regexp.Regexp
	Tier    Tier
	Finding string
	Once    bool
}

func rule(pattern string, tier Tier, finding string) Rule {
	return Rule{
		Pattern: regexp.MustCompile(`(?i)` + pattern),
		Tier:    tier,
		Finding: finding,
	}
}

// Hit records the matches produced by a rule that applied.
type Hit struct {
	Rule    Rule
	Matches []string
}

type evaluation struct {
	kind        Kind
	tier        Tier
	findings    []string
	details     Details
	contractors []string
	notes       []string
}

func newEvaluation(kind Kind) *evaluation {
	return &evaluation{kind: kind}
}

// admits reports whether a rule at tier t may still contribute. Critical
// evidence always accumulates; lower tiers apply only while they escalate.
func (e *evaluation) admits(t Tier) bool {
	return t == TierCritical || t > e.tier
}

func (e *evaluation) escalate(t Tier) {
	if t > e.tier {
		e.tier = t
	}
}

func (e *evaluation) finding(f string) {
	e.findings = appendUnique(e.findings, f)
}

// apply runs rules in table order against text and returns the hits of the
// rules that contributed.
func (e *evaluation) apply(text string, rules []Rule) []Hit {
	var hits []Hit
	for _, r := range rules {
		if !e.admits(r.Tier) {
			continue
		}

		n := -1
		if r.Once {
			n = 1
		}
		matches := r.Pattern.FindAllString(text, n)
		if len(matches) == 0 {
			continue
		}

		e.escalate(r.Tier)
		if strings.Contains(r.Finding, "%s") {
			for _, m := range matches {
				e.finding(fmt.Sprintf(r.Finding, collapse(m)))
			}
		} else {
			e.finding(r.Finding)
		}
		hits = append(hits, Hit{Rule: r, Matches: matches})
	}
	return hits
}

func (e *evaluation) result(action func(Tier) string) Result {
	r := Result{
		Kind:      e.kind,
		Status:    e.tier.Status(),
		Priority:  e.tier.Priority(),
		RiskLevel: e.tier.RiskLevel(),
		Findings:  nonNil(e.findings),
		Details: Details{
			Category1Count:   e.details.Category1Count,
			Category2Count:   e.details.Category2Count,
			IntolerableRisks: nonNil(e.details.IntolerableRisks),
			UrgentActions:    nonNil(e.details.UrgentActions),
			RemedialWorks:    nonNil(e.details.RemedialWorks),
		},
		ContractorRecommendations: e.contractors,
		RegulatoryNotes:           e.notes,
	}
	if r.Status != StatusCompliant && action != nil {
		a := action(e.tier)
		r.ActionRequired = &a
	}
	return r
}

var whitespace = regexp.MustCompile(`\s+`)

func collapse(s string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}
