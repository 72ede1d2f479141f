package compliance

import (
	"fmt"
	"regexp"
	"strconv"
)

// countRule extracts a defect count for one EICR category. Floor rules carry
// no number: the phrase itself implies at least one defect.
type countRule struct {
	pattern  *regexp.Regexp
	category int
	floor    bool
}

// Label-first rules come before number-first ones so that in
// "Category 2: 3 Category 1: 0" the 3 is claimed by its own label and not
// read as the leading number of "3 Category 1".
var electricalCounts = []countRule{
	{regexp.MustCompile(`(?i)\bcategory\s*1\b[:\s]*(\d+)`), 1, false},
	{regexp.MustCompile(`(?i)\bc1\b[:\s]*(\d+)`), 1, false},
	{regexp.MustCompile(`(?i)\bcategory\s*2\b[:\s]*(\d+)`), 2, false},
	{regexp.MustCompile(`(?i)\bc2\b[:\s]*(\d+)`), 2, false},
	{regexp.MustCompile(`(?i)\b(\d+)\s*category\s*1\b`), 1, false},
	{regexp.MustCompile(`(?i)\b(\d+)\s*category\s*2\b`), 2, false},
	{regexp.MustCompile(`(?i)\bdanger\s*present\b`), 1, true},
	{regexp.MustCompile(`(?i)\bimmediate\s*danger\b`), 1, true},
	{regexp.MustCompile(`(?i)\bpotentially\s*dangerous\b`), 2, true},
}

var electricalFailures = []Rule{
	{
		Pattern: regexp.MustCompile(`(?i)\b(?:unsatisfactory|fail\w*|non-compliant|immediate\s*attention|urgent\s*remedial|cease\s*use)\b`),
		Tier:    TierCritical,
		Finding: "EICR marked as %s",
		Once:    true,
	},
}

var electricalSatisfactory = []Rule{
	rule(`\bno\s*category\s*1\b`, TierSatisfactory, "No Category 1 issues found - installation satisfactory"),
	rule(`\bno\s*c1\b`, TierSatisfactory, "No Category 1 issues found - installation satisfactory"),
	rule(`\boverall\s*(?:assessment|condition)\b[^.\n]*?\bsatisfactory\b`, TierSatisfactory, "Overall assessment satisfactory"),
}

// countDefects sums the C1 and C2 counts stated in text. Each number in the
// text is counted at most once, so "Category 1: 2 Category 2: 3" does not
// read the 2 as a Category 2 count as well.
func countDefects(text string) (c1, c2 int) {
	counted := make(map[int]bool)
	for _, cr := range electricalCounts {
		for _, loc := range cr.pattern.FindAllStringSubmatchIndex(text, -1) {
			n := 1
			if !cr.floor {
				start, end := loc[2], loc[3]
				if counted[start] {
					continue
				}
				counted[start] = true
				v, err := strconv.Atoi(text[start:end])
				if err != nil {
					continue
				}
				n = v
			}

			switch cr.category {
			case 1:
				if cr.floor {
					c1 = max(c1, n)
				} else {
					c1 += n
				}
			case 2:
				if cr.floor {
					c2 = max(c2, n)
				} else {
					c2 += n
				}
			}
		}
	}
	return c1, c2
}

func classifyElectrical(text string) Result {
	e := newEvaluation(KindElectrical)

	c1, c2 := countDefects(text)
	e.details.Category1Count = c1
	e.details.Category2Count = c2

	switch {
	case c1 > 0:
		e.escalate(TierCritical)
		e.finding(fmt.Sprintf("%d Category 1 defect(s) found - immediate action required", c1))
	case c2 > 0:
		e.escalate(TierRemedial)
		e.finding(fmt.Sprintf("%d Category 2 defect(s) found - remedial action required", c2))
	}

	e.apply(text, electricalFailures)
	e.apply(text, electricalSatisfactory)

	if c1 > 0 {
		e.details.UrgentActions = append(e.details.UrgentActions, fmt.Sprintf("Rectify %d Category 1 defects", c1))
	}
	if c2 > 0 {
		e.details.RemedialWorks = append(e.details.RemedialWorks, fmt.Sprintf("Address %d Category 2 observations", c2))
	}

	return e.result(func(Tier) string {
		return fmt.Sprintf("Address %d Category 1 and %d Category 2 defects immediately", c1, c2)
	})
}
