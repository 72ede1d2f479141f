package compliance

import "regexp"

type signal struct {
	kind     Kind
	keywords []*regexp.Regexp
}

func keywords(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)\b` + p + `\b`)
	}
	return out
}

var signals = []signal{
	{KindElectrical, keywords(
		`electrical\s+installation\s+condition\s+report`, `eicr`, `category\s*[12]`, `c[12]`,
		`consumer\s+unit`, `circuits?`, `rcd`,
	)},
	{KindFire, keywords(
		`fire\s+risk\s+assessment`, `fraew`, `fra`, `fire\s+doors?`, `means\s+of\s+escape`,
		`fire\s+alarm`, `compartmentation`,
	)},
	{KindLift, keywords(
		`lifts?`, `elevators?`, `loler`, `thorough\s+examination`, `lift\s+car`, `landing\s+doors?`,
	)},
	{KindGas, keywords(
		`gas\s+safety`, `cp12`, `landlord\s+gas\s+safety\s+record`, `boilers?`, `gas\s+safe`,
		`flue`, `appliances?`,
	)},
}

// Detect infers a document kind from its text when no type was declared.
// Each kind scores one point per distinct keyword present; the highest score
// wins with ties going to the earlier kind. No keywords yields KindGeneric.
func Detect(text string) Kind {
	best, bestScore := KindGeneric, 0
	for _, s := range signals {
		score := 0
		for _, kw := range s.keywords {
			if kw.MatchString(text) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = s.kind, score
		}
	}
	return best
}
