package compliance

var fireIntolerable = []Rule{
	rule(`\bintolerable\s*risks?\b`, TierCritical, "Intolerable fire risk identified: %s"),
	rule(`\bimmediate\s*risks?\b`, TierCritical, "Intolerable fire risk identified: %s"),
	rule(`\bhigh\s*risk\b[^\n]*?\bimmediate(?:ly)?\b`, TierCritical, "Intolerable fire risk identified: %s"),
	rule(`\bcease\s*use\b`, TierCritical, "Intolerable fire risk identified: %s"),
	rule(`\bevacuat(?:e|ion\s+required)\b`, TierCritical, "Intolerable fire risk identified: %s"),
	rule(`\bserious\s*fire\s*risks?\b`, TierCritical, "Intolerable fire risk identified: %s"),
}

var fireIntrusive = []Rule{
	rule(`\brequires\s*intrusive\s*survey\b`, TierRemedial, "Intrusive survey required"),
	rule(`\bintrusive\s*investigation\s*required\b`, TierRemedial, "Intrusive survey required"),
}

var fireRemedial = []Rule{
	rule(`\bhigh\s*risk\b`, TierRemedial, "Medium/High risk areas requiring action"),
	rule(`\bmedium\s*risk\b[^\n]*?\baction\b`, TierRemedial, "Medium/High risk areas requiring action"),
	rule(`\bsignificant\s*risk\b`, TierRemedial, "Medium/High risk areas requiring action"),
	rule(`\bremedial\s*action\s*required\b`, TierRemedial, "Medium/High risk areas requiring action"),
}

var fireSatisfactory = []Rule{
	rule(`\blow\s*risk\b`, TierSatisfactory, "Fire risk assessment satisfactory - low/tolerable risk"),
	rule(`\btolerable\s*risk\b`, TierSatisfactory, "Fire risk assessment satisfactory - low/tolerable risk"),
	rule(`\bsatisfactory\b`, TierSatisfactory, "Fire risk assessment satisfactory - low/tolerable risk"),
}

func classifyFire(text string) Result {
	e := newEvaluation(KindFire)

	for _, hit := range e.apply(text, fireIntolerable) {
		for _, m := range hit.Matches {
			e.details.IntolerableRisks = appendUnique(e.details.IntolerableRisks, m)
		}
	}
	e.apply(text, fireIntrusive)
	e.apply(text, fireRemedial)
	e.apply(text, fireSatisfactory)

	intolerable := len(e.details.IntolerableRisks) > 0
	if intolerable {
		e.details.UrgentActions = append(e.details.UrgentActions, "Address intolerable fire risks immediately")
		e.notes = append(e.notes, "Report to Fire Authority if required under RRO")
	}
	if e.tier == TierRemedial {
		e.details.RemedialWorks = append(e.details.RemedialWorks, "Complete recommended fire safety improvements")
	}

	return e.result(func(Tier) string {
		if intolerable {
			return "Immediate action required for intolerable fire risks"
		}
		return "Address identified fire safety concerns"
	})
}
