package compliance

var gasImmediate = []Rule{
	rule(`\bimmediate\s*danger\b`, TierCritical, "Immediate danger detected - gas supply isolated"),
	rule(`\bimmediately\s*dangerous\b`, TierCritical, "Immediate danger detected - gas supply isolated"),
	rule(`\bid\s*-\s*immediate`, TierCritical, "Immediate danger detected - gas supply isolated"),
	rule(`\bgas\s*leak`, TierCritical, "Immediate danger detected - gas supply isolated"),
	rule(`\bcarbon\s*monoxide\s*detected\b`, TierCritical, "Immediate danger detected - gas supply isolated"),
	rule(`\bunsafe\s*appliances?\b`, TierCritical, "Immediate danger detected - gas supply isolated"),
	rule(`\bnot\s*safe\b`, TierCritical, "Immediate danger detected - gas supply isolated"),
}

var gasAtRisk = []Rule{
	rule(`\bat\s*risk\b`, TierRemedial, "Gas appliance at risk or not to current standards"),
	rule(`\bar\s*-\s*at\s*risk\b`, TierRemedial, "Gas appliance at risk or not to current standards"),
	rule(`\bnot\s*to\s*current\s*standards?\b`, TierRemedial, "Gas appliance at risk or not to current standards"),
	rule(`\bntcs\b`, TierRemedial, "Gas appliance at risk or not to current standards"),
	rule(`\bdefects?\s*found\b`, TierRemedial, "Gas appliance at risk or not to current standards"),
}

var gasSatisfactory = []Rule{
	rule(`\bsafe\b`, TierSatisfactory, "Gas safety check passed - all appliances safe"),
	rule(`\bpassed\b`, TierSatisfactory, "Gas safety check passed - all appliances safe"),
	rule(`\bsatisfactory\b`, TierSatisfactory, "Gas safety check passed - all appliances safe"),
}

func classifyGas(text string) Result {
	e := newEvaluation(KindGas)

	e.apply(text, gasImmediate)
	e.apply(text, gasAtRisk)
	e.apply(text, gasSatisfactory)

	switch e.tier {
	case TierCritical:
		e.details.UrgentActions = append(e.details.UrgentActions, "Immediate gas engineer attendance required")
		e.contractors = append(e.contractors, "Contact Gas Safe registered engineer")
		e.notes = append(e.notes, "Report to HSE if required")
	case TierRemedial:
		e.details.RemedialWorks = append(e.details.RemedialWorks, "Repair/upgrade gas appliances")
		e.contractors = append(e.contractors, "Contact Gas Safe registered engineer")
	}

	return e.result(func(t Tier) string {
		if t == TierCritical {
			return "Immediate gas engineer callout required"
		}
		return "Schedule gas appliance repair/upgrade"
	})
}
