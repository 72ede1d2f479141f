package compliance

var liftCritical = []Rule{
	rule(`\bcondemned\b`, TierCritical, "Lift condemned/out of service: condemned"),
	rule(`\bout\s*of\s*service\b`, TierCritical, "Lift condemned/out of service: out of service"),
	rule(`\bimmediate\s*shutdown\b`, TierCritical, "Lift condemned/out of service: immediate shutdown"),
	rule(`\bunsafe\s*to\s*operate\b`, TierCritical, "Lift condemned/out of service: unsafe to operate"),
	rule(`\bemergency\s*stop\b`, TierCritical, "Lift condemned/out of service: emergency stop"),
	rule(`\bsafety\s*critical\s*fault\b`, TierCritical, "Lift condemned/out of service: safety critical fault"),
}

var liftRepair = []Rule{
	rule(`\brepairs?\s*required\b`, TierRemedial, "Lift requires maintenance/repair"),
	rule(`\bmaintenance\s*overdue\b`, TierRemedial, "Lift requires maintenance/repair"),
	rule(`\bdefects?\s*found\b`, TierRemedial, "Lift requires maintenance/repair"),
	rule(`\badjustment\s*needed\b`, TierRemedial, "Lift requires maintenance/repair"),
}

var liftSatisfactory = []Rule{
	rule(`\bpassed\b`, TierSatisfactory, "Lift inspection passed - safe to operate"),
	rule(`\bsatisfactory\b`, TierSatisfactory, "Lift inspection passed - safe to operate"),
	rule(`\bsafe\s*to\s*operate\b`, TierSatisfactory, "Lift inspection passed - safe to operate"),
}

func classifyLift(text string) Result {
	e := newEvaluation(KindLift)

	e.apply(text, liftCritical)
	e.apply(text, liftRepair)
	e.apply(text, liftSatisfactory)

	switch e.tier {
	case TierCritical:
		e.details.UrgentActions = append(e.details.UrgentActions, "Immediate lift shutdown required")
		e.contractors = append(e.contractors, "Contact qualified lift engineer")
	case TierRemedial:
		e.details.RemedialWorks = append(e.details.RemedialWorks, "Schedule lift repair/maintenance")
		e.contractors = append(e.contractors, "Contact qualified lift engineer")
	}

	return e.result(func(t Tier) string {
		if t == TierCritical {
			return "Immediate lift shutdown and repair required"
		}
		return "Schedule lift maintenance/repair"
	})
}
