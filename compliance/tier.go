package compliance

// Tier is a severity level reached by a classifier. Tiers are ordered so that
// escalation is a simple comparison; a classifier never moves to a lower tier.
type Tier int

// Tiers in ascending severity.
const (
	TierNone Tier = iota
	TierSatisfactory
	TierRemedial
	TierCritical
)

// Status returns the compliance status a classifier reports at this tier.
func (t Tier) Status() Status {
	switch t {
	case TierCritical:
		return StatusNonCompliant
	case TierRemedial:
		return StatusRemedialActionPending
	default:
		return StatusCompliant
	}
}

// Priority returns the priority derived from the tier.
func (t Tier) Priority() Priority {
	switch t {
	case TierCritical:
		return PriorityHigh
	case TierRemedial:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// RiskLevel returns the risk level derived from the tier.
func (t Tier) RiskLevel() RiskLevel {
	switch t {
	case TierCritical:
		return RiskIntolerable
	case TierRemedial:
		return RiskTolerable
	case TierSatisfactory:
		return RiskBroadlyAcceptable
	default:
		return RiskUnknown
	}
}

func (t Tier) String() string {
	switch t {
	case TierCritical:
		return "critical"
	case TierRemedial:
		return "remedial"
	case TierSatisfactory:
		return "satisfactory"
	default:
		return "none"
	}
}
