package compliance

import (
	"slices"
	"time"
)

// RenewalWindow is how far ahead of its next due date a compliant document
// is reported as scheduled for renewal.
const RenewalWindow = 30 * 24 * time.Hour

const (
	findingExpired = "Document expired - renewal required immediately"
	findingRenewal = "Renewal due within 30 days"
	actionExpired  = "Immediate renewal required - document expired"
)

// ApplySchedule returns a copy of r adjusted for the document's next due
// date. A due date strictly before now expires the document regardless of
// its content status. A due date inside the renewal window moves a compliant
// document to scheduled; more severe content statuses stand. A nil due date
// leaves the result unchanged.
func ApplySchedule(r Result, nextDue *time.Time, now time.Time) Result {
	out := r.Clone()
	if nextDue == nil {
		return out
	}

	switch {
	case nextDue.Before(now):
		out.Status = StatusExpired
		out.Priority = PriorityHigh
		if !slices.Contains(out.Findings, findingExpired) {
			out.Findings = append([]string{findingExpired}, out.Findings...)
		}
		action := actionExpired
		out.ActionRequired = &action
	case !nextDue.After(now.Add(RenewalWindow)) && out.Status == StatusCompliant:
		out.Status = StatusScheduled
		out.Findings = appendUnique(out.Findings, findingRenewal)
	}

	return out
}
