package compliance

import (
	"strings"
	"time"
)

// Summary is the AI-produced metadata accompanying a document's extracted
// text. Every field is optional.
type Summary struct {
	InspectionDate string   `json:"inspection_date,omitempty"`
	NextDueDate    string   `json:"next_due_date,omitempty"`
	Confidence     *float64 `json:"confidence,omitempty"`
	ContractorName string   `json:"contractor_name,omitempty"`
	Summary        string   `json:"summary,omitempty"`
}

// Inspected parses InspectionDate, returning nil when absent or unreadable.
func (s Summary) Inspected() *time.Time {
	return ParseDate(s.InspectionDate)
}

// NextDue parses NextDueDate, returning nil when absent or unreadable.
func (s Summary) NextDue() *time.Time {
	return ParseDate(s.NextDueDate)
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"02/01/2006",
	"2 January 2006",
	"02 Jan 2006",
}

// ParseDate reads a document-supplied date in any of the common layouts.
// Dates without a zone are taken as UTC. Unreadable input yields nil.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
