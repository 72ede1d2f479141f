package compliance

import (
	"encoding/json"
	"slices"
)

// Status is the compliance state of a document.
type Status string

// Compliance statuses.
const (
	StatusCompliant             Status = "compliant"
	StatusNonCompliant          Status = "non_compliant"
	StatusRemedialActionPending Status = "remedial_action_pending"
	StatusExpired               Status = "expired"
	StatusScheduled             Status = "scheduled"
	StatusUnderReview           Status = "under_review"
	StatusPending               Status = "pending"
	StatusOverdue               Status = "overdue"
	StatusUpcoming              Status = "upcoming"
)

var statuses = []Status{
	StatusCompliant,
	StatusNonCompliant,
	StatusRemedialActionPending,
	StatusExpired,
	StatusScheduled,
	StatusUnderReview,
	StatusPending,
	StatusOverdue,
	StatusUpcoming,
}

// ParseStatus validates a string as a known compliance status.
func ParseStatus(s string) (Status, error) {
	v := Status(s)
	if !slices.Contains(statuses, v) {
		return "", ErrInvalidStatus
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// RiskLevel is the severity of risk identified in a document.
type RiskLevel string

// Risk levels, ordered from least to most severe with unknown outside the order.
const (
	RiskBroadlyAcceptable RiskLevel = "broadly_acceptable"
	RiskTolerable         RiskLevel = "tolerable"
	RiskIntolerable       RiskLevel = "intolerable"
	RiskUnknown           RiskLevel = "unknown"
)

var riskLevels = []RiskLevel{
	RiskBroadlyAcceptable,
	RiskTolerable,
	RiskIntolerable,
	RiskUnknown,
}

// ParseRiskLevel validates a string as a known risk level.
func ParseRiskLevel(s string) (RiskLevel, error) {
	v := RiskLevel(s)
	if !slices.Contains(riskLevels, v) {
		return "", ErrInvalidRiskLevel
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known risk level.
func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseRiskLevel(raw)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Priority is the urgency assigned to a document's follow-up.
type Priority string

// Priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var priorities = []Priority{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
}

// ParsePriority validates a string as a known priority.
func ParsePriority(s string) (Priority, error) {
	v := Priority(s)
	if !slices.Contains(priorities, v) {
		return "", ErrInvalidPriority
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known priority.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParsePriority(raw)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
