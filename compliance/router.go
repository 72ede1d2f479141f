package compliance

import (
	"strings"
	"time"
)

// Kind identifies which classifier handles a document.
type Kind string

// Document kinds.
const (
	KindElectrical Kind = "electrical"
	KindFire       Kind = "fire"
	KindLift       Kind = "lift"
	KindGas        Kind = "gas"
	KindGeneric    Kind = "generic"
)

var synonyms = map[string]Kind{
	"eicr": KindElectrical,
	"electrical installation condition report": KindElectrical,

	"fire risk assessment": KindFire,
	"fra":                  KindFire,
	"fraew":                KindFire,

	"lift maintenance":    KindLift,
	"lift inspection":     KindLift,
	"lift service report": KindLift,

	"gas safety certificate": KindGas,
	"gas safety record":      KindGas,
	"cp12":                   KindGas,
}

// Resolve maps a declared document type to its classifier kind using a
// case-insensitive lookup of known synonyms. Unrecognised types resolve to
// KindGeneric.
func Resolve(documentType string) Kind {
	if k, ok := synonyms[strings.ToLower(strings.TrimSpace(documentType))]; ok {
		return k
	}
	return KindGeneric
}

// IsFireRiskAssessment reports whether documentType is a fire risk
// assessment variant (FRA or FRAEW).
func IsFireRiskAssessment(documentType string) bool {
	return Resolve(documentType) == KindFire
}

// Classify runs the content classifier for documentType over text. A blank
// documentType is resolved by Detect.
func Classify(documentType, text string) Result {
	kind := Resolve(documentType)
	if strings.TrimSpace(documentType) == "" {
		kind = Detect(text)
	}
	return classify(kind, text)
}

func classify(kind Kind, text string) Result {
	switch kind {
	case KindElectrical:
		return classifyElectrical(text)
	case KindFire:
		return classifyFire(text)
	case KindLift:
		return classifyLift(text)
	case KindGas:
		return classifyGas(text)
	case KindGeneric:
		return classifyGeneric()
	default:
		return classifyGeneric()
	}
}

func classifyGeneric() Result {
	action := "Manual review required"
	return Result{
		Kind:           KindGeneric,
		Status:         StatusUnderReview,
		Priority:       PriorityMedium,
		RiskLevel:      RiskUnknown,
		Findings:       []string{"Document requires manual review"},
		ActionRequired: &action,
		Details: Details{
			IntolerableRisks: []string{},
			UrgentActions:    []string{},
			RemedialWorks:    []string{},
		},
	}
}

// Request is the ingestion input for a single analysis.
type Request struct {
	DocumentType   string     `json:"document_type"`
	Text           string     `json:"extracted_text"`
	Summary        Summary    `json:"ai_summary"`
	InspectionDate *time.Time `json:"inspection_date,omitempty"`
	NextDueDate    *time.Time `json:"next_due_date,omitempty"`
}

// DueDate returns the explicit next due date, falling back to the date
// carried in the AI summary.
func (r Request) DueDate() *time.Time {
	if r.NextDueDate != nil {
		return r.NextDueDate
	}
	return r.Summary.NextDue()
}

// Inspected returns the explicit inspection date, falling back to the date
// carried in the AI summary.
func (r Request) Inspected() *time.Time {
	if r.InspectionDate != nil {
		return r.InspectionDate
	}
	return r.Summary.Inspected()
}

// Analyze classifies the request's text and then applies the due-date
// override relative to now.
func Analyze(req Request, now time.Time) Result {
	return ApplySchedule(Classify(req.DocumentType, req.Text), req.DueDate(), now)
}
