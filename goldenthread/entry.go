package goldenthread

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/JaimeStill/steward/compliance"
	"github.com/google/uuid"
)

// ActionType identifies the event that produced an entry.
type ActionType string

// Entry action types.
const (
	ActionDocumentUpload ActionType = "document_upload"
	ActionManualOverride ActionType = "manual_override"
	ActionStatusChange   ActionType = "status_change"
	ActionExpiryAlert    ActionType = "expiry_alert"
	ActionRemedial       ActionType = "remedial_action"
)

var actionTypes = []ActionType{
	ActionDocumentUpload,
	ActionManualOverride,
	ActionStatusChange,
	ActionExpiryAlert,
	ActionRemedial,
}

// ParseActionType validates a string as a known action type.
func ParseActionType(s string) (ActionType, error) {
	v := ActionType(s)
	if !slices.Contains(actionTypes, v) {
		return "", ErrInvalidAction
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known action type.
func (a *ActionType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseActionType(raw)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Override records a human correction of a classification. It is stored
// alongside the original classification fields, which it does not replace.
type Override struct {
	OriginalStatus compliance.Status `json:"original_status"`
	OverrideStatus compliance.Status `json:"override_status"`
	OverrideReason string            `json:"override_reason"`
	OverrideBy     string            `json:"override_by"`
}

// Contractor carries contractor information denormalized into an entry.
type Contractor struct {
	Name            string   `json:"name,omitempty"`
	Recommendations []string `json:"recommendations"`
}

// Entry is one immutable Golden Thread audit record. Classification fields
// are copied at write time so the record stands on its own if the rules
// change later.
//
// RegulatorNotificationAdvised is computed from the risk level. It says a
// regulator notification should be considered, not that one was sent.
//
// PrevHash, ChainHash and Sequence are assigned by the ledger on append.
type Entry struct {
	ID                uuid.UUID  `json:"id"`
	BuildingID        uuid.UUID  `json:"building_id"`
	DocumentID        uuid.UUID  `json:"document_id"`
	ComplianceAssetID *uuid.UUID `json:"compliance_asset_id"`
	ActionType        ActionType `json:"action_type"`

	DocumentType     string               `json:"document_type"`
	ComplianceStatus compliance.Status    `json:"compliance_status"`
	RiskLevel        compliance.RiskLevel `json:"risk_level"`
	Priority         compliance.Priority  `json:"priority"`

	OriginalFilename  string          `json:"original_filename"`
	FilePath          string          `json:"file_path"`
	OCRSource         string          `json:"ocr_source"`
	AIExtractionRaw   json.RawMessage `json:"ai_extraction_raw"`
	AIConfidence      *float64        `json:"ai_confidence"`
	RulesConfidence   int             `json:"rules_confidence"`
	CertificateNumber *string         `json:"certificate_number"`

	TextRef        string `json:"text_ref"`
	TextPreview    string `json:"text_preview"`
	FullTextLength int    `json:"full_text_length"`

	UserConfirmed bool      `json:"user_confirmed"`
	UserOverride  *Override `json:"user_override"`

	InspectionDate *time.Time `json:"inspection_date"`
	NextDueDate    *time.Time `json:"next_due_date"`

	IsGoldenThread               bool `json:"is_golden_thread"`
	SafetyCaseLinked             bool `json:"safety_case_linked"`
	RegulatorNotificationAdvised bool `json:"regulator_notification_advised"`

	Findings          []string   `json:"findings"`
	ActionsRequired   []string   `json:"actions_required"`
	ContractorDetails Contractor `json:"contractor_details"`
	RegulatoryNotes   []string   `json:"regulatory_notes"`

	CreatedBy   string    `json:"created_by"`
	ContentHash string    `json:"content_hash"`
	PrevHash    string    `json:"prev_hash"`
	ChainHash   string    `json:"chain_hash"`
	Sequence    int64     `json:"sequence"`
	CreatedAt   time.Time `json:"created_at"`
}

// Status returns the effective compliance status: the override status when
// the entry records one, otherwise the classified status.
func (e Entry) Status() compliance.Status {
	if e.UserOverride != nil {
		return e.UserOverride.OverrideStatus
	}
	return e.ComplianceStatus
}

// Result rebuilds the classification snapshot stored on the entry so it can
// be re-evaluated, for example against a later date. Per-type evidence is not
// stored, so the recorded actions come back as urgent actions.
func (e Entry) Result() compliance.Result {
	return compliance.Result{
		Kind:                      compliance.Resolve(e.DocumentType),
		Status:                    e.ComplianceStatus,
		Priority:                  e.Priority,
		RiskLevel:                 e.RiskLevel,
		Findings:                  slices.Clone(e.Findings),
		Details:                   compliance.Details{UrgentActions: slices.Clone(e.ActionsRequired)},
		ContractorRecommendations: slices.Clone(e.ContractorDetails.Recommendations),
		RegulatoryNotes:           slices.Clone(e.RegulatoryNotes),
	}
}
