// Package assessments runs a compliance document through classification,
// HRB determination and the Golden Thread ledger, and publishes the
// resulting reminders and regulator advisories.
package assessments

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/compliance"
	"github.com/JaimeStill/steward/goldenthread"
	"github.com/JaimeStill/steward/internal/buildings"
	"github.com/JaimeStill/steward/internal/documents"
	"github.com/JaimeStill/steward/pkg/formatting"
	"github.com/JaimeStill/steward/reminders"
)

// AnalyzeCommand is the ingestion input for one document: its OCR text and
// the AI metadata extracted alongside it.
type AnalyzeCommand struct {
	BuildingID        uuid.UUID          `json:"building_id"`
	ComplianceAssetID *uuid.UUID         `json:"compliance_asset_id,omitempty"`
	DocumentType      string             `json:"document_type"`
	OriginalFilename  string             `json:"original_filename"`
	FilePath          string             `json:"file_path"`
	OCRSource         string             `json:"ocr_source"`
	Text              string             `json:"extracted_text"`
	Summary           compliance.Summary `json:"ai_summary"`
	RawExtraction     json.RawMessage    `json:"ai_extraction_raw,omitempty"`
	InspectionDate    *time.Time         `json:"inspection_date,omitempty"`
	NextDueDate       *time.Time         `json:"next_due_date,omitempty"`
	UserID            string             `json:"user_id"`
}

func (c AnalyzeCommand) request() compliance.Request {
	return compliance.Request{
		DocumentType:   c.DocumentType,
		Text:           c.Text,
		Summary:        c.Summary,
		InspectionDate: c.InspectionDate,
		NextDueDate:    c.NextDueDate,
	}
}

// extraction recovers the raw AI payload and, when no summary was supplied,
// reads the summary out of it. A payload delivered as a JSON string, with or
// without a markdown code fence, is unwrapped when it holds a JSON document.
func (c AnalyzeCommand) extraction() (json.RawMessage, compliance.Summary) {
	raw := c.RawExtraction
	summary := c.Summary

	var wrapped string
	if len(raw) > 0 && json.Unmarshal(raw, &wrapped) == nil {
		if inner, err := formatting.ExtractJSON(wrapped); err == nil {
			raw = inner
		}
	}

	if summary == (compliance.Summary{}) && len(raw) > 0 {
		if parsed, err := formatting.Parse[compliance.Summary](string(raw)); err == nil {
			summary = parsed
		}
	}

	return raw, summary
}

// Assessment is the outcome of analyzing one document.
type Assessment struct {
	Entry    goldenthread.Entry `json:"entry"`
	Document documents.Document `json:"document"`
	Result   compliance.Result  `json:"result"`
	HRB      bool               `json:"is_hrb"`
	Reminder *reminders.Spec    `json:"reminder,omitempty"`
}

// BatchCommand analyzes several documents. Items are independent: one
// failing item does not stop the others.
type BatchCommand struct {
	Items []AnalyzeCommand `json:"items"`
}

// BatchItem reports the outcome of one batch item, by its index in the
// request.
type BatchItem struct {
	Index      int         `json:"index"`
	Assessment *Assessment `json:"assessment,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// BatchResult collects every item outcome in request order.
type BatchResult struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// PreviewBuilding carries the building attributes for a preview.
type PreviewBuilding struct {
	TotalFloors  buildings.FloorCount `json:"total_floors"`
	BuildingType string               `json:"building_type"`
	HRB          *bool                `json:"is_hrb"`
}

// PreviewCommand classifies text without persisting anything. Building is
// optional; without it the document is treated as outside the Golden Thread.
type PreviewCommand struct {
	DocumentType   string             `json:"document_type"`
	Text           string             `json:"extracted_text"`
	Summary        compliance.Summary `json:"ai_summary"`
	InspectionDate *time.Time         `json:"inspection_date,omitempty"`
	NextDueDate    *time.Time         `json:"next_due_date,omitempty"`
	Building       *PreviewBuilding   `json:"building,omitempty"`
	BuildingName   string             `json:"building_name,omitempty"`
}

// Preview is the classification a document would receive.
type Preview struct {
	DocumentType                 string            `json:"document_type"`
	Result                       compliance.Result `json:"result"`
	Confidence                   int               `json:"rules_confidence"`
	CertificateNumber            *string           `json:"certificate_number"`
	HRB                          bool              `json:"is_hrb"`
	SafetyCaseLinked             bool              `json:"safety_case_linked"`
	RegulatorNotificationAdvised bool              `json:"regulator_notification_advised"`
	Reminder                     *reminders.Spec   `json:"reminder,omitempty"`
}

// ConfirmCommand records a human confirming an entry's classification.
type ConfirmCommand struct {
	ConfirmedBy string `json:"confirmed_by"`
}

// OverrideCommand records a human correcting an entry's status.
type OverrideCommand struct {
	Status     compliance.Status `json:"status"`
	Reason     string            `json:"reason"`
	OverrideBy string            `json:"override_by"`
}

// SweepResult reports an expiry sweep.
type SweepResult struct {
	AsOf    time.Time            `json:"as_of"`
	Checked int                  `json:"checked"`
	Alerts  []goldenthread.Entry `json:"alerts"`
}

// Advisory is published when an entry's risk level calls for considering a
// regulator notification. It is advice, not a record that one was sent.
type Advisory struct {
	EntryID      uuid.UUID            `json:"entry_id"`
	BuildingID   uuid.UUID            `json:"building_id"`
	BuildingName string               `json:"building_name"`
	DocumentID   uuid.UUID            `json:"document_id"`
	DocumentType string               `json:"document_type"`
	RiskLevel    compliance.RiskLevel `json:"risk_level"`
	Findings     []string             `json:"findings"`
	HRB          bool                 `json:"is_hrb"`
}

var documentTypes = map[compliance.Kind]string{
	compliance.KindElectrical: "EICR",
	compliance.KindFire:       "Fire Risk Assessment",
	compliance.KindLift:       "Lift Inspection",
	compliance.KindGas:        "Gas Safety Certificate",
	compliance.KindGeneric:    "Unclassified",
}

// documentType returns the declared type, or the canonical type of the kind
// detected from the text when none was declared.
func documentType(declared string, kind compliance.Kind) string {
	if t := strings.TrimSpace(declared); t != "" {
		return t
	}
	return documentTypes[kind]
}

func reminder(documentType, buildingName string, nextDue *time.Time, status compliance.Status) *reminders.Spec {
	if nextDue == nil {
		return nil
	}
	spec := reminders.Generate(documentType, buildingName, *nextDue, status)
	return &spec
}
