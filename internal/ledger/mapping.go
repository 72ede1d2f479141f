package ledger

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/compliance"
	"github.com/JaimeStill/steward/goldenthread"
	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "golden_thread_entries", "e").
	Project("id", "ID").
	Project("building_id", "BuildingID").
	Project("document_id", "DocumentID").
	Project("compliance_asset_id", "ComplianceAssetID").
	Project("action_type", "ActionType").
	Project("document_type", "DocumentType").
	Project("compliance_status", "ComplianceStatus").
	Project("risk_level", "RiskLevel").
	Project("priority", "Priority").
	Project("original_filename", "OriginalFilename").
	Project("file_path", "FilePath").
	Project("ocr_source", "OCRSource").
	Project("ai_extraction_raw", "AIExtractionRaw").
	Project("ai_confidence", "AIConfidence").
	Project("rules_confidence", "RulesConfidence").
	Project("certificate_number", "CertificateNumber").
	Project("text_ref", "TextRef").
	Project("text_preview", "TextPreview").
	Project("full_text_length", "FullTextLength").
	Project("user_confirmed", "UserConfirmed").
	Project("user_override", "UserOverride").
	Project("inspection_date", "InspectionDate").
	Project("next_due_date", "NextDueDate").
	Project("is_golden_thread", "IsGoldenThread").
	Project("safety_case_linked", "SafetyCaseLinked").
	Project("regulator_notification_advised", "RegulatorNotificationAdvised").
	Project("findings", "Findings").
	Project("actions_required", "ActionsRequired").
	Project("contractor_details", "ContractorDetails").
	Project("regulatory_notes", "RegulatoryNotes").
	Project("created_by", "CreatedBy").
	Project("content_hash", "ContentHash").
	Project("prev_hash", "PrevHash").
	Project("chain_hash", "ChainHash").
	Project("seq", "Sequence").
	Project("created_at", "CreatedAt")

var (
	newestFirst = query.SortField{Field: "Sequence", Descending: true}
	oldestFirst = query.SortField{Field: "Sequence"}
)

// Filters contains optional filtering criteria for ledger queries.
// Nil fields are ignored. Since and Until bound CreatedAt; DueBefore bounds
// NextDueDate.
type Filters struct {
	BuildingID                   *uuid.UUID               `json:"building_id,omitempty"`
	DocumentID                   *uuid.UUID               `json:"document_id,omitempty"`
	ActionType                   *goldenthread.ActionType `json:"action_type,omitempty"`
	DocumentType                 *string                  `json:"document_type,omitempty"`
	ComplianceStatus             *compliance.Status       `json:"compliance_status,omitempty"`
	RiskLevel                    *compliance.RiskLevel    `json:"risk_level,omitempty"`
	Priority                     *compliance.Priority     `json:"priority,omitempty"`
	IsGoldenThread               *bool                    `json:"is_golden_thread,omitempty"`
	RegulatorNotificationAdvised *bool                    `json:"regulator_notification_advised,omitempty"`
	CertificateNumber            *string                  `json:"certificate_number,omitempty"`
	CreatedBy                    *string                  `json:"created_by,omitempty"`
	Since                        *time.Time               `json:"since,omitempty"`
	Until                        *time.Time               `json:"until,omitempty"`
	DueBefore                    *time.Time               `json:"due_before,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("BuildingID", f.BuildingID).
		WhereEquals("DocumentID", f.DocumentID).
		WhereEquals("ActionType", f.ActionType).
		WhereEquals("DocumentType", f.DocumentType).
		WhereEquals("ComplianceStatus", f.ComplianceStatus).
		WhereEquals("RiskLevel", f.RiskLevel).
		WhereEquals("Priority", f.Priority).
		WhereEquals("IsGoldenThread", f.IsGoldenThread).
		WhereEquals("RegulatorNotificationAdvised", f.RegulatorNotificationAdvised).
		WhereEquals("CertificateNumber", f.CertificateNumber).
		WhereEquals("CreatedBy", f.CreatedBy).
		WhereOnOrAfter("CreatedAt", f.Since).
		WhereBefore("CreatedAt", f.Until).
		WhereBefore("NextDueDate", f.DueBefore)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Values that fail to parse are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	f.BuildingID = uuidParam(values, "building_id")
	f.DocumentID = uuidParam(values, "document_id")

	if v := values.Get("action_type"); v != "" {
		if a, err := goldenthread.ParseActionType(v); err == nil {
			f.ActionType = &a
		}
	}
	if v := values.Get("document_type"); v != "" {
		f.DocumentType = &v
	}
	if v := values.Get("compliance_status"); v != "" {
		if s, err := compliance.ParseStatus(v); err == nil {
			f.ComplianceStatus = &s
		}
	}
	if v := values.Get("risk_level"); v != "" {
		if r, err := compliance.ParseRiskLevel(v); err == nil {
			f.RiskLevel = &r
		}
	}
	if v := values.Get("priority"); v != "" {
		if p, err := compliance.ParsePriority(v); err == nil {
			f.Priority = &p
		}
	}

	f.IsGoldenThread = boolParam(values, "is_golden_thread")
	f.RegulatorNotificationAdvised = boolParam(values, "regulator_notification_advised")

	if v := values.Get("certificate_number"); v != "" {
		f.CertificateNumber = &v
	}
	if v := values.Get("created_by"); v != "" {
		f.CreatedBy = &v
	}

	f.Since = timeParam(values, "since")
	f.Until = timeParam(values, "until")
	f.DueBefore = timeParam(values, "due_before")

	return f
}

func uuidParam(values url.Values, key string) *uuid.UUID {
	if v := values.Get(key); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			return &id
		}
	}
	return nil
}

func boolParam(values url.Values, key string) *bool {
	if v := values.Get(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return &b
		}
	}
	return nil
}

func timeParam(values url.Values, key string) *time.Time {
	if v := values.Get(key); v != "" {
		return compliance.ParseDate(v)
	}
	return nil
}

// insertColumns lists the columns written on append, in argument order.
const insertColumns = `id, building_id, document_id, compliance_asset_id, action_type, document_type,
	compliance_status, risk_level, priority, original_filename, file_path, ocr_source,
	ai_extraction_raw, ai_confidence, rules_confidence, certificate_number,
	text_ref, text_preview, full_text_length, user_confirmed, user_override,
	inspection_date, next_due_date, is_golden_thread, safety_case_linked, regulator_notification_advised,
	findings, actions_required, contractor_details, regulatory_notes,
	created_by, content_hash, prev_hash, chain_hash, created_at`

func insertArgs(e goldenthread.Entry) ([]any, error) {
	findings, err := json.Marshal(e.Findings)
	if err != nil {
		return nil, fmt.Errorf("marshal findings: %w", err)
	}
	actions, err := json.Marshal(e.ActionsRequired)
	if err != nil {
		return nil, fmt.Errorf("marshal actions_required: %w", err)
	}
	contractor, err := json.Marshal(e.ContractorDetails)
	if err != nil {
		return nil, fmt.Errorf("marshal contractor_details: %w", err)
	}
	notes, err := json.Marshal(e.RegulatoryNotes)
	if err != nil {
		return nil, fmt.Errorf("marshal regulatory_notes: %w", err)
	}

	raw := string(e.AIExtractionRaw)
	if raw == "" {
		raw = "null"
	}

	var override *string
	if e.UserOverride != nil {
		data, err := json.Marshal(e.UserOverride)
		if err != nil {
			return nil, fmt.Errorf("marshal user_override: %w", err)
		}
		s := string(data)
		override = &s
	}

	return []any{
		e.ID,
		e.BuildingID,
		e.DocumentID,
		e.ComplianceAssetID,
		string(e.ActionType),
		e.DocumentType,
		string(e.ComplianceStatus),
		string(e.RiskLevel),
		string(e.Priority),
		e.OriginalFilename,
		e.FilePath,
		e.OCRSource,
		raw,
		e.AIConfidence,
		e.RulesConfidence,
		e.CertificateNumber,
		e.TextRef,
		e.TextPreview,
		e.FullTextLength,
		e.UserConfirmed,
		override,
		e.InspectionDate,
		e.NextDueDate,
		e.IsGoldenThread,
		e.SafetyCaseLinked,
		e.RegulatorNotificationAdvised,
		string(findings),
		string(actions),
		string(contractor),
		string(notes),
		e.CreatedBy,
		e.ContentHash,
		e.PrevHash,
		e.ChainHash,
		e.CreatedAt,
	}, nil
}

func scanEntry(s repository.Scanner) (goldenthread.Entry, error) {
	var (
		e                                           goldenthread.Entry
		raw, override                               []byte
		findings, actions, contractor, notes        []byte
		actionType, status, riskLevel, priorityText string
	)

	err := s.Scan(
		&e.ID,
		&e.BuildingID,
		&e.DocumentID,
		&e.ComplianceAssetID,
		&actionType,
		&e.DocumentType,
		&status,
		&riskLevel,
		&priorityText,
		&e.OriginalFilename,
		&e.FilePath,
		&e.OCRSource,
		&raw,
		&e.AIConfidence,
		&e.RulesConfidence,
		&e.CertificateNumber,
		&e.TextRef,
		&e.TextPreview,
		&e.FullTextLength,
		&e.UserConfirmed,
		&override,
		&e.InspectionDate,
		&e.NextDueDate,
		&e.IsGoldenThread,
		&e.SafetyCaseLinked,
		&e.RegulatorNotificationAdvised,
		&findings,
		&actions,
		&contractor,
		&notes,
		&e.CreatedBy,
		&e.ContentHash,
		&e.PrevHash,
		&e.ChainHash,
		&e.Sequence,
		&e.CreatedAt,
	)
	if err != nil {
		return e, err
	}

	e.ActionType = goldenthread.ActionType(actionType)
	e.ComplianceStatus = compliance.Status(status)
	e.RiskLevel = compliance.RiskLevel(riskLevel)
	e.Priority = compliance.Priority(priorityText)
	e.AIExtractionRaw = json.RawMessage(raw)

	if len(override) > 0 {
		var ov goldenthread.Override
		if err := json.Unmarshal(override, &ov); err != nil {
			return e, fmt.Errorf("unmarshal user_override: %w", err)
		}
		e.UserOverride = &ov
	}

	lists := []struct {
		name string
		data []byte
		dest any
	}{
		{"findings", findings, &e.Findings},
		{"actions_required", actions, &e.ActionsRequired},
		{"contractor_details", contractor, &e.ContractorDetails},
		{"regulatory_notes", notes, &e.RegulatoryNotes},
	}
	for _, l := range lists {
		if len(l.data) == 0 {
			continue
		}
		if err := json.Unmarshal(l.data, l.dest); err != nil {
			return e, fmt.Errorf("unmarshal %s: %w", l.name, err)
		}
	}

	e.Findings = nonNil(e.Findings)
	e.ActionsRequired = nonNil(e.ActionsRequired)
	e.ContractorDetails.Recommendations = nonNil(e.ContractorDetails.Recommendations)
	e.RegulatoryNotes = nonNil(e.RegulatoryNotes)

	return e, nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
