package goldenthread

import (
	"encoding/json"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JaimeStill/steward/compliance"
	"github.com/google/uuid"
)

// PreviewLength is the number of characters of extracted text kept inline on
// an entry. The full text is referenced by TextRef.
const PreviewLength = 1000

// Document describes the source document of an entry.
type Document struct {
	ID                uuid.UUID
	ComplianceAssetID *uuid.UUID
	Type              string
	OriginalFilename  string
	FilePath          string
	OCRSource         string
	TextRef           string
	Text              string
}

// Input carries everything needed to build a first entry for a document.
// ActionType defaults to document_upload.
type Input struct {
	BuildingID     uuid.UUID
	Document       Document
	Result         compliance.Result
	Summary        compliance.Summary
	RawExtraction  json.RawMessage
	InspectionDate *time.Time
	NextDueDate    *time.Time
	UserID         string
	HRB            bool
	ActionType     ActionType
	Override       *Override
	Confirmed      bool
}

// Revision describes a follow-up entry that supersedes an earlier one.
// Result, when set, replaces the classification snapshot.
type Revision struct {
	ActionType ActionType
	UserID     string
	Override   *Override
	Confirmed  bool
	Result     *compliance.Result
}

// Builder assembles entries. It performs no I/O.
type Builder struct {
	now   func() time.Time
	newID func() uuid.UUID
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// NewBuilder returns a Builder that assigns random UUIDs and uses the wall
// clock unless overridden by opts.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		now:   time.Now,
		newID: uuid.New,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build creates the entry for a document analysis event.
func (b *Builder) Build(in Input) (Entry, error) {
	if in.BuildingID == uuid.Nil {
		return Entry{}, ErrMissingBuilding
	}
	if in.Document.ID == uuid.Nil {
		return Entry{}, ErrMissingDocument
	}

	action, err := resolveAction(in.ActionType, in.Override)
	if err != nil {
		return Entry{}, err
	}

	raw := in.RawExtraction
	if len(raw) == 0 {
		raw, err = json.Marshal(in.Summary)
		if err != nil {
			return Entry{}, err
		}
	}
	if !json.Valid(raw) {
		raw, _ = json.Marshal(string(raw))
	}

	inspection := in.InspectionDate
	if inspection == nil {
		inspection = in.Summary.Inspected()
	}
	nextDue := in.NextDueDate
	if nextDue == nil {
		nextDue = in.Summary.NextDue()
	}

	e := Entry{
		ID:                b.newID(),
		BuildingID:        in.BuildingID,
		DocumentID:        in.Document.ID,
		ComplianceAssetID: in.Document.ComplianceAssetID,
		ActionType:        action,
		DocumentType:      scrub(in.Document.Type),
		OriginalFilename:  scrub(in.Document.OriginalFilename),
		FilePath:          scrub(in.Document.FilePath),
		OCRSource:         scrub(in.Document.OCRSource),
		AIExtractionRaw:   slices.Clone(raw),
		AIConfidence:      in.Summary.Confidence,
		TextRef:           in.Document.TextRef,
		TextPreview:       Preview(in.Document.Text),
		FullTextLength:    utf8.RuneCountInString(in.Document.Text),
		UserConfirmed:     in.Confirmed,
		InspectionDate:    day(inspection),
		NextDueDate:       day(nextDue),
		IsGoldenThread:    in.HRB,
		ContractorDetails: Contractor{Name: scrub(in.Summary.ContractorName)},
		CreatedBy:         scrub(in.UserID),
		CreatedAt:         b.now().UTC(),
	}
	if cert := compliance.CertificateNumber(in.Document.Text); cert != "" {
		e.CertificateNumber = &cert
	}
	if in.Override != nil {
		ov := *in.Override
		ov.OriginalStatus = in.Result.Status
		e.UserOverride = &ov
	}

	e.classify(in.Result)
	e.ContentHash = ContentHash(e)
	return e, nil
}

// Supersede creates a follow-up entry for the same document. The
// classification snapshot and provenance are copied from prev; prev itself
// is left untouched.
func (b *Builder) Supersede(prev Entry, rev Revision) (Entry, error) {
	if prev.BuildingID == uuid.Nil {
		return Entry{}, ErrMissingBuilding
	}
	if prev.DocumentID == uuid.Nil {
		return Entry{}, ErrMissingDocument
	}
	if rev.ActionType == "" {
		return Entry{}, ErrInvalidAction
	}

	action, err := resolveAction(rev.ActionType, rev.Override)
	if err != nil {
		return Entry{}, err
	}

	e := prev.clone()
	e.ID = b.newID()
	e.ActionType = action
	e.UserConfirmed = rev.Confirmed
	e.UserOverride = nil
	e.CreatedBy = rev.UserID
	e.ContentHash, e.PrevHash, e.ChainHash = "", "", ""
	e.Sequence = 0
	e.CreatedAt = b.now().UTC()

	if rev.Result != nil {
		e.classify(*rev.Result)
	}
	if rev.Override != nil {
		ov := *rev.Override
		ov.OriginalStatus = prev.Status()
		e.UserOverride = &ov
	}

	e.ContentHash = ContentHash(e)
	return e, nil
}

// BuildEntry builds an entry with a default Builder.
func BuildEntry(in Input) (Entry, error) {
	return NewBuilder().Build(in)
}

// Preview returns the first PreviewLength characters of text with NUL
// bytes removed.
func Preview(text string) string {
	text = scrub(text)
	if utf8.RuneCountInString(text) <= PreviewLength {
		return text
	}
	return string([]rune(text)[:PreviewLength])
}

func (e *Entry) classify(r compliance.Result) {
	e.ComplianceStatus = r.Status
	e.RiskLevel = r.RiskLevel
	e.Priority = r.Priority
	e.RulesConfidence = r.Confidence()
	e.Findings = scrubAll(r.Findings)
	e.ActionsRequired = scrubAll(r.Actions())
	e.ContractorDetails.Recommendations = scrubAll(r.ContractorRecommendations)
	e.RegulatoryNotes = scrubAll(r.RegulatoryNotes)

	e.SafetyCaseLinked = e.IsGoldenThread && compliance.IsFireRiskAssessment(e.DocumentType)
	e.RegulatorNotificationAdvised = r.RiskLevel == compliance.RiskIntolerable
}

func (e Entry) clone() Entry {
	c := e
	c.AIExtractionRaw = slices.Clone(e.AIExtractionRaw)
	c.Findings = slices.Clone(e.Findings)
	c.ActionsRequired = slices.Clone(e.ActionsRequired)
	c.ContractorDetails.Recommendations = slices.Clone(e.ContractorDetails.Recommendations)
	c.RegulatoryNotes = slices.Clone(e.RegulatoryNotes)
	if e.UserOverride != nil {
		ov := *e.UserOverride
		c.UserOverride = &ov
	}
	return c
}

func resolveAction(a ActionType, override *Override) (ActionType, error) {
	if a == "" {
		a = ActionDocumentUpload
	}
	if !slices.Contains(actionTypes, a) {
		return "", ErrInvalidAction
	}
	if override != nil && a != ActionManualOverride {
		return "", ErrOverrideAction
	}
	return a, nil
}

func day(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &v
}

// scrub drops NUL bytes. OCR output can carry them and Postgres rejects
// them in TEXT and JSONB values.
func scrub(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

func scrubAll(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, scrub(s))
	}
	return out
}
