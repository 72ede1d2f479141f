package assessments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/steward/compliance"
	"github.com/JaimeStill/steward/goldenthread"
	"github.com/JaimeStill/steward/internal/buildings"
	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/internal/documents"
	"github.com/JaimeStill/steward/reminders"
)

type service struct {
	rt      *Runtime
	cfg     config.AssessmentsConfig
	builder *goldenthread.Builder
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures the assessment system.
type Option func(*service)

// WithClock sets the time source used for temporal overrides and entry
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// New creates the assessment system over the given runtime.
func New(rt *Runtime, cfg config.AssessmentsConfig, opts ...Option) System {
	s := &service{
		rt:     rt,
		cfg:    cfg,
		now:    time.Now,
		logger: rt.Logger.With("system", "assessments"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.builder = goldenthread.NewBuilder(goldenthread.WithClock(s.now))
	return s
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*Assessment, error) {
	ctx, span := s.rt.Tracer.Start(ctx, "assessments.analyze", trace.WithAttributes(
		attribute.String("building.id", cmd.BuildingID.String()),
		attribute.String("document.type", cmd.DocumentType),
	))
	defer span.End()

	start := time.Now()
	a, err := s.analyze(ctx, cmd)
	AnalysisDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		AnalysisFailures.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("entry.id", a.Entry.ID.String()),
		attribute.String("compliance.status", string(a.Entry.ComplianceStatus)),
		attribute.String("risk.level", string(a.Entry.RiskLevel)),
		attribute.Bool("building.hrb", a.HRB),
	)
	return a, nil
}

func (s *service) analyze(ctx context.Context, cmd AnalyzeCommand) (*Assessment, error) {
	if cmd.BuildingID == uuid.Nil {
		return nil, goldenthread.ErrMissingBuilding
	}
	if strings.TrimSpace(cmd.UserID) == "" {
		return nil, fmt.Errorf("%w: user_id required", ErrInvalidCommand)
	}

	building, err := s.rt.Buildings.Find(ctx, cmd.BuildingID)
	if err != nil {
		if errors.Is(err, buildings.ErrNotFound) {
			return nil, ErrUnknownBuilding
		}
		return nil, fmt.Errorf("find building: %w", err)
	}

	raw, summary := cmd.extraction()
	cmd.Summary = summary

	req := cmd.request()
	result := compliance.Analyze(req, s.now())
	hrb := building.IsHRB()
	docType := documentType(cmd.DocumentType, result.Kind)

	if !result.Matched() {
		UnmatchedTotal.WithLabelValues(string(result.Kind)).Inc()
		s.logger.Warn(
			"no classification rule matched",
			"building_id", building.ID,
			"document_type", docType,
			"kind", result.Kind,
			"status", result.Status,
			"text_length", len(cmd.Text),
		)
	}

	doc, err := s.rt.Documents.Create(ctx, documents.CreateCommand{
		BuildingID:        building.ID,
		ComplianceAssetID: cmd.ComplianceAssetID,
		DocumentType:      docType,
		OriginalFilename:  cmd.OriginalFilename,
		FilePath:          cmd.FilePath,
		OCRSource:         cmd.OCRSource,
		Text:              cmd.Text,
		CreatedBy:         cmd.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("register document: %w", err)
	}

	entry, err := s.builder.Build(goldenthread.Input{
		BuildingID: building.ID,
		Document: goldenthread.Document{
			ID:                doc.ID,
			ComplianceAssetID: doc.ComplianceAssetID,
			Type:              doc.DocumentType,
			OriginalFilename:  doc.OriginalFilename,
			FilePath:          doc.FilePath,
			OCRSource:         doc.OCRSource,
			TextRef:           doc.TextKey,
			Text:              cmd.Text,
		},
		Result:         result,
		Summary:        summary,
		RawExtraction:  raw,
		InspectionDate: req.Inspected(),
		NextDueDate:    req.DueDate(),
		UserID:         cmd.UserID,
		HRB:            hrb,
	})
	if err != nil {
		s.discard(ctx, doc.ID)
		return nil, fmt.Errorf("build entry: %w", err)
	}

	stored, err := s.append(ctx, entry)
	if err != nil {
		s.discard(ctx, doc.ID)
		return nil, err
	}

	AnalysesTotal.WithLabelValues(string(result.Kind), string(stored.ComplianceStatus)).Inc()

	a := &Assessment{
		Entry:    *stored,
		Document: *doc,
		Result:   result,
		HRB:      hrb,
		Reminder: reminder(docType, building.Name, stored.NextDueDate, stored.ComplianceStatus),
	}

	s.logger.Info(
		"document assessed",
		"entry_id", stored.ID,
		"document_id", doc.ID,
		"building_id", building.ID,
		"type", docType,
		"status", stored.ComplianceStatus,
		"risk", stored.RiskLevel,
		"is_golden_thread", stored.IsGoldenThread,
	)

	s.fanOut(ctx, building.Name, *stored, a.Reminder)
	return a, nil
}

func (s *service) AnalyzeBatch(ctx context.Context, cmd BatchCommand) (*BatchResult, error) {
	if len(cmd.Items) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrInvalidCommand)
	}
	if len(cmd.Items) > s.cfg.BatchMax {
		return nil, fmt.Errorf("%w: %d items, max %d", ErrBatchTooLarge, len(cmd.Items), s.cfg.BatchMax)
	}

	ctx, span := s.rt.Tracer.Start(ctx, "assessments.analyze_batch", trace.WithAttributes(
		attribute.Int("batch.size", len(cmd.Items)),
	))
	defer span.End()

	items := make([]BatchItem, len(cmd.Items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchLimit)

	for i := range cmd.Items {
		items[i].Index = i
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			a, err := s.Analyze(gctx, cmd.Items[i])
			if err != nil {
				items[i].Error = err.Error()
				return nil
			}
			items[i].Assessment = a
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("analyze batch: %w", err)
	}

	result := &BatchResult{Items: items}
	for _, item := range items {
		if item.Error != "" {
			result.Failed++
		} else {
			result.Succeeded++
		}
	}

	span.SetAttributes(
		attribute.Int("batch.succeeded", result.Succeeded),
		attribute.Int("batch.failed", result.Failed),
	)
	s.logger.Info("batch assessed", "items", len(items), "succeeded", result.Succeeded, "failed", result.Failed)
	return result, nil
}

func (s *service) Preview(cmd PreviewCommand) Preview {
	req := compliance.Request{
		DocumentType:   cmd.DocumentType,
		Text:           cmd.Text,
		Summary:        cmd.Summary,
		InspectionDate: cmd.InspectionDate,
		NextDueDate:    cmd.NextDueDate,
	}
	result := compliance.Analyze(req, s.now())
	docType := documentType(cmd.DocumentType, result.Kind)

	var building *goldenthread.Building
	if cmd.Building != nil {
		building = &goldenthread.Building{
			TotalFloors:  string(cmd.Building.TotalFloors),
			BuildingType: cmd.Building.BuildingType,
			HRB:          cmd.Building.HRB,
		}
	}
	hrb := goldenthread.IsHRB(building)

	p := Preview{
		DocumentType:                 docType,
		Result:                       result,
		Confidence:                   result.Confidence(),
		HRB:                          hrb,
		SafetyCaseLinked:             hrb && compliance.IsFireRiskAssessment(docType),
		RegulatorNotificationAdvised: result.RiskLevel == compliance.RiskIntolerable,
		Reminder:                     reminder(docType, cmd.BuildingName, calendarDay(req.DueDate()), result.Status),
	}
	if cert := compliance.CertificateNumber(cmd.Text); cert != "" {
		p.CertificateNumber = &cert
	}
	return p
}

func (s *service) Confirm(ctx context.Context, entryID uuid.UUID, cmd ConfirmCommand) (*goldenthread.Entry, error) {
	if strings.TrimSpace(cmd.ConfirmedBy) == "" {
		return nil, fmt.Errorf("%w: confirmed_by required", ErrInvalidCommand)
	}

	return s.supersede(ctx, "assessments.confirm", entryID, goldenthread.Revision{
		ActionType: goldenthread.ActionStatusChange,
		UserID:     cmd.ConfirmedBy,
		Confirmed:  true,
	})
}

func (s *service) Override(ctx context.Context, entryID uuid.UUID, cmd OverrideCommand) (*goldenthread.Entry, error) {
	if _, err := compliance.ParseStatus(string(cmd.Status)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}
	if strings.TrimSpace(cmd.Reason) == "" {
		return nil, fmt.Errorf("%w: reason required", ErrInvalidCommand)
	}
	if strings.TrimSpace(cmd.OverrideBy) == "" {
		return nil, fmt.Errorf("%w: override_by required", ErrInvalidCommand)
	}

	return s.supersede(ctx, "assessments.override", entryID, goldenthread.Revision{
		ActionType: goldenthread.ActionManualOverride,
		UserID:     cmd.OverrideBy,
		Confirmed:  true,
		Override: &goldenthread.Override{
			OverrideStatus: cmd.Status,
			OverrideReason: cmd.Reason,
			OverrideBy:     cmd.OverrideBy,
		},
	})
}

// supersede appends a revision of entryID. Only the latest entry of a
// document can be revised.
func (s *service) supersede(ctx context.Context, op string, entryID uuid.UUID, rev goldenthread.Revision) (*goldenthread.Entry, error) {
	ctx, span := s.rt.Tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("entry.id", entryID.String()),
		attribute.String("action", string(rev.ActionType)),
	))
	defer span.End()

	prev, err := s.rt.Ledger.Find(ctx, entryID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	latest, err := s.rt.Ledger.Latest(ctx, prev.DocumentID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if latest.ID != prev.ID {
		return nil, fmt.Errorf("%w: latest is %s", ErrSuperseded, latest.ID)
	}

	entry, err := s.builder.Supersede(*prev, rev)
	if err != nil {
		return nil, fmt.Errorf("build revision: %w", err)
	}

	stored, err := s.append(ctx, entry)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.logger.Info(
		"entry revised",
		"entry_id", stored.ID,
		"supersedes", prev.ID,
		"action", stored.ActionType,
		"status", stored.Status(),
		"by", stored.CreatedBy,
	)
	return stored, nil
}

func (s *service) Sweep(ctx context.Context, asOf time.Time) (*SweepResult, error) {
	ctx, span := s.rt.Tracer.Start(ctx, "assessments.sweep")
	defer span.End()

	due, err := s.rt.Ledger.Due(ctx, asOf)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("find due entries: %w", err)
	}

	result := &SweepResult{
		AsOf:    asOf,
		Checked: len(due),
		Alerts:  make([]goldenthread.Entry, 0),
	}
	names := make(map[uuid.UUID]string)

	for _, prev := range due {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r := compliance.ApplySchedule(prev.Result(), prev.NextDueDate, asOf)
		if r.Status != compliance.StatusExpired {
			continue
		}

		entry, err := s.builder.Supersede(prev, goldenthread.Revision{
			ActionType: goldenthread.ActionExpiryAlert,
			UserID:     s.cfg.SystemUser,
			Result:     &r,
		})
		if err != nil {
			return nil, fmt.Errorf("build expiry alert: %w", err)
		}

		stored, err := s.append(ctx, entry)
		if err != nil {
			return nil, err
		}
		result.Alerts = append(result.Alerts, *stored)

		name, ok := names[stored.BuildingID]
		if !ok {
			if b, err := s.rt.Buildings.Find(ctx, stored.BuildingID); err == nil {
				name = b.Name
			}
			names[stored.BuildingID] = name
		}

		s.fanOut(ctx, name, *stored, reminder(stored.DocumentType, name, stored.NextDueDate, stored.ComplianceStatus))
	}

	span.SetAttributes(
		attribute.Int("sweep.checked", result.Checked),
		attribute.Int("sweep.alerts", len(result.Alerts)),
	)
	s.logger.Info("expiry sweep complete", "as_of", asOf, "checked", result.Checked, "alerts", len(result.Alerts))
	return result, nil
}

func (s *service) append(ctx context.Context, e goldenthread.Entry) (*goldenthread.Entry, error) {
	stored, err := s.rt.Ledger.Append(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("append entry: %w", err)
	}
	EntriesAppended.WithLabelValues(string(stored.ActionType)).Inc()
	return stored, nil
}

// discard removes a document registered by an analysis whose entry was
// never appended, so the document table only holds documents on the thread.
func (s *service) discard(ctx context.Context, id uuid.UUID) {
	if err := s.rt.Documents.Discard(context.WithoutCancel(ctx), id); err != nil {
		s.logger.Error("orphaned document not discarded", "document_id", id, "error", err)
		return
	}
	s.logger.Warn("document discarded after failed append", "document_id", id)
}

// fanOut publishes the reminder and regulator advisory for an entry.
// Failures are logged and counted; the entry is already recorded.
func (s *service) fanOut(ctx context.Context, buildingName string, e goldenthread.Entry, spec *reminders.Spec) {
	if spec != nil {
		s.publish(ctx, SubjectReminder, spec, "entry_id", e.ID)
	}

	if e.RegulatorNotificationAdvised {
		s.publish(ctx, SubjectAdvisory, Advisory{
			EntryID:      e.ID,
			BuildingID:   e.BuildingID,
			BuildingName: buildingName,
			DocumentID:   e.DocumentID,
			DocumentType: e.DocumentType,
			RiskLevel:    e.RiskLevel,
			Findings:     e.Findings,
			HRB:          e.IsGoldenThread,
		}, "entry_id", e.ID)
	}
}

func (s *service) publish(ctx context.Context, subject string, payload any, args ...any) {
	if err := s.rt.Notify.Publish(ctx, subject, payload); err != nil {
		PublishFailures.WithLabelValues(subject).Inc()
		s.logger.Warn("notification publish failed", append([]any{"subject", subject, "error", err}, args...)...)
	}
}

// calendarDay truncates t to its UTC calendar date, matching how entries
// store due dates.
func calendarDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
