package assessments_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/goldenthread"
	"github.com/JaimeStill/steward/internal/assessments"
	"github.com/JaimeStill/steward/internal/ledger"
	"github.com/JaimeStill/steward/pkg/middleware"
	"github.com/JaimeStill/steward/pkg/routes"
)

type mockSystem struct {
	analyzeFn  func(ctx context.Context, cmd assessments.AnalyzeCommand) (*assessments.Assessment, error)
	batchFn    func(ctx context.Context, cmd assessments.BatchCommand) (*assessments.BatchResult, error)
	previewFn  func(cmd assessments.PreviewCommand) assessments.Preview
	confirmFn  func(ctx context.Context, id uuid.UUID, cmd assessments.ConfirmCommand) (*goldenthread.Entry, error)
	overrideFn func(ctx context.Context, id uuid.UUID, cmd assessments.OverrideCommand) (*goldenthread.Entry, error)
	sweepFn    func(ctx context.Context, asOf time.Time) (*assessments.SweepResult, error)
}

func (m *mockSystem) Handler() *assessments.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) Analyze(ctx context.Context, cmd assessments.AnalyzeCommand) (*assessments.Assessment, error) {
	return m.analyzeFn(ctx, cmd)
}

func (m *mockSystem) AnalyzeBatch(ctx context.Context, cmd assessments.BatchCommand) (*assessments.BatchResult, error) {
	return m.batchFn(ctx, cmd)
}

func (m *mockSystem) Preview(cmd assessments.PreviewCommand) assessments.Preview {
	return m.previewFn(cmd)
}

func (m *mockSystem) Confirm(ctx context.Context, id uuid.UUID, cmd assessments.ConfirmCommand) (*goldenthread.Entry, error) {
	return m.confirmFn(ctx, id, cmd)
}

func (m *mockSystem) Override(ctx context.Context, id uuid.UUID, cmd assessments.OverrideCommand) (*goldenthread.Entry, error) {
	return m.overrideFn(ctx, id, cmd)
}

func (m *mockSystem) Sweep(ctx context.Context, asOf time.Time) (*assessments.SweepResult, error) {
	return m.sweepFn(ctx, asOf)
}

func newTestHandler(sys assessments.System) *assessments.Handler {
	return assessments.NewHandler(sys, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupMux(h *assessments.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	return mux
}

var entryID = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

func TestHandlerAnalyze(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"created", `{"building_id":"` + towerID.String() + `","document_type":"EICR","extracted_text":"Category 1: 1","user_id":"u"}`, nil, http.StatusCreated},
		{"invalid json", `{`, nil, http.StatusBadRequest},
		{"unknown field", `{"building":"x"}`, nil, http.StatusBadRequest},
		{"unknown building", `{"user_id":"u"}`, assessments.ErrUnknownBuilding, http.StatusUnprocessableEntity},
		{"missing building", `{"user_id":"u"}`, goldenthread.ErrMissingBuilding, http.StatusBadRequest},
		{"ledger failure", `{"user_id":"u"}`, fmt.Errorf("append entry: %w", fmt.Errorf("connection reset")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got assessments.AnalyzeCommand
			sys := &mockSystem{
				analyzeFn: func(_ context.Context, cmd assessments.AnalyzeCommand) (*assessments.Assessment, error) {
					got = cmd
					if tt.err != nil {
						return nil, tt.err
					}
					return &assessments.Assessment{Entry: goldenthread.Entry{ID: entryID}}, nil
				},
			}

			mux := setupMux(newTestHandler(sys))
			req := httptest.NewRequest("POST", "/assessments", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}

			if tt.wantStatus == http.StatusCreated && got.Text != "Category 1: 1" {
				t.Errorf("extracted_text = %q, want %q", got.Text, "Category 1: 1")
			}
		})
	}
}

func TestHandlerAnalyzeBodyLimit(t *testing.T) {
	sys := &mockSystem{
		analyzeFn: func(context.Context, assessments.AnalyzeCommand) (*assessments.Assessment, error) {
			t.Fatal("analyze should not be called")
			return nil, nil
		},
	}

	mux := setupMux(newTestHandler(sys))
	handler := middleware.MaxBytes(64)(mux)

	body := `{"extracted_text":"` + strings.Repeat("x", 256) + `"}`
	req := httptest.NewRequest("POST", "/assessments", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestHandlerBatch(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ok", nil, http.StatusOK},
		{"too large", assessments.ErrBatchTooLarge, http.StatusRequestEntityTooLarge},
		{"empty", assessments.ErrInvalidCommand, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockSystem{
				batchFn: func(_ context.Context, cmd assessments.BatchCommand) (*assessments.BatchResult, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &assessments.BatchResult{Items: []assessments.BatchItem{{Index: 0}}, Succeeded: 1}, nil
				},
			}

			mux := setupMux(newTestHandler(sys))
			req := httptest.NewRequest("POST", "/assessments/batch", bytes.NewBufferString(`{"items":[]}`))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandlerPreview(t *testing.T) {
	sys := &mockSystem{
		previewFn: func(cmd assessments.PreviewCommand) assessments.Preview {
			return assessments.Preview{
				DocumentType: cmd.DocumentType,
				HRB:          cmd.Building != nil && cmd.Building.TotalFloors == "12",
			}
		},
	}

	mux := setupMux(newTestHandler(sys))
	body := `{"document_type":"FRA","extracted_text":"x","building":{"total_floors":12}}`
	req := httptest.NewRequest("POST", "/assessments/preview", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var got assessments.Preview
	json.NewDecoder(rec.Body).Decode(&got)
	if !got.HRB {
		t.Error("numeric total_floors should decode")
	}
}

func TestHandlerConfirm(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		err        error
		wantStatus int
	}{
		{"created", entryID.String(), nil, http.StatusCreated},
		{"invalid id", "nope", nil, http.StatusBadRequest},
		{"not found", entryID.String(), ledger.ErrNotFound, http.StatusNotFound},
		{"superseded", entryID.String(), assessments.ErrSuperseded, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockSystem{
				confirmFn: func(_ context.Context, id uuid.UUID, cmd assessments.ConfirmCommand) (*goldenthread.Entry, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &goldenthread.Entry{
						ID:            uuid.New(),
						ActionType:    goldenthread.ActionStatusChange,
						UserConfirmed: true,
						CreatedBy:     cmd.ConfirmedBy,
					}, nil
				},
			}

			mux := setupMux(newTestHandler(sys))
			req := httptest.NewRequest("POST", "/assessments/"+tt.id+"/confirm", bytes.NewBufferString(`{"confirmed_by":"manager"}`))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandlerOverride(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"created", `{"status":"compliant","reason":"reviewed","override_by":"u"}`, http.StatusCreated},
		{"unknown status", `{"status":"fine","reason":"reviewed","override_by":"u"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockSystem{
				overrideFn: func(_ context.Context, _ uuid.UUID, cmd assessments.OverrideCommand) (*goldenthread.Entry, error) {
					return &goldenthread.Entry{
						ActionType:   goldenthread.ActionManualOverride,
						UserOverride: &goldenthread.Override{OverrideStatus: cmd.Status},
					}, nil
				},
			}

			mux := setupMux(newTestHandler(sys))
			req := httptest.NewRequest("POST", "/assessments/"+entryID.String()+"/override", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandlerSweep(t *testing.T) {
	var gotAsOf time.Time
	sys := &mockSystem{
		sweepFn: func(_ context.Context, asOf time.Time) (*assessments.SweepResult, error) {
			gotAsOf = asOf
			return &assessments.SweepResult{AsOf: asOf, Alerts: []goldenthread.Entry{}}, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	req := httptest.NewRequest("POST", "/assessments/sweep?as_of=2026-06-01", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if want := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC); !gotAsOf.Equal(want) {
		t.Errorf("as_of = %v, want %v", gotAsOf, want)
	}

	req = httptest.NewRequest("POST", "/assessments/sweep?as_of=someday", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{assessments.ErrInvalidCommand, http.StatusBadRequest},
		{goldenthread.ErrOverrideAction, http.StatusBadRequest},
		{assessments.ErrUnknownBuilding, http.StatusUnprocessableEntity},
		{assessments.ErrBatchTooLarge, http.StatusRequestEntityTooLarge},
		{assessments.ErrSuperseded, http.StatusConflict},
		{fmt.Errorf("append entry: %w", ledger.ErrImmutable), http.StatusConflict},
		{ledger.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := assessments.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
