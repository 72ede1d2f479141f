package compliance_test

import (
	"testing"
	"time"

	"github.com/JaimeStill/steward/compliance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func days(n int) *time.Time {
	t := now.AddDate(0, 0, n)
	return &t
}

func TestAnalyzeScenarios(t *testing.T) {
	t.Run("gas passed within renewal window is scheduled", func(t *testing.T) {
		r := compliance.Analyze(compliance.Request{
			DocumentType: "Gas Safety Record",
			Text:         "all appliances safe, passed",
			NextDueDate:  days(10),
		}, now)

		assert.Equal(t, compliance.StatusScheduled, r.Status)
		assert.Equal(t, "Renewal due within 30 days", r.Findings[len(r.Findings)-1])
	})

	t.Run("expiry wins over condemned lift", func(t *testing.T) {
		r := compliance.Analyze(compliance.Request{
			DocumentType: "lift inspection",
			Text:         "lift condemned, unsafe to operate",
			NextDueDate:  days(-1),
		}, now)

		assert.Equal(t, compliance.StatusExpired, r.Status)
		assert.Equal(t, compliance.PriorityHigh, r.Priority)
		assert.Equal(t, compliance.RiskIntolerable, r.RiskLevel)
		assert.Equal(t, "Document expired - renewal required immediately", r.Findings[0])
		require.NotNil(t, r.ActionRequired)
		assert.Equal(t, "Immediate renewal required - document expired", *r.ActionRequired)
	})

	t.Run("fra without due date", func(t *testing.T) {
		r := compliance.Analyze(compliance.Request{
			DocumentType: "FRA",
			Text:         "intolerable risk to residents",
		}, now)

		assert.Equal(t, compliance.StatusNonCompliant, r.Status)
		assert.Contains(t, r.Details.IntolerableRisks, "intolerable risk")
	})

	t.Run("due date falls back to ai summary", func(t *testing.T) {
		r := compliance.Analyze(compliance.Request{
			DocumentType: "cp12",
			Text:         "passed",
			Summary:      compliance.Summary{NextDueDate: "2026-01-01"},
		}, now)

		assert.Equal(t, compliance.StatusExpired, r.Status)
	})
}

func TestApplySchedule(t *testing.T) {
	compliant := compliance.Classify("cp12", "passed")
	remedial := compliance.Classify("cp12", "not to current standards")
	generic := compliance.Classify("Asbestos Survey", "")

	tests := []struct {
		name   string
		result compliance.Result
		due    *time.Time
		status compliance.Status
	}{
		{"no due date", compliant, nil, compliance.StatusCompliant},
		{"far future", compliant, days(90), compliance.StatusCompliant},
		{"window edge", compliant, days(30), compliance.StatusScheduled},
		{"window start", compliant, days(0), compliance.StatusScheduled},
		{"remedial inside window stands", remedial, days(5), compliance.StatusRemedialActionPending},
		{"generic inside window stands", generic, days(5), compliance.StatusUnderReview},
		{"past expires compliant", compliant, days(-1), compliance.StatusExpired},
		{"past expires remedial", remedial, days(-400), compliance.StatusExpired},
		{"past expires generic", generic, days(-1), compliance.StatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := compliance.ApplySchedule(tt.result, tt.due, now)
			assert.Equal(t, tt.status, r.Status)
			if tt.status == compliance.StatusExpired {
				assert.Equal(t, compliance.PriorityHigh, r.Priority)
			}
		})
	}
}

func TestApplyScheduleDoesNotMutateInput(t *testing.T) {
	in := compliance.Classify("cp12", "passed")
	before := in.Clone()

	_ = compliance.ApplySchedule(in, days(-3), now)

	assert.Equal(t, before, in)
}

func TestApplyScheduleIdempotent(t *testing.T) {
	req := compliance.Request{DocumentType: "eicr", Text: "No C1", NextDueDate: days(12)}

	assert.Equal(t, compliance.Analyze(req, now), compliance.Analyze(req, now))

	once := compliance.ApplySchedule(compliance.Classify("cp12", "safe"), days(-2), now)
	twice := compliance.ApplySchedule(once, days(-2), now)
	assert.Equal(t, once, twice)
}

func TestApplyScheduleAdvancingNow(t *testing.T) {
	rank := map[compliance.Status]int{
		compliance.StatusCompliant: 0,
		compliance.StatusScheduled: 1,
		compliance.StatusExpired:   2,
	}

	req := compliance.Request{DocumentType: "cp12", Text: "passed", NextDueDate: days(45)}

	prev := -1
	for step := 0; step <= 60; step += 5 {
		r := compliance.Analyze(req, now.AddDate(0, 0, step))
		got, ok := rank[r.Status]
		require.True(t, ok, "unexpected status %s", r.Status)
		assert.GreaterOrEqual(t, got, prev, "day %d", step)
		prev = got
	}
	assert.Equal(t, 2, prev)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want *time.Time
	}{
		{"2026-03-14", ptr(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))},
		{"14/03/2026", ptr(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))},
		{"14 March 2026", ptr(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))},
		{"", nil},
		{"next spring", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, compliance.ParseDate(tt.in))
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
