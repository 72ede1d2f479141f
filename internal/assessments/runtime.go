package assessments

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/JaimeStill/steward/internal/buildings"
	"github.com/JaimeStill/steward/internal/documents"
	"github.com/JaimeStill/steward/internal/ledger"
	"github.com/JaimeStill/steward/pkg/notify"
)

// Notification subjects, relative to the configured prefix.
const (
	SubjectReminder = "reminder.scheduled"
	SubjectAdvisory = "advisory.regulator"
)

// Runtime bundles the systems an assessment touches.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
type Runtime struct {
	Buildings buildings.System
	Documents documents.System
	Ledger    ledger.System
	Notify    notify.System
	Tracer    trace.Tracer
	Logger    *slog.Logger
}
