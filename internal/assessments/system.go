package assessments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/goldenthread"
)

// System defines the public contract for assessment operations. Every
// operation that changes state does so by appending ledger entries.
type System interface {
	Handler() *Handler

	Analyze(ctx context.Context, cmd AnalyzeCommand) (*Assessment, error)
	AnalyzeBatch(ctx context.Context, cmd BatchCommand) (*BatchResult, error)
	Preview(cmd PreviewCommand) Preview

	Confirm(ctx context.Context, entryID uuid.UUID, cmd ConfirmCommand) (*goldenthread.Entry, error)
	Override(ctx context.Context, entryID uuid.UUID, cmd OverrideCommand) (*goldenthread.Entry, error)

	// Sweep appends an expiry alert for every document whose latest entry
	// has passed its next due date as of asOf.
	Sweep(ctx context.Context, asOf time.Time) (*SweepResult, error)
}
