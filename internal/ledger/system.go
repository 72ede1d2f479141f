package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/goldenthread"
	"github.com/JaimeStill/steward/pkg/pagination"
)

// System defines the public contract for the Golden Thread ledger.
// The ledger is append-only: there are no update or delete operations.
type System interface {
	Handler() *Handler

	// Append links e to its building's chain and persists it. The stored
	// entry, with hashes and sequence assigned, is returned.
	Append(ctx context.Context, e goldenthread.Entry) (*goldenthread.Entry, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[goldenthread.Entry], error)

	Find(ctx context.Context, id uuid.UUID) (*goldenthread.Entry, error)

	// History returns every entry recorded for a document, oldest first.
	History(ctx context.Context, documentID uuid.UUID) ([]goldenthread.Entry, error)

	// Latest returns the most recent entry recorded for a document.
	Latest(ctx context.Context, documentID uuid.UUID) (*goldenthread.Entry, error)

	// Due returns the latest entry of each document whose next due date is
	// before the given time and which is not already expired.
	Due(ctx context.Context, before time.Time) ([]goldenthread.Entry, error)

	Verify(ctx context.Context, buildingID uuid.UUID) (*Verification, error)
}
