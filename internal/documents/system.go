package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
)

// System registers documents and serves their extracted text. Once a Golden
// Thread entry references a document it can no longer be removed.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	// Text downloads the extracted text blob.
	Text(ctx context.Context, id uuid.UUID) (string, error)
	// Discard removes a document that no entry references, with its text
	// blob. It undoes a Create whose ledger append failed and has no route.
	Discard(ctx context.Context, id uuid.UUID) error
}
