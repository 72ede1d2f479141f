package buildings

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
)

// System defines the public contract for building domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Building], error)

	Find(ctx context.Context, id uuid.UUID) (*Building, error)
	Create(ctx context.Context, cmd CreateCommand) (*Building, error)
	HRB(ctx context.Context, id uuid.UUID) (*HRBStatus, error)
}
