package buildings

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a building repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "buildings"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Building], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Address")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	result, err := repository.QueryPage(ctx, r.db, qb, page, scanBuilding)
	if err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Building, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	b, err := repository.QueryOne(ctx, r.db, q, args, scanBuilding)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &b, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Building, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidBuilding)
	}

	q := `
		INSERT INTO buildings(id, name, address, total_floors, building_type, is_hrb)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, address, total_floors, building_type, is_hrb, created_at, updated_at`

	args := []any{
		uuid.New(),
		name,
		strings.TrimSpace(cmd.Address),
		strings.TrimSpace(string(cmd.TotalFloors)),
		strings.TrimSpace(cmd.BuildingType),
		cmd.HRB,
	}

	b, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Building, error) {
		return repository.QueryOne(ctx, tx, q, args, scanBuilding)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("building created", "id", b.ID, "name", b.Name, "hrb", b.IsHRB())
	return &b, nil
}

func (r *repo) HRB(ctx context.Context, id uuid.UUID) (*HRBStatus, error) {
	b, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	status := NewHRBStatus(b)
	return &status, nil
}
