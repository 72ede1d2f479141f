package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/compliance"
	"github.com/JaimeStill/steward/goldenthread"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a ledger repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "ledger"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Append(ctx context.Context, e goldenthread.Entry) (*goldenthread.Entry, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	q := fmt.Sprintf(`
		WITH e AS (
			INSERT INTO golden_thread_entries(%s)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
				$19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35)
			RETURNING *
		)
		SELECT %s FROM e`,
		insertColumns,
		projection.Columns(),
	)

	stored, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (goldenthread.Entry, error) {
		if err := repository.AdvisoryLock(ctx, tx, chainKey(e.BuildingID)); err != nil {
			return goldenthread.Entry{}, fmt.Errorf("lock chain: %w", err)
		}

		var prev string
		err := tx.QueryRowContext(ctx, `
			SELECT chain_hash FROM golden_thread_entries
			WHERE building_id = $1
			ORDER BY seq DESC
			LIMIT 1`,
			e.BuildingID,
		).Scan(&prev)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return goldenthread.Entry{}, fmt.Errorf("read chain head: %w", err)
		}

		link(&e, prev)

		args, err := insertArgs(e)
		if err != nil {
			return goldenthread.Entry{}, err
		}
		return repository.QueryOne(ctx, tx, q, args, scanEntry)
	})
	if err != nil {
		return nil, mapError(err)
	}

	r.logger.Info(
		"golden thread entry appended",
		"id", stored.ID,
		"building_id", stored.BuildingID,
		"document_id", stored.DocumentID,
		"action", stored.ActionType,
		"status", stored.ComplianceStatus,
		"seq", stored.Sequence,
	)
	return &stored, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[goldenthread.Entry], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, newestFirst).
		WhereSearch(page.Search, "OriginalFilename", "DocumentType", "CertificateNumber", "CreatedBy")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	result, err := repository.QueryPage(ctx, r.db, qb, page, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("list golden thread entries: %w", err)
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*goldenthread.Entry, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	e, err := repository.QueryOne(ctx, r.db, q, args, scanEntry)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) History(ctx context.Context, documentID uuid.UUID) ([]goldenthread.Entry, error) {
	q, args := query.
		NewBuilder(projection, oldestFirst).
		WhereEquals("DocumentID", documentID).
		Build()

	entries, err := repository.QueryMany(ctx, r.db, q, args, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query document history: %w", err)
	}
	return entries, nil
}

func (r *repo) Latest(ctx context.Context, documentID uuid.UUID) (*goldenthread.Entry, error) {
	q, args := query.
		NewBuilder(projection, newestFirst).
		WhereEquals("DocumentID", documentID).
		BuildSingleOrNull()

	e, err := repository.QueryOne(ctx, r.db, q, args, scanEntry)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) Due(ctx context.Context, before time.Time) ([]goldenthread.Entry, error) {
	q, args := query.
		NewBuilder(projection, oldestFirst).
		WhereBefore("NextDueDate", before).
		WhereNot("ComplianceStatus", string(compliance.StatusExpired)).
		Build()

	// Only the head entry of each document is considered.
	q = fmt.Sprintf(`
		WITH heads AS (
			SELECT MAX(seq) AS seq FROM golden_thread_entries GROUP BY document_id
		)
		SELECT * FROM (%s) due
		WHERE due.seq IN (SELECT seq FROM heads)`,
		q,
	)

	entries, err := repository.QueryMany(ctx, r.db, q, args, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query due entries: %w", err)
	}
	return entries, nil
}

func (r *repo) Verify(ctx context.Context, buildingID uuid.UUID) (*Verification, error) {
	q, args := query.
		NewBuilder(projection, oldestFirst).
		WhereEquals("BuildingID", buildingID).
		Build()

	entries, err := repository.QueryMany(ctx, r.db, q, args, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query building chain: %w", err)
	}

	v := VerifyChain(buildingID, entries)
	if !v.Valid {
		r.logger.Warn(
			"golden thread chain broken",
			"building_id", buildingID,
			"entry_id", v.BrokenAt,
			"reason", v.Reason,
		)
	}
	return &v, nil
}

func chainKey(buildingID uuid.UUID) string {
	return "golden_thread:" + buildingID.String()
}

func mapError(err error) error {
	switch {
	case repository.IsRestricted(err):
		return ErrImmutable
	case repository.IsForeignKey(err):
		return ErrUnknownReference
	default:
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
}
