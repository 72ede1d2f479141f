package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/formatting"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
	"github.com/JaimeStill/steward/pkg/storage"
)

const textContentType = "text/plain; charset=utf-8"

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "documents"),
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
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "OriginalFilename", "DocumentType", "BuildingName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	result, err := repository.QueryPage(ctx, r.db, qb, page, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	if cmd.BuildingID == uuid.Nil {
		return nil, fmt.Errorf("%w: building_id required", ErrInvalidDocument)
	}

	id := uuid.New()
	key := TextKey(id)

	meta := map[string]string{
		"document_id": id.String(),
		"building_id": cmd.BuildingID.String(),
	}
	if err := r.storage.Put(ctx, key, []byte(cmd.Text), textContentType, meta); err != nil {
		return nil, fmt.Errorf("upload extracted text: %w", err)
	}

	q := fmt.Sprintf(`
		WITH d AS (
			INSERT INTO documents(id, building_id, compliance_asset_id, document_type, original_filename, file_path, ocr_source, text_key, text_length, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING *
		)
		SELECT %s FROM d LEFT JOIN public.buildings b ON d.building_id = b.id`,
		projection.Columns(),
	)

	args := []any{
		id,
		cmd.BuildingID,
		cmd.ComplianceAssetID,
		column(strings.TrimSpace(cmd.DocumentType)),
		column(cmd.OriginalFilename),
		column(cmd.FilePath),
		column(cmd.OCRSource),
		key,
		utf8.RuneCountInString(cmd.Text),
		column(cmd.CreatedBy),
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, args, scanDocument)
	})
	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		if repository.IsForeignKey(err) {
			return nil, ErrUnknownBuilding
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"document registered",
		"id", d.ID,
		"building_id", d.BuildingID,
		"type", d.DocumentType,
		"text_size", formatting.FormatBytes(int64(len(cmd.Text)), 1),
	)
	return &d, nil
}

func (r *repo) Discard(ctx context.Context, id uuid.UUID) error {
	key, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (string, error) {
		var key string
		err := tx.QueryRowContext(ctx, `DELETE FROM documents WHERE id = $1 RETURNING text_key`, id).Scan(&key)
		return key, err
	})
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case repository.IsForeignKey(err):
		return ErrReferenced
	case err != nil:
		return fmt.Errorf("discard document: %w", err)
	}

	if err := r.storage.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		r.logger.Warn("discarded document blob delete failed", "id", id, "key", key, "error", err)
	}

	r.logger.Info("document discarded", "id", id)
	return nil
}

func (r *repo) Text(ctx context.Context, id uuid.UUID) (string, error) {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return "", err
	}

	rc, err := r.storage.Download(ctx, doc.TextKey)
	if err != nil {
		return "", fmt.Errorf("download extracted text: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read extracted text: %w", err)
	}
	return string(data), nil
}

// TextKey returns the blob key holding a document's extracted text.
func TextKey(id uuid.UUID) string {
	return fmt.Sprintf("documents/%s/extracted.txt", id)
}

// column drops NUL bytes, which Postgres rejects in TEXT values.
func column(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}
