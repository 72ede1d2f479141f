package assessments

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/compliance"
	"github.com/JaimeStill/steward/pkg/handlers"
	"github.com/JaimeStill/steward/pkg/routes"
)

// Handler provides HTTP endpoints for assessment operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "assessments"),
	}
}

// Routes returns the route group definition for assessment endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/assessments",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Analyze, Summary: "Classify a document and append it to the golden thread"},
			{Method: "POST", Pattern: "/batch", Handler: h.AnalyzeBatch, Summary: "Classify a batch of documents"},
			{Method: "POST", Pattern: "/preview", Handler: h.Preview, Summary: "Classify without persisting"},
			{Method: "POST", Pattern: "/sweep", Handler: h.Sweep, Summary: "Record expiry alerts for lapsed certificates"},
			{Method: "POST", Pattern: "/{id}/confirm", Handler: h.Confirm, Summary: "Confirm an entry's classification"},
			{Method: "POST", Pattern: "/{id}/override", Handler: h.Override, Summary: "Override an entry's compliance status"},
		},
	}
}

// Analyze classifies one document and records it in the ledger.
// Returns 201 with the assessment.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[AnalyzeCommand](r)
	if err != nil {
		h.rejectBody(w, err)
		return
	}

	a, err := h.sys.Analyze(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, a)
}

// AnalyzeBatch analyzes several documents. Per-item failures are reported in
// the body; the response is 200 unless the batch itself is rejected.
func (h *Handler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[BatchCommand](r)
	if err != nil {
		h.rejectBody(w, err)
		return
	}

	result, err := h.sys.AnalyzeBatch(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[PreviewCommand](r)
	if err != nil {
		h.rejectBody(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, h.sys.Preview(cmd))
}

// Confirm appends a status_change entry confirming the entry's classification.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidCommand)
		return
	}

	cmd, err := handlers.DecodeJSON[ConfirmCommand](r)
	if err != nil {
		h.rejectBody(w, err)
		return
	}

	entry, err := h.sys.Confirm(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, entry)
}

// Override appends a manual_override entry correcting the entry's status.
func (h *Handler) Override(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidCommand)
		return
	}

	cmd, err := handlers.DecodeJSON[OverrideCommand](r)
	if err != nil {
		h.rejectBody(w, err)
		return
	}

	entry, err := h.sys.Override(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, entry)
}

// Sweep runs the expiry sweep. The optional as_of query parameter sets the
// evaluation date; it defaults to now.
func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now()
	if v := r.URL.Query().Get("as_of"); v != "" {
		t := compliance.ParseDate(v)
		if t == nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: as_of %q", ErrInvalidCommand, v))
			return
		}
		asOf = *t
	}

	result, err := h.sys.Sweep(r.Context(), asOf)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) rejectBody(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
		return
	}
	handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidCommand, err))
}
