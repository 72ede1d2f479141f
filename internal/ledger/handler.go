package ledger

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/handlers"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/routes"
)

var errInvalidRequest = errors.New("invalid ledger request")

// Handler provides read and verification endpoints over the Golden Thread
// ledger. Entries are written by assessments only.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "ledger"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for ledger endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/ledger",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, Summary: "List golden thread entries"},
			{Method: "POST", Pattern: "/search", Handler: h.Search, Summary: "Search golden thread entries"},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, Summary: "Find a golden thread entry"},
			{Method: "GET", Pattern: "/document/{id}", Handler: h.History, Summary: "List a document's revisions"},
			{Method: "GET", Pattern: "/document/{id}/latest", Handler: h.Latest, Summary: "Find a document's current entry"},
			{Method: "GET", Pattern: "/building/{id}/verify", Handler: h.Verify, Summary: "Verify a building's hash chain"},
		},
	}
}

// List returns a paginated list of entries, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search accepts a JSON body with pagination and filter criteria.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	entry, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entry)
}

// History returns every entry for a document, oldest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	entries, err := h.sys.History(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entries)
}

func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	entry, err := h.sys.Latest(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entry)
}

// Verify recomputes the hash chain of a building. A broken chain is still a
// 200 response; the body reports where it breaks.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	v, err := h.sys.Verify(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, v)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return uuid.Nil, false
	}
	return id, true
}
