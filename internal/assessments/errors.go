package assessments

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/steward/goldenthread"
	"github.com/JaimeStill/steward/internal/documents"
	"github.com/JaimeStill/steward/internal/ledger"
)

// Domain errors for assessment operations.
var (
	ErrInvalidCommand  = errors.New("invalid assessment request")
	ErrUnknownBuilding = errors.New("building not found")
	ErrBatchTooLarge   = errors.New("batch exceeds the maximum number of items")
	ErrSuperseded      = errors.New("entry has been superseded by a later entry")
)

// MapHTTPStatus maps assessment errors, and the domain errors they wrap, to
// HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidCommand),
		errors.Is(err, goldenthread.ErrMissingBuilding),
		errors.Is(err, goldenthread.ErrMissingDocument),
		errors.Is(err, goldenthread.ErrInvalidAction),
		errors.Is(err, goldenthread.ErrOverrideAction),
		errors.Is(err, documents.ErrInvalidDocument):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnknownBuilding), errors.Is(err, documents.ErrUnknownBuilding):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrBatchTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrSuperseded):
		return http.StatusConflict
	}
	return ledger.MapHTTPStatus(err)
}
