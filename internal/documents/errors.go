package documents

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrDuplicate       = errors.New("document already exists")
	ErrUnknownBuilding = errors.New("document references an unknown building")
	ErrInvalidDocument = errors.New("invalid document")
	ErrReferenced      = errors.New("document is referenced by the golden thread")
)

// MapHTTPStatus translates a documents error into a response status.
// Unrecognised errors are 500.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrReferenced):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownBuilding):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidDocument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
