package ledger

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound  = errors.New("golden thread entry not found")
	ErrDuplicate = errors.New("golden thread entry already exists")
	// ErrImmutable is raised by the table trigger on UPDATE or DELETE.
	ErrImmutable        = errors.New("golden thread entries cannot be modified or deleted")
	ErrUnknownReference = errors.New("golden thread entry references an unknown building or document")
)

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrImmutable):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownReference):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
