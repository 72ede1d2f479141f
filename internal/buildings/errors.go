package buildings

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound        = errors.New("building not found")
	ErrDuplicate       = errors.New("a building with this name and address already exists")
	ErrInvalidBuilding = errors.New("invalid building")
)

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidBuilding):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
