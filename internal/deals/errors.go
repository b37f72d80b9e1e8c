package deals

import (
	"errors"
	"net/http"
)

// Domain errors for deal operations.
var (
	ErrNotFound          = errors.New("deal not found")
	ErrDuplicate         = errors.New("deal already exists")
	ErrInvalidDeal       = errors.New("invalid deal")
	ErrNoDocuments       = errors.New("no documents uploaded for deal")
	ErrInvalidTransition = errors.New("invalid deal status transition")
)

// MapHTTPStatus maps deal domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrInvalidTransition) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidDeal) || errors.Is(err, ErrNoDocuments) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
