package workflows

import (
	"errors"
	"net/http"
)

// Domain errors for workflow operations.
var (
	ErrNotFound     = errors.New("workflow not found")
	ErrDuplicate    = errors.New("workflow already exists")
	ErrNotPending   = errors.New("workflow is not pending")
	ErrUnknownSkill = errors.New("no skill registered for workflow type")
)

// MapHTTPStatus maps workflow domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrNotPending) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
