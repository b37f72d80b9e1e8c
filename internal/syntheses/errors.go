package syntheses

import (
	"errors"
	"net/http"
)

// Domain errors for synthesis operations.
var (
	ErrNotFound             = errors.New("synthesis not found")
	ErrDuplicate            = errors.New("synthesis already exists")
	ErrDealNotFound         = errors.New("deal not found")
	ErrNoCompletedWorkflows = errors.New("no completed workflows for deal")
)

// MapHTTPStatus maps synthesis domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDealNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrNoCompletedWorkflows) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
