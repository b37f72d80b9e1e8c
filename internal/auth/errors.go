package auth

import "errors"

// ErrUnauthorized is returned for missing or invalid credentials.
// It deliberately carries no detail about why verification failed.
var ErrUnauthorized = errors.New("unauthorized")
