package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoToken      = errors.New("not logged in")
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Detail string
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Detail)
}
