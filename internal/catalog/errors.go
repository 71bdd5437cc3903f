package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthenticated is returned when the service answers 401 (no session, or a bad login).
var ErrUnauthenticated = errors.New("unauthenticated")

// StatusError reports an unexpected HTTP status from the catalog service.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d %s", e.Op, e.Code, http.StatusText(e.Code))
}

// Is lets errors.Is(err, ErrUnauthenticated) match a 401 StatusError.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthenticated && e.Code == http.StatusUnauthorized
}

func statusErr(op string, code int) error {
	return &StatusError{Op: op, Code: code}
}

// StatusCode extracts the HTTP status from err, or 0 when err carries none.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
