package cli

import (
	"errors"
	"fmt"
	"net/http"

	"vgdb-cli/internal/catalog"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// authRequiredError is returned when the service rejects the saved session.
type authRequiredError struct {
	server string
	err    error
}

func (e authRequiredError) Error() string {
	return fmt.Sprintf("not logged in to %s; run `vgdb login`", e.server)
}

func (e authRequiredError) Unwrap() error { return e.err }

var errBadCredentials = errors.New("login failed: invalid email or password")

// describeErr turns catalog errors into messages a shell user can act on.
func describeErr(sess *session, err error, kind, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalog.ErrUnauthenticated):
		return authRequiredError{server: sess.server, err: err}
	case id != "" && catalog.StatusCode(err) == http.StatusNotFound:
		return errNotFound(kind, id)
	default:
		return err
	}
}
