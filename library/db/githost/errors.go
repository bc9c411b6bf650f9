package githost

import (
	"fmt"

	"github.com/Laisky/errors/v2"
)

var (
	// ErrNotFound the document does not exist at the requested path
	ErrNotFound = errors.New("document not found")
	// ErrConflict the supplied version token is stale, a concurrent writer
	// updated the path between this client's read and write
	ErrConflict = errors.New("version conflict")
	// ErrAuthentication the bearer credential was rejected by the store
	ErrAuthentication = errors.New("invalid credentials")
	// ErrMalformedDocument the content could not be decoded into the
	// expected shape
	ErrMalformedDocument = errors.New("malformed document")
)

// RepositoryError any other non-success response from the store.
type RepositoryError struct {
	StatusCode int
	Message    string
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository error [%d] %s", e.StatusCode, e.Message)
}

// TransportError network failure before any response was received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
