package cms

import (
	"errors"
	"fmt"
)

// RemoteError is returned when the backend answers with a non-2xx status.
type RemoteError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("cms: %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// IsRemoteError reports whether err carries a backend status, returning it.
func IsRemoteError(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
