package client

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrDaemonNotRunning is returned when the daemon is not running
	ErrDaemonNotRunning = errors.New("daemon not running")

	// ErrPermissionDenied is returned when the user does not have permission to perform the requested action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when 404 is returned from the daemon
	ErrNotFound = errors.New("404 not found")
)

// StatusError is a non-2xx daemon response. Body is the error message sent
// by the daemon.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	msg := e.Body
	if s, err := strconv.Unquote(msg); err == nil {
		msg = s
	}
	return fmt.Sprintf("got %d: %s", e.Code, msg)
}
