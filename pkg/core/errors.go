package core

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

var (
	// ErrNoAdapter is returned when no hardware adapter has been registered,
	// or the registered one cannot fetch telemetry.
	ErrNoAdapter = errors.New("no battery adapter registered")
	// ErrInvalidInput is returned for out-of-range request values. Nothing is
	// changed when it is returned.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyRegistered is returned by a second Register call.
	ErrAlreadyRegistered = errors.New("only one battery adapter can be registered")
	// ErrNoHandler is returned when the adapter lacks the hook an operation needs.
	ErrNoHandler = errors.New("adapter does not support this operation")
	// ErrHardwareRejected matches every *HardwareRejectedError.
	ErrHardwareRejected = errors.New("hardware rejected the request")
)

// HardwareRejectedError reports a failed adapter call. Code is the hardware
// status code when the adapter supplied one, -1 otherwise.
type HardwareRejectedError struct {
	Op   string
	Code int
	Err  error
}

func (e *HardwareRejectedError) Error() string {
	return fmt.Sprintf("%s failed (code %d): %v", e.Op, e.Code, e.Err)
}

func (e *HardwareRejectedError) Unwrap() error { return e.Err }

func (e *HardwareRejectedError) Is(target error) bool { return target == ErrHardwareRejected }

func rejected(op string, err error) error {
	return &HardwareRejectedError{Op: op, Code: statusCode(err), Err: err}
}

// statusCode extracts a hardware status code from err.
func statusCode(err error) int {
	var coder interface{ StatusCode() int }
	if errors.As(err, &coder) {
		return coder.StatusCode()
	}
	return -1
}

func invalidInput(format string, args ...any) error {
	return pkgerrors.Wrapf(ErrInvalidInput, format, args...)
}
