package camera

import (
	"errors"
	"fmt"

	"github.com/gigevision/camnode/pkg/svgige"
)

// Error is a camera domain error.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code so sentinel values compare against wrapped
// instances carrying extra context.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Error codes
const (
	ErrCodeConnection    = "CONNECTION_FAILED"
	ErrCodeProtocol      = "DEVICE_PROTOCOL"
	ErrCodeAllocation    = "ALLOCATION_FAILED"
	ErrCodeQueueEmpty    = "QUEUE_EMPTY"
	ErrCodeDeviceLost    = "DEVICE_LOST"
	ErrCodeSessionClosed = "SESSION_CLOSED"
	ErrCodeAlreadyOpen   = "ALREADY_OPEN"
	ErrCodeNotFound      = "CAMERA_NOT_FOUND"
)

// Sentinel errors for consumer-side dispatch with errors.Is.
var (
	// ErrQueueEmpty reports that no frame is queued right now; the
	// session is healthy and polling again is reasonable.
	ErrQueueEmpty = &Error{Code: ErrCodeQueueEmpty, Message: "no frame queued"}

	// ErrDeviceLost reports that the device heartbeat was lost after
	// setup. The session is dead and must be closed by the caller.
	ErrDeviceLost = &Error{Code: ErrCodeDeviceLost, Message: "camera heartbeat lost"}

	// ErrSessionClosed reports use of a session after Close.
	ErrSessionClosed = &Error{Code: ErrCodeSessionClosed, Message: "session closed"}
)

// NewError creates a new camera error.
func NewError(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// connectionError wraps a failed connect attempt.
func connectionError(device string, cause error) *Error {
	return NewError(ErrCodeConnection, fmt.Sprintf("unable to connect to camera %s", device), cause)
}

// protocolError wraps a non-success driver status during parameter query or
// stream setup. The numeric code and translated text travel in the cause
// (svgige.StatusError formats both).
func protocolError(op string, cause error) *Error {
	return NewError(ErrCodeProtocol, op, cause)
}

// StatusCode extracts the numeric driver status code from an error chain.
// The second return is false when no driver status is attached.
func StatusCode(err error) (svgige.Status, bool) {
	var st *svgige.StatusError
	if errors.As(err, &st) {
		return st.Code, true
	}
	return svgige.StatusSuccess, false
}
