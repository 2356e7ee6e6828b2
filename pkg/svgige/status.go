package svgige

import (
	"fmt"
	"sync"
)

// Status is a numeric SDK status code returned by driver operations.
type Status int32

// Status codes shared by all driver implementations.
const (
	StatusSuccess        Status = 0
	StatusGeneralError   Status = 1
	StatusNotImplemented Status = 2
	StatusCameraNotFound Status = 3
	StatusConnectFailed  Status = 4
	StatusReadRegister   Status = 5
	StatusWriteRegister  Status = 6
	StatusStreamFailed   Status = 7
	StatusOutOfMemory    Status = 8
	StatusTimeout        Status = 9
	StatusConnectionLost Status = 10
	StatusInvalidArgs    Status = 11
	StatusPixelDepth     Status = 12
)

// defaultMessages is the built-in message table. RegisterMessages lets an SDK
// binding install its own table once at startup; it owns no per-device
// resources and needs no teardown.
var defaultMessages = map[Status]string{
	StatusGeneralError:   "general error",
	StatusNotImplemented: "function not implemented by driver",
	StatusCameraNotFound: "no camera detected at the given address",
	StatusConnectFailed:  "connection to camera could not be established",
	StatusReadRegister:   "camera register could not be read",
	StatusWriteRegister:  "camera register could not be written",
	StatusStreamFailed:   "streaming channel could not be established",
	StatusOutOfMemory:    "driver buffer allocation failed",
	StatusTimeout:        "camera did not respond within the heartbeat timeout",
	StatusConnectionLost: "connection to camera lost",
	StatusInvalidArgs:    "invalid argument passed to driver",
	StatusPixelDepth:     "requested pixel depth not supported",
}

var (
	messagesOnce sync.Once
	messages     map[Status]string
)

// RegisterMessages installs a driver-supplied message table. Only the first
// call takes effect; later calls and calls after the first lookup are no-ops.
func RegisterMessages(table map[Status]string) {
	messagesOnce.Do(func() {
		messages = make(map[Status]string, len(table))
		for code, msg := range table {
			messages[code] = msg
		}
	})
}

// ErrorMessage translates a status code to a human-readable description.
// Unrecognized codes yield a generic fallback; the lookup never fails.
func ErrorMessage(code Status) string {
	messagesOnce.Do(func() {
		messages = defaultMessages
	})
	if msg, ok := messages[code]; ok {
		return msg
	}
	return "unknown error"
}

// StatusError is a driver failure carrying the SDK status code.
type StatusError struct {
	Code Status
}

// Error formats the code together with its translated message so the numeric
// code is never lost.
func (e *StatusError) Error() string {
	return fmt.Sprintf("svgige error %d: %s", e.Code, ErrorMessage(e.Code))
}

// NewStatusError wraps a status code as an error. StatusSuccess yields nil.
func NewStatusError(code Status) error {
	if code == StatusSuccess {
		return nil
	}
	return &StatusError{Code: code}
}
