package svgige

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorMessageKnownCodes(t *testing.T) {
	tests := []struct {
		code Status
		want string
	}{
		{StatusConnectFailed, "connection to camera could not be established"},
		{StatusTimeout, "camera did not respond within the heartbeat timeout"},
		{StatusConnectionLost, "connection to camera lost"},
		{StatusPixelDepth, "requested pixel depth not supported"},
	}
	for _, tt := range tests {
		if got := ErrorMessage(tt.code); got != tt.want {
			t.Errorf("ErrorMessage(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestErrorMessageUnknownCode(t *testing.T) {
	if got := ErrorMessage(Status(9999)); got != "unknown error" {
		t.Errorf("ErrorMessage(9999) = %q, want fallback", got)
	}
	if got := ErrorMessage(Status(-3)); got != "unknown error" {
		t.Errorf("ErrorMessage(-3) = %q, want fallback", got)
	}
}

func TestStatusErrorFormat(t *testing.T) {
	err := NewStatusError(StatusConnectFailed)
	if err == nil {
		t.Fatal("NewStatusError returned nil for a failure code")
	}

	msg := err.Error()
	if !strings.Contains(msg, "4") {
		t.Errorf("message %q lacks the numeric code", msg)
	}
	if !strings.Contains(msg, "connection to camera could not be established") {
		t.Errorf("message %q lacks the translation", msg)
	}
}

func TestNewStatusErrorSuccessIsNil(t *testing.T) {
	if err := NewStatusError(StatusSuccess); err != nil {
		t.Errorf("NewStatusError(StatusSuccess) = %v, want nil", err)
	}
}

func TestStatusErrorAs(t *testing.T) {
	err := NewStatusError(StatusStreamFailed)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatal("errors.As failed")
	}
	if statusErr.Code != StatusStreamFailed {
		t.Errorf("code = %d, want %d", statusErr.Code, StatusStreamFailed)
	}
}
