package notifier

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/kursadbilgin/logurl/internal/domain"
)

// Stage sentinels, matched with errors.Is against a *NotifyError.
var (
	ErrResolution = errors.New("resolution error")
	ErrConnect    = errors.New("connect error")
	ErrSend       = errors.New("send error")
	ErrReceive    = errors.New("receive error")
	ErrMissingURI = errors.New("missing uri")
)

// NotifyError records which dispatch stage failed and why.
type NotifyError struct {
	Stage   error
	Message string
	Cause   error
}

func (e *NotifyError) Error() string {
	if e == nil {
		return "<nil>"
	}

	parts := make([]string, 0, 3)
	if e.Stage != nil {
		parts = append(parts, e.Stage.Error())
	} else {
		parts = append(parts, "notify error")
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		parts = append(parts, msg)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *NotifyError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches the stage sentinel so callers need not unwrap the cause chain.
func (e *NotifyError) Is(target error) bool {
	if e == nil || e.Stage == nil {
		return false
	}
	return target == e.Stage
}

func newNotifyError(stage error, cause error, format string, args ...any) *NotifyError {
	return &NotifyError{
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsTimeout reports whether err was caused by an expired deadline.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

// ReasonFor maps a dispatch error to the outcome reason it produces.
func ReasonFor(err error) domain.Reason {
	switch {
	case err == nil:
		return domain.ReasonNone
	case errors.Is(err, ErrMissingURI):
		return domain.ReasonMissingURI
	case errors.Is(err, ErrResolution):
		return domain.ReasonResolution
	case errors.Is(err, ErrConnect):
		return domain.ReasonConnect
	case errors.Is(err, ErrSend):
		return domain.ReasonSend
	case errors.Is(err, ErrReceive):
		return domain.ReasonReceive
	}
	return domain.ReasonNone
}
