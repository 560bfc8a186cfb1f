// Package location abstracts the platform that delivers position readings.
package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/skypark/internal/models"
)

// Source delivers position readings once permission has been granted.
//
// Subscribe starts delivery and returns a cancel function. Calling cancel stops
// delivery; it is safe to call more than once and no callback runs after it returns.
// Acquisition failures are passed to onError as *UnavailableError and never stop
// the subscription on their own.
type Source interface {
	RequestPermission(ctx context.Context) error
	Subscribe(ctx context.Context, onUpdate func(models.Reading), onError func(error)) (context.CancelFunc, error)
}

// ErrLocationUnavailable matches every *UnavailableError via errors.Is.
var ErrLocationUnavailable = errors.New("location unavailable")

// Reason classifies why a position could not be acquired.
type Reason string

const (
	ReasonUnsupported         Reason = "unsupported"
	ReasonPermissionDenied    Reason = "permission_denied"
	ReasonTimeout             Reason = "timeout"
	ReasonPositionUnavailable Reason = "position_unavailable"
)

// ParseReason returns the Reason named by s. Only the reasons declared above are accepted.
func ParseReason(s string) (Reason, bool) {
	switch reason := Reason(s); reason {
	case ReasonUnsupported, ReasonPermissionDenied, ReasonTimeout, ReasonPositionUnavailable:
		return reason, true
	default:
		return "", false
	}
}

// UnavailableError is a recoverable acquisition failure.
type UnavailableError struct {
	Reason Reason
	Err    error
}

// NewUnavailableError wraps err with the given reason.
func NewUnavailableError(reason Reason, err error) *UnavailableError {
	return &UnavailableError{Reason: reason, Err: err}
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrLocationUnavailable, e.Reason)
	}

	return fmt.Sprintf("%s: %s: %v", ErrLocationUnavailable, e.Reason, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is reports true for ErrLocationUnavailable.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrLocationUnavailable
}

// ReasonOf extracts the reason from err, or "" when err is not an acquisition failure.
func ReasonOf(err error) Reason {
	var unavailable *UnavailableError
	if errors.As(err, &unavailable) {
		return unavailable.Reason
	}

	return ""
}
