package booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSlotUnavailable means the requested interval is not currently
	// free. Callers are expected to re-query availability and retry with a
	// fresh slot.
	ErrSlotUnavailable = errors.New("requested slot is not available")

	// ErrSlotBeingBooked means another request holds the booking lock for
	// the same doctor and date. It wraps ErrSlotUnavailable so concurrent
	// contenders observe the same taxonomy regardless of whether they lost
	// at the lock or at the reserve. Retryable after a short delay.
	ErrSlotBeingBooked = fmt.Errorf("%w: currently being booked, please retry", ErrSlotUnavailable)

	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrIntegrationUnavailable is returned by every operation of a remote
	// integration variant whose back end is not wired yet.
	ErrIntegrationUnavailable = errors.New("integration unavailable")

	// ErrSyncNotSupported is returned when doctor sync is requested from an
	// adapter that does not implement the capability.
	ErrSyncNotSupported = errors.New("doctor sync not supported by this integration")
)

// ValidationError reports the request fields that failed validation. It is
// surfaced to the caller and never retried.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid booking request: %s", strings.Join(e.Fields, ", "))
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
