package errs

import (
	"errors"
	"fmt"
)

// ValidationReason names the business rule a candidate interval violates.
type ValidationReason string

const (
	ReasonPastStart            ValidationReason = "PastStart"
	ReasonNonWorkday           ValidationReason = "NonWorkday"
	ReasonOutsideBusinessHours ValidationReason = "OutsideBusinessHours"
	ReasonDurationOutOfBounds  ValidationReason = "DurationOutOfBounds"
	ReasonExceedsLatestEnd     ValidationReason = "ExceedsLatestEnd"
)

// ValidationError reports a structurally sound candidate that violates the
// business calendar. Never retried automatically.
type ValidationError struct {
	Reason ValidationReason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("reservation is not valid: %s", e.Reason)
}

// ConflictError reports a collision with existing state: either an
// overlapping reservation or the per-day cap.
type ConflictError struct {
	ConflictingID   string
	DailyCapReached bool
}

func (e *ConflictError) Error() string {
	if e.DailyCapReached {
		return "daily reservation cap reached"
	}
	if e.ConflictingID == "" {
		return "reservation conflicts with an existing reservation"
	}
	return fmt.Sprintf("reservation conflicts with %s", e.ConflictingID)
}

var (
	ErrNotFound = errors.New("reservation not found")
	// ErrInvalidInterval marks a malformed candidate (end not after start);
	// a caller bug, not a business validation failure.
	ErrInvalidInterval = errors.New("end time must be after start time")
	// ErrUnavailable wraps storage failures; guaranteed to be raised only
	// when no partial mutation has happened.
	ErrUnavailable = errors.New("storage unavailable")
)
