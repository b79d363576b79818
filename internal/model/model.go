package model

import (
	"time"
)

// Reservation occupies the half-open interval [StartTime, EndTime) on the
// calendar. The id is assigned by the store on creation and never changes.
type Reservation struct {
	ID        string    `json:"id" db:"reservation_uid"`
	Name      string    `json:"name" db:"name"`
	StartTime time.Time `json:"startTime" db:"start_time"`
	EndTime   time.Time `json:"endTime" db:"end_time"`
}

func (r Reservation) Interval() Interval {
	return Interval{Start: r.StartTime, End: r.EndTime}
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps applies the half-open rule: [s1,e1) and [s2,e2) overlap iff
// s1 < e2 && s2 < e1. Touching endpoints do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

type CreateReservationRequest struct {
	Name      string    `json:"name" validate:"required"`
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required,gtfield=StartTime"`
}

// UpdateReservationRequest carries a partial update; nil fields keep the
// stored value.
type UpdateReservationRequest struct {
	Name      *string    `json:"name,omitempty"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}
