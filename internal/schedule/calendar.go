package schedule

import (
	"time"

	"github.com/ThevergeOn/reservation-app/internal/errs"
	"github.com/ThevergeOn/reservation-app/internal/model"
	"github.com/ThevergeOn/reservation-app/pkg/clock"
)

// Config holds the calendar constants of the booking domain. Weekdays use
// time.Weekday ordinals (Sunday = 0). MaxReservationsPerDay = 0 disables the
// per-day cap.
type Config struct {
	WorkDays              []int `yaml:"workDays" envconfig:"CALENDAR_WORK_DAYS" default:"1,2,3,4,5"`
	WorkStartHour         int   `yaml:"workStartHour" envconfig:"CALENDAR_WORK_START_HOUR" default:"9"`
	WorkEndHour           int   `yaml:"workEndHour" envconfig:"CALENDAR_WORK_END_HOUR" default:"17"`
	MinDurationHours      int   `yaml:"minDurationHours" envconfig:"CALENDAR_MIN_DURATION_HOURS" default:"1"`
	MaxDurationHours      int   `yaml:"maxDurationHours" envconfig:"CALENDAR_MAX_DURATION_HOURS" default:"8"`
	MaxLatestEndHour      int   `yaml:"maxLatestEndHour" envconfig:"CALENDAR_MAX_LATEST_END_HOUR" default:"17"`
	MaxReservationsPerDay int   `yaml:"maxReservationsPerDay" envconfig:"CALENDAR_MAX_RESERVATIONS_PER_DAY" default:"0"`
	// BackToBackConflicts makes an interval ending exactly when another
	// begins count as a conflict. Off by default: half-open semantics.
	BackToBackConflicts bool `yaml:"backToBackConflicts" envconfig:"CALENDAR_BACK_TO_BACK_CONFLICTS" default:"false"`
}

// Calendar evaluates business-hour constraints for candidate intervals.
// Pure: no reservation state, no mutation.
type Calendar struct {
	workDays         map[time.Weekday]struct{}
	workStartHour    int
	workEndHour      int
	minDurationHours int
	maxDurationHours int
	maxLatestEndHour int
	clk              clock.Clock
}

func NewCalendar(cfg Config, clk clock.Clock) *Calendar {
	workDays := make(map[time.Weekday]struct{}, len(cfg.WorkDays))
	for _, d := range cfg.WorkDays {
		workDays[time.Weekday(d)] = struct{}{}
	}
	return &Calendar{
		workDays:         workDays,
		workStartHour:    cfg.WorkStartHour,
		workEndHour:      cfg.WorkEndHour,
		minDurationHours: cfg.MinDurationHours,
		maxDurationHours: cfg.MaxDurationHours,
		maxLatestEndHour: cfg.MaxLatestEndHour,
		clk:              clk,
	}
}

// Evaluate runs the checks in a fixed order, first failure wins. It returns
// nil, a *errs.ValidationError, or errs.ErrInvalidInterval for a malformed
// candidate.
func (c *Calendar) Evaluate(candidate model.Interval) error {
	if !candidate.End.After(candidate.Start) {
		return errs.ErrInvalidInterval
	}
	if candidate.Start.Before(c.clk.Now()) {
		return &errs.ValidationError{Reason: errs.ReasonPastStart}
	}
	if _, ok := c.workDays[candidate.Start.Weekday()]; !ok {
		return &errs.ValidationError{Reason: errs.ReasonNonWorkday}
	}
	if candidate.Start.Hour() < c.workStartHour ||
		candidate.Start.Hour() >= c.workEndHour ||
		!endsByHour(candidate.End, c.workEndHour) {
		return &errs.ValidationError{Reason: errs.ReasonOutsideBusinessHours}
	}
	d := candidate.End.Sub(candidate.Start)
	if d%time.Hour != 0 {
		return &errs.ValidationError{Reason: errs.ReasonDurationOutOfBounds}
	}
	if hours := int(d / time.Hour); hours < c.minDurationHours || hours > c.maxDurationHours {
		return &errs.ValidationError{Reason: errs.ReasonDurationOutOfBounds}
	}
	if !endsByHour(candidate.End, c.maxLatestEndHour) {
		return &errs.ValidationError{Reason: errs.ReasonExceedsLatestEnd}
	}
	return nil
}

// endsByHour reports whether end lands before the cap hour; an end at
// exactly cap:00 is allowed (inclusive on the close side only).
func endsByHour(end time.Time, capHour int) bool {
	if end.Hour() < capHour {
		return true
	}
	return end.Hour() == capHour &&
		end.Minute() == 0 && end.Second() == 0 && end.Nanosecond() == 0
}
