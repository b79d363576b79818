package schedule

import (
	"time"

	"github.com/ThevergeOn/reservation-app/internal/errs"
	"github.com/ThevergeOn/reservation-app/internal/model"
)

// Detector applies the overlap rule and the per-day cap against the live
// reservation set. Pure: callers are responsible for running it inside the
// store's critical section.
type Detector struct {
	maxPerDay           int
	backToBackConflicts bool
}

func NewDetector(cfg Config) *Detector {
	return &Detector{
		maxPerDay:           cfg.MaxReservationsPerDay,
		backToBackConflicts: cfg.BackToBackConflicts,
	}
}

// Detect reports the first reservation overlapping the candidate, or the
// daily cap once no overlap is found. excludeID lets update validation skip
// the reservation being modified.
func (d *Detector) Detect(candidate model.Interval, existing []model.Reservation, excludeID string) *errs.ConflictError {
	sameDay := 0
	for _, r := range existing {
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		if d.overlaps(candidate, r.Interval()) {
			return &errs.ConflictError{ConflictingID: r.ID}
		}
		if sameCivilDay(r.StartTime, candidate.Start) {
			sameDay++
		}
	}
	if d.maxPerDay > 0 && sameDay >= d.maxPerDay {
		return &errs.ConflictError{DailyCapReached: true}
	}
	return nil
}

func (d *Detector) overlaps(a, b model.Interval) bool {
	if d.backToBackConflicts {
		return !a.Start.After(b.End) && !b.Start.After(a.End)
	}
	return a.Overlaps(b)
}

func sameCivilDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
