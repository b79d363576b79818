package schedule_test

import (
	"testing"

	"github.com/ThevergeOn/reservation-app/internal/model"
	"github.com/ThevergeOn/reservation-app/internal/schedule"
	"github.com/stretchr/testify/require"
)

func reservation(id string, day, fromHour, toHour int) model.Reservation {
	return model.Reservation{
		ID:        id,
		Name:      "res-" + id,
		StartTime: at(day, fromHour, 0),
		EndTime:   at(day, toHour, 0),
	}
}

func interval(day, fromHour, toHour int) model.Interval {
	return model.Interval{Start: at(day, fromHour, 0), End: at(day, toHour, 0)}
}

func TestDetector_Detect(t *testing.T) {
	t.Parallel()
	existing := []model.Reservation{reservation("a", 1, 10, 12)}

	tests := []struct {
		name      string
		cfg       schedule.Config
		candidate model.Interval
		existing  []model.Reservation
		excludeID string
		wantID    string
		wantCap   bool
		wantNone  bool
	}{
		{
			name:      "empty set",
			candidate: interval(1, 10, 12),
			wantNone:  true,
		},
		{
			name:      "partial overlap from the right",
			candidate: interval(1, 11, 13),
			existing:  existing,
			wantID:    "a",
		},
		{
			name:      "partial overlap from the left",
			candidate: interval(1, 9, 11),
			existing:  existing,
			wantID:    "a",
		},
		{
			name:      "containment",
			candidate: interval(1, 9, 14),
			existing:  existing,
			wantID:    "a",
		},
		{
			name:      "identical interval",
			candidate: interval(1, 10, 12),
			existing:  existing,
			wantID:    "a",
		},
		{
			name:      "back-to-back after is legal",
			candidate: interval(1, 12, 14),
			existing:  existing,
			wantNone:  true,
		},
		{
			name:      "back-to-back before is legal",
			candidate: interval(1, 9, 10),
			existing:  existing,
			wantNone:  true,
		},
		{
			name:      "back-to-back conflicts when the policy says so",
			cfg:       schedule.Config{BackToBackConflicts: true},
			candidate: interval(1, 12, 14),
			existing:  existing,
			wantID:    "a",
		},
		{
			name:      "exclude the reservation being updated",
			candidate: interval(1, 11, 13),
			existing:  existing,
			excludeID: "a",
			wantNone:  true,
		},
		{
			name:      "daily cap reached",
			cfg:       schedule.Config{MaxReservationsPerDay: 1},
			candidate: interval(1, 14, 15),
			existing:  existing,
			wantCap:   true,
		},
		{
			name:      "daily cap ignores other days",
			cfg:       schedule.Config{MaxReservationsPerDay: 1},
			candidate: interval(2, 14, 15),
			existing:  existing,
			wantNone:  true,
		},
		{
			name:      "daily cap ignores the excluded reservation",
			cfg:       schedule.Config{MaxReservationsPerDay: 1},
			candidate: interval(1, 14, 15),
			existing:  existing,
			excludeID: "a",
			wantNone:  true,
		},
		{
			name:      "zero cap means unlimited",
			candidate: interval(1, 14, 15),
			existing:  existing,
			wantNone:  true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := schedule.NewDetector(tt.cfg)

			cErr := d.Detect(tt.candidate, tt.existing, tt.excludeID)
			if tt.wantNone {
				require.Nil(t, cErr)
				return
			}
			require.NotNil(t, cErr)
			if tt.wantCap {
				require.True(t, cErr.DailyCapReached)
				return
			}
			require.Equal(t, tt.wantID, cErr.ConflictingID)
		})
	}
}
