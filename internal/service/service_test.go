package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThevergeOn/reservation-app/internal/errs"
	"github.com/ThevergeOn/reservation-app/internal/events"
	"github.com/ThevergeOn/reservation-app/internal/model"
	"github.com/ThevergeOn/reservation-app/internal/repository"
	"github.com/ThevergeOn/reservation-app/internal/schedule"
	"github.com/ThevergeOn/reservation-app/internal/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// recordingPublisher captures published events in order.
type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) {
	p.published = append(p.published, ev)
}

// Jan 1, 2024 is a Monday; Jan 6 a Saturday.
func at(day, hour int) time.Time {
	return time.Date(2024, time.January, day, hour, 0, 0, 0, time.UTC)
}

func createReq(name string, day, fromHour, toHour int) model.CreateReservationRequest {
	return model.CreateReservationRequest{
		Name:      name,
		StartTime: at(day, fromHour),
		EndTime:   at(day, toHour),
	}
}

func newService(t *testing.T) (*service.Service, *recordingPublisher) {
	t.Helper()
	cfg := schedule.Config{
		WorkDays:         []int{1, 2, 3, 4, 5},
		WorkStartHour:    9,
		WorkEndHour:      17,
		MinDurationHours: 1,
		MaxDurationHours: 8,
		MaxLatestEndHour: 17,
	}
	clk := fixedClock{now: at(1, 8)}
	log := zap.NewNop()
	repo := repository.NewMemoryRepository(schedule.NewDetector(cfg), log)
	pub := &recordingPublisher{}
	return service.NewService(repo, schedule.NewCalendar(cfg, clk), pub, log), pub
}

func TestService_CreatePipeline(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, pub := newService(t)

	first, err := svc.CreateReservation(ctx, createReq("standup", 1, 10, 12))
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	// overlapping candidate names the winner
	_, err = svc.CreateReservation(ctx, createReq("overlap", 1, 11, 13))
	var cErr *errs.ConflictError
	require.ErrorAs(t, err, &cErr)
	require.Equal(t, first.ID, cErr.ConflictingID)

	// back-to-back with the first succeeds
	_, err = svc.CreateReservation(ctx, createReq("after", 1, 12, 14))
	require.NoError(t, err)

	// weekend candidate never reaches the store
	_, err = svc.CreateReservation(ctx, createReq("weekend", 6, 10, 11))
	var vErr *errs.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, errs.ReasonNonWorkday, vErr.Reason)

	items, err := svc.ListReservations(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.Len(t, pub.published, 2)
	require.Equal(t, events.TypeCreated, pub.published[0].Type)
	require.Equal(t, first.ID, pub.published[0].Reservation.ID)
}

func TestService_UpdateRevalidates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, pub := newService(t)

	created, err := svc.CreateReservation(ctx, createReq("movable", 1, 10, 12))
	require.NoError(t, err)
	other, err := svc.CreateReservation(ctx, createReq("fixed", 1, 14, 15))
	require.NoError(t, err)

	// shift over its own old slot: excluded from conflict detection
	start, end := at(1, 11), at(1, 13)
	updated, err := svc.UpdateReservation(ctx, created.ID, model.UpdateReservationRequest{
		StartTime: &start, EndTime: &end,
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "movable", updated.Name)

	// name-only update keeps the interval
	name := "renamed"
	updated, err = svc.UpdateReservation(ctx, created.ID, model.UpdateReservationRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Name)
	require.Equal(t, start, updated.StartTime)

	// moving onto another reservation conflicts
	collideStart, collideEnd := at(1, 14), at(1, 16)
	_, err = svc.UpdateReservation(ctx, created.ID, model.UpdateReservationRequest{
		StartTime: &collideStart, EndTime: &collideEnd,
	})
	var cErr *errs.ConflictError
	require.ErrorAs(t, err, &cErr)
	require.Equal(t, other.ID, cErr.ConflictingID)

	// merged interval must still satisfy the calendar
	badEnd := at(1, 19)
	_, err = svc.UpdateReservation(ctx, created.ID, model.UpdateReservationRequest{EndTime: &badEnd})
	var vErr *errs.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, errs.ReasonOutsideBusinessHours, vErr.Reason)

	// partial update producing an inverted interval is a malformed candidate
	badStart := at(1, 14)
	_, err = svc.UpdateReservation(ctx, created.ID, model.UpdateReservationRequest{StartTime: &badStart})
	require.ErrorIs(t, err, errs.ErrInvalidInterval)

	_, err = svc.UpdateReservation(ctx, "missing", model.UpdateReservationRequest{Name: &name})
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.Equal(t, events.TypeUpdated, pub.published[len(pub.published)-1].Type)
}

func TestService_DeleteIdempotencyObservedOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, pub := newService(t)

	created, err := svc.CreateReservation(ctx, createReq("doomed", 1, 10, 11))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReservation(ctx, created.ID))
	require.ErrorIs(t, svc.DeleteReservation(ctx, created.ID), errs.ErrNotFound)

	last := pub.published[len(pub.published)-1]
	require.Equal(t, events.TypeDeleted, last.Type)
	require.Equal(t, created.ID, last.Reservation.ID)
}

func TestService_DeterministicValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newService(t)

	// same invalid input, same reason, every time
	for i := 0; i < 3; i++ {
		_, err := svc.CreateReservation(ctx, createReq("past", 1, 7, 9))
		var vErr *errs.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Equal(t, errs.ReasonPastStart, vErr.Reason)
	}
	items, err := svc.ListReservations(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}
