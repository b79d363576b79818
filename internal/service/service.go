package service

import (
	"context"

	"github.com/ThevergeOn/reservation-app/internal/events"
	"github.com/ThevergeOn/reservation-app/internal/model"
	"github.com/ThevergeOn/reservation-app/internal/schedule"

	"github.com/ThevergeOn/reservation-app/internal/repository"
	"go.uber.org/zap"
)

// Service orchestrates calendar validation, conflict detection and store
// mutation. Validation is pure; the store serializes the conflict re-check
// with the write, so a failure at any step leaves no partial state.
type Service struct {
	log      *zap.Logger
	repo     repository.Repository
	calendar *schedule.Calendar
	events   events.Publisher
}

func NewService(repo repository.Repository, calendar *schedule.Calendar, pub events.Publisher, log *zap.Logger) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		calendar: calendar,
		events:   pub,
	}
}

func (s *Service) CreateReservation(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error) {
	candidate := model.Reservation{
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := s.calendar.Evaluate(candidate.Interval()); err != nil {
		return model.Reservation{}, err
	}
	created, err := s.repo.CreateReservation(ctx, candidate)
	if err != nil {
		return model.Reservation{}, err
	}
	s.events.Publish(ctx, events.Event{Type: events.TypeCreated, Reservation: created})
	return created, nil
}

func (s *Service) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	return s.repo.ListReservations(ctx)
}

// UpdateReservation merges the partial request over the stored reservation
// and re-runs the full pipeline with the reservation excluded from conflict
// detection, so it never conflicts with itself.
func (s *Service) UpdateReservation(ctx context.Context, id string, req model.UpdateReservationRequest) (model.Reservation, error) {
	cur, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	upd := cur
	if req.Name != nil {
		upd.Name = *req.Name
	}
	if req.StartTime != nil {
		upd.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		upd.EndTime = *req.EndTime
	}
	if err := s.calendar.Evaluate(upd.Interval()); err != nil {
		return model.Reservation{}, err
	}
	updated, err := s.repo.UpdateReservation(ctx, id, upd)
	if err != nil {
		return model.Reservation{}, err
	}
	s.events.Publish(ctx, events.Event{Type: events.TypeUpdated, Reservation: updated})
	return updated, nil
}

// DeleteReservation removes unconditionally: no business-rule validation.
func (s *Service) DeleteReservation(ctx context.Context, id string) error {
	if err := s.repo.DeleteReservation(ctx, id); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Type: events.TypeDeleted, Reservation: model.Reservation{ID: id}})
	return nil
}
