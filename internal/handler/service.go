package handler

import (
	"context"

	"github.com/ThevergeOn/reservation-app/internal/model"
	"github.com/ThevergeOn/reservation-app/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type ReservationService interface {
	CreateReservation(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error)
	ListReservations(ctx context.Context) ([]model.Reservation, error)
	UpdateReservation(ctx context.Context, id string, req model.UpdateReservationRequest) (model.Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
}

var _ ReservationService = (*service.Service)(nil)
