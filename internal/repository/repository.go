package repository

import (
	"context"

	"github.com/ThevergeOn/reservation-app/internal/model"
)

// Repository is the reservation store. CreateReservation and
// UpdateReservation re-run conflict detection against the current set inside
// the store's critical section, so validate-then-mutate is atomic: no two
// racing writers can both pass against a stale snapshot and both commit.
type Repository interface {
	ListReservations(ctx context.Context) ([]model.Reservation, error)
	GetReservation(ctx context.Context, id string) (model.Reservation, error)
	CreateReservation(ctx context.Context, candidate model.Reservation) (model.Reservation, error)
	UpdateReservation(ctx context.Context, id string, upd model.Reservation) (model.Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Repository = (*pgRepository)(nil)
)
