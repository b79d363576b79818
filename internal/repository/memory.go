package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/ThevergeOn/reservation-app/internal/model"
	"github.com/ThevergeOn/reservation-app/internal/schedule"

	"github.com/ThevergeOn/reservation-app/internal/errs"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MemoryRepository keeps the authoritative reservation set in process. One
// mutex serializes validate-then-mutate per calendar; version counts
// committed mutations.
type MemoryRepository struct {
	mu       sync.RWMutex
	items    map[string]model.Reservation
	version  uint64
	detector *schedule.Detector
	log      *zap.Logger
}

func NewMemoryRepository(detector *schedule.Detector, log *zap.Logger) *MemoryRepository {
	return &MemoryRepository{
		items:    make(map[string]model.Reservation),
		detector: detector,
		log:      log.Named("repo"),
	}
}

func (r *MemoryRepository) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked(), nil
}

func (r *MemoryRepository) GetReservation(ctx context.Context, id string) (model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return model.Reservation{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.items[id]
	if !ok {
		return model.Reservation{}, errs.ErrNotFound
	}
	return res, nil
}

func (r *MemoryRepository) CreateReservation(ctx context.Context, candidate model.Reservation) (model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return model.Reservation{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if cErr := r.detector.Detect(candidate.Interval(), r.snapshotLocked(), ""); cErr != nil {
		return model.Reservation{}, cErr
	}

	candidate.ID = uuid.NewString()
	r.items[candidate.ID] = candidate
	r.version++
	r.log.Debug("reservation created", zap.String("id", candidate.ID))
	return candidate, nil
}

func (r *MemoryRepository) UpdateReservation(ctx context.Context, id string, upd model.Reservation) (model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return model.Reservation{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return model.Reservation{}, errs.ErrNotFound
	}
	if cErr := r.detector.Detect(upd.Interval(), r.snapshotLocked(), id); cErr != nil {
		return model.Reservation{}, cErr
	}

	upd.ID = id
	r.items[id] = upd
	r.version++
	return upd, nil
}

func (r *MemoryRepository) DeleteReservation(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.items, id)
	r.version++
	return nil
}

// Version reports how many mutations have committed.
func (r *MemoryRepository) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// snapshotLocked returns a caller-owned copy ordered by start time.
func (r *MemoryRepository) snapshotLocked() []model.Reservation {
	out := make([]model.Reservation, 0, len(r.items))
	for _, res := range r.items {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}
