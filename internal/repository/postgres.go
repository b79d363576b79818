package repository

import (
	"context"
	"database/sql"

	"github.com/ThevergeOn/reservation-app/internal/errs"
	"github.com/ThevergeOn/reservation-app/internal/model"
	"github.com/ThevergeOn/reservation-app/internal/schedule"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	reservationTableName = `reservation`
	// calendarLockID keys pg_advisory_xact_lock; one calendar, one lock.
	calendarLockID = 758422
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var reservationColumns = []string{"reservation_uid", "name", "start_time", "end_time"}

// pgRepository persists the reservation set in postgres. Create and update
// take an advisory xact lock so the conflict re-check and the write form one
// critical section; the exclusion constraint in the schema backstops the
// no-overlap invariant across processes.
type pgRepository struct {
	db       *sqlx.DB
	detector *schedule.Detector
	log      *zap.Logger
}

func NewPostgresRepository(db *sqlx.DB, detector *schedule.Detector, log *zap.Logger) *pgRepository {
	return &pgRepository{
		db:       db,
		detector: detector,
		log:      log.Named("repo"),
	}
}

func (r *pgRepository) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	q, args, err := qb.Select(reservationColumns...).
		From(reservationTableName).
		OrderBy("start_time", "reservation_uid").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Reservation
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		r.log.Error("ListReservations", zap.Error(err))
		return nil, errors.Wrap(errs.ErrUnavailable, err.Error())
	}
	return items, nil
}

func (r *pgRepository) GetReservation(ctx context.Context, id string) (model.Reservation, error) {
	q, args, err := qb.Select(reservationColumns...).
		From(reservationTableName).
		Where(sq.Eq{"reservation_uid": id}).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	var res model.Reservation
	if err := r.db.GetContext(ctx, &res, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, errs.ErrNotFound
		}
		return model.Reservation{}, errors.Wrap(errs.ErrUnavailable, err.Error())
	}
	return res, nil
}

func (r *pgRepository) CreateReservation(ctx context.Context, candidate model.Reservation) (model.Reservation, error) {
	candidate.ID = uuid.NewString()
	err := r.withCalendarLock(ctx, func(tx *sqlx.Tx) error {
		existing, err := r.listTx(ctx, tx)
		if err != nil {
			return err
		}
		if cErr := r.detector.Detect(candidate.Interval(), existing, ""); cErr != nil {
			return cErr
		}
		q, args, err := qb.Insert(reservationTableName).
			Columns(reservationColumns...).
			Values(candidate.ID, candidate.Name, candidate.StartTime, candidate.EndTime).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			r.log.Error("CreateReservation", zap.String("q", q), zap.Any("args", args))
			return mapWriteErr(err)
		}
		return nil
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return candidate, nil
}

func (r *pgRepository) UpdateReservation(ctx context.Context, id string, upd model.Reservation) (model.Reservation, error) {
	upd.ID = id
	err := r.withCalendarLock(ctx, func(tx *sqlx.Tx) error {
		existing, err := r.listTx(ctx, tx)
		if err != nil {
			return err
		}
		found := false
		for _, res := range existing {
			if res.ID == id {
				found = true
				break
			}
		}
		if !found {
			return errs.ErrNotFound
		}
		if cErr := r.detector.Detect(upd.Interval(), existing, id); cErr != nil {
			return cErr
		}
		q, args, err := qb.Update(reservationTableName).
			Set("name", upd.Name).
			Set("start_time", upd.StartTime).
			Set("end_time", upd.EndTime).
			Where(sq.Eq{"reservation_uid": id}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			r.log.Error("UpdateReservation", zap.String("q", q), zap.Any("args", args))
			return mapWriteErr(err)
		}
		return nil
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return upd, nil
}

func (r *pgRepository) DeleteReservation(ctx context.Context, id string) error {
	q, args, err := qb.Delete(reservationTableName).
		Where(sq.Eq{"reservation_uid": id}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return errors.Wrap(errs.ErrUnavailable, err.Error())
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(errs.ErrUnavailable, err.Error())
	}
	if affected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// withCalendarLock runs fn inside a transaction holding the calendar's
// advisory lock; the lock releases on commit or rollback.
func (r *pgRepository) withCalendarLock(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(errs.ErrUnavailable, err.Error())
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `select pg_advisory_xact_lock($1)`, calendarLockID); err != nil {
		return errors.Wrap(errs.ErrUnavailable, err.Error())
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return mapWriteErr(err)
	}
	return nil
}

func (r *pgRepository) listTx(ctx context.Context, tx *sqlx.Tx) ([]model.Reservation, error) {
	q, args, err := qb.Select(reservationColumns...).
		From(reservationTableName).
		OrderBy("start_time", "reservation_uid").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Reservation
	if err := tx.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, errors.Wrap(errs.ErrUnavailable, err.Error())
	}
	return items, nil
}

// mapWriteErr turns constraint violations raised by writers outside the
// advisory lock into conflicts; anything else means storage trouble.
func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		(pgErr.Code == pgerrcode.ExclusionViolation || pgErr.Code == pgerrcode.UniqueViolation) {
		return &errs.ConflictError{}
	}
	return errors.Wrap(errs.ErrUnavailable, err.Error())
}
