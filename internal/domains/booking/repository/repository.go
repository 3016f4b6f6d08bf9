package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"beautybar/infras/otel"
	"beautybar/infras/postgres"
	"beautybar/internal/domains/booking/model"
	"beautybar/shared/constant"
	gDto "beautybar/shared/dto"
	"beautybar/shared/failure"
	"beautybar/shared/logger"
	gRepo "beautybar/shared/repository"
	"beautybar/shared/timerange"
)

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	ActiveOnDate(ctx context.Context, date string) ([]model.Booking, error)
	InsertAdmitted(ctx context.Context, booking model.Booking) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ActiveOnDate returns the non-cancelled bookings on one calendar day,
// earliest first.
func (r *repositoryImpl) ActiveOnDate(ctx context.Context, date string) ([]model.Booking, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldBookingDate,
				Operator: gDto.FilterOperatorEq,
				Value:    date,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorNotEq,
				Value:    constant.BookingStatusCancelled,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{
		SortBy:  model.FieldStartTime,
		SortDir: gDto.SortDirAsc,
	}

	return r.GetAll(ctx, params, filter) //nolint:wrapcheck
}

type blockedInterval struct {
	StartDate time.Time `db:"start_date"`
	StartTime time.Time `db:"start_time"`
	EndDate   time.Time `db:"end_date"`
	EndTime   time.Time `db:"end_time"`
}

func (b blockedInterval) interval() (timerange.Range, error) {
	return timerange.Span(
		b.StartDate.Format(constant.DateFormat),
		b.StartTime.Format(constant.TimeFormat),
		b.EndDate.Format(constant.DateFormat),
		b.EndTime.Format(constant.TimeFormat),
	)
}

// InsertAdmitted is the serialized check-then-insert at the heart of
// admission. It takes a per-date advisory lock, re-reads the bookings and
// time-off blocks that could collide with the requested interval, and only
// then inserts. Two requests for the same slot queue on the lock; the
// second re-reads the first one's row and gets a conflict. The partial
// unique index on (booking_date, start_time) backstops anything that slips
// through.
func (r *repositoryImpl) InsertAdmitted(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".InsertAdmitted")
	defer scope.End()
	defer scope.TraceIfError(err)

	requested, err := booking.Interval()
	if err != nil {
		return failure.BadRequest(err) //nolint:wrapcheck
	}

	date := booking.BookingDate.Format(constant.DateFormat)

	tx, err := r.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", date); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to take date lock (%s): %w", model.EntityName, err)
	}

	var existing []model.Booking

	bookingQuery := `SELECT id, booking_date, start_time, end_time, status FROM bookings
		WHERE status <> $1 AND booking_date = $2`
	scope.SetAttribute(constant.OtelQueryAttributeKey, bookingQuery)

	err = tx.SelectContext(ctx, &existing, bookingQuery, constant.BookingStatusCancelled, date)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to load bookings on date (%s): %w", model.EntityName, err)
	}

	for _, other := range existing {
		otherRange, rangeErr := other.Interval()
		if rangeErr != nil {
			logger.ErrorWithStack(rangeErr)

			err = fmt.Errorf("failed to resolve booking interval (%s): %w", model.EntityName, rangeErr)

			return err
		}

		if requested.Overlaps(otherRange) {
			err = failure.Conflict("slot is no longer available, please choose another")

			return err //nolint:wrapcheck
		}
	}

	var blocks []blockedInterval

	blockQuery := `SELECT start_date, start_time, end_date, end_time FROM time_off_blocks
		WHERE start_date <= $1 AND end_date >= $1`

	err = tx.SelectContext(ctx, &blocks, blockQuery, date)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to load time-off blocks on date (%s): %w", model.EntityName, err)
	}

	for _, block := range blocks {
		blockRange, rangeErr := block.interval()
		if rangeErr != nil {
			logger.ErrorWithStack(rangeErr)

			err = fmt.Errorf("failed to resolve block interval (%s): %w", model.EntityName, rangeErr)

			return err
		}

		if requested.Overlaps(blockRange) {
			err = failure.Conflict("slot is no longer available, please choose another")

			return err //nolint:wrapcheck
		}
	}

	if err = r.InsertTx(ctx, tx, booking); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			err = failure.Conflict("slot is no longer available, please choose another")
		}

		return err //nolint:wrapcheck
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return nil
}
