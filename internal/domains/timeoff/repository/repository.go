package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"beautybar/infras/otel"
	"beautybar/infras/postgres"
	"beautybar/internal/domains/timeoff/model"
	"beautybar/shared/constant"
	gDto "beautybar/shared/dto"
	"beautybar/shared/failure"
	"beautybar/shared/logger"
	gRepo "beautybar/shared/repository"
	"beautybar/shared/timerange"
)

type TimeOff interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.TimeOffBlock, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.TimeOffBlock, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	InsertChecked(ctx context.Context, block model.TimeOffBlock) error
}

type repositoryImpl struct {
	gRepo.Repository[model.TimeOffBlock]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) TimeOff {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.TimeOffBlock](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type bookedInterval struct {
	BookingDate time.Time `db:"booking_date"`
	StartTime   time.Time `db:"start_time"`
	EndTime     time.Time `db:"end_time"`
}

func (b bookedInterval) interval() (timerange.Range, error) {
	return timerange.New(
		b.BookingDate.Format(constant.DateFormat),
		b.StartTime.Format(constant.TimeFormat),
		b.EndTime.Format(constant.TimeFormat),
	)
}

// InsertChecked inserts the block only if no non-cancelled booking overlaps
// it. The overlap check and the insert run in one transaction holding
// per-date advisory locks, the same locks booking admission takes, so the
// two writers serialize instead of racing.
func (r *repositoryImpl) InsertChecked(ctx context.Context, block model.TimeOffBlock) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".InsertChecked")
	defer scope.End()
	defer scope.TraceIfError(err)

	blockRange, err := block.Interval()
	if err != nil {
		return failure.BadRequest(err) //nolint:wrapcheck
	}

	if !blockRange.IsValid() {
		return failure.BadRequestFromString("block end must be after block start") //nolint:wrapcheck
	}

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

	// Ascending date order keeps lock acquisition deadlock-free against
	// other multi-day blocks.
	for day := block.StartDate; !day.After(block.EndDate); day = day.AddDate(0, 0, 1) {
		if _, err = tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", day.Format(constant.DateFormat)); err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to take date lock (%s): %w", model.EntityName, err)
		}
	}

	var booked []bookedInterval

	query := `SELECT booking_date, start_time, end_time FROM bookings
		WHERE status <> $1 AND booking_date BETWEEN $2 AND $3`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = tx.SelectContext(ctx, &booked, query,
		constant.BookingStatusCancelled,
		block.StartDate.Format(constant.DateFormat),
		block.EndDate.Format(constant.DateFormat),
	)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to load bookings in block range (%s): %w", model.EntityName, err)
	}

	for _, b := range booked {
		bookedRange, rangeErr := b.interval()
		if rangeErr != nil {
			logger.ErrorWithStack(rangeErr)

			err = fmt.Errorf("failed to resolve booking interval (%s): %w", model.EntityName, rangeErr)

			return err
		}

		if blockRange.Overlaps(bookedRange) {
			err = failure.Conflict("time-off block overlaps an existing booking")

			return err //nolint:wrapcheck
		}
	}

	if err = r.InsertTx(ctx, tx, block); err != nil {
		return err //nolint:wrapcheck
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return nil
}
