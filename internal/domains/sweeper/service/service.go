package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"beautybar/config"
	"beautybar/infras/otel"
	bookingModel "beautybar/internal/domains/booking/model"
	bookingRepo "beautybar/internal/domains/booking/repository"
	"beautybar/internal/domains/sweeper/model/dto"
	"beautybar/internal/notifier"
	"beautybar/shared"
	"beautybar/shared/cache"
	"beautybar/shared/constant"
	gDto "beautybar/shared/dto"
	"beautybar/shared/timezone"
)

// Sweeper hosts the periodic jobs an external scheduler triggers over
// HTTP: expiring stale deposits and sending day-before reminders. Both
// process bookings one at a time so a single bad row cannot wedge the
// whole sweep.
type Sweeper interface {
	ExpireStale(ctx context.Context) (dto.SweepReport, error)
	SendReminders(ctx context.Context) (dto.SweepReport, error)
}

type serviceImpl struct {
	repo     bookingRepo.Booking
	notifier notifier.Notifier
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo bookingRepo.Booking, notifier notifier.Notifier, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Sweeper {
	return &serviceImpl{
		repo:     repo,
		notifier: notifier,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// ExpireStale cancels bookings that have sat in pending_deposit past the
// expiry window, freeing their slots. Notification failures count against
// the report but never stop the sweep.
func (s *serviceImpl) ExpireStale(ctx context.Context) (res dto.SweepReport, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ExpireStale")
	defer scope.End()
	defer scope.TraceIfError(err)

	cutoff := timezone.Now().Add(-time.Duration(s.cfg.Booking.DepositExpiryHours) * time.Hour)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    constant.BookingStatusPendingDeposit,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    constant.FieldCreatedAt,
				Operator: gDto.FilterOperatorLess,
				Value:    cutoff,
				Table:    bookingModel.TableName,
			},
		},
	}

	stale, err := s.repo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to load stale bookings")

		return res, fmt.Errorf("failed to load stale bookings: %w", err)
	}

	res.Scanned = len(stale)

	for _, booking := range stale {
		updatedFields := map[string]any{
			bookingModel.FieldStatus: constant.BookingStatusCancelled,
			constant.FieldModifiedAt: timezone.Now(),
		}

		updateErr := s.repo.Update(ctx, updatedFields, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName))
		if updateErr != nil {
			log.Error().Err(updateErr).Str("booking_id", booking.ID).Msg("failed to expire booking")
			res.Failed++

			continue
		}

		res.Processed++

		booking.Status = constant.BookingStatusCancelled

		if notifyErr := s.notifier.BookingCancelled(ctx, booking); notifyErr != nil {
			log.Error().Err(notifyErr).Str("booking_id", booking.ID).Msg("expiry notification failed")
			res.Failed++
		}
	}

	if res.Processed > 0 {
		s.invalidate(ctx)
	}

	log.Info().Int("scanned", res.Scanned).Int("processed", res.Processed).Int("failed", res.Failed).Msg("expiry sweep finished")

	return res, nil
}

// SendReminders notifies confirmed bookings whose appointment starts
// roughly a day from now. reminder_sent_at is only stamped after a
// successful send, so a failed delivery is retried by the next sweep.
func (s *serviceImpl) SendReminders(ctx context.Context) (res dto.SweepReport, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SendReminders")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()
	windowStart := now.Add(time.Duration(s.cfg.Booking.ReminderWindowStartHours) * time.Hour)
	windowEnd := now.Add(time.Duration(s.cfg.Booking.ReminderWindowEndHours) * time.Hour)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    constant.BookingStatusConfirmed,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    bookingModel.FieldReminderSentAt,
				Operator: gDto.FilterIsNull,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    bookingModel.FieldBookingDate,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    windowStart.Format(constant.DateFormat),
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    bookingModel.FieldBookingDate,
				Operator: gDto.FilterOperatorLessEq,
				Value:    windowEnd.Format(constant.DateFormat),
				Table:    bookingModel.TableName,
			},
		},
	}

	upcoming, err := s.repo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to load upcoming bookings")

		return res, fmt.Errorf("failed to load upcoming bookings: %w", err)
	}

	res.Scanned = len(upcoming)

	for _, booking := range upcoming {
		startsAt, startErr := booking.StartsAt()
		if startErr != nil {
			log.Error().Err(startErr).Str("booking_id", booking.ID).Msg("failed to resolve booking start")
			res.Failed++

			continue
		}

		if startsAt.Before(windowStart) || !startsAt.Before(windowEnd) {
			continue
		}

		if notifyErr := s.notifier.BookingReminder(ctx, booking); notifyErr != nil {
			log.Error().Err(notifyErr).Str("booking_id", booking.ID).Msg("reminder notification failed")
			res.Failed++

			continue
		}

		updatedFields := map[string]any{
			bookingModel.FieldReminderSentAt: timezone.Now(),
			constant.FieldModifiedAt:         timezone.Now(),
		}

		updateErr := s.repo.Update(ctx, updatedFields, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName))
		if updateErr != nil {
			log.Error().Err(updateErr).Str("booking_id", booking.ID).Msg("failed to stamp reminder")
			res.Failed++

			continue
		}

		res.Processed++
	}

	if res.Processed > 0 {
		s.invalidate(ctx)
	}

	log.Info().Int("scanned", res.Scanned).Int("processed", res.Processed).Int("failed", res.Failed).Msg("reminder sweep finished")

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, "booking:get")
		shared.InvalidateCaches(c, s.cache, "booking:gets")
		shared.InvalidateCaches(c, s.cache, "booking:count")
	}()
}
