package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"beautybar/config"
	"beautybar/infras/otel"
	"beautybar/internal/domains/availability/model/dto"
	bookingModel "beautybar/internal/domains/booking/model"
	bookingRepo "beautybar/internal/domains/booking/repository"
	serviceModel "beautybar/internal/domains/service/model"
	serviceRepo "beautybar/internal/domains/service/repository"
	settingsService "beautybar/internal/domains/settings/service"
	timeoffModel "beautybar/internal/domains/timeoff/model"
	timeoffRepo "beautybar/internal/domains/timeoff/repository"
	"beautybar/internal/slots"
	"beautybar/shared"
	"beautybar/shared/constant"
	gDto "beautybar/shared/dto"
	"beautybar/shared/failure"
	"beautybar/shared/timerange"
	"beautybar/shared/timezone"
)

// Date ranges longer than this are refused; two months covers every
// calendar widget this backs.
const maxRangeDays = 62

type Availability interface {
	GetSlots(ctx context.Context, date, serviceID string) (dto.GetSlotsResponse, error)
	GetRange(ctx context.Context, from, to, serviceID string) (dto.GetAvailabilityResponse, error)
}

type serviceImpl struct {
	bookingRepo bookingRepo.Booking
	timeoffRepo timeoffRepo.TimeOff
	serviceRepo serviceRepo.Service
	settings    settingsService.Settings
	cfg         *config.Config
	otel        otel.Otel
}

func New(
	bookingRepo bookingRepo.Booking,
	timeoffRepo timeoffRepo.TimeOff,
	serviceRepo serviceRepo.Service,
	settings settingsService.Settings,
	cfg *config.Config,
	otel otel.Otel,
) Availability {
	return &serviceImpl{
		bookingRepo: bookingRepo,
		timeoffRepo: timeoffRepo,
		serviceRepo: serviceRepo,
		settings:    settings,
		cfg:         cfg,
		otel:        otel,
	}
}

// GetSlots lists the bookable start times for one day and one service.
// Today and past dates always come back empty because bookings must be
// made ahead of time.
func (s *serviceImpl) GetSlots(ctx context.Context, date, serviceID string) (res dto.GetSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetSlots")
	defer scope.End()
	defer scope.TraceIfError(err)

	res.Date = date
	res.ServiceID = serviceID
	res.Slots = []slots.Slot{}

	svc, err := s.loadBookableService(ctx, serviceID)
	if err != nil {
		return res, err
	}

	if date <= timezone.Now().Format(constant.DateFormat) {
		return res, nil
	}

	cfg, err := s.settings.BookingConfig(ctx)
	if err != nil {
		return res, err
	}

	busy, err := s.busyIntervals(ctx, date, date)
	if err != nil {
		return res, err
	}

	daySlots, err := slots.ForDay(date, cfg.OpenTime, cfg.CloseTime, cfg.SlotIntervalMin, svc.DurationMin, busy)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res.Slots = daySlots

	return res, nil
}

// GetRange reports, day by day, whether the service has at least one open
// slot. It backs the customer-facing calendar.
func (s *serviceImpl) GetRange(ctx context.Context, from, to, serviceID string) (res dto.GetAvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAvailabilityRange")
	defer scope.End()
	defer scope.TraceIfError(err)

	res.ServiceID = serviceID
	res.Days = []dto.DayAvailability{}

	start, err := timezone.Parse(constant.DateFormat, from)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	end, err := timezone.Parse(constant.DateFormat, to)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	if end.Before(start) {
		return res, failure.BadRequestFromString("to must not be before from") //nolint:wrapcheck
	}

	if end.Sub(start) > maxRangeDays*24*time.Hour {
		return res, failure.BadRequestFromString("date range is too wide") //nolint:wrapcheck
	}

	svc, err := s.loadBookableService(ctx, serviceID)
	if err != nil {
		return res, err
	}

	cfg, err := s.settings.BookingConfig(ctx)
	if err != nil {
		return res, err
	}

	busy, err := s.busyIntervals(ctx, from, to)
	if err != nil {
		return res, err
	}

	today := timezone.Now().Format(constant.DateFormat)

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(constant.DateFormat)

		available := false

		if date > today {
			daySlots, slotErr := slots.ForDay(date, cfg.OpenTime, cfg.CloseTime, cfg.SlotIntervalMin, svc.DurationMin, busy)
			if slotErr != nil {
				return res, slotErr //nolint:wrapcheck
			}

			available = len(daySlots) > 0
		}

		res.Days = append(res.Days, dto.DayAvailability{Date: date, Available: available})
	}

	return res, nil
}

func (s *serviceImpl) loadBookableService(ctx context.Context, serviceID string) (svc serviceModel.Service, err error) {
	svc, err = s.serviceRepo.Get(ctx, shared.FilterByID(serviceID, serviceModel.FieldID, serviceModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get service")

		return svc, fmt.Errorf("failed to get service: %w", err)
	}

	if svc.ID == constant.Empty {
		return svc, failure.NotFound("service not found") //nolint:wrapcheck
	}

	if !svc.Active {
		return svc, failure.BadRequestFromString("service is not open for booking") //nolint:wrapcheck
	}

	return svc, nil
}

// busyIntervals gathers every interval in [from, to] that could exclude a
// candidate slot: non-cancelled bookings on those days and any time-off
// block whose span touches the window.
func (s *serviceImpl) busyIntervals(ctx context.Context, from, to string) ([]timerange.Range, error) {
	busy := []timerange.Range{}

	bookingFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Operator: gDto.FilterOperatorNotEq,
				Value:    constant.BookingStatusCancelled,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    bookingModel.FieldBookingDate,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    from,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    bookingModel.FieldBookingDate,
				Operator: gDto.FilterOperatorLessEq,
				Value:    to,
				Table:    bookingModel.TableName,
			},
		},
	}

	bookings, err := s.bookingRepo.GetAll(ctx, gDto.QueryParams{}, bookingFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for availability")

		return nil, fmt.Errorf("failed to get bookings for availability: %w", err)
	}

	for _, booking := range bookings {
		interval, rangeErr := booking.Interval()
		if rangeErr != nil {
			return nil, fmt.Errorf("failed to resolve booking interval: %w", rangeErr)
		}

		busy = append(busy, interval)
	}

	blockFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    timeoffModel.FieldEndDate,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    from,
				Table:    timeoffModel.TableName,
			},
			gDto.Filter{
				Field:    timeoffModel.FieldStartDate,
				Operator: gDto.FilterOperatorLessEq,
				Value:    to,
				Table:    timeoffModel.TableName,
			},
		},
	}

	blocks, err := s.timeoffRepo.GetAll(ctx, gDto.QueryParams{}, blockFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get time-off blocks for availability")

		return nil, fmt.Errorf("failed to get time-off blocks for availability: %w", err)
	}

	for _, block := range blocks {
		interval, rangeErr := block.Interval()
		if rangeErr != nil {
			return nil, fmt.Errorf("failed to resolve block interval: %w", rangeErr)
		}

		busy = append(busy, interval)
	}

	return busy, nil
}
