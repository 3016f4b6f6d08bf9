package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"beautybar/config"
	"beautybar/infras/otel"
	"beautybar/internal/domains/booking/model"
	"beautybar/internal/domains/booking/model/dto"
	"beautybar/internal/domains/booking/repository"
	serviceModel "beautybar/internal/domains/service/model"
	serviceRepo "beautybar/internal/domains/service/repository"
	settingsDto "beautybar/internal/domains/settings/model/dto"
	settingsService "beautybar/internal/domains/settings/service"
	"beautybar/internal/notifier"
	"beautybar/shared"
	"beautybar/shared/cache"
	"beautybar/shared/constant"
	gDto "beautybar/shared/dto"
	"beautybar/shared/failure"
	"beautybar/shared/timerange"
	"beautybar/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Booking
	serviceRepo serviceRepo.Service
	settings    settingsService.Settings
	notifier    notifier.Notifier
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Booking,
	serviceRepo serviceRepo.Service,
	settings settingsService.Settings,
	notifier notifier.Notifier,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:        repo,
		serviceRepo: serviceRepo,
		settings:    settings,
		notifier:    notifier,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// Create runs the admission checks in a fixed order so callers get the
// most actionable rejection first, then hands the serialized conflict
// check to the repository. A successful admission always lands in
// pending_deposit; payment moves it forward.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.CustomerEmail == constant.Empty && req.CustomerPhone == constant.Empty {
		return res, failure.BadRequestFromString("provide an email address or a phone number") //nolint:wrapcheck
	}

	if !req.NotifyByEmail && !req.NotifyBySMS {
		return res, failure.BadRequestFromString("choose at least one notification channel") //nolint:wrapcheck
	}

	if req.NotifyByEmail && req.CustomerEmail == constant.Empty {
		return res, failure.BadRequestFromString("email notifications require an email address") //nolint:wrapcheck
	}

	if req.NotifyBySMS && req.CustomerPhone == constant.Empty {
		return res, failure.BadRequestFromString("sms notifications require a phone number") //nolint:wrapcheck
	}

	if req.BookingDate <= timezone.Now().Format(constant.DateFormat) {
		return res, failure.BadRequestFromString("bookings must be for a future date") //nolint:wrapcheck
	}

	svc, err := s.loadBookableService(ctx, req.ServiceID)
	if err != nil {
		return res, err
	}

	cfg, err := s.settings.BookingConfig(ctx)
	if err != nil {
		return res, err
	}

	if err = s.validateSlotWindow(req, svc, cfg); err != nil {
		return res, err
	}

	deposit, err := resolveDeposit(req, svc, cfg)
	if err != nil {
		return res, err
	}

	booking, err := req.ToModel(svc.Name, svc.Price, deposit)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	if err = s.repo.InsertAdmitted(ctx, booking); err != nil {
		if failure.IsConflict(err) {
			return res, err //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	res.FromModel(booking)

	s.invalidate(ctx, booking.ID)

	go func() {
		c := context.WithoutCancel(ctx)

		if notifyErr := s.notifier.BookingCreated(c, booking); notifyErr != nil {
			log.Error().Err(notifyErr).Str("booking_id", booking.ID).Msg("booking created notification failed")
		}
	}()

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

// validateSlotWindow checks the requested interval is exactly one slot the
// availability endpoint would have offered: it starts on the interval grid,
// runs for the service duration, and sits inside opening hours.
func (s *serviceImpl) validateSlotWindow(req dto.CreateBookingRequest, svc serviceModel.Service, cfg settingsDto.BookingConfig) error {
	requested, err := timerange.New(req.BookingDate, req.StartTime, req.EndTime)
	if err != nil {
		return failure.BadRequest(err) //nolint:wrapcheck
	}

	if !requested.IsValid() {
		return failure.BadRequestFromString("end time must be after start time") //nolint:wrapcheck
	}

	if requested.End.Sub(requested.Start) != time.Duration(svc.DurationMin)*time.Minute {
		return failure.BadRequestFromString("booking window does not match the service duration") //nolint:wrapcheck
	}

	hours, err := timerange.New(req.BookingDate, cfg.OpenTime, cfg.CloseTime)
	if err != nil {
		return failure.BadRequest(err) //nolint:wrapcheck
	}

	if requested.Start.Before(hours.Start) || requested.End.After(hours.End) {
		return failure.BadRequestFromString("booking window falls outside opening hours") //nolint:wrapcheck
	}

	sinceOpen := requested.Start.Sub(hours.Start)
	if sinceOpen%(time.Duration(cfg.SlotIntervalMin)*time.Minute) != 0 {
		return failure.BadRequestFromString("start time is not on the booking grid") //nolint:wrapcheck
	}

	return nil
}

// resolveDeposit settles the amount the customer must pay up front. The
// service default applies unless the request offers more, and opting into
// SMS adds the per-booking surcharge on top.
func resolveDeposit(req dto.CreateBookingRequest, svc serviceModel.Service, cfg settingsDto.BookingConfig) (float64, error) {
	deposit := svc.DepositAmount

	if req.DepositAmount > 0 {
		if req.DepositAmount < svc.DepositAmount {
			return 0, failure.BadRequestFromString("deposit is below the service minimum") //nolint:wrapcheck
		}

		if req.DepositAmount > svc.Price {
			return 0, failure.BadRequestFromString("deposit cannot exceed the service price") //nolint:wrapcheck
		}

		deposit = req.DepositAmount
	}

	if req.NotifyBySMS {
		deposit += cfg.SMSNotificationFee
	}

	return deposit, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// UpdateStatus applies the admin transitions: pending_deposit or confirmed
// may be cancelled, pending_deposit may be confirmed by hand (e.g. a cash
// deposit). Cancelled is terminal.
func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateBookingStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status == req.Status {
		return nil
	}

	if req.Status != constant.BookingStatusConfirmed && req.Status != constant.BookingStatusCancelled {
		return failure.Conflict(fmt.Sprintf("bookings cannot move to status %q", req.Status)) //nolint:wrapcheck
	}

	if booking.Status == constant.BookingStatusCancelled {
		return failure.Conflict("cancelled bookings cannot change status") //nolint:wrapcheck
	}

	if req.Status == constant.BookingStatusConfirmed && booking.Status != constant.BookingStatusPendingDeposit {
		return failure.Conflict("only pending bookings can be confirmed") //nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	s.invalidate(ctx, id)

	booking.Status = req.Status

	go func() {
		c := context.WithoutCancel(ctx)

		var notifyErr error

		switch req.Status {
		case constant.BookingStatusConfirmed:
			notifyErr = s.notifier.BookingConfirmed(c, booking)
		case constant.BookingStatusCancelled:
			notifyErr = s.notifier.BookingCancelled(c, booking)
		}

		if notifyErr != nil {
			log.Error().Err(notifyErr).Str("booking_id", booking.ID).Msg("booking status notification failed")
		}
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status != constant.BookingStatusCancelled {
		return failure.Conflict("only cancelled bookings can be deleted") //nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) loadBooking(ctx context.Context, id string) (booking model.Booking, err error) {
	booking, err = s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetBooking, id))
		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}
