package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"beautybar/config"
	"beautybar/infras/otel"
	bookingModel "beautybar/internal/domains/booking/model"
	bookingRepo "beautybar/internal/domains/booking/repository"
	"beautybar/internal/domains/service/model"
	"beautybar/internal/domains/service/model/dto"
	"beautybar/internal/domains/service/repository"
	"beautybar/shared"
	"beautybar/shared/cache"
	"beautybar/shared/constant"
	gDto "beautybar/shared/dto"
	"beautybar/shared/failure"
)

const (
	cacheGetService    = "service:get"
	cacheGetAllService = "service:gets"
	cacheCountService  = "service:count"
)

type Service interface {
	Create(ctx context.Context, req dto.CreateServiceRequest) (dto.ServiceResponse, error)
	GetAllPublic(ctx context.Context) (dto.GetServicesResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetServicesResponse, error)
	Get(ctx context.Context, id string) (dto.ServiceResponse, error)
	Update(ctx context.Context, req dto.UpdateServiceRequest, id string) error
	Delete(ctx context.Context, id string) error
	CreateAddOn(ctx context.Context, req dto.CreateAddOnRequest, serviceID string) (dto.AddOnResponse, error)
	UpdateAddOn(ctx context.Context, req dto.UpdateAddOnRequest, id string) error
	DeleteAddOn(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Service
	addOnRepo   repository.AddOn
	bookingRepo bookingRepo.Booking
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(repo repository.Service, addOnRepo repository.AddOn, bookingRepo bookingRepo.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Service {
	return &serviceImpl{
		repo:        repo,
		addOnRepo:   addOnRepo,
		bookingRepo: bookingRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateServiceRequest) (res dto.ServiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.DepositAmount > req.Price {
		return res, failure.BadRequestFromString("deposit amount cannot exceed price") //nolint:wrapcheck
	}

	svc := req.ToModel()

	if err = s.repo.Insert(ctx, svc); err != nil {
		log.Error().Err(err).Msg("failed to create service")

		return res, fmt.Errorf("failed to create service: %w", err)
	}

	res.FromModel(svc, nil)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllService)
		shared.InvalidateCaches(c, s.cache, cacheCountService)
	}()

	return res, nil
}

func (s *serviceImpl) GetAllPublic(ctx context.Context) (res dto.GetServicesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllPublic")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{
		SortBy:  model.FieldPosition,
		SortDir: gDto.SortDirAsc,
	}

	return s.getAll(ctx, params, filter)
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetServicesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.getAll(ctx, req, filter)
}

func (s *serviceImpl) getAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetServicesResponse, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllService, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for services")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count services")

		return res, fmt.Errorf("failed to count services: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get services")

		return res, fmt.Errorf("failed to get services: %w", err)
	}

	addOns, err := s.addOnsByService(ctx, models)
	if err != nil {
		return res, err
	}

	res.FromModels(models, addOns, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save services to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) addOnsByService(ctx context.Context, services []model.Service) (map[string][]model.AddOn, error) {
	if len(services) == 0 {
		return map[string][]model.AddOn{}, nil
	}

	ids := make([]string, len(services))
	for i, svc := range services {
		ids[i] = svc.ID
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.AddOnFieldServiceID,
				Operator: gDto.FilterOperatorIn,
				Value:    ids,
				Table:    model.AddOnTableName,
			},
		},
	}

	params := gDto.QueryParams{
		SortBy:  model.AddOnFieldName,
		SortDir: gDto.SortDirAsc,
	}

	addOns, err := s.addOnRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get service add-ons")

		return nil, fmt.Errorf("failed to get service add-ons: %w", err)
	}

	grouped := map[string][]model.AddOn{}
	for _, addOn := range addOns {
		grouped[addOn.ServiceID] = append(grouped[addOn.ServiceID], addOn)
	}

	return grouped, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ServiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetService, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for service")

		return res, nil
	}

	svc, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get service")

		return res, fmt.Errorf("failed to get service: %w", err)
	}

	if svc.ID == constant.Empty {
		return res, failure.NotFound("service not found") //nolint:wrapcheck
	}

	addOns, err := s.addOnsByService(ctx, []model.Service{svc})
	if err != nil {
		return res, err
	}

	res.FromModel(svc, addOns[svc.ID])

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save service to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateServiceRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	svc, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get service")

		return fmt.Errorf("failed to get service: %w", err)
	}

	if svc.ID == constant.Empty {
		return failure.NotFound("service not found") //nolint:wrapcheck
	}

	// The deposit ceiling holds against whichever price wins after the patch.
	price := svc.Price
	if req.Price != nil {
		price = *req.Price
	}

	deposit := svc.DepositAmount
	if req.DepositAmount != nil {
		deposit = *req.DepositAmount
	}

	if deposit > price {
		return failure.BadRequestFromString("deposit amount cannot exceed price") //nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update service")

		return fmt.Errorf("failed to update service: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if service exists")

		return fmt.Errorf("failed to check if service exists: %w", err)
	}

	if !exist {
		return failure.NotFound("service not found") //nolint:wrapcheck
	}

	activeReferers, err := s.bookingRepo.Exist(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldServiceID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Operator: gDto.FilterOperatorNotEq,
				Value:    constant.BookingStatusCancelled,
				Table:    bookingModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check bookings referencing service")

		return fmt.Errorf("failed to check bookings referencing service: %w", err)
	}

	if activeReferers {
		return failure.Conflict("service has bookings that are not cancelled; deactivate it instead") //nolint:wrapcheck
	}

	// Cancelled bookings still hold the foreign key; purge them first.
	err = s.bookingRepo.Delete(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldServiceID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    constant.BookingStatusCancelled,
				Table:    bookingModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to purge cancelled bookings for service")

		return fmt.Errorf("failed to purge cancelled bookings for service: %w", err)
	}

	err = s.addOnRepo.Delete(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.AddOnFieldServiceID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    model.AddOnTableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to delete service add-ons")

		return fmt.Errorf("failed to delete service add-ons: %w", err)
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete service")

		return fmt.Errorf("failed to delete service: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) CreateAddOn(ctx context.Context, req dto.CreateAddOnRequest, serviceID string) (res dto.AddOnResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateAddOn")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(serviceID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if service exists")

		return res, fmt.Errorf("failed to check if service exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("service not found") //nolint:wrapcheck
	}

	addOn := req.ToModel(serviceID)

	if err = s.addOnRepo.Insert(ctx, addOn); err != nil {
		log.Error().Err(err).Msg("failed to create service add-on")

		return res, fmt.Errorf("failed to create service add-on: %w", err)
	}

	res.FromModel(addOn)

	s.invalidate(ctx, serviceID)

	return res, nil
}

func (s *serviceImpl) UpdateAddOn(ctx context.Context, req dto.UpdateAddOnRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateAddOn")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.AddOnFieldID, model.AddOnTableName)

	addOn, err := s.addOnRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get service add-on")

		return fmt.Errorf("failed to get service add-on: %w", err)
	}

	if addOn.ID == constant.Empty {
		return failure.NotFound("service add-on not found") //nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req)
	if err = s.addOnRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update service add-on")

		return fmt.Errorf("failed to update service add-on: %w", err)
	}

	s.invalidate(ctx, addOn.ServiceID)

	return nil
}

func (s *serviceImpl) DeleteAddOn(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteAddOn")
	defer scope.End()
	defer scope.TraceIfError(err)

	addOn, err := s.addOnRepo.Get(ctx, shared.FilterByID(id, model.AddOnFieldID, model.AddOnTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get service add-on")

		return fmt.Errorf("failed to get service add-on: %w", err)
	}

	if addOn.ID == constant.Empty {
		return failure.NotFound("service add-on not found") //nolint:wrapcheck
	}

	if err = s.addOnRepo.Delete(ctx, shared.FilterByID(id, model.AddOnFieldID, model.AddOnTableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete service add-on")

		return fmt.Errorf("failed to delete service add-on: %w", err)
	}

	s.invalidate(ctx, addOn.ServiceID)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetService, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete service from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllService)
		shared.InvalidateCaches(c, s.cache, cacheCountService)
	}()
}
