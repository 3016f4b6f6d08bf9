package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"beautybar/config"
	"beautybar/infras/otel"
	"beautybar/infras/stripe"
	"beautybar/internal/domains/settings/model"
	"beautybar/internal/domains/settings/model/dto"
	"beautybar/internal/domains/settings/repository"
	"beautybar/shared"
	"beautybar/shared/cache"
	"beautybar/shared/constant"
	"beautybar/shared/failure"
)

const (
	cacheGetSettings = "settings:get"
)

type Settings interface {
	Get(ctx context.Context) (dto.SettingsResponse, error)
	GetPublic(ctx context.Context) (dto.PublicSettingsResponse, error)
	Update(ctx context.Context, req dto.UpdateSettingsRequest) error
	BookingConfig(ctx context.Context) (dto.BookingConfig, error)
}

type serviceImpl struct {
	repo    repository.Settings
	gateway stripe.Gateway
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
}

func New(repo repository.Settings, gateway stripe.Gateway, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Settings {
	return &serviceImpl{
		repo:    repo,
		gateway: gateway,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
	}
}

func (s *serviceImpl) Get(ctx context.Context) (res dto.SettingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetSettings")
	defer scope.End()
	defer scope.TraceIfError(err)

	settings, err := s.load(ctx)
	if err != nil {
		return res, err
	}

	res.FromModel(settings)

	return res, nil
}

func (s *serviceImpl) GetPublic(ctx context.Context) (res dto.PublicSettingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetPublicSettings")
	defer scope.End()
	defer scope.TraceIfError(err)

	settings, err := s.load(ctx)
	if err != nil {
		return res, err
	}

	res.FromModel(settings, s.gateway.Enabled())

	return res, nil
}

func (s *serviceImpl) BookingConfig(ctx context.Context) (res dto.BookingConfig, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".BookingConfig")
	defer scope.End()
	defer scope.TraceIfError(err)

	settings, err := s.load(ctx)
	if err != nil {
		return res, err
	}

	res.FromModel(settings)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateSettingsRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateSettings")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateSettingsRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	filter := shared.FilterByID(constant.SettingsSingletonID, model.FieldID, model.TableName)

	settings, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get settings")

		return fmt.Errorf("failed to get settings: %w", err)
	}

	if settings.ID == constant.Empty {
		return failure.NotFound("settings not found") //nolint:wrapcheck
	}

	openTime := settings.OpenTime
	if req.OpenTime != "" {
		openTime = req.OpenTime
	}

	closeTime := settings.CloseTime
	if req.CloseTime != "" {
		closeTime = req.CloseTime
	}

	if openTime >= closeTime {
		return failure.BadRequestFromString("open time must be before close time") //nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update settings")

		return fmt.Errorf("failed to update settings: %w", err)
	}

	s.pushCredentials(applyCredentialPatch(settings, req))

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetSettings)
	}()

	return nil
}

// load fetches the singleton row, caches it, and pushes any stored Stripe
// credentials into the gateway.
func (s *serviceImpl) load(ctx context.Context) (settings model.Settings, err error) {
	cacheKey := shared.BuildCacheKey(cacheGetSettings, constant.SettingsSingletonID)

	err = s.cache.Get(ctx, cacheKey, &settings)
	if err == nil {
		return settings, nil
	}

	settings, err = s.repo.Get(ctx, shared.FilterByID(constant.SettingsSingletonID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get settings")

		return settings, fmt.Errorf("failed to get settings: %w", err)
	}

	if settings.ID == constant.Empty {
		return settings, failure.NotFound("settings not found") //nolint:wrapcheck
	}

	s.pushCredentials(settings)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, settings, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save settings to cache")
		}
	}()

	return settings, nil
}

func (s *serviceImpl) pushCredentials(settings model.Settings) {
	secretKey := ""
	if settings.StripeSecretKey != nil {
		secretKey = *settings.StripeSecretKey
	}

	webhookSecret := ""
	if settings.StripeWebhookSecret != nil {
		webhookSecret = *settings.StripeWebhookSecret
	}

	stripe.SetCredentials(secretKey, webhookSecret)
}

func applyCredentialPatch(settings model.Settings, req dto.UpdateSettingsRequest) model.Settings {
	if req.StripeSecretKey != nil {
		settings.StripeSecretKey = req.StripeSecretKey
	}

	if req.StripeWebhookSecret != nil {
		settings.StripeWebhookSecret = req.StripeWebhookSecret
	}

	return settings
}
