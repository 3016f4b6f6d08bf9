package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"beautybar/config"
	"beautybar/infras/jwt"
	"beautybar/infras/otel"
	"beautybar/internal/domains/auth/model/dto"
	settingsModel "beautybar/internal/domains/settings/model"
	settingsRepo "beautybar/internal/domains/settings/repository"
	"beautybar/shared"
	"beautybar/shared/cache"
	"beautybar/shared/constant"
	"beautybar/shared/failure"
	"beautybar/shared/password"
	"beautybar/shared/timezone"
)

// Auth authenticates the single admin account stored in business
// settings. There is no registration; the seed migration creates the
// account and ChangePassword rotates it.
type Auth interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) error
	Session(ctx context.Context, accessToken string) (dto.SessionResponse, error)
}

type serviceImpl struct {
	settingsRepo settingsRepo.Settings
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
	jwtService   jwt.JWT
}

func New(settingsRepo settingsRepo.Settings, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, jwtService jwt.JWT) Auth {
	return &serviceImpl{
		settingsRepo: settingsRepo,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
		jwtService:   jwtService,
	}
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	settings, err := s.loadSettings(ctx)
	if err != nil {
		return res, err
	}

	if !strings.EqualFold(req.Email, settings.AdminEmail) {
		log.Warn().Str("email", req.Email).Msg("login attempt with unknown email")

		return res, failure.BadRequestFromString("invalid email or password") //nolint:wrapcheck
	}

	if err = password.Verify(req.Password, settings.AdminPasswordHash); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.BadRequestFromString("invalid email or password") //nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(settings.AdminEmail, constant.RoleAdmin)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	tokenPair, err := s.jwtService.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token") //nolint:wrapcheck
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	settings, err := s.loadSettings(ctx)
	if err != nil {
		return err
	}

	if err = password.Verify(req.CurrentPassword, settings.AdminPasswordHash); err != nil {
		return failure.BadRequestFromString("current password is incorrect") //nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	updatedFields := map[string]any{
		settingsModel.FieldAdminPasswordHash: hashedPassword,
		constant.FieldModifiedAt:             timezone.Now(),
	}

	filter := shared.FilterByID(constant.SettingsSingletonID, settingsModel.FieldID, settingsModel.TableName)

	if err = s.settingsRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, "settings:get")
	}()

	return nil
}

// Session resolves an access token back to the identity it carries, for
// the admin frontend to re-hydrate its session.
func (s *serviceImpl) Session(ctx context.Context, accessToken string) (res dto.SessionResponse, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Session")
	defer scope.End()
	defer scope.TraceIfError(err)

	claims, err := s.jwtService.ValidateToken(accessToken, jwt.AccessToken)
	if err != nil {
		return res, failure.Unauthorized("invalid or expired token") //nolint:wrapcheck
	}

	res.Email = claims.Email
	res.Role = claims.Role

	return res, nil
}

func (s *serviceImpl) loadSettings(ctx context.Context) (settings settingsModel.Settings, err error) {
	settings, err = s.settingsRepo.Get(ctx, shared.FilterByID(constant.SettingsSingletonID, settingsModel.FieldID, settingsModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get settings")

		return settings, fmt.Errorf("failed to get settings: %w", err)
	}

	if settings.ID == constant.Empty {
		return settings, failure.NotFound("settings not found") //nolint:wrapcheck
	}

	return settings, nil
}
