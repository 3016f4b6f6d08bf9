package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"beautybar/config"
	"beautybar/infras/otel/mocks"
	stripeMocks "beautybar/infras/stripe/mocks"
	settingsMocks "beautybar/internal/domains/settings/mocks"
	"beautybar/internal/domains/settings/model"
	"beautybar/internal/domains/settings/model/dto"
	"beautybar/internal/domains/settings/service"
	"beautybar/shared/cache"
	cacheMocks "beautybar/shared/cache/mocks"
	"beautybar/shared/constant"
	"beautybar/shared/failure"
)

type settingsFixture struct {
	repo    *settingsMocks.MockSettings
	gateway *stripeMocks.MockGateway
	svc     service.Settings
}

func newSettingsFixture(t *testing.T) settingsFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := settingsMocks.NewMockSettings(ctrl)
	mockGateway := stripeMocks.NewMockGateway(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockGateway, cfg, mockCache, mockOtel)

	return settingsFixture{
		repo:    mockRepo,
		gateway: mockGateway,
		svc:     svc,
	}
}

func storedSettings() model.Settings {
	secretKey := "sk_test_123"

	return model.Settings{
		ID:                 constant.SettingsSingletonID,
		BusinessName:       "The Beauty Bar",
		OpenTime:           "10:00",
		CloseTime:          "18:00",
		SlotIntervalMin:    15,
		DefaultPrice:       35,
		DefaultDeposit:     0.2,
		SMSNotificationFee: 0.5,
		AdminEmail:         "admin@example.com",
		StripeSecretKey:    &secretKey,
	}
}

func TestSettingsService_Get(t *testing.T) {
	t.Run("reports stored secrets as booleans", func(t *testing.T) {
		f := newSettingsFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedSettings(), nil)

		res, err := f.svc.Get(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, "The Beauty Bar", res.BusinessName)
		assert.Equal(t, "10:00", res.OpenTime)
		assert.Equal(t, "18:00", res.CloseTime)
		assert.True(t, res.StripeKeyStored)
		assert.False(t, res.StripeWebhookStored)
		assert.Equal(t, "admin@example.com", res.AdminEmail)
	})

	t.Run("fails when the row is missing", func(t *testing.T) {
		f := newSettingsFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Settings{}, nil)

		_, err := f.svc.Get(context.Background())

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestSettingsService_GetPublic(t *testing.T) {
	t.Run("exposes hours and the gateway state, never credentials", func(t *testing.T) {
		f := newSettingsFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedSettings(), nil)
		f.gateway.EXPECT().Enabled().Return(true)

		res, err := f.svc.GetPublic(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, "The Beauty Bar", res.BusinessName)
		assert.Equal(t, "10:00", res.OpenTime)
		assert.Equal(t, 15, res.SlotIntervalMin)
		assert.True(t, res.PaymentsEnabled)
	})

	t.Run("reports payments disabled when the gateway is off", func(t *testing.T) {
		f := newSettingsFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedSettings(), nil)
		f.gateway.EXPECT().Enabled().Return(false)

		res, err := f.svc.GetPublic(context.Background())

		assert.NoError(t, err)
		assert.False(t, res.PaymentsEnabled)
	})
}

func TestSettingsService_BookingConfig(t *testing.T) {
	t.Run("passes stored values through", func(t *testing.T) {
		f := newSettingsFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedSettings(), nil)

		cfg, err := f.svc.BookingConfig(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, "10:00", cfg.OpenTime)
		assert.Equal(t, "18:00", cfg.CloseTime)
		assert.Equal(t, 15, cfg.SlotIntervalMin)
		assert.InDelta(t, 0.2, cfg.DefaultDeposit, 0.001)
	})

	t.Run("falls back to defaults for blank hours", func(t *testing.T) {
		f := newSettingsFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Settings{ID: constant.SettingsSingletonID}, nil)

		cfg, err := f.svc.BookingConfig(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, model.DefaultOpenTime, cfg.OpenTime)
		assert.Equal(t, model.DefaultCloseTime, cfg.CloseTime)
		assert.Equal(t, model.DefaultSlotIntervalMin, cfg.SlotIntervalMin)
		assert.InDelta(t, model.DefaultSMSNotificationFee, cfg.SMSNotificationFee, 0.001)
	})
}

func TestSettingsService_Update(t *testing.T) {
	t.Run("writes only the provided fields", func(t *testing.T) {
		f := newSettingsFixture(t)
		interval := 20

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedSettings(), nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Contains(t, fields, model.FieldSlotIntervalMin)
				assert.NotContains(t, fields, model.FieldOpenTime)
				assert.NotContains(t, fields, model.FieldAdminEmail)

				return nil
			})

		err := f.svc.Update(context.Background(), dto.UpdateSettingsRequest{
			SlotIntervalMin: &interval,
		})

		assert.NoError(t, err)
	})

	t.Run("rejects an empty request", func(t *testing.T) {
		f := newSettingsFixture(t)

		err := f.svc.Update(context.Background(), dto.UpdateSettingsRequest{})

		assert.EqualError(t, err, "update request cannot be empty")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("rejects hours that close before they open", func(t *testing.T) {
		f := newSettingsFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedSettings(), nil)

		err := f.svc.Update(context.Background(), dto.UpdateSettingsRequest{
			OpenTime: "19:00",
		})

		assert.EqualError(t, err, "open time must be before close time")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("fails when the row is missing", func(t *testing.T) {
		f := newSettingsFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Settings{}, nil)

		err := f.svc.Update(context.Background(), dto.UpdateSettingsRequest{
			OpenTime: "08:00",
		})

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
