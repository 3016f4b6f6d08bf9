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
	bookingMocks "beautybar/internal/domains/booking/mocks"
	"beautybar/internal/domains/booking/model"
	"beautybar/internal/domains/booking/model/dto"
	"beautybar/internal/domains/booking/service"
	serviceMocks "beautybar/internal/domains/service/mocks"
	serviceModel "beautybar/internal/domains/service/model"
	settingsMocks "beautybar/internal/domains/settings/mocks"
	settingsModel "beautybar/internal/domains/settings/model"
	settingsService "beautybar/internal/domains/settings/service"
	notifierMocks "beautybar/internal/notifier/mocks"
	"beautybar/shared/cache"
	cacheMocks "beautybar/shared/cache/mocks"
	"beautybar/shared/constant"
	"beautybar/shared/failure"
	"beautybar/shared/timezone"
)

type bookingFixture struct {
	repo     *bookingMocks.MockBooking
	services *serviceMocks.MockService
	settings *settingsMocks.MockSettings
	notifier *notifierMocks.MockNotifier
	cache    *cacheMocks.MockRedisCache
	svc      service.Booking
}

func newBookingFixture(t *testing.T) bookingFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockServiceRepo := serviceMocks.NewMockService(ctrl)
	mockSettingsRepo := settingsMocks.NewMockSettings(ctrl)
	mockGateway := stripeMocks.NewMockGateway(ctrl)
	mockNotifier := notifierMocks.NewMockNotifier(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	// Reads go through the cache and mutations clear it; neither path is
	// under test here.
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	settingsSvc := settingsService.New(mockSettingsRepo, mockGateway, cfg, mockCache, mockOtel)

	svc := service.New(mockRepo, mockServiceRepo, settingsSvc, mockNotifier, cfg, mockCache, mockOtel)

	return bookingFixture{
		repo:     mockRepo,
		services: mockServiceRepo,
		settings: mockSettingsRepo,
		notifier: mockNotifier,
		cache:    mockCache,
		svc:      svc,
	}
}

func futureDate(t *testing.T) string {
	t.Helper()

	return timezone.Now().AddDate(0, 0, 7).Format(constant.DateFormat)
}

func testService() serviceModel.Service {
	return serviceModel.Service{
		ID:            "svc-1",
		Name:          "Gel Manicure",
		Price:         40,
		DepositAmount: 10,
		DurationMin:   60,
		Active:        true,
	}
}

func testSettings() settingsModel.Settings {
	return settingsModel.Settings{
		ID:                 constant.SettingsSingletonID,
		OpenTime:           "09:00",
		CloseTime:          "17:00",
		SlotIntervalMin:    30,
		SMSNotificationFee: 0.5,
	}
}

func validCreateRequest(t *testing.T) dto.CreateBookingRequest {
	t.Helper()

	return dto.CreateBookingRequest{
		ServiceID:     "svc-1",
		CustomerName:  "Amelia Pond",
		CustomerEmail: "amelia@example.com",
		BookingDate:   futureDate(t),
		StartTime:     "10:00",
		EndTime:       "11:00",
		NotifyByEmail: true,
	}
}

func TestBookingService_Create_RejectsBeforeAnyLookup(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *dto.CreateBookingRequest)
		message string
	}{
		{
			name: "no contact details",
			mutate: func(req *dto.CreateBookingRequest) {
				req.CustomerEmail = ""
				req.CustomerPhone = ""
			},
			message: "provide an email address or a phone number",
		},
		{
			name: "no notification channel",
			mutate: func(req *dto.CreateBookingRequest) {
				req.NotifyByEmail = false
				req.NotifyBySMS = false
			},
			message: "choose at least one notification channel",
		},
		{
			name: "email channel without email",
			mutate: func(req *dto.CreateBookingRequest) {
				req.CustomerEmail = ""
				req.CustomerPhone = "07700900123"
			},
			message: "email notifications require an email address",
		},
		{
			name: "sms channel without phone",
			mutate: func(req *dto.CreateBookingRequest) {
				req.NotifyByEmail = false
				req.NotifyBySMS = true
			},
			message: "sms notifications require a phone number",
		},
		{
			name: "booking for today",
			mutate: func(req *dto.CreateBookingRequest) {
				req.BookingDate = timezone.Now().Format(constant.DateFormat)
			},
			message: "bookings must be for a future date",
		},
		{
			name: "booking in the past",
			mutate: func(req *dto.CreateBookingRequest) {
				req.BookingDate = "2020-01-01"
			},
			message: "bookings must be for a future date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)

			req := validCreateRequest(t)
			tt.mutate(&req)

			_, err := f.svc.Create(context.Background(), req)

			assert.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestBookingService_Create_WindowValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *dto.CreateBookingRequest)
		message string
	}{
		{
			name: "window shorter than service duration",
			mutate: func(req *dto.CreateBookingRequest) {
				req.EndTime = "10:30"
			},
			message: "booking window does not match the service duration",
		},
		{
			name: "start time off the grid",
			mutate: func(req *dto.CreateBookingRequest) {
				req.StartTime = "10:15"
				req.EndTime = "11:15"
			},
			message: "start time is not on the booking grid",
		},
		{
			name: "window past closing time",
			mutate: func(req *dto.CreateBookingRequest) {
				req.StartTime = "16:30"
				req.EndTime = "17:30"
			},
			message: "booking window falls outside opening hours",
		},
		{
			name: "window before opening time",
			mutate: func(req *dto.CreateBookingRequest) {
				req.StartTime = "08:00"
				req.EndTime = "09:00"
			},
			message: "booking window falls outside opening hours",
		},
		{
			name: "end before start",
			mutate: func(req *dto.CreateBookingRequest) {
				req.StartTime = "11:00"
				req.EndTime = "10:00"
			},
			message: "end time must be after start time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)

			f.services.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(testService(), nil)
			f.settings.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(testSettings(), nil)

			req := validCreateRequest(t)
			tt.mutate(&req)

			_, err := f.svc.Create(context.Background(), req)

			assert.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestBookingService_Create_ServiceLookup(t *testing.T) {
	t.Run("unknown service", func(t *testing.T) {
		f := newBookingFixture(t)

		f.services.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(serviceModel.Service{}, nil)

		_, err := f.svc.Create(context.Background(), validCreateRequest(t))

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("inactive service", func(t *testing.T) {
		f := newBookingFixture(t)

		svc := testService()
		svc.Active = false

		f.services.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(svc, nil)

		_, err := f.svc.Create(context.Background(), validCreateRequest(t))

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		assert.Equal(t, "service is not open for booking", err.Error())
	})
}

func TestBookingService_Create_DepositResolution(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(req *dto.CreateBookingRequest)
		wantErr     string
		wantDeposit float64
	}{
		{
			name:        "service default deposit",
			mutate:      func(req *dto.CreateBookingRequest) {},
			wantDeposit: 10,
		},
		{
			name: "customer offers more",
			mutate: func(req *dto.CreateBookingRequest) {
				req.DepositAmount = 25
			},
			wantDeposit: 25,
		},
		{
			name: "full payment up front",
			mutate: func(req *dto.CreateBookingRequest) {
				req.DepositAmount = 40
			},
			wantDeposit: 40,
		},
		{
			name: "sms surcharge added",
			mutate: func(req *dto.CreateBookingRequest) {
				req.NotifyBySMS = true
				req.CustomerPhone = "07700900123"
			},
			wantDeposit: 10.5,
		},
		{
			name: "deposit below service minimum",
			mutate: func(req *dto.CreateBookingRequest) {
				req.DepositAmount = 5
			},
			wantErr: "deposit is below the service minimum",
		},
		{
			name: "deposit above service price",
			mutate: func(req *dto.CreateBookingRequest) {
				req.DepositAmount = 45
			},
			wantErr: "deposit cannot exceed the service price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)

			f.services.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(testService(), nil)
			f.settings.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(testSettings(), nil)

			var admitted model.Booking

			if tt.wantErr == "" {
				f.repo.EXPECT().
					InsertAdmitted(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, booking model.Booking) error {
						admitted = booking

						return nil
					})
				f.notifier.EXPECT().
					BookingCreated(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			}

			req := validCreateRequest(t)
			tt.mutate(&req)

			res, err := f.svc.Create(context.Background(), req)

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantDeposit, admitted.DepositAmount)
			assert.Equal(t, constant.BookingStatusPendingDeposit, admitted.Status)
			assert.Equal(t, "Gel Manicure", admitted.ServiceName)
			assert.Equal(t, 40.0, admitted.ServicePrice)
			assert.Equal(t, admitted.ID, res.ID)
			assert.Equal(t, constant.BookingStatusPendingDeposit, res.Status)
		})
	}
}

func TestBookingService_Create_SlotConflict(t *testing.T) {
	f := newBookingFixture(t)

	f.services.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(testService(), nil)
	f.settings.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(testSettings(), nil)
	f.repo.EXPECT().
		InsertAdmitted(gomock.Any(), gomock.Any()).
		Return(failure.Conflict("slot is no longer available, please choose another"))

	_, err := f.svc.Create(context.Background(), validCreateRequest(t))

	assert.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestBookingService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name       string
		current    string
		target     string
		wantUpdate bool
		wantCode   int
	}{
		{
			name:       "confirm pending booking",
			current:    constant.BookingStatusPendingDeposit,
			target:     constant.BookingStatusConfirmed,
			wantUpdate: true,
		},
		{
			name:       "cancel pending booking",
			current:    constant.BookingStatusPendingDeposit,
			target:     constant.BookingStatusCancelled,
			wantUpdate: true,
		},
		{
			name:       "cancel confirmed booking",
			current:    constant.BookingStatusConfirmed,
			target:     constant.BookingStatusCancelled,
			wantUpdate: true,
		},
		{
			name:    "same status is a no-op",
			current: constant.BookingStatusConfirmed,
			target:  constant.BookingStatusConfirmed,
		},
		{
			name:     "cancelled is terminal",
			current:  constant.BookingStatusCancelled,
			target:   constant.BookingStatusConfirmed,
			wantCode: http.StatusConflict,
		},
		{
			name:     "cannot reconfirm a confirmed booking",
			current:  constant.BookingStatusConfirmed,
			target:   constant.BookingStatusPendingDeposit,
			wantCode: http.StatusConflict,
		},
		{
			name:     "unknown target status is rejected",
			current:  constant.BookingStatusPendingDeposit,
			target:   "no_show",
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)

			booking := model.Booking{ID: "bk-1", Status: tt.current}

			f.repo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(booking, nil)

			if tt.wantUpdate {
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
				f.notifier.EXPECT().
					BookingConfirmed(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
				f.notifier.EXPECT().
					BookingCancelled(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			}

			err := f.svc.UpdateStatus(context.Background(), "bk-1", dto.UpdateStatusRequest{Status: tt.target})

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBookingService_Delete(t *testing.T) {
	t.Run("only cancelled bookings can be deleted", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "bk-1", Status: constant.BookingStatusConfirmed}, nil)

		err := f.svc.Delete(context.Background(), "bk-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("deletes a cancelled booking", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{ID: "bk-1", Status: constant.BookingStatusCancelled}, nil)
		f.repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		err := f.svc.Delete(context.Background(), "bk-1")

		assert.NoError(t, err)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		err := f.svc.Delete(context.Background(), "missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
