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
	"beautybar/internal/domains/availability/service"
	bookingMocks "beautybar/internal/domains/booking/mocks"
	bookingModel "beautybar/internal/domains/booking/model"
	serviceMocks "beautybar/internal/domains/service/mocks"
	serviceModel "beautybar/internal/domains/service/model"
	settingsMocks "beautybar/internal/domains/settings/mocks"
	settingsModel "beautybar/internal/domains/settings/model"
	settingsService "beautybar/internal/domains/settings/service"
	timeoffMocks "beautybar/internal/domains/timeoff/mocks"
	timeoffModel "beautybar/internal/domains/timeoff/model"
	"beautybar/shared/cache"
	cacheMocks "beautybar/shared/cache/mocks"
	"beautybar/shared/constant"
	"beautybar/shared/failure"
	"beautybar/shared/timezone"
)

type availabilityFixture struct {
	bookings *bookingMocks.MockBooking
	timeoff  *timeoffMocks.MockTimeOff
	services *serviceMocks.MockService
	settings *settingsMocks.MockSettings
	svc      service.Availability
}

func newAvailabilityFixture(t *testing.T) availabilityFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockTimeoffRepo := timeoffMocks.NewMockTimeOff(ctrl)
	mockServiceRepo := serviceMocks.NewMockService(ctrl)
	mockSettingsRepo := settingsMocks.NewMockSettings(ctrl)
	mockGateway := stripeMocks.NewMockGateway(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	settingsSvc := settingsService.New(mockSettingsRepo, mockGateway, cfg, mockCache, mockOtel)

	svc := service.New(mockBookingRepo, mockTimeoffRepo, mockServiceRepo, settingsSvc, cfg, mockOtel)

	return availabilityFixture{
		bookings: mockBookingRepo,
		timeoff:  mockTimeoffRepo,
		services: mockServiceRepo,
		settings: mockSettingsRepo,
		svc:      svc,
	}
}

func openService() serviceModel.Service {
	return serviceModel.Service{
		ID:          "svc-1",
		Name:        "Gel Manicure",
		DurationMin: 60,
		Active:      true,
	}
}

func businessHours() settingsModel.Settings {
	return settingsModel.Settings{
		ID:              constant.SettingsSingletonID,
		OpenTime:        "09:00",
		CloseTime:       "17:00",
		SlotIntervalMin: 30,
	}
}

func dateFromNow(days int) string {
	return timezone.Now().AddDate(0, 0, days).Format(constant.DateFormat)
}

func busyBooking(t *testing.T, date, startTime, endTime string) bookingModel.Booking {
	t.Helper()

	day, err := timezone.Parse(constant.DateFormat, date)
	assert.NoError(t, err)

	start, err := timezone.Parse(constant.TimeFormat, startTime)
	assert.NoError(t, err)

	end, err := timezone.Parse(constant.TimeFormat, endTime)
	assert.NoError(t, err)

	return bookingModel.Booking{
		ID:          "bkg-1",
		BookingDate: day,
		StartTime:   start,
		EndTime:     end,
		Status:      constant.BookingStatusConfirmed,
	}
}

func TestAvailabilityService_GetSlots(t *testing.T) {
	t.Run("lists every open slot on a clear day", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		date := dateFromNow(7)

		f.services.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openService(), nil)
		f.settings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(businessHours(), nil)
		f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bookingModel.Booking{}, nil)
		f.timeoff.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]timeoffModel.TimeOffBlock{}, nil)

		res, err := f.svc.GetSlots(context.Background(), date, "svc-1")

		assert.NoError(t, err)
		assert.Equal(t, date, res.Date)
		assert.Equal(t, "svc-1", res.ServiceID)
		assert.Len(t, res.Slots, 15)
		assert.Equal(t, "09:00", res.Slots[0].StartTime)
		assert.Equal(t, "17:00", res.Slots[len(res.Slots)-1].EndTime)
	})

	t.Run("excludes slots overlapping a booking", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		date := dateFromNow(7)

		f.services.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openService(), nil)
		f.settings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(businessHours(), nil)
		f.bookings.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{busyBooking(t, date, "10:00", "11:00")}, nil)
		f.timeoff.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]timeoffModel.TimeOffBlock{}, nil)

		res, err := f.svc.GetSlots(context.Background(), date, "svc-1")

		assert.NoError(t, err)

		for _, slot := range res.Slots {
			assert.False(t, slot.StartTime >= "09:30" && slot.StartTime < "11:00",
				"slot at %s overlaps the 10:00 booking", slot.StartTime)
		}
	})

	t.Run("returns empty for today without touching the calendar", func(t *testing.T) {
		f := newAvailabilityFixture(t)

		f.services.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openService(), nil)

		res, err := f.svc.GetSlots(context.Background(), dateFromNow(0), "svc-1")

		assert.NoError(t, err)
		assert.Empty(t, res.Slots)
		assert.NotNil(t, res.Slots)
	})

	t.Run("returns empty for a past date", func(t *testing.T) {
		f := newAvailabilityFixture(t)

		f.services.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openService(), nil)

		res, err := f.svc.GetSlots(context.Background(), dateFromNow(-3), "svc-1")

		assert.NoError(t, err)
		assert.Empty(t, res.Slots)
	})

	t.Run("fails for an unknown service", func(t *testing.T) {
		f := newAvailabilityFixture(t)

		f.services.EXPECT().Get(gomock.Any(), gomock.Any()).Return(serviceModel.Service{}, nil)

		_, err := f.svc.GetSlots(context.Background(), dateFromNow(7), "svc-missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("fails for an inactive service", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		svc := openService()
		svc.Active = false

		f.services.EXPECT().Get(gomock.Any(), gomock.Any()).Return(svc, nil)

		_, err := f.svc.GetSlots(context.Background(), dateFromNow(7), "svc-1")

		assert.EqualError(t, err, "service is not open for booking")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestAvailabilityService_GetRange(t *testing.T) {
	t.Run("reports one entry per day with availability flags", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		from := dateFromNow(7)
		to := dateFromNow(9)

		f.services.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openService(), nil)
		f.settings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(businessHours(), nil)
		f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bookingModel.Booking{}, nil)
		f.timeoff.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]timeoffModel.TimeOffBlock{}, nil)

		res, err := f.svc.GetRange(context.Background(), from, to, "svc-1")

		assert.NoError(t, err)
		assert.Len(t, res.Days, 3)

		for i, day := range res.Days {
			assert.Equal(t, timezone.Now().AddDate(0, 0, 7+i).Format(constant.DateFormat), day.Date)
			assert.True(t, day.Available)
		}
	})

	t.Run("marks today and past days unavailable", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		from := dateFromNow(-1)
		to := dateFromNow(1)

		f.services.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openService(), nil)
		f.settings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(businessHours(), nil)
		f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bookingModel.Booking{}, nil)
		f.timeoff.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]timeoffModel.TimeOffBlock{}, nil)

		res, err := f.svc.GetRange(context.Background(), from, to, "svc-1")

		assert.NoError(t, err)
		assert.Len(t, res.Days, 3)
		assert.False(t, res.Days[0].Available)
		assert.False(t, res.Days[1].Available)
		assert.True(t, res.Days[2].Available)
	})

	t.Run("marks a fully blocked day unavailable", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		from := dateFromNow(7)
		to := dateFromNow(8)

		day, err := timezone.Parse(constant.DateFormat, from)
		assert.NoError(t, err)

		blockStart, err := timezone.Parse(constant.TimeFormat, "00:00")
		assert.NoError(t, err)

		blockEnd, err := timezone.Parse(constant.TimeFormat, "23:59")
		assert.NoError(t, err)

		block := timeoffModel.TimeOffBlock{
			ID:        "blk-1",
			StartDate: day,
			StartTime: blockStart,
			EndDate:   day,
			EndTime:   blockEnd,
		}

		f.services.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openService(), nil)
		f.settings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(businessHours(), nil)
		f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bookingModel.Booking{}, nil)
		f.timeoff.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]timeoffModel.TimeOffBlock{block}, nil)

		res, err := f.svc.GetRange(context.Background(), from, to, "svc-1")

		assert.NoError(t, err)
		assert.Len(t, res.Days, 2)
		assert.False(t, res.Days[0].Available)
		assert.True(t, res.Days[1].Available)
	})

	t.Run("rejects a reversed range", func(t *testing.T) {
		f := newAvailabilityFixture(t)

		_, err := f.svc.GetRange(context.Background(), dateFromNow(9), dateFromNow(7), "svc-1")

		assert.EqualError(t, err, "to must not be before from")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("rejects a range wider than two months", func(t *testing.T) {
		f := newAvailabilityFixture(t)

		_, err := f.svc.GetRange(context.Background(), dateFromNow(1), dateFromNow(80), "svc-1")

		assert.EqualError(t, err, "date range is too wide")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		f := newAvailabilityFixture(t)

		_, err := f.svc.GetRange(context.Background(), "yesterday", dateFromNow(7), "svc-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}
