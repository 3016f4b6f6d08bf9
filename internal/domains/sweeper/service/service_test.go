package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"beautybar/config"
	"beautybar/infras/otel/mocks"
	bookingMocks "beautybar/internal/domains/booking/mocks"
	bookingModel "beautybar/internal/domains/booking/model"
	"beautybar/internal/domains/sweeper/service"
	notifierMocks "beautybar/internal/notifier/mocks"
	cacheMocks "beautybar/shared/cache/mocks"
	"beautybar/shared/constant"
	"beautybar/shared/timezone"
)

type sweeperFixture struct {
	repo     *bookingMocks.MockBooking
	notifier *notifierMocks.MockNotifier
	svc      service.Sweeper
}

func newSweeperFixture(t *testing.T) sweeperFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockNotifier := notifierMocks.NewMockNotifier(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Booking.DepositExpiryHours = 24
	cfg.Booking.ReminderWindowStartHours = 23
	cfg.Booking.ReminderWindowEndHours = 25

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockNotifier, cfg, mockCache, mockOtel)

	return sweeperFixture{
		repo:     mockRepo,
		notifier: mockNotifier,
		svc:      svc,
	}
}

// bookingStartingIn builds a confirmed booking whose appointment begins
// the given duration from now.
func bookingStartingIn(t *testing.T, id string, fromNow time.Duration) bookingModel.Booking {
	t.Helper()

	startsAt := timezone.Now().Add(fromNow)

	bookingDate, err := timezone.Parse(constant.DateFormat, startsAt.Format(constant.DateFormat))
	if err != nil {
		t.Fatalf("failed to build booking date: %v", err)
	}

	startTime, err := timezone.Parse(constant.TimeFormat, startsAt.Format(constant.TimeFormat))
	if err != nil {
		t.Fatalf("failed to build start time: %v", err)
	}

	return bookingModel.Booking{
		ID:          id,
		Status:      constant.BookingStatusConfirmed,
		BookingDate: bookingDate,
		StartTime:   startTime,
	}
}

func TestSweeperService_ExpireStale(t *testing.T) {
	t.Run("nothing to expire", func(t *testing.T) {
		f := newSweeperFixture(t)

		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{}, nil)

		report, err := f.svc.ExpireStale(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 0, report.Scanned)
		assert.Equal(t, 0, report.Processed)
	})

	t.Run("cancels and notifies each stale booking", func(t *testing.T) {
		f := newSweeperFixture(t)

		stale := []bookingModel.Booking{
			{ID: "bk-1", Status: constant.BookingStatusPendingDeposit},
			{ID: "bk-2", Status: constant.BookingStatusPendingDeposit},
		}

		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(stale, nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			Times(2)
		f.notifier.EXPECT().
			BookingCancelled(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, booking bookingModel.Booking) error {
				assert.Equal(t, constant.BookingStatusCancelled, booking.Status)

				return nil
			}).
			Times(2)

		report, err := f.svc.ExpireStale(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 2, report.Scanned)
		assert.Equal(t, 2, report.Processed)
		assert.Equal(t, 0, report.Failed)
	})

	t.Run("update failure skips the booking but continues", func(t *testing.T) {
		f := newSweeperFixture(t)

		stale := []bookingModel.Booking{
			{ID: "bk-1", Status: constant.BookingStatusPendingDeposit},
			{ID: "bk-2", Status: constant.BookingStatusPendingDeposit},
		}

		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(stale, nil)

		gomock.InOrder(
			f.repo.EXPECT().
				Update(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(errors.New("database error")),
			f.repo.EXPECT().
				Update(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil),
		)

		f.notifier.EXPECT().
			BookingCancelled(gomock.Any(), gomock.Any()).
			Return(nil)

		report, err := f.svc.ExpireStale(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 2, report.Scanned)
		assert.Equal(t, 1, report.Processed)
		assert.Equal(t, 1, report.Failed)
	})

	t.Run("notification failure still counts the cancellation", func(t *testing.T) {
		f := newSweeperFixture(t)

		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{{ID: "bk-1", Status: constant.BookingStatusPendingDeposit}}, nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		f.notifier.EXPECT().
			BookingCancelled(gomock.Any(), gomock.Any()).
			Return(errors.New("smtp unreachable"))

		report, err := f.svc.ExpireStale(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 1, report.Processed)
		assert.Equal(t, 1, report.Failed)
	})
}

func TestSweeperService_SendReminders(t *testing.T) {
	t.Run("sends inside the window and stamps the booking", func(t *testing.T) {
		f := newSweeperFixture(t)

		booking := bookingStartingIn(t, "bk-1", 24*time.Hour)

		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{booking}, nil)
		f.notifier.EXPECT().
			BookingReminder(gomock.Any(), gomock.Any()).
			Return(nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, updatedFields map[string]any, _ any) error {
				assert.Contains(t, updatedFields, bookingModel.FieldReminderSentAt)

				return nil
			})

		report, err := f.svc.SendReminders(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 1, report.Scanned)
		assert.Equal(t, 1, report.Processed)
	})

	t.Run("skips bookings outside the exact window", func(t *testing.T) {
		f := newSweeperFixture(t)

		// Same calendar day range as the query but outside [23h, 25h).
		tooSoon := bookingStartingIn(t, "bk-1", 20*time.Hour)
		tooLate := bookingStartingIn(t, "bk-2", 30*time.Hour)

		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{tooSoon, tooLate}, nil)

		report, err := f.svc.SendReminders(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 2, report.Scanned)
		assert.Equal(t, 0, report.Processed)
		assert.Equal(t, 0, report.Failed)
	})

	t.Run("failed send leaves the booking unstamped", func(t *testing.T) {
		f := newSweeperFixture(t)

		booking := bookingStartingIn(t, "bk-1", 24*time.Hour)

		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{booking}, nil)
		f.notifier.EXPECT().
			BookingReminder(gomock.Any(), gomock.Any()).
			Return(errors.New("twilio unreachable"))

		report, err := f.svc.SendReminders(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 1, report.Scanned)
		assert.Equal(t, 0, report.Processed)
		assert.Equal(t, 1, report.Failed)
	})
}
