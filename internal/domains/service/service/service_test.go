package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"beautybar/config"
	"beautybar/infras/otel/mocks"
	bookingMocks "beautybar/internal/domains/booking/mocks"
	serviceMocks "beautybar/internal/domains/service/mocks"
	"beautybar/internal/domains/service/model"
	"beautybar/internal/domains/service/model/dto"
	"beautybar/internal/domains/service/service"
	"beautybar/shared/cache"
	cacheMocks "beautybar/shared/cache/mocks"
	gDto "beautybar/shared/dto"
	"beautybar/shared/failure"
)

type catalogFixture struct {
	repo     *serviceMocks.MockService
	addOns   *serviceMocks.MockAddOn
	bookings *bookingMocks.MockBooking
	svc      service.Service
}

func newCatalogFixture(t *testing.T) catalogFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := serviceMocks.NewMockService(ctrl)
	mockAddOnRepo := serviceMocks.NewMockAddOn(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockAddOnRepo, mockBookingRepo, cfg, mockCache, mockOtel)

	return catalogFixture{
		repo:     mockRepo,
		addOns:   mockAddOnRepo,
		bookings: mockBookingRepo,
		svc:      svc,
	}
}

func storedService() model.Service {
	return model.Service{
		ID:            "svc-1",
		Name:          "Gel Manicure",
		Category:      "Nails",
		DurationMin:   60,
		Price:         40,
		DepositAmount: 10,
		Active:        true,
	}
}

func TestCatalogService_Create(t *testing.T) {
	t.Run("inserts and returns the new service", func(t *testing.T) {
		f := newCatalogFixture(t)

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, svc model.Service) error {
				assert.NotEmpty(t, svc.ID)
				assert.Equal(t, "Classic Facial", svc.Name)
				assert.True(t, svc.Active)

				return nil
			})

		res, err := f.svc.Create(context.Background(), dto.CreateServiceRequest{
			Name:          "Classic Facial",
			DurationMin:   45,
			Price:         55,
			DepositAmount: 15,
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, "Classic Facial", res.Name)
	})

	t.Run("rejects a deposit above the price", func(t *testing.T) {
		f := newCatalogFixture(t)

		_, err := f.svc.Create(context.Background(), dto.CreateServiceRequest{
			Name:          "Classic Facial",
			DurationMin:   45,
			Price:         55,
			DepositAmount: 60,
		})

		assert.EqualError(t, err, "deposit amount cannot exceed price")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestCatalogService_GetAllPublic(t *testing.T) {
	t.Run("lists active services with their add-ons", func(t *testing.T) {
		f := newCatalogFixture(t)

		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Service, error) {
				assert.Equal(t, model.FieldPosition, params.SortBy)
				assert.Len(t, filter.Filters, 1)

				return []model.Service{storedService()}, nil
			})
		f.addOns.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.AddOn{{ID: "add-1", ServiceID: "svc-1", Name: "Nail Art", Price: 8}}, nil)

		res, err := f.svc.GetAllPublic(context.Background())

		assert.NoError(t, err)
		assert.Len(t, res.Services, 1)
		assert.Len(t, res.Services[0].AddOns, 1)
		assert.Equal(t, "Nail Art", res.Services[0].AddOns[0].Name)
	})

	t.Run("skips the add-on query when nothing matches", func(t *testing.T) {
		f := newCatalogFixture(t)

		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Service{}, nil)

		res, err := f.svc.GetAllPublic(context.Background())

		assert.NoError(t, err)
		assert.Empty(t, res.Services)
	})
}

func TestCatalogService_Get(t *testing.T) {
	t.Run("returns the service with add-ons", func(t *testing.T) {
		f := newCatalogFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedService(), nil)
		f.addOns.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.AddOn{}, nil)

		res, err := f.svc.Get(context.Background(), "svc-1")

		assert.NoError(t, err)
		assert.Equal(t, "Gel Manicure", res.Name)
	})

	t.Run("fails for an unknown id", func(t *testing.T) {
		f := newCatalogFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Service{}, nil)

		_, err := f.svc.Get(context.Background(), "svc-missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestCatalogService_Update(t *testing.T) {
	t.Run("applies a partial patch", func(t *testing.T) {
		f := newCatalogFixture(t)
		price := 45.0

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedService(), nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Contains(t, fields, model.FieldPrice)
				assert.NotContains(t, fields, model.FieldName)

				return nil
			})

		err := f.svc.Update(context.Background(), dto.UpdateServiceRequest{Price: &price}, "svc-1")

		assert.NoError(t, err)
	})

	t.Run("holds the deposit ceiling against the patched price", func(t *testing.T) {
		f := newCatalogFixture(t)
		price := 5.0

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedService(), nil)

		err := f.svc.Update(context.Background(), dto.UpdateServiceRequest{Price: &price}, "svc-1")

		assert.EqualError(t, err, "deposit amount cannot exceed price")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("fails for an unknown id", func(t *testing.T) {
		f := newCatalogFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Service{}, nil)

		err := f.svc.Update(context.Background(), dto.UpdateServiceRequest{Name: "Renamed"}, "svc-missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestCatalogService_Delete(t *testing.T) {
	t.Run("refuses while live bookings reference the service", func(t *testing.T) {
		f := newCatalogFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := f.svc.Delete(context.Background(), "svc-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.True(t, failure.IsConflict(err))
	})

	t.Run("purges cancelled bookings and add-ons before deleting", func(t *testing.T) {
		f := newCatalogFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		f.bookings.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.addOns.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		err := f.svc.Delete(context.Background(), "svc-1")

		assert.NoError(t, err)
	})

	t.Run("fails for an unknown id", func(t *testing.T) {
		f := newCatalogFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := f.svc.Delete(context.Background(), "svc-missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestCatalogService_AddOns(t *testing.T) {
	t.Run("creates an add-on under an existing service", func(t *testing.T) {
		f := newCatalogFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.addOns.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, addOn model.AddOn) error {
				assert.Equal(t, "svc-1", addOn.ServiceID)
				assert.Equal(t, "Nail Art", addOn.Name)

				return nil
			})

		res, err := f.svc.CreateAddOn(context.Background(), dto.CreateAddOnRequest{Name: "Nail Art", Price: 8}, "svc-1")

		assert.NoError(t, err)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, "svc-1", res.ServiceID)
	})

	t.Run("refuses an add-on for an unknown service", func(t *testing.T) {
		f := newCatalogFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.svc.CreateAddOn(context.Background(), dto.CreateAddOnRequest{Name: "Nail Art"}, "svc-missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("updates an existing add-on", func(t *testing.T) {
		f := newCatalogFixture(t)
		price := 12.0

		f.addOns.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.AddOn{ID: "add-1", ServiceID: "svc-1"}, nil)
		f.addOns.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		err := f.svc.UpdateAddOn(context.Background(), dto.UpdateAddOnRequest{Price: &price}, "add-1")

		assert.NoError(t, err)
	})

	t.Run("deletes an existing add-on", func(t *testing.T) {
		f := newCatalogFixture(t)

		f.addOns.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.AddOn{ID: "add-1", ServiceID: "svc-1"}, nil)
		f.addOns.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		err := f.svc.DeleteAddOn(context.Background(), "add-1")

		assert.NoError(t, err)
	})

	t.Run("fails for an unknown add-on", func(t *testing.T) {
		f := newCatalogFixture(t)

		f.addOns.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.AddOn{}, nil)

		err := f.svc.DeleteAddOn(context.Background(), "add-missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
