package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"beautybar/infras/otel/mocks"
	timeoffMocks "beautybar/internal/domains/timeoff/mocks"
	"beautybar/internal/domains/timeoff/model"
	"beautybar/internal/domains/timeoff/model/dto"
	"beautybar/internal/domains/timeoff/service"
	gDto "beautybar/shared/dto"
	"beautybar/shared/failure"
)

type timeoffFixture struct {
	repo *timeoffMocks.MockTimeOff
	svc  service.TimeOff
}

func newTimeoffFixture(t *testing.T) timeoffFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := timeoffMocks.NewMockTimeOff(ctrl)
	svc := service.New(mockRepo, mocks.NewOtel())

	return timeoffFixture{repo: mockRepo, svc: svc}
}

func TestTimeOffService_Create(t *testing.T) {
	validRequest := dto.CreateBlockRequest{
		StartDate: "2026-09-14",
		StartTime: "12:00",
		EndDate:   "2026-09-14",
		EndTime:   "14:00",
	}

	t.Run("inserts the block and echoes it back", func(t *testing.T) {
		f := newTimeoffFixture(t)

		f.repo.EXPECT().
			InsertChecked(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, block model.TimeOffBlock) error {
				assert.NotEmpty(t, block.ID)
				assert.Equal(t, "2026-09-14", block.StartDate.Format("2006-01-02"))

				return nil
			})

		res, err := f.svc.Create(context.Background(), validRequest)

		assert.NoError(t, err)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, "2026-09-14", res.StartDate)
		assert.Equal(t, "12:00", res.StartTime)
		assert.Equal(t, "14:00", res.EndTime)
	})

	t.Run("passes an overlap conflict through", func(t *testing.T) {
		f := newTimeoffFixture(t)

		f.repo.EXPECT().
			InsertChecked(gomock.Any(), gomock.Any()).
			Return(failure.Conflict("time-off block overlaps an existing booking"))

		_, err := f.svc.Create(context.Background(), validRequest)

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		f := newTimeoffFixture(t)

		req := validRequest
		req.EndDate = "Sept 14th"

		_, err := f.svc.Create(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestTimeOffService_GetAll(t *testing.T) {
	t.Run("narrows by the date window when given", func(t *testing.T) {
		f := newTimeoffFixture(t)

		f.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				assert.Len(t, filter.Filters, 2)

				return 1, nil
			})
		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.TimeOffBlock{{ID: "blk-1"}}, nil)

		res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Limit: 10}, "2026-09-01", "2026-09-30")

		assert.NoError(t, err)
		assert.Len(t, res.Blocks, 1)
		assert.Equal(t, 1, res.TotalData)
		assert.Equal(t, 1, res.TotalPage)
	})

	t.Run("lists everything when no window is given", func(t *testing.T) {
		f := newTimeoffFixture(t)

		f.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				assert.Empty(t, filter.Filters)

				return 0, nil
			})
		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.TimeOffBlock{}, nil)

		res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Limit: 10}, "", "")

		assert.NoError(t, err)
		assert.Empty(t, res.Blocks)
		assert.Zero(t, res.TotalData)
	})
}

func TestTimeOffService_Delete(t *testing.T) {
	t.Run("deletes an existing block", func(t *testing.T) {
		f := newTimeoffFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		err := f.svc.Delete(context.Background(), "blk-1")

		assert.NoError(t, err)
	})

	t.Run("fails for an unknown block", func(t *testing.T) {
		f := newTimeoffFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := f.svc.Delete(context.Background(), "blk-missing")

		assert.EqualError(t, err, "time-off block not found")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
