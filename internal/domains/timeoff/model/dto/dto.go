package dto

import (
	"github.com/google/uuid"

	"beautybar/internal/domains/timeoff/model"
	"beautybar/shared"
	"beautybar/shared/constant"
	gModel "beautybar/shared/model"
	"beautybar/shared/timezone"
)

type CreateBlockRequest struct {
	StartDate string `json:"start_date" validate:"required,date"`
	StartTime string `json:"start_time" validate:"required,timeofday"`
	EndDate   string `json:"end_date"   validate:"required,date"`
	EndTime   string `json:"end_time"   validate:"required,timeofday"`
}

func (c *CreateBlockRequest) ToModel() (model.TimeOffBlock, error) {
	startDate, err := timezone.Parse(constant.DateFormat, c.StartDate)
	if err != nil {
		return model.TimeOffBlock{}, err
	}

	startTime, err := timezone.Parse(constant.TimeFormat, c.StartTime)
	if err != nil {
		return model.TimeOffBlock{}, err
	}

	endDate, err := timezone.Parse(constant.DateFormat, c.EndDate)
	if err != nil {
		return model.TimeOffBlock{}, err
	}

	endTime, err := timezone.Parse(constant.TimeFormat, c.EndTime)
	if err != nil {
		return model.TimeOffBlock{}, err
	}

	return model.TimeOffBlock{
		ID:        uuid.NewString(),
		StartDate: startDate,
		StartTime: startTime,
		EndDate:   endDate,
		EndTime:   endTime,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
		},
	}, nil
}

type BlockResponse struct {
	ID        string `json:"id"`
	StartDate string `json:"start_date"`
	StartTime string `json:"start_time"`
	EndDate   string `json:"end_date"`
	EndTime   string `json:"end_time"`
}

func (r *BlockResponse) FromModel(mod model.TimeOffBlock) {
	r.ID = mod.ID
	r.StartDate = mod.StartDate.Format(constant.DateFormat)
	r.StartTime = mod.StartTime.Format(constant.TimeFormat)
	r.EndDate = mod.EndDate.Format(constant.DateFormat)
	r.EndTime = mod.EndTime.Format(constant.TimeFormat)
}

type GetBlocksResponse struct {
	Blocks    []BlockResponse `json:"blocks"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetBlocksResponse) FromModels(models []model.TimeOffBlock, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Blocks = make([]BlockResponse, len(models))
	for i, mod := range models {
		r.Blocks[i].FromModel(mod)
	}
}
