package dto

import (
	"beautybar/shared/constant"
	"beautybar/shared/model"
	"beautybar/shared/timezone"
)

type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
}

func (m *Metadata) FromModel(model model.Metadata) {
	m.CreatedAt = timezone.Format(model.CreatedAt, constant.TimestampFormat)
	m.ModifiedAt = timezone.Format(model.ModifiedAt, constant.TimestampFormat)
}
