package model

import (
	"time"

	"beautybar/shared/constant"
	"beautybar/shared/model"
	"beautybar/shared/timerange"
)

const (
	TableName  = "time_off_blocks"
	EntityName = "time_off_block"

	FieldID        = "id"
	FieldStartDate = "start_date"
	FieldStartTime = "start_time"
	FieldEndDate   = "end_date"
	FieldEndTime   = "end_time"
)

type TimeOffBlock struct {
	ID        string    `db:"id"`
	StartDate time.Time `db:"start_date"`
	StartTime time.Time `db:"start_time"`
	EndDate   time.Time `db:"end_date"`
	EndTime   time.Time `db:"end_time"`
	model.Metadata
}

// Interval resolves the block to an absolute half-open range in the
// business timezone.
func (b TimeOffBlock) Interval() (timerange.Range, error) {
	return timerange.Span(
		b.StartDate.Format(constant.DateFormat),
		b.StartTime.Format(constant.TimeFormat),
		b.EndDate.Format(constant.DateFormat),
		b.EndTime.Format(constant.TimeFormat),
	)
}
