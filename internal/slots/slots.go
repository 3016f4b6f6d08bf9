// Package slots computes the bookable start times for one calendar day.
// It is pure: callers load the day's bookings and time-off blocks and pass
// them in as busy intervals.
package slots

import (
	"time"

	"beautybar/shared/constant"
	"beautybar/shared/failure"
	"beautybar/shared/timerange"
)

type Slot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ForDay walks the opening hours in fixed steps and keeps every candidate
// interval that ends by closing time and touches no busy interval. A
// service longer than the opening span yields no slots. The returned slice
// is never nil so handlers can encode it as an empty array.
func ForDay(date, openTime, closeTime string, intervalMin, durationMin int, busy []timerange.Range) ([]Slot, error) {
	if intervalMin <= 0 || durationMin <= 0 {
		return nil, failure.BadRequestFromString("interval and duration must be positive") //nolint:wrapcheck
	}

	open, err := timerange.At(date, openTime)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	closing, err := timerange.At(date, closeTime)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	result := []Slot{}

	duration := time.Duration(durationMin) * time.Minute
	step := time.Duration(intervalMin) * time.Minute

	for cursor := open; !cursor.Add(duration).After(closing); cursor = cursor.Add(step) {
		candidate := timerange.Range{Start: cursor, End: cursor.Add(duration)}

		if overlapsAny(candidate, busy) {
			continue
		}

		result = append(result, Slot{
			StartTime: candidate.Start.Format(constant.TimeFormat),
			EndTime:   candidate.End.Format(constant.TimeFormat),
		})
	}

	return result, nil
}

func overlapsAny(candidate timerange.Range, busy []timerange.Range) bool {
	for _, interval := range busy {
		if candidate.Overlaps(interval) {
			return true
		}
	}

	return false
}
