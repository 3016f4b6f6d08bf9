package timerange

import (
	"fmt"
	"time"

	"beautybar/shared/constant"
	"beautybar/shared/timezone"
)

// Range is a half-open [Start, End) interval of absolute instants. Both
// endpoints live in the business timezone; no conversion is ever applied.
type Range struct {
	Start time.Time
	End   time.Time
}

// New builds a Range from a calendar day and two HH:mm times on that day.
func New(date, startTime, endTime string) (Range, error) {
	start, err := At(date, startTime)
	if err != nil {
		return Range{}, err
	}

	end, err := At(date, endTime)
	if err != nil {
		return Range{}, err
	}

	return Range{Start: start, End: end}, nil
}

// Span builds a Range that may cross day boundaries, e.g. a multi-day
// time-off block.
func Span(startDate, startTime, endDate, endTime string) (Range, error) {
	start, err := At(startDate, startTime)
	if err != nil {
		return Range{}, err
	}

	end, err := At(endDate, endTime)
	if err != nil {
		return Range{}, err
	}

	return Range{Start: start, End: end}, nil
}

// At resolves a (YYYY-MM-DD, HH:mm) pair to an instant in the business timezone.
func At(date, timeOfDay string) (time.Time, error) {
	instant, err := timezone.Parse(constant.DateTimeFormat, date+"T"+timeOfDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", date, timeOfDay, err)
	}

	return instant, nil
}

// Overlaps reports whether two half-open ranges intersect:
// aStart < bEnd && aEnd > bStart. Zero-length ranges never overlap anything.
// Slot generation, booking admission, and time-off validation all share this
// one predicate; keep them on it.
func (r Range) Overlaps(other Range) bool {
	if !r.IsValid() || !other.IsValid() {
		return false
	}

	return r.Start.Before(other.End) && r.End.After(other.Start)
}

// IsValid reports whether the range has positive length.
func (r Range) IsValid() bool {
	return r.End.After(r.Start)
}
