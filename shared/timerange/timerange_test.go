package timerange_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"beautybar/shared/timerange"
)

func mustRange(t *testing.T, date, start, end string) timerange.Range {
	t.Helper()

	r, err := timerange.New(date, start, end)
	if err != nil {
		t.Fatalf("failed to build range: %v", err)
	}

	return r
}

func TestNew(t *testing.T) {
	r, err := timerange.New("2026-03-14", "09:00", "10:30")
	assert.NoError(t, err)
	assert.True(t, r.IsValid())
	assert.Equal(t, 90.0, r.End.Sub(r.Start).Minutes())

	_, err = timerange.New("not-a-date", "09:00", "10:30")
	assert.Error(t, err)

	_, err = timerange.New("2026-03-14", "9am", "10:30")
	assert.Error(t, err)
}

func TestSpan_CrossesDays(t *testing.T) {
	r, err := timerange.Span("2026-03-14", "16:00", "2026-03-16", "12:00")
	assert.NoError(t, err)
	assert.True(t, r.IsValid())
	assert.Equal(t, 44.0, r.End.Sub(r.Start).Hours())
}

func TestOverlaps(t *testing.T) {
	base := mustRange(t, "2026-03-14", "10:00", "11:00")

	tests := []struct {
		name  string
		other timerange.Range
		want  bool
	}{
		{
			name:  "identical ranges",
			other: mustRange(t, "2026-03-14", "10:00", "11:00"),
			want:  true,
		},
		{
			name:  "partial overlap at start",
			other: mustRange(t, "2026-03-14", "09:30", "10:30"),
			want:  true,
		},
		{
			name:  "partial overlap at end",
			other: mustRange(t, "2026-03-14", "10:30", "11:30"),
			want:  true,
		},
		{
			name:  "contained range",
			other: mustRange(t, "2026-03-14", "10:15", "10:45"),
			want:  true,
		},
		{
			name:  "containing range",
			other: mustRange(t, "2026-03-14", "09:00", "12:00"),
			want:  true,
		},
		{
			name:  "back to back before",
			other: mustRange(t, "2026-03-14", "09:00", "10:00"),
			want:  false,
		},
		{
			name:  "back to back after",
			other: mustRange(t, "2026-03-14", "11:00", "12:00"),
			want:  false,
		},
		{
			name:  "different day",
			other: mustRange(t, "2026-03-15", "10:00", "11:00"),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestOverlaps_ZeroLength(t *testing.T) {
	base := mustRange(t, "2026-03-14", "10:00", "11:00")
	zero := mustRange(t, "2026-03-14", "10:30", "10:30")

	assert.False(t, zero.Overlaps(base))
	assert.False(t, base.Overlaps(zero))

	reversed := timerange.Range{Start: base.End, End: base.Start}
	assert.False(t, reversed.Overlaps(base))
	assert.False(t, base.Overlaps(reversed))
}

func TestIsValid(t *testing.T) {
	assert.True(t, mustRange(t, "2026-03-14", "09:00", "09:01").IsValid())
	assert.False(t, mustRange(t, "2026-03-14", "09:00", "09:00").IsValid())
	assert.False(t, mustRange(t, "2026-03-14", "10:00", "09:00").IsValid())
}
