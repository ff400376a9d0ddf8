package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minsukang/tripweaver/internal/domain/geo"
)

func TestParseClockMinutes(t *testing.T) {
	tests := []struct {
		input   string
		minutes int
		ok      bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"23:59", 1439, true},
		{"9:30", 0, false},
		{"24:00", 0, false},
		{"", 0, false},
		{"banana", 0, false},
	}

	for _, tc := range tests {
		m, ok := ParseClockMinutes(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
		if tc.ok {
			assert.Equal(t, tc.minutes, m, "input %q", tc.input)
		}
	}
}

func TestDayIndexFromDates(t *testing.T) {
	t.Run("offset within trip", func(t *testing.T) {
		day, ok := DayIndexFromDates("2026-05-01", "2026-05-03")
		assert.True(t, ok)
		assert.Equal(t, 2, day)
	})

	t.Run("date before trip start is negative", func(t *testing.T) {
		day, ok := DayIndexFromDates("2026-05-01", "2026-04-30")
		assert.True(t, ok)
		assert.Equal(t, -1, day)
	})

	t.Run("unparseable dates fail", func(t *testing.T) {
		_, ok := DayIndexFromDates("", "2026-05-03")
		assert.False(t, ok)
		_, ok = DayIndexFromDates("2026-05-01", "not-a-date")
		assert.False(t, ok)
	})
}

func TestTripInputMode(t *testing.T) {
	start := geo.LatLng{Lat: 37.5665, Lng: 126.9780}
	farEnd := geo.LatLng{Lat: 37.4000, Lng: 127.1000}

	t.Run("lodging forces LOOP", func(t *testing.T) {
		lodging := geo.LatLng{Lat: 37.5512, Lng: 126.9882}
		in := &TripInput{Start: start, End: &farEnd, Lodging: &lodging}
		assert.Equal(t, ModeLoop, in.Mode())
	})

	t.Run("coincident start and end is LOOP", func(t *testing.T) {
		end := start
		in := &TripInput{Start: start, End: &end}
		assert.Equal(t, ModeLoop, in.Mode())
	})

	t.Run("distinct end without lodging is OPEN", func(t *testing.T) {
		in := &TripInput{Start: start, End: &farEnd}
		assert.Equal(t, ModeOpen, in.Mode())
	})

	t.Run("no end and no lodging is OPEN", func(t *testing.T) {
		in := &TripInput{Start: start}
		assert.Equal(t, ModeOpen, in.Mode())
	})
}

func TestDayLimitMinutes(t *testing.T) {
	in := &TripInput{
		DailyMaxMinutes: 480,
		DayWindows: []DayWindow{
			{StartTime: "10:00", EndTime: "18:00"},
			{},
		},
	}

	assert.Equal(t, 480, in.DayLimitMinutes(1)) // 10:00-18:00 window
	assert.Equal(t, 480, in.DayLimitMinutes(2)) // empty window falls back to the daily budget
	assert.Equal(t, 480, in.DayLimitMinutes(3)) // out of range falls back too

	in.DayWindows[0] = DayWindow{StartTime: "10:00", EndTime: "16:00"}
	assert.Equal(t, 360, in.DayLimitMinutes(1))
}
