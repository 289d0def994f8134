package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandMondayWednesday(t *testing.T) {
	loc := time.UTC
	// Sunday 2024-06-02 12:00.
	now := time.Date(2024, 6, 2, 12, 0, 0, 0, loc)
	req := Request{
		From:     time.Date(2024, 6, 3, 0, 0, 0, 0, loc),
		To:       time.Date(2024, 6, 5, 0, 0, 0, 0, loc),
		Days:     Weekly([]time.Weekday{time.Monday, time.Wednesday}, Slot{Hour: 9}),
		Location: loc,
	}

	got, err := Expand(req, now)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		time.Date(2024, 6, 3, 9, 0, 0, 0, loc),
		time.Date(2024, 6, 5, 9, 0, 0, 0, loc),
	}, got)
}

func TestExpandKeepsCalendarDatesWestOfUTC(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	req := Request{
		// Monday and Wednesday as a date picker sends them.
		From:     time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2030, 1, 9, 0, 0, 0, 0, time.UTC),
		Days:     Weekly([]time.Weekday{time.Monday, time.Wednesday}, Slot{Hour: 9}),
		Location: loc,
	}

	got, err := Expand(req, now)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		time.Date(2030, 1, 7, 9, 0, 0, 0, loc),
		time.Date(2030, 1, 9, 9, 0, 0, 0, loc),
	}, got)
}

func TestExpandExcludesPastAndNow(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 6, 3, 9, 0, 0, 0, loc)
	req := Request{
		From:     now,
		To:       now,
		Days:     Weekly([]time.Weekday{time.Monday}, Slot{Hour: 8}, Slot{Hour: 9}, Slot{Hour: 10, Minute: 30}),
		Location: loc,
	}

	got, err := Expand(req, now)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{time.Date(2024, 6, 3, 10, 30, 0, 0, loc)}, got)
}

func TestExpandPerDaySlotsSortedAndOnSelectedDays(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, loc)
	days := map[time.Weekday][]Slot{
		time.Tuesday:  {{Hour: 18}, {Hour: 7, Minute: 15}},
		time.Thursday: {{Hour: 12}},
	}
	req := Request{From: now, To: now.AddDate(0, 0, 30), Days: days, Location: loc}

	got, err := Expand(req, now)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	for i, ts := range got {
		assert.True(t, ts.After(now))
		if i > 0 {
			assert.True(t, ts.After(got[i-1]), "not ascending at %d", i)
		}
		slots, ok := days[ts.Weekday()]
		require.True(t, ok, "unexpected weekday %s", ts.Weekday())
		assert.Contains(t, slots, Slot{Hour: ts.Hour(), Minute: ts.Minute()})
	}
}

func TestExpandNoValidSlots(t *testing.T) {
	now := time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  Request
	}{
		{"no days", Request{From: now, To: now.AddDate(0, 0, 7)}},
		{"day without slots", Request{From: now, To: now.AddDate(0, 0, 7), Days: map[time.Weekday][]Slot{time.Monday: nil}}},
		{"range in the past", Request{From: now.AddDate(0, 0, -7), To: now.AddDate(0, 0, -1), Days: Weekly([]time.Weekday{time.Monday}, Slot{Hour: 9})}},
		{"inverted range", Request{From: now.AddDate(0, 0, 7), To: now, Days: Weekly([]time.Weekday{time.Monday}, Slot{Hour: 9})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Location = time.UTC
			_, err := Expand(tt.req, now)
			assert.ErrorIs(t, err, ErrNoValidSlots)
		})
	}
}

func TestExpandDeduplicatesRepeatedSlots(t *testing.T) {
	now := time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)
	req := Request{
		From:     now,
		To:       now.AddDate(0, 0, 1),
		Days:     Weekly([]time.Weekday{time.Monday}, Slot{Hour: 9}, Slot{Hour: 9}),
		Location: time.UTC,
	}
	got, err := Expand(req, now)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestParseSlot(t *testing.T) {
	tests := []struct {
		in      string
		want    Slot
		wantErr bool
	}{
		{"09:00", Slot{Hour: 9}, false},
		{"9:05", Slot{Hour: 9, Minute: 5}, false},
		{"23:59", Slot{Hour: 23, Minute: 59}, false},
		{"24:00", Slot{}, true},
		{"12:60", Slot{}, true},
		{"12", Slot{}, true},
		{"ab:cd", Slot{}, true},
		{"12:5", Slot{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSlot(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSlot)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandRejectsInvalidSlot(t *testing.T) {
	now := time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)
	req := Request{From: now, To: now, Days: Weekly([]time.Weekday{time.Sunday}, Slot{Hour: 25})}
	_, err := Expand(req, now)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}
