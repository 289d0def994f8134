// Package schedule expands a date range and weekly time-of-day slots into the
// concrete future instants a content plan is laid out on.
package schedule

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNoValidSlots = errors.New("no valid time slots in the selected range")
	ErrInvalidSlot  = errors.New("invalid time slot")
)

// Slot is a time of day in the plan's location.
type Slot struct {
	Hour   int
	Minute int
}

// ParseSlot parses an "HH:mm" time of day.
func ParseSlot(s string) (Slot, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(m) != 2 || len(h) == 0 || len(h) > 2 {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	slot := Slot{Hour: hour, Minute: minute}
	if !slot.valid() {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	return slot, nil
}

func (s Slot) valid() bool {
	return s.Hour >= 0 && s.Hour < 24 && s.Minute >= 0 && s.Minute < 60
}

func (s Slot) String() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// Request describes the range to expand. Only the calendar dates of From and
// To are used, as written in their own zone, and both are inclusive.
type Request struct {
	From     time.Time
	To       time.Time
	Days     map[time.Weekday][]Slot
	Location *time.Location
}

// Weekly applies the same slots to every selected weekday.
func Weekly(days []time.Weekday, slots ...Slot) map[time.Weekday][]Slot {
	out := make(map[time.Weekday][]Slot, len(days))
	for _, d := range days {
		out[d] = append([]Slot(nil), slots...)
	}
	return out
}

// Expand returns every selected weekday/slot instant within the range that is
// strictly after now, sorted ascending. An empty result is ErrNoValidSlots.
func Expand(req Request, now time.Time) ([]time.Time, error) {
	loc := req.Location
	if loc == nil {
		loc = time.Local
	}
	for day, slots := range req.Days {
		for _, s := range slots {
			if !s.valid() {
				return nil, fmt.Errorf("%w: %s on %s", ErrInvalidSlot, s, day)
			}
		}
	}

	cur := calendarDay(req.From, loc)
	end := calendarDay(req.To, loc)

	var out []time.Time
	for ; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		for _, s := range req.Days[cur.Weekday()] {
			t := time.Date(cur.Year(), cur.Month(), cur.Day(), s.Hour, s.Minute, 0, 0, loc)
			if t.After(now) {
				out = append(out, t)
			}
		}
	}

	if len(out) == 0 {
		return nil, ErrNoValidSlots
	}

	slices.SortFunc(out, func(a, b time.Time) int { return a.Compare(b) })
	out = slices.CompactFunc(out, func(a, b time.Time) bool { return a.Equal(b) })
	return out, nil
}

// calendarDay is midnight in loc of the date t carries. A date picked as
// 2030-01-07 stays the 7th even when it arrives as UTC midnight and loc is
// west of UTC.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
