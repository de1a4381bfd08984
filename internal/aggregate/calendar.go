package aggregate

import (
	"errors"
	"strings"
	"time"
)

var ErrUnknownWeekday = errors.New("unknown weekday")

// Calendar fixes the time zone and first weekday used to resolve anchored
// intervals.
type Calendar struct {
	Location  *time.Location
	WeekStart time.Weekday
}

// DefaultCalendar uses the local zone and Sunday-first weeks.
func DefaultCalendar() Calendar {
	return Calendar{Location: time.Local, WeekStart: time.Sunday}
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// StartOfDay returns midnight of t's day in the calendar's zone.
func (c Calendar) StartOfDay(t time.Time) time.Time {
	loc := c.location()
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Range resolves an interval against ref.
//
// Anchored windows run from one boundary midnight to the next: a day, the
// week starting on WeekStart, or the calendar month containing ref. The end
// is the following window's start, and Between treats it as inclusive, so a
// record exactly at that midnight falls into both adjacent windows. An
// invalid interval resolves to the zero window.
func (c Calendar) Range(iv Interval, ref time.Time) (start, end time.Time) {
	switch iv.kind {
	case KindDaily:
		start = c.StartOfDay(ref)
		return start, start.AddDate(0, 0, 1)
	case KindWeekly:
		day := c.StartOfDay(ref)
		offset := (int(day.Weekday()) - int(c.WeekStart) + 7) % 7
		start = day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	case KindMonthly:
		t := ref.In(c.location())
		start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, c.location())
		return start, start.AddDate(0, 1, 0)
	case KindCustom:
		return iv.start, iv.end
	default:
		return time.Time{}, time.Time{}
	}
}

// ParseWeekday accepts English weekday names or their three-letter forms.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, ErrUnknownWeekday
}
