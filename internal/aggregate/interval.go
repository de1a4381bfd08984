package aggregate

import (
	"errors"
	"strings"
	"time"
)

type Kind int

// The zero Kind is KindUnknown, so a zero Interval selects nothing.
const (
	KindUnknown Kind = iota
	KindDaily
	KindWeekly
	KindMonthly
	KindCustom
)

var ErrUnknownInterval = errors.New("unknown interval")

func (k Kind) String() string {
	switch k {
	case KindDaily:
		return "daily"
	case KindWeekly:
		return "weekly"
	case KindMonthly:
		return "monthly"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Interval selects a time window. Daily, Weekly and Monthly are anchored on
// a reference date when resolved; Custom carries its own bounds.
type Interval struct {
	kind       Kind
	start, end time.Time
}

func Daily() Interval   { return Interval{kind: KindDaily} }
func Weekly() Interval  { return Interval{kind: KindWeekly} }
func Monthly() Interval { return Interval{kind: KindMonthly} }

// Custom selects [start, end], both ends inclusive. A window with start
// after end selects nothing.
func Custom(start, end time.Time) Interval {
	return Interval{kind: KindCustom, start: start, end: end}
}

func (i Interval) Kind() Kind { return i.kind }

// Valid reports whether i was built by one of the constructors.
func (i Interval) Valid() bool {
	return i.kind >= KindDaily && i.kind <= KindCustom
}

// Bounds returns the custom window. ok is false for the anchored kinds.
func (i Interval) Bounds() (start, end time.Time, ok bool) {
	if i.kind != KindCustom {
		return time.Time{}, time.Time{}, false
	}
	return i.start, i.end, true
}

// Equal reports whether both intervals select the same window for every
// reference date.
func (i Interval) Equal(o Interval) bool {
	if i.kind != o.kind {
		return false
	}
	if i.kind != KindCustom {
		return true
	}
	return i.start.Equal(o.start) && i.end.Equal(o.end)
}

func (i Interval) String() string {
	if i.kind == KindCustom {
		return "custom(" + i.start.Format(time.RFC3339) + ", " + i.end.Format(time.RFC3339) + ")"
	}
	return i.kind.String()
}

// ParseInterval parses the anchored kinds by name. Custom windows need
// explicit bounds and are built with Custom.
func ParseInterval(s string) (Interval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day":
		return Daily(), nil
	case "weekly", "week":
		return Weekly(), nil
	case "monthly", "month":
		return Monthly(), nil
	default:
		return Interval{}, ErrUnknownInterval
	}
}
