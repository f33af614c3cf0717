package format

import (
	"fmt"
	"math"
	"time"
)

// DateTimeLayout renders as MM/DD/YYYY, HH:MM on a 24 hour clock.
const DateTimeLayout = "01/02/2006, 15:04"

// TimeRange is the display form of a lock's time window.
type TimeRange struct {
	Start    string
	Duration string
	End      string
	HasEnded bool
}

// FormatTimeRange renders a lock window that started at startMs (epoch
// milliseconds) and lasts durationMs, in loc (time.Local when nil).
func FormatTimeRange(startMs, durationMs uint64, now time.Time, loc *time.Location) TimeRange {
	if loc == nil {
		loc = time.Local
	}
	endMs := addSat(startMs, durationMs)
	return TimeRange{
		Start:    FormatDateTime(startMs, loc),
		Duration: DurationLabel(durationMs),
		End:      FormatDateTime(endMs, loc),
		HasEnded: HasEnded(startMs, durationMs, now),
	}
}

// FormatDateTime renders epoch milliseconds in loc.
func FormatDateTime(ms uint64, loc *time.Location) string {
	if ms > math.MaxInt64 {
		ms = math.MaxInt64
	}
	return time.UnixMilli(int64(ms)).In(loc).Format(DateTimeLayout)
}

// DurationLabel returns a coarse label for a duration in milliseconds:
// minutes below an hour, hours below a day, days otherwise.
func DurationLabel(durationMs uint64) string {
	minutes := roundDiv(durationMs, 60_000)
	switch {
	case minutes < 60:
		return plural(minutes, "minute")
	case minutes < 1440:
		return plural(roundDiv(minutes, 60), "hour")
	default:
		return plural(roundDiv(minutes, 1440), "day")
	}
}

// HasEnded reports whether now is strictly after start + duration.
func HasEnded(startMs, durationMs uint64, now time.Time) bool {
	n := now.UnixMilli()
	if n < 0 {
		return false
	}
	return uint64(n) > addSat(startMs, durationMs)
}

// roundDiv divides rounding half up.
func roundDiv(n, d uint64) uint64 {
	q, r := n/d, n%d
	if r*2 >= d {
		q++
	}
	return q
}

func addSat(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

func plural(n uint64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
