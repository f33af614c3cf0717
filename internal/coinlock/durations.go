package coinlock

import (
	"fmt"
	"strings"
	"time"

	"github.com/Klingon-tech/coinlock/internal/format"
)

// Duration is a lock duration choice.
type Duration struct {
	Key   string
	Label string
	Ms    uint64
}

// DefaultDurationKey is preselected in the lock dialog.
const DefaultDurationKey = "30mins"

// Durations are the choices offered by the lock dialog, shortest first.
var Durations = []Duration{
	{Key: "30mins", Label: "30 minutes", Ms: 30 * 60 * 1000},
	{Key: "1hr", Label: "1 hour", Ms: 60 * 60 * 1000},
	{Key: "2hrs", Label: "2 hours", Ms: 2 * 60 * 60 * 1000},
	{Key: "4hrs", Label: "4 hours", Ms: 4 * 60 * 60 * 1000},
	{Key: "6hrs", Label: "6 hours", Ms: 6 * 60 * 60 * 1000},
	{Key: "12hrs", Label: "12 hours", Ms: 12 * 60 * 60 * 1000},
	{Key: "1day", Label: "1 day", Ms: 24 * 60 * 60 * 1000},
}

// LookupDuration returns the option with the given key.
func LookupDuration(key string) (Duration, bool) {
	for _, d := range Durations {
		if d.Key == key {
			return d, true
		}
	}
	return Duration{}, false
}

// DefaultDuration returns the preselected option.
func DefaultDuration() Duration {
	d, _ := LookupDuration(DefaultDurationKey)
	return d
}

// ParseDuration accepts an option key ("2hrs") or a Go duration ("90m").
// Go durations must be a positive whole number of milliseconds.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Duration{}, ErrDurationRequired
	}
	if d, ok := LookupDuration(s); ok {
		return d, nil
	}
	td, err := time.ParseDuration(s)
	if err != nil {
		return Duration{}, fmt.Errorf("unknown duration %q (use one of %s or a value like 90m)", s, durationKeys())
	}
	if td < time.Millisecond || td%time.Millisecond != 0 {
		return Duration{}, fmt.Errorf("duration %q must be a positive number of milliseconds", s)
	}
	ms := uint64(td / time.Millisecond)
	for _, d := range Durations {
		if d.Ms == ms {
			return d, nil
		}
	}
	return Duration{Key: s, Label: format.DurationLabel(ms), Ms: ms}, nil
}

func durationKeys() string {
	keys := make([]string, len(Durations))
	for i, d := range Durations {
		keys[i] = d.Key
	}
	return strings.Join(keys, ", ")
}
