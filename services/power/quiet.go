package power

import (
	"time"

	"airnode-go/x/mathx"
	"airnode-go/x/timex"
)

// Window is a daily quiet window in local wall-clock time. Start and end may
// cross midnight (e.g. 16:00 -> 07:55).
type Window struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// Contains reports whether the given time of day falls inside the window.
// The start boundary is inclusive, the end boundary exclusive.
func (w Window) Contains(hour, minute int) bool {
	now := timex.MinutesSinceMidnight(hour, minute)
	start := timex.MinutesSinceMidnight(w.StartHour, w.StartMinute)
	end := timex.MinutesSinceMidnight(w.EndHour, w.EndMinute)

	if start > end {
		// Overnight window: inside if after start OR before end.
		return now >= start || now < end
	}
	// Same-day window: inside if between start and end.
	return now >= start && now < end
}

// NextEnd returns the next occurrence of the window's end time of day,
// strictly after now. Calendar rollover (month, year, DST in the configured
// zone) is left to the time package.
func (w Window) NextEnd(now time.Time) time.Time {
	end := time.Date(now.Year(), now.Month(), now.Day(),
		w.EndHour, w.EndMinute, 0, 0, now.Location())
	if !end.After(now) {
		end = end.AddDate(0, 0, 1)
	}
	return end
}

// PlanChunks decomposes the span until target into hardware-bounded sleep
// chunks: floor((target-now)/maxChunk), floored at 1. Even a window shorter
// than one chunk performs one chunk — which becomes the sync-wake.
func PlanChunks(now, target time.Time, maxChunk time.Duration) uint32 {
	if maxChunk <= 0 {
		return 1
	}
	span := target.Sub(now)
	if span <= 0 {
		return 1
	}
	n := mathx.FloorDiv(uint64(span), uint64(maxChunk))
	if n < 1 {
		n = 1
	}
	return uint32(n)
}
