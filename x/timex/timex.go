package timex

// MinutesSinceMidnight collapses a wall-clock time of day to a single
// comparable integer in [0, 1439].
func MinutesSinceMidnight(hour, minute int) int { return hour*60 + minute }
