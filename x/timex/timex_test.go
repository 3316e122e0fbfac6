package timex

import "testing"

func TestMinutesSinceMidnight(t *testing.T) {
	if got := MinutesSinceMidnight(0, 0); got != 0 {
		t.Errorf("00:00 = %d", got)
	}
	if got := MinutesSinceMidnight(7, 55); got != 475 {
		t.Errorf("07:55 = %d, want 475", got)
	}
	if got := MinutesSinceMidnight(23, 59); got != 1439 {
		t.Errorf("23:59 = %d, want 1439", got)
	}
}
