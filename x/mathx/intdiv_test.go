package mathx

import "testing"

func TestFloorDiv(t *testing.T) {
	if got := FloorDiv(uint64(7), uint64(2)); got != 3 {
		t.Errorf("FloorDiv(7,2) = %d, want 3", got)
	}
	if got := FloorDiv(uint64(6), uint64(2)); got != 3 {
		t.Errorf("FloorDiv(6,2) = %d, want 3", got)
	}
	if got := FloorDiv(uint64(5), uint64(0)); got != 0 {
		t.Errorf("FloorDiv by zero = %d, want 0", got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 1, 10); got != 5 {
		t.Errorf("Clamp(5,1,10) = %d", got)
	}
	if got := Clamp(-3, 1, 10); got != 1 {
		t.Errorf("Clamp(-3,1,10) = %d", got)
	}
	if got := Clamp(42, 1, 10); got != 10 {
		t.Errorf("Clamp(42,1,10) = %d", got)
	}
}
