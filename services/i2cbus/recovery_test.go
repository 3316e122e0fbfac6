package i2cbus

import "testing"

// stuckSlave models a peripheral holding SDA low until it has seen a number
// of falling SCL edges.
type stuckSlave struct {
	clocksNeeded int
	clocksSeen   int
}

func (s *stuckSlave) holding() bool { return s.clocksSeen < s.clocksNeeded }

type fakePin struct {
	mode  string // "in" or "out"
	level bool
	slave *stuckSlave // non-nil for the SDA pin
	peer  *fakePin    // SCL pin observes edges for the slave
}

func (p *fakePin) ConfigureInput(_ Pull) error { p.mode = "in"; return nil }
func (p *fakePin) ConfigureOutput(initial bool) error {
	p.mode = "out"
	p.level = initial
	return nil
}
func (p *fakePin) Set(level bool) {
	if p.peer != nil && p.level && !level {
		// falling SCL edge: the slave shifts out one bit
		p.peer.slave.clocksSeen++
	}
	p.level = level
}
func (p *fakePin) Get() bool {
	if p.slave != nil && p.slave.holding() {
		return false
	}
	return p.level || p.mode == "in" // pulled-up line floats high
}

func wire(clocksNeeded int) (sda, scl *fakePin, slave *stuckSlave) {
	slave = &stuckSlave{clocksNeeded: clocksNeeded}
	sda = &fakePin{slave: slave}
	scl = &fakePin{peer: sda, level: true}
	return sda, scl, slave
}

func TestRecoverReleasesAfterFewClocks(t *testing.T) {
	sda, scl, slave := wire(3)
	reinits := 0
	r := &Recovery{SDA: sda, SCL: scl, Reinit: func() error { reinits++; return nil }, HalfClock: 1}

	if !r.Recover() {
		t.Fatal("expected recovery to succeed")
	}
	if slave.clocksSeen < 3 {
		t.Errorf("slave saw %d clocks, want >= 3", slave.clocksSeen)
	}
	if reinits != 1 {
		t.Errorf("controller reinitialised %d times, want 1", reinits)
	}
}

func TestRecoverGivesUpAfterNineClocksButStillReinits(t *testing.T) {
	sda, scl, slave := wire(100) // never releases
	reinits := 0
	r := &Recovery{SDA: sda, SCL: scl, Reinit: func() error { reinits++; return nil }, HalfClock: 1}

	if r.Recover() {
		t.Fatal("expected recovery to fail")
	}
	// 9 recovery pulses plus the STOP's SCL cycling.
	if slave.clocksSeen < clockPulses {
		t.Errorf("slave saw %d clocks, want >= %d", slave.clocksSeen, clockPulses)
	}
	if reinits != 1 {
		t.Errorf("controller reinitialised %d times, want 1", reinits)
	}
}

func TestRecoverLeavesBusIdle(t *testing.T) {
	sda, scl, _ := wire(1)
	r := &Recovery{SDA: sda, SCL: scl, HalfClock: 1}
	r.Recover()

	if !scl.level {
		t.Error("SCL not left high after STOP")
	}
	if sda.mode != "in" {
		t.Error("SDA not handed back as input")
	}
}
