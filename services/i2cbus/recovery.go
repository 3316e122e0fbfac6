// Package i2cbus frees an I2C bus left stuck by a transaction that was cut
// short by a reset. A peripheral holding SDA low mid-byte will deadlock the
// hardware controller forever; the fix is to clock SCL manually until the
// peripheral finishes its byte and releases the line, then issue a STOP.
package i2cbus

import "time"

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Pin is the minimal GPIO contract recovery needs. The hardware layer and
// tests both satisfy it.
type Pin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
}

// Recovery bit-bangs the two bus lines. Reinit must bring the hardware I2C
// controller back up; it runs unconditionally because manual pin driving
// invalidates the controller state either way.
type Recovery struct {
	SDA    Pin
	SCL    Pin
	Reinit func() error

	// HalfClock is the half-period of the recovery clock. Zero means 10 µs,
	// slow enough for any 100 kHz-class peripheral.
	HalfClock time.Duration
}

// clockPulses is the worst case for one stuck transfer: 8 data bits plus the
// ack bit.
const clockPulses = 9

// Recover clocks the bus free and re-initialises the controller. It returns
// true iff the peripheral released SDA; on false the bus has still been
// through the STOP + reinit sequence (best effort) and the caller should
// abort the cycle rather than retry.
func (r *Recovery) Recover() bool {
	half := r.HalfClock
	if half <= 0 {
		half = 10 * time.Microsecond
	}

	r.SDA.ConfigureInput(PullUp)
	r.SCL.ConfigureOutput(true)

	released := false
	for i := 0; i < clockPulses; i++ {
		r.SCL.Set(false)
		time.Sleep(half)
		r.SCL.Set(true)
		time.Sleep(half)

		if r.SDA.Get() {
			released = true
			break
		}
	}

	// Force a STOP regardless of the outcome so the bus idles in a known
	// state: SDA low while SCL low, raise SCL, then release SDA high.
	r.SCL.Set(false)
	time.Sleep(half)
	r.SDA.ConfigureOutput(false)
	time.Sleep(half)
	r.SCL.Set(true)
	time.Sleep(half)
	r.SDA.Set(true)
	time.Sleep(half)

	// Hand the pins back to the controller.
	r.SDA.ConfigureInput(PullNone)

	if r.Reinit != nil {
		_ = r.Reinit()
	}
	return released
}
