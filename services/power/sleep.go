package power

import (
	"time"

	"airnode-go/x/mathx"
)

// Radio powers down the network hardware. Some platforms refuse to sleep
// properly with an associated radio, and an associated radio burns charge
// either way.
type Radio interface {
	Shutdown()
}

// CommitFunc commits the device to deep sleep. On hardware it does not
// return: the next thing that runs is the boot orchestrator after reset. In
// hosted tests it records the requested duration and returns.
type CommitFunc func(d time.Duration)

// Controller clamps sleep requests to the hardware envelope and sequences
// the radio shutdown before committing.
type Controller struct {
	max    time.Duration
	short  time.Duration
	radio  Radio
	commit CommitFunc
}

func NewController(max, short time.Duration, radio Radio, commit CommitFunc) *Controller {
	return &Controller{max: max, short: short, radio: radio, commit: commit}
}

// Sleep enters deep sleep for d, clamped to [1s, max]. A non-positive d is a
// logic error upstream and is remapped to the standard short interval rather
// than producing an immediate re-wake storm.
func (c *Controller) Sleep(d time.Duration) {
	if d <= 0 {
		d = c.short
	}
	d = mathx.Clamp(d, time.Second, c.max)

	if c.radio != nil {
		c.radio.Shutdown()
	}
	c.commit(d)
}
