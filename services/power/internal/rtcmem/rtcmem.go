// Package rtcmem exposes the reset-surviving scratch area used for the wake
// record. On rp2040 hardware it maps the watchdog scratch registers; on the
// host it is plain process memory so the simulator and tests can run the
// same store code.
package rtcmem

import "errors"

var ErrTooLarge = errors.New("rtcmem: record exceeds scratch area")
