package power

import "airnode-go/services/power/internal/rtcmem"

// NewDeviceStore returns a Store backed by the platform's reset-surviving
// scratch memory: the RP2040 watchdog scratch registers on hardware, a
// process-lifetime buffer on hosted builds.
func NewDeviceStore() *Store {
	return NewStore(rtcmem.New())
}
