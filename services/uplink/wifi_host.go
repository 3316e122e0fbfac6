//go:build !tinygo

package uplink

import (
	"time"

	"airnode-go/config"
)

// Hosted builds ride the host's own networking; there is no radio to bring
// up or tear down.
func netConnect(config.Config, time.Duration) error { return nil }

func netDisconnect() {}
