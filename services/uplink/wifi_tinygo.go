//go:build tinygo

package uplink

import (
	"time"

	"tinygo.org/x/drivers/netlink"
	"tinygo.org/x/drivers/netlink/probe"

	"airnode-go/config"
)

var link netlink.Netlinker

// netConnect brings the on-board radio up and associates. probe wires the
// board's network device into the netdev stack so the standard net package
// (and everything above it: NTP, MQTT) routes through it.
func netConnect(cfg config.Config, timeout time.Duration) error {
	if link == nil {
		link, _ = probe.Probe()
	}
	return link.NetConnect(&netlink.ConnectParams{
		Ssid:           cfg.WiFiSSID,
		Passphrase:     cfg.WiFiPass,
		ConnectTimeout: timeout,
	})
}

func netDisconnect() {
	if link != nil {
		link.NetDisconnect()
	}
}
