// Package uplink is the network side of a boot cycle: WiFi association, NTP
// clock correction and the MQTT publish. Every stage gets one bounded attempt
// per boot; retry policy lives with the boot orchestrator, not here.
package uplink

import (
	"time"

	"github.com/beevik/ntp"
	mqtt "github.com/eclipse/paho.mqtt.golang"

	"airnode-go/config"
	"airnode-go/errcode"
	"airnode-go/services/sensor"
)

// Link drives the radio, the clock and the broker session for one boot.
// Methods are meant to be called in order: Connect, SyncClock, ConnectBroker,
// Publish, Shutdown. Now is only trustworthy after a successful SyncClock.
type Link struct {
	cfg config.Config

	offset time.Duration
	synced bool
	client mqtt.Client
}

func NewLink(cfg config.Config) *Link {
	return &Link{cfg: cfg}
}

// Connect associates with the configured access point. On hosted builds the
// host's own networking is assumed up and this is a no-op.
func (l *Link) Connect(timeout time.Duration) error {
	if err := netConnect(l.cfg, timeout); err != nil {
		return &errcode.E{C: errcode.WiFiTimeout, Op: "connect", Err: err}
	}
	return nil
}

// SyncClock queries NTP once and captures the offset between the device's
// monotonic-ish clock and real time. The returned instant is already
// corrected.
func (l *Link) SyncClock(timeout time.Duration) (time.Time, error) {
	resp, err := ntp.QueryWithOptions(l.cfg.NTPHost, ntp.QueryOptions{
		Timeout: timeout,
	})
	if err != nil {
		return time.Time{}, &errcode.E{C: errcode.NTPTimeout, Op: "query", Err: err}
	}
	if err := resp.Validate(); err != nil {
		return time.Time{}, &errcode.E{C: errcode.NTPTimeout, Op: "validate", Err: err}
	}

	l.offset = resp.ClockOffset
	l.synced = true
	return l.Now(), nil
}

// Now returns the corrected current time. Before a successful SyncClock it
// returns the raw device clock, which resets to the epoch on every wake.
func (l *Link) Now() time.Time {
	return time.Now().Add(l.offset)
}

// ConnectBroker opens the MQTT session. Sessions are never resumed across
// boots; the node reconnects fresh each cycle.
func (l *Link) ConnectBroker(timeout time.Duration) error {
	opts := mqtt.NewClientOptions().
		AddBroker(l.cfg.BrokerURL).
		SetClientID(l.cfg.DeviceID).
		SetUsername(l.cfg.BrokerUser).
		SetPassword(l.cfg.BrokerPass).
		SetConnectTimeout(timeout).
		SetAutoReconnect(false).
		SetCleanSession(true)

	l.client = mqtt.NewClient(opts)
	tok := l.client.Connect()
	if !tok.WaitTimeout(timeout) {
		return errcode.MQTTConnect
	}
	if err := tok.Error(); err != nil {
		return &errcode.E{C: errcode.MQTTConnect, Op: "connect", Err: err}
	}
	return nil
}

// Publish sends the reading at QoS 1. The broker session must be up.
func (l *Link) Publish(r sensor.Reading) error {
	if l.client == nil || !l.client.IsConnected() {
		return errcode.MQTTConnect
	}
	body, err := Encode(l.cfg.DeviceID, r)
	if err != nil {
		return &errcode.E{C: errcode.PublishFailed, Op: "encode", Err: err}
	}
	tok := l.client.Publish(l.cfg.Topic, 1, false, body)
	if !tok.WaitTimeout(l.cfg.MQTTTimeout) {
		return errcode.PublishFailed
	}
	if err := tok.Error(); err != nil {
		return &errcode.E{C: errcode.PublishFailed, Op: "publish", Err: err}
	}
	return nil
}

// Shutdown tears the broker session and the radio down before deep sleep.
// Implements the sleep controller's Radio interface.
func (l *Link) Shutdown() {
	if l.client != nil && l.client.IsConnected() {
		// Small quiesce so the in-flight PUBACK isn't cut off.
		l.client.Disconnect(250)
	}
	netDisconnect()
}
