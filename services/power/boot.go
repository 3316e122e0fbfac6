// Package power owns the node's wake/sleep lifecycle: the persisted wake
// record, quiet-hours scheduling, the sleep controller, and the boot
// orchestrator that runs exactly one decision path per power cycle.
package power

import (
	"log/slog"
	"time"

	"airnode-go/bus"
	"airnode-go/config"
	"airnode-go/errcode"
	"airnode-go/services/sensor"
)

// Event topics published on the internal bus. Delivery is advisory: the
// orchestrator never blocks on a subscriber.
const (
	TopicReading   = "power/reading"
	TopicEmergency = "power/emergency"
)

// Sensor is the measurement side of a boot cycle.
type Sensor interface {
	Init() error
	Measure(timeout time.Duration) (sensor.Reading, error)
	BatteryVoltage() float32
}

// Uplink is the network side: WiFi association, clock correction, broker
// session and the single publish. Now is only meaningful after a successful
// SyncClock in the same boot.
type Uplink interface {
	Connect(timeout time.Duration) error
	SyncClock(timeout time.Duration) (time.Time, error)
	Now() time.Time
	ConnectBroker(timeout time.Duration) error
	Publish(r sensor.Reading) error
}

// Recoverer clears a stuck I2C bus before the first transaction of the boot.
type Recoverer interface {
	Recover() bool
}

// Sleeper commits the node to deep sleep. On hardware it does not return.
type Sleeper interface {
	Sleep(d time.Duration)
}

// Deps collects the orchestrator's collaborators. Events may be nil.
type Deps struct {
	Store   *Store
	Sensors Sensor
	Uplink  Uplink
	Rescue  Recoverer
	Sleeper Sleeper
	Log     *slog.Logger
	Events  *bus.Bus
}

// Orchestrator runs one boot cycle. Every path through Boot terminates in a
// single Sleep call; when in doubt it fails toward sleeping, never toward
// staying awake.
type Orchestrator struct {
	cfg    config.Config
	zone   *time.Location
	window Window

	store   *Store
	sensors Sensor
	uplink  Uplink
	rescue  Recoverer
	sleeper Sleeper
	log     *slog.Logger
	events  *bus.Bus
}

func New(cfg config.Config, d Deps) *Orchestrator {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		cfg:  cfg,
		zone: time.FixedZone("local", int(cfg.UTCOffset/time.Second)),
		window: Window{
			StartHour:   cfg.Quiet.StartHour,
			StartMinute: cfg.Quiet.StartMinute,
			EndHour:     cfg.Quiet.EndHour,
			EndMinute:   cfg.Quiet.EndMinute,
		},
		store:   d.Store,
		sensors: d.Sensors,
		uplink:  d.Uplink,
		rescue:  d.Rescue,
		sleeper: d.Sleeper,
		log:     log,
		events:  d.Events,
	}
}

// Boot runs the decision tree for this power cycle:
//
//	brownout check -> quiet continuation / sync-wake -> normal cycle
//
// Exactly one branch executes and ends in a sleep.
func (o *Orchestrator) Boot() {
	if o.brownout() {
		return
	}

	st, ok := o.store.Read()
	if !ok {
		// Cold power-on or a write cut short by a brownout. Either way the
		// record is untrusted and the node simply runs a normal cycle.
		o.log.Debug("no trusted wake record", "code", errcode.StateCorrupt)
	}
	if ok && st.InQuietMode() {
		if o.quietStep(st) {
			return
		}
		// Target already passed while we were asleep: fall through and
		// measure immediately.
		o.log.Info("quiet target overslept, resuming")
	}

	o.normalCycle()
}

// brownout reports true when this boot ended in an emergency sleep because
// the battery is too low to run a cycle. A voltage at or below the noise
// floor means the ADC path is not settled; treat it as unknown and proceed.
func (o *Orchestrator) brownout() bool {
	v := o.sensors.BatteryVoltage()
	if v <= o.cfg.NoiseFloorVolts {
		o.log.Warn("battery voltage unreadable, proceeding", "volts", v)
		return false
	}
	if v >= o.cfg.MinVolts {
		return false
	}

	o.log.Error("battery below threshold",
		"code", errcode.LowBattery, "volts", v, "min", o.cfg.MinVolts)
	o.publish(TopicEmergency, errcode.LowBattery)
	// A dying cell must not wake into a stale quiet countdown later.
	_ = o.store.Clear()
	o.sleeper.Sleep(o.cfg.MaxSleep)
	return true
}

// quietStep consumes one chunk of an active quiet countdown. It returns true
// when the step ended in a sleep, false when the wake target has already
// passed and the caller should run a normal cycle instead.
func (o *Orchestrator) quietStep(st WakeState) bool {
	if st.CyclesRemaining > 1 {
		st.CyclesRemaining--
		if err := o.store.Write(st); err != nil {
			o.log.Warn("wake record write failed", "err", err)
		}
		o.log.Info("quiet continuation",
			"remaining", st.CyclesRemaining, "target", st.QuietWakeTarget)
		o.sleeper.Sleep(o.cfg.MaxSleep)
		return true
	}

	// Final chunk: correct the clock, then sleep the exact remainder. On any
	// network failure the record is left untouched so the next boot retries
	// the sync-wake.
	if err := o.uplink.Connect(o.cfg.WiFiTimeout); err != nil {
		o.log.Warn("sync-wake wifi failed, retrying next boot",
			"code", errcode.WiFiTimeout, "err", err)
		o.sleeper.Sleep(o.cfg.ShortSleep)
		return true
	}
	now, err := o.uplink.SyncClock(o.cfg.NTPTimeout)
	if err != nil {
		o.log.Warn("sync-wake ntp failed, retrying next boot",
			"code", errcode.NTPTimeout, "err", err)
		o.sleeper.Sleep(o.cfg.ShortSleep)
		return true
	}

	remaining := time.Unix(int64(st.QuietWakeTarget), 0).Sub(now)
	_ = o.store.Clear()
	if remaining <= 0 {
		return false
	}
	o.log.Info("sync-wake", "remaining", remaining)
	o.sleeper.Sleep(remaining)
	return true
}

// normalCycle is the production path: recover the bus, measure, publish,
// then either enter quiet hours or schedule the next short interval.
func (o *Orchestrator) normalCycle() {
	if o.rescue != nil && !o.rescue.Recover() {
		o.emergency(errcode.BusStuck, "bus recovery failed")
		return
	}

	if err := o.sensors.Init(); err != nil {
		o.emergency(errcode.SensorInit, err.Error())
		return
	}
	reading, err := o.sensors.Measure(o.cfg.SensorTimeout)
	if err != nil {
		o.emergency(errcode.Of(err), err.Error())
		return
	}

	if err := o.uplink.Connect(o.cfg.WiFiTimeout); err != nil {
		o.emergency(errcode.WiFiTimeout, err.Error())
		return
	}

	synced := true
	now, err := o.uplink.SyncClock(o.cfg.NTPTimeout)
	if err != nil {
		// A reading without a timestamp is still worth publishing; quiet
		// hours need a trusted clock and are skipped this cycle.
		synced = false
		o.log.Warn("ntp failed, publishing unstamped",
			"code", errcode.NTPTimeout, "err", err)
	} else {
		reading.Timestamp = now.Unix()
	}

	o.publish(TopicReading, reading)

	if err := o.uplink.ConnectBroker(o.cfg.MQTTTimeout); err != nil {
		o.emergency(errcode.MQTTConnect, err.Error())
		return
	}
	if err := o.uplink.Publish(reading); err != nil {
		// The measurement is already lost to this cycle; a resend after
		// ShortSleep is fresher than a retry now.
		o.log.Warn("publish failed", "code", errcode.PublishFailed, "err", err)
	}

	if synced && o.cfg.Quiet.Enabled {
		local := o.uplink.Now().In(o.zone)
		if o.window.Contains(local.Hour(), local.Minute()) {
			o.enterQuiet(local)
			return
		}
	}

	_ = o.store.Clear()
	o.sleeper.Sleep(o.cfg.ShortSleep)
}

// enterQuiet plans the chunked sleep to the end of the quiet window and takes
// the first chunk itself. The persisted count plus the chunk slept now always
// sums to the full plan, so the countdown conserves total sleep time.
func (o *Orchestrator) enterQuiet(now time.Time) {
	target := o.window.NextEnd(now)
	n := PlanChunks(now, target, o.cfg.MaxSleep)

	st := WakeState{QuietWakeTarget: uint32(target.Unix())}
	if n > 1 {
		st.CyclesRemaining = n - 1
		if err := o.store.Write(st); err != nil {
			o.log.Warn("wake record write failed", "err", err)
		}
		o.log.Info("entering quiet hours",
			"target", target, "chunks", n)
		o.sleeper.Sleep(o.cfg.MaxSleep)
		return
	}

	// The whole window fits in one chunk: this sleep is the sync-wake's job,
	// but the clock was just corrected, so sleep the exact span now and leave
	// a one-cycle record in case the sleep undershoots.
	st.CyclesRemaining = 1
	if err := o.store.Write(st); err != nil {
		o.log.Warn("wake record write failed", "err", err)
	}
	o.log.Info("entering quiet hours", "target", target, "chunks", n)
	o.sleeper.Sleep(target.Sub(now))
}

func (o *Orchestrator) emergency(code errcode.Code, msg string) {
	o.log.Error("cycle aborted", "code", code, "msg", msg)
	o.publish(TopicEmergency, code)
	o.sleeper.Sleep(o.cfg.ShortSleep)
}

func (o *Orchestrator) publish(topic string, payload any) {
	if o.events == nil {
		return
	}
	o.events.Publish(&bus.Message{Topic: topic, Payload: payload, Retained: true})
}
