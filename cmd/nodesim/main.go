// nodesim runs the boot orchestrator on a workstation against simulated
// hardware. Each iteration is one power cycle; a virtual clock advances by
// exactly the committed sleep, so a day of quiet hours replays in
// milliseconds.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"airnode-go/bus"
	"airnode-go/config"
	"airnode-go/services/power"
	"airnode-go/services/sensor"
	"airnode-go/services/uplink"
)

func main() {
	boots := flag.Int("boots", 20, "number of power cycles to simulate")
	start := flag.String("start", "2026-08-31T15:40:00Z", "virtual start time (RFC 3339, local wall clock)")
	co2 := flag.Uint("co2", 650, "CO2 reading the simulated sensor reports (ppm)")
	volts := flag.Float64("volts", 3.9, "battery voltage the simulated ADC reports")
	flag.Parse()

	clk, err := time.Parse(time.RFC3339, *start)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bad -start:", err)
		os.Exit(1)
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	store := power.NewDeviceStore() // persists across simulated resets
	sim := &rig{clk: clk, cfg: cfg, co2: uint16(*co2), volts: float32(*volts), log: log}

	for boot := 1; boot <= *boots; boot++ {
		fmt.Printf("--- boot %d @ %s ---\n", boot, sim.clk.Format(time.RFC3339))

		// A fresh orchestrator per cycle mirrors a real reset: only the store
		// and the clock carry over.
		orch := power.New(cfg, power.Deps{
			Store:   store,
			Sensors: sim,
			Uplink:  sim,
			Rescue:  sim,
			Sleeper: power.NewController(cfg.MaxSleep, cfg.ShortSleep, nil, sim.commitSleep),
			Log:     log,
			Events:  bus.New(8),
		})
		orch.Boot()
	}
}

// rig is the whole simulated board: sensor, uplink, bus rescue and the sleep
// commit all share the virtual clock.
type rig struct {
	clk   time.Time
	cfg   config.Config
	co2   uint16
	volts float32
	log   *slog.Logger
}

func (r *rig) BatteryVoltage() float32 { return r.volts }
func (r *rig) Init() error             { return nil }

func (r *rig) Measure(time.Duration) (sensor.Reading, error) {
	return sensor.Reading{
		CO2:         r.co2,
		Temperature: 21.3,
		Humidity:    47.8,
		Voltage:     r.volts,
		Valid:       true,
	}, nil
}

func (r *rig) Recover() bool { return true }

func (r *rig) Connect(time.Duration) error       { return nil }
func (r *rig) ConnectBroker(time.Duration) error { return nil }
func (r *rig) Now() time.Time                    { return r.clk }

func (r *rig) SyncClock(time.Duration) (time.Time, error) {
	return r.clk, nil
}

func (r *rig) Publish(reading sensor.Reading) error {
	body, err := uplink.Encode(r.cfg.DeviceID, reading)
	if err != nil {
		return err
	}
	fmt.Printf("publish %s: %s\n", r.cfg.Topic, body)
	return nil
}

func (r *rig) commitSleep(d time.Duration) {
	r.log.Info("deep sleep", "for", d)
	r.clk = r.clk.Add(d)
}
