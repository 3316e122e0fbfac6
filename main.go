//go:build tinygo

// Firmware entry point for the Pico W air node. Each power cycle runs the
// boot orchestrator exactly once; every path through it ends in deep sleep.
package main

import (
	"log/slog"
	"machine"
	"time"

	"airnode-go/bus"
	"airnode-go/config"
	"airnode-go/drivers/scd41"
	"airnode-go/services/i2cbus"
	"airnode-go/services/power"
	"airnode-go/services/sensor"
	"airnode-go/services/statusled"
	"airnode-go/services/uplink"
)

const (
	sdaPin  = machine.GP4
	sclPin  = machine.GP5
	battPin = machine.GP26 // ADC0, behind the divider
)

func main() {
	// Give the USB serial a moment when a console is attached; costs nothing
	// against a minutes-long sleep cycle.
	time.Sleep(100 * time.Millisecond)

	cfg := config.Default()
	log := slog.New(slog.NewTextHandler(machine.Serial, nil))

	i2c := machine.I2C0
	rescue := &i2cbus.Recovery{
		SDA: gpio{sdaPin},
		SCL: gpio{sclPin},
		Reinit: func() error {
			return i2c.Configure(machine.I2CConfig{
				SDA:       sdaPin,
				SCL:       sclPin,
				Frequency: 100_000,
			})
		},
	}

	machine.InitADC()
	adc := machine.ADC{Pin: battPin}
	adc.Configure(machine.ADCConfig{})

	dev := scd41.New(i2c)
	acquirer := sensor.NewAcquirer(&dev, batteryADC{adc: adc, ratio: cfg.DividerRatio}, cfg)
	link := uplink.NewLink(cfg)

	events := bus.New(8)
	machine.LED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := statusled.New(gpio{machine.LED}, cfg.WarnCO2, 0, events)
	led.Start()

	orch := power.New(cfg, power.Deps{
		Store:   power.NewDeviceStore(),
		Sensors: acquirer,
		Uplink:  link,
		Rescue:  rescue,
		Sleeper: power.NewController(cfg.MaxSleep, cfg.ShortSleep, link, commitSleep),
		Log:     log,
		Events:  events,
	})
	orch.Boot()

	// Not reached: Boot always ends in commitSleep, which resets the chip.
}

// commitSleep holds the core in its lowest-available sleep for d, then
// resets. TinyGo does not expose the RP2040 dormant mode, so the wake-by-
// reset contract is reproduced with a timed sleep and a CPU reset; the wake
// record in the watchdog scratch registers survives it.
func commitSleep(d time.Duration) {
	time.Sleep(d)
	machine.CPUReset()
}

// gpio adapts machine.Pin to the bit-bang and LED interfaces.
type gpio struct {
	p machine.Pin
}

func (g gpio) ConfigureInput(pull i2cbus.Pull) error {
	mode := machine.PinInput
	switch pull {
	case i2cbus.PullUp:
		mode = machine.PinInputPullup
	case i2cbus.PullDown:
		mode = machine.PinInputPulldown
	}
	g.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (g gpio) ConfigureOutput(initial bool) error {
	g.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	g.p.Set(initial)
	return nil
}

func (g gpio) Set(level bool) { g.p.Set(level) }
func (g gpio) Get() bool      { return g.p.Get() }

// batteryADC reads the cell voltage through the divider. The RP2040 ADC
// reference is the 3V3 rail.
type batteryADC struct {
	adc   machine.ADC
	ratio float32
}

func (b batteryADC) ReadVolts() float32 {
	raw := b.adc.Get() // left-justified 16-bit
	return float32(raw) / 65535 * 3.3 * b.ratio
}
