// Package sensor acquires one environmental reading per boot: CO2,
// temperature and humidity from the SCD41 plus the battery voltage from the
// ADC. A reading is created fresh each cycle, published once, and never
// retried across boots.
package sensor

import (
	"time"

	"airnode-go/config"
	"airnode-go/drivers/scd41"
	"airnode-go/errcode"
)

// Reading is one acquisition result. Timestamp is stamped by the caller once
// the clock has been corrected; it stays zero when NTP failed.
type Reading struct {
	CO2         uint16  // ppm
	Temperature float32 // °C
	Humidity    float32 // %RH
	Voltage     float32 // battery volts
	Timestamp   int64   // unix seconds
	Valid       bool
}

// VoltageReader reads the battery voltage. On hardware this is the ADC
// behind the divider; it must work before any other peripheral is powered.
type VoltageReader interface {
	ReadVolts() float32
}

// Acquirer drives the SCD41 through one single-shot measurement with
// warm-up throws and range validation.
type Acquirer struct {
	dev  *scd41.Device
	batt VoltageReader

	// DriverConfig is applied on Init. Zero values select driver defaults.
	DriverConfig scd41.Config

	ranges  config.Ranges
	warmups int
	poll    time.Duration
}

func NewAcquirer(dev *scd41.Device, batt VoltageReader, cfg config.Config) *Acquirer {
	return &Acquirer{
		dev:     dev,
		batt:    batt,
		ranges:  cfg.Valid,
		warmups: cfg.WarmupReads,
		poll:    100 * time.Millisecond,
	}
}

// Init brings the sensor into single-shot mode and verifies it answers on
// the bus. Call after bus recovery, never before.
func (a *Acquirer) Init() error {
	if err := a.dev.Configure(a.DriverConfig); err != nil {
		return &errcode.E{C: errcode.SensorInit, Op: "configure", Err: err}
	}
	if _, err := a.dev.Probe(); err != nil {
		return &errcode.E{C: errcode.SensorInit, Op: "probe", Err: err}
	}
	if a.DriverConfig.PollInterval > 0 {
		a.poll = a.DriverConfig.PollInterval
	}
	return nil
}

// BatteryVoltage reads the cell voltage. Safe without Init; it touches only
// the ADC.
func (a *Acquirer) BatteryVoltage() float32 {
	if a.batt == nil {
		return 0
	}
	return a.batt.ReadVolts()
}

// Measure performs the warm-up throws and then one production single-shot
// read, bounded by timeout. An out-of-range result is returned with
// Valid=false alongside errcode.InvalidReading: bad data is never published
// on a best-effort basis.
func (a *Acquirer) Measure(timeout time.Duration) (Reading, error) {
	var r Reading
	r.Voltage = a.BatteryVoltage()

	// The first conversions after a long power-down read low; throw them away.
	for i := 0; i < a.warmups; i++ {
		_ = a.dev.Read()
	}

	if err := a.dev.Trigger(); err != nil {
		return r, &errcode.E{C: errcode.SensorRead, Op: "trigger", Err: err}
	}

	deadline := time.Now().Add(timeout)
	var s scd41.Sample
	for {
		err := a.dev.Collect(&s)
		if err == nil {
			break
		}
		if err == scd41.ErrNotReady {
			if time.Now().After(deadline) {
				return r, errcode.SensorTimeout
			}
			time.Sleep(a.poll)
			continue
		}
		return r, &errcode.E{C: errcode.SensorRead, Op: "collect", Err: err}
	}

	r.CO2 = s.CO2
	r.Temperature = a.dev.Celsius()
	r.Humidity = a.dev.RelHumidity()
	r.Valid = a.inRange(r)
	if !r.Valid {
		return r, errcode.InvalidReading
	}
	return r, nil
}

func (a *Acquirer) inRange(r Reading) bool {
	return r.CO2 >= a.ranges.CO2Min && r.CO2 <= a.ranges.CO2Max &&
		r.Temperature >= a.ranges.TempMin && r.Temperature <= a.ranges.TempMax &&
		r.Humidity >= a.ranges.HumMin && r.Humidity <= a.ranges.HumMax
}
