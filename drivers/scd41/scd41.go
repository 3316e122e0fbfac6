// Package scd41 provides a driver for the Sensirion SCD41 CO2 sensor in
// single-shot mode. It exposes a two-phase measurement API:
//
//	d.Trigger()              // start a single-shot measurement (fast)
//	err := d.Collect(&s)     // fetch when ready; returns ErrNotReady while busy
//
// For convenience, d.Read() performs trigger + bounded polling until ready.
//
// Single-shot mode is used instead of periodic mode because the node is
// asleep between readings; a conversion takes ~5 s and the device idles at
// minimum draw afterwards.
//
// The driver avoids floating-point on the hot path; fixed-point helpers
// return tenths of units (deci-°C and deci-%RH).
package scd41

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// I2C address.
const Address = 0x62

// Command words (per datasheet).
const (
	cmdMeasureSingleShot = 0x219D
	cmdDataReady         = 0xE4B8
	cmdReadMeasurement   = 0xEC05
	cmdStopPeriodic      = 0x3F86
	cmdReinit            = 0x3646
	cmdWakeUp            = 0x36F6
	cmdSerialNumber      = 0x3682
)

// Errors returned by the driver.
var (
	ErrTimeout  = errors.New("scd41: timeout")
	ErrNotReady = errors.New("scd41: not ready")
	ErrBadCRC   = errors.New("scd41: crc mismatch")
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to 0x62 if zero.
	Address uint16
	// PollInterval is used by Read() between Collect() attempts for ErrNotReady.
	// Default 100 ms.
	PollInterval time.Duration
	// CollectTimeout bounds the total wait in Read(). Default 6 s.
	CollectTimeout time.Duration
	// TriggerHint is the nominal single-shot conversion time (no sleep is
	// performed in Trigger). Default 5 s. Exposed to callers who want to
	// schedule Collect themselves without using Read().
	TriggerHint time.Duration
}

// Device wraps an I2C connection to an SCD41 device.
type Device struct {
	bus     drivers.I2C
	Address uint16

	cfg  Config
	buf  [9]byte // reuse buffer to avoid allocations
	co2  uint16
	temp uint16 // raw temperature word
	hum  uint16 // raw humidity word
}

// New creates a new SCD41 connection. The I2C bus must already be configured.
// This function only creates the Device object; it does not touch the device.
func New(bus drivers.I2C) Device {
	return Device{
		bus:     bus,
		Address: Address,
	}
}

// Configure applies optional config and moves the device into an idle,
// single-shot-ready state. Safe to call on a device left mid-measurement by
// a previous boot.
func (d *Device) Configure(cfgs ...Config) error {
	if len(cfgs) > 0 {
		c := cfgs[0]
		if c.Address != 0 {
			d.Address = c.Address
		}
		if c.PollInterval <= 0 {
			c.PollInterval = 100 * time.Millisecond
		}
		if c.CollectTimeout <= 0 {
			c.CollectTimeout = 6 * time.Second
		}
		if c.TriggerHint <= 0 {
			c.TriggerHint = 5 * time.Second
		}
		d.cfg = c
	} else {
		d.cfg = Config{
			Address:        d.Address,
			PollInterval:   100 * time.Millisecond,
			CollectTimeout: 6 * time.Second,
			TriggerHint:    5 * time.Second,
		}
	}

	// A sleeping SCD41 does not ACK the wake-up command; ignore the error.
	_ = d.writeCommand(cmdWakeUp)
	time.Sleep(30 * time.Millisecond)

	// Periodic mode may still be running from before the reset. The device
	// rejects single-shot commands until it is stopped.
	if err := d.writeCommand(cmdStopPeriodic); err != nil {
		return err
	}
	time.Sleep(500 * time.Millisecond) // datasheet: >=500 ms after stop

	return nil
}

// Probe verifies the device answers at its address by reading the serial
// number, including CRC validation of all three words.
func (d *Device) Probe() (uint64, error) {
	if err := d.writeCommand(cmdSerialNumber); err != nil {
		return 0, err
	}
	time.Sleep(time.Millisecond)
	buf := d.buf[:9]
	if err := d.bus.Tx(d.Address, nil, buf); err != nil {
		return 0, err
	}
	var serial uint64
	for i := 0; i < 9; i += 3 {
		w, err := checkWord(buf[i : i+3])
		if err != nil {
			return 0, err
		}
		serial = serial<<16 | uint64(w)
	}
	return serial, nil
}

// Trigger starts a single-shot measurement. It is a quick command write with
// no blocking. After Trigger, the device needs ~5 s to convert; see
// d.TriggerHint().
func (d *Device) Trigger() error {
	if d.cfg.PollInterval == 0 {
		if err := d.Configure(); err != nil {
			return err
		}
	}
	return d.writeCommand(cmdMeasureSingleShot)
}

// TriggerHint returns the nominal conversion time to wait before attempting Collect.
func (d *Device) TriggerHint() time.Duration {
	if d.cfg.TriggerHint > 0 {
		return d.cfg.TriggerHint
	}
	return 5 * time.Second
}

// Collect attempts to read one measurement into the device cache and the
// provided sample. If the conversion has not finished yet, ErrNotReady is
// returned. Any bus error is returned as-is.
func (d *Device) Collect(out *Sample) error {
	ready, err := d.dataReady()
	if err != nil {
		return err
	}
	if !ready {
		return ErrNotReady
	}

	if err := d.writeCommand(cmdReadMeasurement); err != nil {
		return err
	}
	time.Sleep(time.Millisecond)
	buf := d.buf[:9]
	if err := d.bus.Tx(d.Address, nil, buf); err != nil {
		return err
	}

	co2, err := checkWord(buf[0:3])
	if err != nil {
		return err
	}
	traw, err := checkWord(buf[3:6])
	if err != nil {
		return err
	}
	hraw, err := checkWord(buf[6:9])
	if err != nil {
		return err
	}

	d.co2 = co2
	d.temp = traw
	d.hum = hraw

	if out != nil {
		out.CO2 = co2
		out.RawTemp = traw
		out.RawHumidity = hraw
	}
	return nil
}

// Read performs a full measurement cycle: Trigger followed by bounded
// polling until Collect succeeds or the timeout elapses.
func (d *Device) Read() error {
	if err := d.Trigger(); err != nil {
		return err
	}
	time.Sleep(d.TriggerHint())
	deadline := time.Now().Add(d.cfg.CollectTimeout)
	for {
		var s Sample
		err := d.Collect(&s)
		switch err {
		case nil:
			return nil
		case ErrNotReady:
			if time.Now().After(deadline) {
				return ErrTimeout
			}
			time.Sleep(d.cfg.PollInterval)
			continue
		default:
			return err
		}
	}
}

// dataReady queries the data-ready word; the low 11 bits are non-zero once a
// conversion has completed.
func (d *Device) dataReady() (bool, error) {
	if err := d.writeCommand(cmdDataReady); err != nil {
		return false, err
	}
	time.Sleep(time.Millisecond)
	buf := d.buf[:3]
	if err := d.bus.Tx(d.Address, nil, buf); err != nil {
		return false, err
	}
	w, err := checkWord(buf)
	if err != nil {
		return false, err
	}
	return w&0x07FF != 0, nil
}

// writeCommand sends a 16-bit command word. SCD4x commands are a plain write
// followed by a separate read after the command execution time; no repeated
// start is used.
func (d *Device) writeCommand(cmd uint16) error {
	return d.bus.Tx(d.Address, []byte{byte(cmd >> 8), byte(cmd)}, nil)
}

// checkWord validates a word+CRC triplet and returns the word.
func checkWord(b []byte) (uint16, error) {
	if crc8(b[0], b[1]) != b[2] {
		return 0, ErrBadCRC
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// crc8 is the Sensirion word checksum (poly 0x31, init 0xFF).
func crc8(hi, lo byte) byte {
	crc := byte(0xFF)
	for _, b := range [2]byte{hi, lo} {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x31
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// Sample holds one measurement.
type Sample struct {
	CO2         uint16 // ppm, directly usable
	RawTemp     uint16
	RawHumidity uint16
}

// Fixed-point conversion helpers operating on Sample.

// DeciCelsius returns tenths of °C: -45 °C + 175 °C * raw / 65535.
func (s Sample) DeciCelsius() int32 {
	return int32(uint32(s.RawTemp)*1750/65535) - 450
}

// DeciRelHumidity returns tenths of %RH: 100 % * raw / 65535.
func (s Sample) DeciRelHumidity() int32 {
	return int32(uint32(s.RawHumidity) * 1000 / 65535)
}

// Accessors operating on the last cached sample.

func (d *Device) CO2() uint16 { return d.co2 }

// Celsius returns °C (float). Prefer DeciCelsius for fixed-point.
func (d *Device) Celsius() float32 {
	return float32(d.temp)*175.0/65535 - 45
}

// RelHumidity returns %RH (float). Prefer DeciRelHumidity for fixed-point.
func (d *Device) RelHumidity() float32 {
	return float32(d.hum) * 100.0 / 65535
}
