package sensor

import (
	"testing"
	"time"

	"airnode-go/config"
	"airnode-go/drivers/scd41"
	"airnode-go/errcode"
)

// fakeSCD41 answers the subset of the SCD4x protocol the acquirer exercises.
type fakeSCD41 struct {
	lastCmd         uint16
	ready           bool
	stuck           bool // conversion never completes
	co2, traw, hraw uint16
}

func (b *fakeSCD41) Tx(addr uint16, w, r []byte) error {
	if len(w) == 2 {
		b.lastCmd = uint16(w[0])<<8 | uint16(w[1])
		if b.lastCmd == 0x219D && !b.stuck { // single shot started
			b.ready = true
		}
		return nil
	}
	switch b.lastCmd {
	case 0xE4B8: // data ready
		var word uint16
		if b.ready {
			word = 0x0001
		}
		putWord(r[0:3], word)
	case 0xEC05: // read measurement
		putWord(r[0:3], b.co2)
		putWord(r[3:6], b.traw)
		putWord(r[6:9], b.hraw)
	case 0x3682: // serial number
		putWord(r[0:3], 0x1234)
		putWord(r[3:6], 0x5678)
		putWord(r[6:9], 0x9ABC)
	}
	return nil
}

func putWord(dst []byte, w uint16) {
	dst[0] = byte(w >> 8)
	dst[1] = byte(w)
	crc := byte(0xFF)
	for _, b := range dst[:2] {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x31
			} else {
				crc <<= 1
			}
		}
	}
	dst[2] = crc
}

type fixedVolts float32

func (v fixedVolts) ReadVolts() float32 { return float32(v) }

func newAcquirer(fb *fakeSCD41, volts float32) *Acquirer {
	dev := scd41.New(fb)
	cfg := config.Default()
	cfg.WarmupReads = 0
	a := NewAcquirer(&dev, fixedVolts(volts), cfg)
	a.DriverConfig = scd41.Config{
		PollInterval:   time.Millisecond,
		CollectTimeout: 50 * time.Millisecond,
		TriggerHint:    time.Millisecond,
	}
	return a
}

func TestMeasureValidReading(t *testing.T) {
	fb := &fakeSCD41{co2: 812, traw: 26214, hraw: 32768} // 25.0 C, 50.0 %RH
	a := newAcquirer(fb, 3.9)
	if err := a.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	r, err := a.Measure(time.Second)
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	if !r.Valid {
		t.Error("expected a valid reading")
	}
	if r.CO2 != 812 {
		t.Errorf("CO2 = %d, want 812", r.CO2)
	}
	if r.Temperature < 24.9 || r.Temperature > 25.1 {
		t.Errorf("Temperature = %v, want ~25.0", r.Temperature)
	}
	if r.Humidity < 49.9 || r.Humidity > 50.1 {
		t.Errorf("Humidity = %v, want ~50.0", r.Humidity)
	}
	if r.Voltage != 3.9 {
		t.Errorf("Voltage = %v, want 3.9", r.Voltage)
	}
}

func TestMeasureRejectsOutOfRange(t *testing.T) {
	// 100 ppm is below the SCD41's plausible floor; reject, don't publish.
	fb := &fakeSCD41{co2: 100, traw: 26214, hraw: 32768}
	a := newAcquirer(fb, 3.9)
	if err := a.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	r, err := a.Measure(time.Second)
	if errcode.Of(err) != errcode.InvalidReading {
		t.Fatalf("expected invalid_reading, got %v", err)
	}
	if r.Valid {
		t.Error("out-of-range reading flagged valid")
	}
}

func TestMeasureTimesOut(t *testing.T) {
	fb := &fakeSCD41{stuck: true}
	a := newAcquirer(fb, 3.9)
	if err := a.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if _, err := a.Measure(20 * time.Millisecond); errcode.Of(err) != errcode.SensorTimeout {
		t.Fatalf("expected sensor_timeout, got %v", err)
	}
}
