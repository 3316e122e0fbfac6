package scd41

import (
	"testing"
	"time"
)

// fakeBus emulates the SCD41 command/response protocol: a 16-bit command
// write followed by a separate read of word+CRC triplets.
type fakeBus struct {
	lastCmd uint16
	ready   bool

	co2, traw, hraw uint16
	serial          [3]uint16

	corruptCRC bool
	triggers   int
	stops      int
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	if len(w) == 2 {
		b.lastCmd = uint16(w[0])<<8 | uint16(w[1])
		switch b.lastCmd {
		case cmdMeasureSingleShot:
			b.triggers++
		case cmdStopPeriodic:
			b.stops++
		}
		return nil
	}
	if len(w) == 0 && len(r) > 0 {
		switch b.lastCmd {
		case cmdDataReady:
			var word uint16
			if b.ready {
				word = 0x0006 // any non-zero low bits
			}
			b.putWord(r[0:3], word)
		case cmdReadMeasurement:
			b.putWord(r[0:3], b.co2)
			b.putWord(r[3:6], b.traw)
			b.putWord(r[6:9], b.hraw)
		case cmdSerialNumber:
			b.putWord(r[0:3], b.serial[0])
			b.putWord(r[3:6], b.serial[1])
			b.putWord(r[6:9], b.serial[2])
		}
	}
	return nil
}

func (b *fakeBus) putWord(dst []byte, w uint16) {
	dst[0] = byte(w >> 8)
	dst[1] = byte(w)
	dst[2] = crc8(dst[0], dst[1])
	if b.corruptCRC {
		dst[2] ^= 0xFF
	}
}

func fastConfig() Config {
	return Config{
		PollInterval:   time.Millisecond,
		CollectTimeout: 50 * time.Millisecond,
		TriggerHint:    time.Millisecond,
	}
}

func TestProbeReadsSerial(t *testing.T) {
	fb := &fakeBus{serial: [3]uint16{0xF896, 0x31B2, 0x7F07}}
	d := New(fb)

	serial, err := d.Probe()
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	want := uint64(0xF896)<<32 | uint64(0x31B2)<<16 | uint64(0x7F07)
	if serial != want {
		t.Errorf("serial = %#x, want %#x", serial, want)
	}
}

func TestCollectNotReadyThenSample(t *testing.T) {
	fb := &fakeBus{co2: 812, traw: 26214, hraw: 32768}
	d := New(fb)
	d.cfg = fastConfig()

	if err := d.Trigger(); err != nil {
		t.Fatalf("trigger failed: %v", err)
	}
	if fb.triggers != 1 {
		t.Fatalf("expected one single-shot command, got %d", fb.triggers)
	}

	var s Sample
	if err := d.Collect(&s); err != ErrNotReady {
		t.Fatalf("expected ErrNotReady while converting, got %v", err)
	}

	fb.ready = true
	if err := d.Collect(&s); err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if s.CO2 != 812 {
		t.Errorf("CO2 = %d, want 812", s.CO2)
	}
	// raw 26214 -> 25.0 C, raw 32768 -> 50.0 %RH
	if got := s.DeciCelsius(); got != 250 {
		t.Errorf("DeciCelsius = %d, want 250", got)
	}
	if got := s.DeciRelHumidity(); got != 500 {
		t.Errorf("DeciRelHumidity = %d, want 500", got)
	}
}

func TestCollectRejectsBadCRC(t *testing.T) {
	fb := &fakeBus{ready: true, corruptCRC: true}
	d := New(fb)
	d.cfg = fastConfig()

	if err := d.Collect(nil); err != ErrBadCRC {
		t.Fatalf("expected ErrBadCRC, got %v", err)
	}
}

func TestReadTimesOutWhenNeverReady(t *testing.T) {
	fb := &fakeBus{}
	d := New(fb)
	d.cfg = fastConfig()

	if err := d.Read(); err != ErrTimeout {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestCRC8KnownVector(t *testing.T) {
	// Datasheet example: 0xBEEF -> 0x92.
	if got := crc8(0xBE, 0xEF); got != 0x92 {
		t.Errorf("crc8(0xBEEF) = %#x, want 0x92", got)
	}
}
