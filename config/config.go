// Package config holds the compile-time configuration surface of the node.
// There is no CLI and no config file on the device; values are baked into the
// image. Default() mirrors the shipped build, Validate() guards local edits.
package config

import (
	"errors"
	"time"
)

// Quiet describes the daily window during which the node suspends
// measurement and chains long sleeps instead.
type Quiet struct {
	Enabled     bool
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// Ranges bounds a reading considered publishable. Anything outside is
// treated the same as a failed measurement.
type Ranges struct {
	CO2Min, CO2Max   uint16  // ppm
	TempMin, TempMax float32 // °C
	HumMin, HumMax   float32 // %RH
}

type Config struct {
	DeviceID string

	// WiFi / MQTT / NTP endpoints. Credentials are injected at build time.
	WiFiSSID   string
	WiFiPass   string
	BrokerURL  string // e.g. "ssl://broker.example.org:8883"
	BrokerUser string
	BrokerPass string
	Topic      string
	NTPHost    string

	// UTCOffset shifts NTP time into the wall clock the quiet window is
	// expressed in.
	UTCOffset time.Duration

	Quiet Quiet

	// Sleep arithmetic.
	MaxSleep   time.Duration // hardware single-sleep ceiling
	ShortSleep time.Duration // standard measurement interval

	// Timeouts, one attempt per boot each.
	SensorTimeout time.Duration
	WiFiTimeout   time.Duration
	NTPTimeout    time.Duration
	MQTTTimeout   time.Duration

	// Battery guard. Readings at or below NoiseFloorVolts are treated as an
	// unsettled ADC, not as a real cell voltage.
	MinVolts        float32
	NoiseFloorVolts float32
	DividerRatio    float32 // ADC pin volts -> battery volts

	WarmupReads int // throwaway SCD41 reads before the production one
	WarnCO2     uint16

	Valid Ranges
}

func Default() Config {
	return Config{
		DeviceID:  "livingroom_01",
		BrokerURL: "ssl://broker.example.org:8883",
		Topic:     "airnode/readings",
		NTPHost:   "pool.ntp.org",

		Quiet: Quiet{
			Enabled:     true,
			StartHour:   16,
			StartMinute: 0,
			EndHour:     7,
			EndMinute:   55,
		},

		MaxSleep:   2 * time.Hour,
		ShortSleep: 5 * time.Minute,

		SensorTimeout: 6 * time.Second,
		WiFiTimeout:   15 * time.Second,
		NTPTimeout:    10 * time.Second,
		MQTTTimeout:   10 * time.Second,

		MinVolts:        3.0,
		NoiseFloorVolts: 0.5,
		DividerRatio:    4.5,

		WarmupReads: 1,
		WarnCO2:     1500,

		Valid: Ranges{
			CO2Min: 400, CO2Max: 5000,
			TempMin: -10, TempMax: 50,
			HumMin: 0, HumMax: 100,
		},
	}
}

func (c Config) Validate() error {
	if c.MaxSleep < time.Minute {
		return errors.New("config: MaxSleep below one minute")
	}
	if c.ShortSleep <= 0 || c.ShortSleep > c.MaxSleep {
		return errors.New("config: ShortSleep outside (0, MaxSleep]")
	}
	if !validHM(c.Quiet.StartHour, c.Quiet.StartMinute) || !validHM(c.Quiet.EndHour, c.Quiet.EndMinute) {
		return errors.New("config: quiet window boundary out of range")
	}
	if c.NoiseFloorVolts >= c.MinVolts {
		return errors.New("config: noise floor must sit below the operating threshold")
	}
	if c.Valid.CO2Min >= c.Valid.CO2Max || c.Valid.TempMin >= c.Valid.TempMax || c.Valid.HumMin >= c.Valid.HumMax {
		return errors.New("config: empty validity range")
	}
	return nil
}

func validHM(h, m int) bool { return h >= 0 && h <= 23 && m >= 0 && m <= 59 }
