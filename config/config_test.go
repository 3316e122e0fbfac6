package config

import (
	"testing"
	"time"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadEdits(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"short sleep above max", func(c *Config) { c.ShortSleep = c.MaxSleep + time.Minute }},
		{"zero short sleep", func(c *Config) { c.ShortSleep = 0 }},
		{"quiet hour out of range", func(c *Config) { c.Quiet.EndHour = 24 }},
		{"noise floor above threshold", func(c *Config) { c.NoiseFloorVolts = 3.5 }},
		{"inverted co2 range", func(c *Config) { c.Valid.CO2Min = 6000 }},
	}
	for _, tc := range cases {
		c := Default()
		tc.mut(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
