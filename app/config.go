package app

import (
	"encoding/json"
	"time"
)

// Intervals are the periods of the three application callbacks in
// milliseconds
type Intervals struct {
	LED    uint32 `json:"led_ms"`
	Env    uint32 `json:"env_ms"`
	Motion uint32 `json:"motion_ms"`
}

// Config holds the application settings
type Config struct {
	DeviceName string    `json:"device_name"`
	Intervals  Intervals `json:"intervals"`
	Debug      bool      `json:"debug"`
}

// DefaultConfig returns the settings the firmware ships with
func DefaultConfig() Config {
	var c Config
	applyDefaults(&c)
	return c
}

// LoadConfig parses a JSON configuration and fills in missing values
func LoadConfig(jsonData []byte) (Config, error) {
	var c Config
	if err := json.Unmarshal(jsonData, &c); err != nil {
		return c, err
	}
	applyDefaults(&c)
	return c, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(c *Config) {
	if c.DeviceName == "" {
		c.DeviceName = "MBED_SENSOR"
	}
	if c.Intervals.LED == 0 {
		c.Intervals.LED = 500
	}
	if c.Intervals.Env == 0 {
		c.Intervals.Env = 10000
	}
	if c.Intervals.Motion == 0 {
		c.Intervals.Motion = 50
	}
}

func millis(ms uint32) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
