// Package config loads the thermostat's configuration from a YAML file
// with sane defaults. Hysteresis width, dwell time and the reporting
// cadence are deliberately configuration, not constants.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/dharmor/thermostat/internal/actuator"
	"github.com/dharmor/thermostat/internal/input"
	"github.com/dharmor/thermostat/internal/report"
	"github.com/dharmor/thermostat/internal/status"
)

// Pins holds the GPIO line offsets (BCM numbering).
type Pins struct {
	Increase int `yaml:"increase"`
	Decrease int `yaml:"decrease"`
	Heat     int `yaml:"heat"`
	Cool     int `yaml:"cool"`
}

// SetPoint holds the set-point range and startup value, degrees F.
type SetPoint struct {
	Initial int `yaml:"initial"`
	Min     int `yaml:"min"`
	Max     int `yaml:"max"`
}

// Serial holds the collector link settings.
type Serial struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// Config is the full daemon configuration.
type Config struct {
	GPIOChip string `yaml:"gpio_chip"`
	Pins     Pins   `yaml:"pins"`

	I2CBus     string `yaml:"i2c_bus"`
	SensorAddr uint16 `yaml:"sensor_addr"`

	PollMs      int64 `yaml:"poll_ms"`
	SampleMs    int64 `yaml:"sample_ms"`
	ReportMs    int64 `yaml:"report_ms"`
	HeartbeatMs int64 `yaml:"heartbeat_ms"`
	DebounceMs  int64 `yaml:"debounce_ms"`
	DwellSec    int64 `yaml:"dwell_sec"`

	Hysteresis float64  `yaml:"hysteresis"`
	SetPoint   SetPoint `yaml:"set_point"`

	Serial   Serial `yaml:"serial"`
	Broker   string `yaml:"broker"`
	HTTPAddr string `yaml:"http_addr"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		GPIOChip: "gpiochip0",
		Pins: Pins{
			Increase: input.DefaultPinIncrease,
			Decrease: input.DefaultPinDecrease,
			Heat:     actuator.DefaultPinHeat,
			Cool:     actuator.DefaultPinCool,
		},
		I2CBus:     "",
		SensorAddr: 0x76,
		PollMs:      100,
		SampleMs:    1000,
		ReportMs:    30000,
		HeartbeatMs: 900000, // 15 minutes
		DebounceMs:  200,
		DwellSec:    60,
		Hysteresis: 1.0,
		SetPoint:   SetPoint{Initial: 72, Min: 50, Max: 90},
		Serial:     Serial{Device: report.DefaultDevice, Baud: report.DefaultBaud},
		Broker:     "",
		HTTPAddr:   ":8080",
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the daemon cannot run
// with.
func (c Config) Validate() error {
	if c.PollMs <= 0 || c.SampleMs <= 0 || c.ReportMs <= 0 {
		return fmt.Errorf("poll_ms, sample_ms and report_ms must be positive")
	}
	if c.HeartbeatMs < 0 {
		return fmt.Errorf("heartbeat_ms must not be negative")
	}
	if c.DebounceMs <= 0 {
		return fmt.Errorf("debounce_ms must be positive")
	}
	if c.DwellSec < 0 {
		return fmt.Errorf("dwell_sec must not be negative")
	}
	if c.Hysteresis < 0 {
		return fmt.Errorf("hysteresis must not be negative")
	}
	if c.SetPoint.Min >= c.SetPoint.Max {
		return fmt.Errorf("set_point.min (%d) must be below set_point.max (%d)",
			c.SetPoint.Min, c.SetPoint.Max)
	}
	if c.Serial.Baud <= 0 {
		return fmt.Errorf("serial.baud must be positive")
	}
	return nil
}

// Poll returns the poll tick period.
func (c Config) Poll() time.Duration { return time.Duration(c.PollMs) * time.Millisecond }

// Sample returns the sensor sampling cadence.
func (c Config) Sample() time.Duration { return time.Duration(c.SampleMs) * time.Millisecond }

// Report returns the reporting cadence.
func (c Config) Report() time.Duration { return time.Duration(c.ReportMs) * time.Millisecond }

// Heartbeat returns the MQTT heartbeat cadence. Zero disables it.
func (c Config) Heartbeat() time.Duration { return time.Duration(c.HeartbeatMs) * time.Millisecond }

// Debounce returns the button debounce window.
func (c Config) Debounce() time.Duration { return time.Duration(c.DebounceMs) * time.Millisecond }

// Dwell returns the minimum actuator dwell time.
func (c Config) Dwell() time.Duration { return time.Duration(c.DwellSec) * time.Second }

// StatusConfig converts to the display form used by the status tracker.
func (c Config) StatusConfig() status.Config {
	return status.Config{
		PollMs:       c.PollMs,
		SampleMs:     c.SampleMs,
		ReportMs:     c.ReportMs,
		DebounceMs:   c.DebounceMs,
		DwellSec:     c.DwellSec,
		Hysteresis:   c.Hysteresis,
		SetPointMin:  c.SetPoint.Min,
		SetPointMax:  c.SetPoint.Max,
		SerialDevice: c.Serial.Device,
		SerialBaud:   c.Serial.Baud,
		Broker:       c.Broker,
		HTTPAddr:     c.HTTPAddr,
	}
}
