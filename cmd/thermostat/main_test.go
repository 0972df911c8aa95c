package main

import (
	"testing"

	"github.com/dharmor/thermostat/internal/config"
)

func TestApplyOverridesNoneSet(t *testing.T) {
	cfg := config.Default()
	got := applyOverrides(cfg, overrides{broker: "\x00", httpAddr: "\x00", serial: "", setPoint: -1})

	if got.Broker != cfg.Broker {
		t.Errorf("Broker: got %q, want %q", got.Broker, cfg.Broker)
	}
	if got.HTTPAddr != cfg.HTTPAddr {
		t.Errorf("HTTPAddr: got %q, want %q", got.HTTPAddr, cfg.HTTPAddr)
	}
	if got.Serial.Device != cfg.Serial.Device {
		t.Errorf("Serial.Device: got %q, want %q", got.Serial.Device, cfg.Serial.Device)
	}
	if got.SetPoint.Initial != cfg.SetPoint.Initial {
		t.Errorf("SetPoint.Initial: got %d, want %d", got.SetPoint.Initial, cfg.SetPoint.Initial)
	}
}

func TestApplyOverridesAllSet(t *testing.T) {
	got := applyOverrides(config.Default(), overrides{
		broker:   "tcp://broker.local:1883",
		httpAddr: ":9090",
		serial:   "/dev/ttyUSB0",
		setPoint: 68,
	})

	if got.Broker != "tcp://broker.local:1883" {
		t.Errorf("Broker: got %q", got.Broker)
	}
	if got.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr: got %q", got.HTTPAddr)
	}
	if got.Serial.Device != "/dev/ttyUSB0" {
		t.Errorf("Serial.Device: got %q", got.Serial.Device)
	}
	if got.SetPoint.Initial != 68 {
		t.Errorf("SetPoint.Initial: got %d, want 68", got.SetPoint.Initial)
	}
}

// An explicit empty broker or http flag disables the feature; it must
// not fall through to the config file's value.
func TestApplyOverridesExplicitEmptyDisables(t *testing.T) {
	cfg := config.Default()
	cfg.Broker = "tcp://from-file:1883"
	cfg.HTTPAddr = ":8080"

	got := applyOverrides(cfg, overrides{broker: "", httpAddr: "", serial: "", setPoint: -1})

	if got.Broker != "" {
		t.Errorf("Broker: got %q, want empty", got.Broker)
	}
	if got.HTTPAddr != "" {
		t.Errorf("HTTPAddr: got %q, want empty", got.HTTPAddr)
	}
}

func TestApplyOverridesSetPointZero(t *testing.T) {
	// 0 is a valid (if cold) set point; only negative means unset.
	got := applyOverrides(config.Default(), overrides{broker: "\x00", httpAddr: "\x00", setPoint: 0})
	if got.SetPoint.Initial != 0 {
		t.Errorf("SetPoint.Initial: got %d, want 0", got.SetPoint.Initial)
	}
}
