// Package sensor provides ambient temperature/humidity readings with
// hardware abstraction. The real implementation talks to an I2C
// environmental sensor; the fake allows testing without hardware.
// The sensor's internal bus protocol is the driver's concern, not ours.
package sensor

import (
	"errors"
	"time"
)

// ErrUnavailable indicates a transient sensor failure. The control loop
// recovers by reusing the last valid reading and flagging it stale; it
// never treats this as fatal.
var ErrUnavailable = errors.New("sensor: unavailable")

// Reading is one sample of ambient conditions. Immutable once captured;
// not retained beyond one control cycle except as the stale fallback.
type Reading struct {
	Temperature float64 // degrees Fahrenheit
	Humidity    float64 // relative humidity, percent [0, 100]
	Time        time.Time
}

// Reader reads ambient conditions.
type Reader interface {
	// Read returns a fresh reading. A transient failure is reported by
	// wrapping ErrUnavailable. Read has bounded worst-case latency.
	Read() (Reading, error)

	// Close releases sensor resources.
	Close() error
}

// FahrenheitFromCelsius converts a Celsius measurement to the
// Fahrenheit scale used throughout the thermostat.
func FahrenheitFromCelsius(c float64) float64 {
	return c*9/5 + 32
}
