//go:build linux

package sensor

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
)

// DefaultI2CAddr is the environmental sensor's I2C address.
const DefaultI2CAddr = 0x76

// RealReader reads a BME280-class environmental sensor over I2C.
type RealReader struct {
	bus i2c.BusCloser
	dev *bmxx80.Dev
}

// NewRealReader opens the given I2C bus (empty string selects the
// first available) and probes the sensor at addr.
func NewRealReader(busName string, addr uint16) (*RealReader, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	dev, err := bmxx80.NewI2C(bus, addr, &bmxx80.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("probe sensor at 0x%x: %w", addr, err)
	}

	return &RealReader{bus: bus, dev: dev}, nil
}

// Read performs one sense transaction and converts to the thermostat's
// units. A bus failure is surfaced as ErrUnavailable so the control
// loop falls back to its last valid reading.
func (r *RealReader) Read() (Reading, error) {
	var env physic.Env
	if err := r.dev.Sense(&env); err != nil {
		return Reading{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	celsius := float64(env.Temperature-physic.ZeroCelsius) / float64(physic.Celsius)
	humidity := float64(env.Humidity) / float64(physic.PercentRH)

	return Reading{
		Temperature: FahrenheitFromCelsius(celsius),
		Humidity:    humidity,
		Time:        time.Now(),
	}, nil
}

// Close halts the sensor and releases the bus.
func (r *RealReader) Close() error {
	var errs []error
	if r.dev != nil {
		if err := r.dev.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt sensor: %w", err))
		}
	}
	if r.bus != nil {
		if err := r.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close bus: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
