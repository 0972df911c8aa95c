//go:build !linux

package actuator

import "errors"

// Default relay pins (BCM numbering).
const (
	DefaultPinHeat = 18
	DefaultPinCool = 23
)

// RealOutputs is not available on non-Linux platforms.
type RealOutputs struct{}

// NewRealOutputs returns an error on non-Linux platforms.
func NewRealOutputs(chip string, pinHeat, pinCool int) (*RealOutputs, error) {
	return nil, errors.New("actuator: not supported on this platform (requires Linux)")
}

// Set is not implemented on non-Linux platforms.
func (o *RealOutputs) Set(heat, cool bool) error {
	return errors.New("actuator: not supported")
}

// Close is not implemented on non-Linux platforms.
func (o *RealOutputs) Close() error {
	return nil
}
