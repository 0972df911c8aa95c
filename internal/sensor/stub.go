//go:build !linux

package sensor

import "errors"

// DefaultI2CAddr is the environmental sensor's I2C address.
const DefaultI2CAddr = 0x76

// RealReader is not available on non-Linux platforms.
type RealReader struct{}

// NewRealReader returns an error on non-Linux platforms.
func NewRealReader(busName string, addr uint16) (*RealReader, error) {
	return nil, errors.New("sensor: not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (r *RealReader) Read() (Reading, error) {
	return Reading{}, ErrUnavailable
}

// Close is not implemented on non-Linux platforms.
func (r *RealReader) Close() error {
	return nil
}
