//go:build !linux

package input

import (
	"errors"
	"time"
)

// Default button pins (BCM numbering).
const (
	DefaultPinIncrease = 25
	DefaultPinDecrease = 12
)

// Buttons is not available on non-Linux platforms.
type Buttons struct {
	Inc *Debouncer
	Dec *Debouncer
}

// NewButtons returns an error on non-Linux platforms.
func NewButtons(chip string, pinInc, pinDec int, window time.Duration) (*Buttons, error) {
	return nil, errors.New("input: buttons not supported on this platform (requires Linux)")
}

// Close is not implemented on non-Linux platforms.
func (b *Buttons) Close() error {
	return nil
}
