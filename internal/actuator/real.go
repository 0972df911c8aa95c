//go:build linux

package actuator

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// Default relay pins (BCM numbering), matching the prototype wiring.
const (
	DefaultPinHeat = 18
	DefaultPinCool = 23
)

// RealOutputs drives two relay lines via the Linux GPIO character
// device.
type RealOutputs struct {
	heat *gpiocdev.Line
	cool *gpiocdev.Line
}

// NewRealOutputs requests the heat and cool lines as outputs, both
// de-asserted.
func NewRealOutputs(chip string, pinHeat, pinCool int) (*RealOutputs, error) {
	heat, err := gpiocdev.RequestLine(chip, pinHeat, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("request heat pin %d: %w", pinHeat, err)
	}

	cool, err := gpiocdev.RequestLine(chip, pinCool, gpiocdev.AsOutput(0))
	if err != nil {
		heat.Close()
		return nil, fmt.Errorf("request cool pin %d: %w", pinCool, err)
	}

	return &RealOutputs{heat: heat, cool: cool}, nil
}

// Set drives the two lines. The line being de-asserted is always
// written first, so heat and cool are never simultaneously high even
// transiently.
func (o *RealOutputs) Set(heat, cool bool) error {
	if !heat {
		if err := o.heat.SetValue(0); err != nil {
			return fmt.Errorf("clear heat line: %w", err)
		}
	}
	if !cool {
		if err := o.cool.SetValue(0); err != nil {
			return fmt.Errorf("clear cool line: %w", err)
		}
	}
	if heat {
		if err := o.heat.SetValue(1); err != nil {
			return fmt.Errorf("set heat line: %w", err)
		}
	}
	if cool {
		if err := o.cool.SetValue(1); err != nil {
			return fmt.Errorf("set cool line: %w", err)
		}
	}
	return nil
}

// Close de-asserts both lines and releases them.
func (o *RealOutputs) Close() error {
	var errs []error
	if o.heat != nil {
		if err := o.heat.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear heat line: %w", err))
		}
		if err := o.heat.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close heat line: %w", err))
		}
	}
	if o.cool != nil {
		if err := o.cool.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear cool line: %w", err))
		}
		if err := o.cool.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cool line: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
