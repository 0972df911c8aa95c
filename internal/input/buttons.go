//go:build linux

package input

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// Default button pins (BCM numbering), matching the prototype wiring:
// momentary switches to ground with internal pull-ups.
const (
	DefaultPinIncrease = 25
	DefaultPinDecrease = 12
)

// Buttons binds the two physical set-point buttons to edge-triggered
// GPIO lines. Each hardware edge invokes the line's event handler on a
// gpiocdev goroutine; that handler is this program's interrupt
// context, and it touches nothing but the per-button Debouncer.
type Buttons struct {
	inc *gpiocdev.Line
	dec *gpiocdev.Line

	// Inc and Dec are the per-button debounce state machines drained
	// by the control loop. Exactly one Debouncer exists per line.
	Inc *Debouncer
	Dec *Debouncer
}

// NewButtons requests the two button lines and wires their edge events
// into fresh Debouncers with the given debounce window.
func NewButtons(chip string, pinInc, pinDec int, window time.Duration) (*Buttons, error) {
	b := &Buttons{
		Inc: NewDebouncer(window),
		Dec: NewDebouncer(window),
	}

	incLine, err := gpiocdev.RequestLine(chip, pinInc,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) {
			b.Inc.RawEdge(time.Now())
		}))
	if err != nil {
		return nil, fmt.Errorf("request increase pin %d: %w", pinInc, err)
	}
	b.inc = incLine

	decLine, err := gpiocdev.RequestLine(chip, pinDec,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) {
			b.Dec.RawEdge(time.Now())
		}))
	if err != nil {
		incLine.Close()
		return nil, fmt.Errorf("request decrease pin %d: %w", pinDec, err)
	}
	b.dec = decLine

	return b, nil
}

// Close releases both button lines.
func (b *Buttons) Close() error {
	var errs []error
	if b.inc != nil {
		if err := b.inc.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close increase line: %w", err))
		}
	}
	if b.dec != nil {
		if err := b.dec.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close decrease line: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
