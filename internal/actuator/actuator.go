// Package actuator drives the heat and cool relay lines. It is the only
// component permitted to write physical outputs. The driver enforces
// mutual exclusion of the two lines and a minimum dwell time between
// physical state changes to protect compressor and relay hardware.
package actuator

import (
	"time"

	"github.com/dharmor/thermostat/internal/logic"
)

// Outputs drives the two physical output lines. Implementations must
// never leave both lines asserted.
type Outputs interface {
	// Set drives the heat and cool lines. heat and cool are never both
	// true; implementations de-assert before asserting.
	Set(heat, cool bool) error

	// Close releases output resources, de-asserting both lines.
	Close() error
}

// Driver applies actuation decisions to the output lines, holding a
// decision change back while the minimum dwell time since the last
// physical change has not elapsed. A held decision is recorded as
// pending and re-evaluated on the next control tick; there is no
// separate timer.
type Driver struct {
	out      Outputs
	minDwell time.Duration

	last       logic.Decision
	lastChange time.Time
	applied    bool

	pending    logic.Decision
	hasPending bool

	heldCount uint64
}

// New creates a Driver over the given outputs with the given minimum
// dwell time between physical changes.
func New(out Outputs, minDwell time.Duration) *Driver {
	return &Driver{out: out, minDwell: minDwell}
}

// Apply drives the outputs to match decision, unless a change is still
// inside the dwell window, in which case the previous physical state is
// held and the decision recorded as pending.
func (d *Driver) Apply(decision logic.Decision, now time.Time) error {
	if d.applied {
		if decision == d.last {
			d.hasPending = false
			return nil
		}
		if now.Sub(d.lastChange) < d.minDwell {
			d.pending = decision
			d.hasPending = true
			d.heldCount++
			return nil
		}
	}

	if err := d.out.Set(decision == logic.Heating, decision == logic.Cooling); err != nil {
		return err
	}
	d.last = decision
	d.lastChange = now
	d.applied = true
	d.hasPending = false
	return nil
}

// Last returns the decision currently applied to the outputs.
func (d *Driver) Last() logic.Decision {
	return d.last
}

// Pending returns the decision held back by the dwell window, if any.
func (d *Driver) Pending() (logic.Decision, bool) {
	return d.pending, d.hasPending
}

// HeldCount returns how many Apply calls were held by the dwell window.
func (d *Driver) HeldCount() uint64 {
	return d.heldCount
}

// Close de-asserts both lines and releases the outputs.
func (d *Driver) Close() error {
	return d.out.Close()
}
