// Package logic contains the pure control decision for the thermostat.
// This package has NO external dependencies (no GPIO, serial, OS, or
// time.Sleep). It is deterministic and exhaustively table-testable.
package logic

// Decision is the actuation decision for one control cycle.
type Decision uint8

const (
	Idle Decision = iota
	Heating
	Cooling
)

// Code returns the wire code used in status records:
// 0=IDLE, 1=HEATING, 2=COOLING.
func (d Decision) Code() int {
	return int(d)
}

func (d Decision) String() string {
	switch d {
	case Heating:
		return "HEATING"
	case Cooling:
		return "COOLING"
	default:
		return "IDLE"
	}
}

// MarshalText makes Decision usable directly in JSON payloads.
func (d Decision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
