// Package report serializes status records and writes them to the
// serial link on the reporting cadence. A record is a point-in-time
// sample, not a log entry: a failed send is dropped and the next
// cadence tick tries again with fresh data. There is no retry queue.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/dharmor/thermostat/internal/logic"
)

// ErrBusy indicates the transport could not take the record without
// blocking. The record for this tick is dropped; this is transient and
// non-fatal.
var ErrBusy = errors.New("report: transport busy")

// Record is one status snapshot as sent to the remote collector.
// Constructed fresh for each report; read-only once built.
type Record struct {
	Temperature float64
	Humidity    float64
	SetPoint    int
	Decision    logic.Decision
	Timestamp   time.Time

	// Stale is set when the reading was carried over from an earlier
	// cycle because the sensor was unavailable.
	Stale bool
}

// Format renders a record as one newline-terminated, comma-delimited
// line with a stable field order:
//
//	temperature,humidity,setPoint,decisionCode,unixTimestamp,staleFlag
//
// e.g. "70.3,41.2,72,1,1767225600,0".
func Format(r Record) []byte {
	stale := 0
	if r.Stale {
		stale = 1
	}
	return []byte(fmt.Sprintf("%.1f,%.1f,%d,%d,%d,%d\n",
		r.Temperature, r.Humidity, r.SetPoint, r.Decision.Code(),
		r.Timestamp.Unix(), stale))
}

// Transport is a byte-oriented, write-only link to the collector.
type Transport interface {
	// Write sends one complete record. Implementations must have
	// bounded worst-case latency; if the underlying link is busy they
	// return ErrBusy rather than block.
	Write(p []byte) error

	// Close releases the transport.
	Close() error
}

// Channel sends records over a Transport, counting outcomes.
type Channel struct {
	tr      Transport
	sent    uint64
	dropped uint64
}

// NewChannel creates a Channel over the given transport.
func NewChannel(tr Transport) *Channel {
	return &Channel{tr: tr}
}

// Send formats and writes one record. A transport failure drops the
// record and is reported to the caller, who carries on; the next
// cadence tick sends fresh data.
func (c *Channel) Send(r Record) error {
	if err := c.tr.Write(Format(r)); err != nil {
		c.dropped++
		return err
	}
	c.sent++
	return nil
}

// Sent returns the number of records accepted by the transport.
func (c *Channel) Sent() uint64 { return c.sent }

// Dropped returns the number of records dropped on transport failure.
func (c *Channel) Dropped() uint64 { return c.dropped }

// Close releases the underlying transport.
func (c *Channel) Close() error {
	return c.tr.Close()
}
