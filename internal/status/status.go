// Package status provides a thread-safe status tracker for the
// thermostat daemon. It is read by the HTTP status server and by the
// MQTT system events; the control loop writes it once per cycle.
package status

import (
	"sync"
	"time"

	"github.com/dharmor/thermostat/internal/logic"
)

// Counts tracks cumulative event counters since startup.
type Counts struct {
	IncAccepted   uint64
	IncSuppressed uint64
	DecAccepted   uint64
	DecSuppressed uint64

	SensorFailures uint64
	ReportsSent    uint64
	ReportsDropped uint64
	DwellHolds     uint64
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs     int64
	SampleMs   int64
	ReportMs   int64
	DebounceMs int64
	DwellSec   int64
	Hysteresis float64

	SetPointMin int
	SetPointMax int

	SerialDevice string
	SerialBaud   int
	Broker       string
	HTTPAddr     string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Temperature float64
	Humidity    float64
	SetPoint    int
	Decision    logic.Decision

	// PendingDecision is set while the dwell window holds a decision
	// change away from the outputs.
	PendingDecision logic.Decision
	HasPending      bool

	// Stale marks the reading as carried over from an earlier cycle.
	Stale bool

	// Ready reports whether at least one valid reading has been taken.
	Ready      bool
	LastSample time.Time

	Counts        Counts
	MQTTConnected bool
	Config        Config
	StartTime     time.Time
	Now           time.Time
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// UpdateControl records the outcome of one control cycle.
func (t *Tracker) UpdateControl(temperature, humidity float64, setPoint int,
	decision logic.Decision, stale bool, sampleTime time.Time) {
	t.mu.Lock()
	t.snap.Temperature = temperature
	t.snap.Humidity = humidity
	t.snap.SetPoint = setPoint
	t.snap.Decision = decision
	t.snap.Stale = stale
	t.snap.Ready = true
	t.snap.LastSample = sampleTime
	t.mu.Unlock()
}

// SetPending records a decision change held by the dwell window.
func (t *Tracker) SetPending(decision logic.Decision, has bool) {
	t.mu.Lock()
	t.snap.PendingDecision = decision
	t.snap.HasPending = has
	t.mu.Unlock()
}

// SetSetPoint updates the displayed set point between sample cycles.
func (t *Tracker) SetSetPoint(setPoint int) {
	t.mu.Lock()
	t.snap.SetPoint = setPoint
	t.mu.Unlock()
}

// UpdateCounts replaces the cumulative counters.
func (t *Tracker) UpdateCounts(c Counts) {
	t.mu.Lock()
	t.snap.Counts = c
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
