// Package control runs the thermostat's fixed-tick control loop: drain
// button presses, sample the sensor, decide, actuate, report. All time
// sources are injected so the loop is fully testable with fakes and a
// scripted clock.
package control

import (
	"os"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dharmor/thermostat/internal/actuator"
	"github.com/dharmor/thermostat/internal/input"
	"github.com/dharmor/thermostat/internal/logic"
	"github.com/dharmor/thermostat/internal/mqtt"
	"github.com/dharmor/thermostat/internal/report"
	"github.com/dharmor/thermostat/internal/sensor"
	"github.com/dharmor/thermostat/internal/status"
)

// State is the loop's lifecycle state. There is no terminal state; the
// loop runs until the process is told to stop.
type State uint8

const (
	StateInit State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "RUNNING"
	}
	return "INIT"
}

// Config holds the loop cadences and the decision parameters. The poll
// tick itself is owned by the caller (it feeds the tick channel);
// sample and report run on their own slower cadences derived from it.
type Config struct {
	SampleInterval time.Duration
	ReportInterval time.Duration

	// HeartbeatInterval is the cadence of HEARTBEAT system events on
	// the MQTT mirror. Zero disables heartbeats.
	HeartbeatInterval time.Duration

	Hysteresis float64
}

// Deps are the collaborators wired together at startup. Tracker and
// Mirror are optional; everything else is required.
type Deps struct {
	Sensor    sensor.Reader
	Driver    *actuator.Driver
	IncButton *input.Debouncer
	DecButton *input.Debouncer
	SetPoint  *input.Store
	Reports   *report.Channel

	Mirror       mqtt.Publisher        // optional MQTT status mirror
	MirrorStatus mqtt.ConnectionStatus // optional, usually the Mirror itself
	Tracker      *status.Tracker       // optional
}

// Loop is the top-level scheduler. Not safe for concurrent use: it is
// driven from exactly one goroutine. The interrupt context reaches only
// the Debouncers and the Store, never the Loop itself.
type Loop struct {
	d   Deps
	cfg Config

	state    State
	decision logic.Decision

	lastReading sensor.Reading
	haveReading bool
	stale       bool

	lastSample    time.Time
	lastReport    time.Time
	lastHeartbeat time.Time

	sensorFailures uint64
}

// New creates a Loop in the INIT state.
func New(d Deps, cfg Config) *Loop {
	return &Loop{d: d, cfg: cfg}
}

// State returns the loop's lifecycle state.
func (l *Loop) State() State {
	return l.state
}

// Decision returns the most recent actuation decision.
func (l *Loop) Decision() logic.Decision {
	return l.decision
}

// Run drives the loop from the tick channel until a signal arrives.
// On shutdown it publishes a SHUTDOWN system event to the mirror and
// returns nil.
func (l *Loop) Run(now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Infof("received %v, shutting down", s)
			l.shutdown(now(), signalName(s))
			return nil

		case <-tick:
			l.Tick(now())
		}
	}
}

// Tick executes one control cycle at the given time. Exported so tests
// can drive the loop with a scripted clock.
func (l *Loop) Tick(now time.Time) {
	if l.state == StateInit {
		l.state = StateRunning
		// The first heartbeat fires one full interval after start;
		// STARTUP already announced the daemon.
		l.lastHeartbeat = now
		log.Info("control loop running")
	}

	l.drainButtons()

	if l.due(l.lastSample, l.cfg.SampleInterval, now) {
		l.lastSample = now
		l.sample(now)
	}

	if l.due(l.lastReport, l.cfg.ReportInterval, now) {
		l.lastReport = now
		l.report(now)
	}

	l.updateTracker()

	if l.d.Mirror != nil && l.cfg.HeartbeatInterval > 0 &&
		now.Sub(l.lastHeartbeat) >= l.cfg.HeartbeatInterval {
		l.lastHeartbeat = now
		l.heartbeat(now)
	}
}

// heartbeat publishes a HEARTBEAT system event carrying the current
// status snapshot.
func (l *Loop) heartbeat(now time.Time) {
	event := mqtt.SystemEvent{
		Timestamp: now,
		Event:     "HEARTBEAT",
	}
	if l.d.Tracker != nil {
		event.RawPayload = status.FormatStatusEvent(l.d.Tracker.Snapshot(), "HEARTBEAT", "")
	}
	if err := l.d.Mirror.PublishSystem(event); err != nil {
		log.WithError(err).Debug("heartbeat publish failed")
	}
}

// drainButtons consumes at most one pending press per button and
// applies it to the set-point store.
func (l *Loop) drainButtons() {
	if l.d.IncButton.TakePending() {
		l.d.SetPoint.Increment()
		log.WithField("set_point", l.d.SetPoint.Load()).Info("set point increased")
	}
	if l.d.DecButton.TakePending() {
		l.d.SetPoint.Decrement()
		log.WithField("set_point", l.d.SetPoint.Load()).Info("set point decreased")
	}
}

// sample reads the sensor, derives the actuation decision and applies
// it. A sensor failure reuses the last valid reading, flagged stale;
// the loop always continues.
func (l *Loop) sample(now time.Time) {
	reading, err := l.d.Sensor.Read()
	if err != nil {
		l.sensorFailures++
		l.stale = true
		log.WithError(err).Warn("sensor read failed, reusing last reading")
	} else {
		l.lastReading = reading
		l.haveReading = true
		l.stale = false
	}

	if !l.haveReading {
		// Nothing to decide on yet; actuator stays de-asserted.
		return
	}

	setPoint := l.d.SetPoint.Load()
	next := logic.Decide(l.lastReading.Temperature, float64(setPoint), l.cfg.Hysteresis, l.decision)
	if next != l.decision {
		log.WithFields(log.Fields{
			"temperature": l.lastReading.Temperature,
			"set_point":   setPoint,
			"decision":    next.String(),
		}).Info("decision changed")
	}
	l.decision = next

	if err := l.d.Driver.Apply(l.decision, now); err != nil {
		log.WithError(err).Error("actuator apply failed")
	}
}

// report builds a fresh snapshot and sends it over the serial channel,
// mirroring to MQTT when configured. A send failure drops this tick's
// record; the next report tick sends fresh data.
func (l *Loop) report(now time.Time) {
	if !l.haveReading {
		return
	}

	rec := report.Record{
		Temperature: l.lastReading.Temperature,
		Humidity:    l.lastReading.Humidity,
		SetPoint:    l.d.SetPoint.Load(),
		Decision:    l.decision,
		Timestamp:   now,
		Stale:       l.stale,
	}

	if err := l.d.Reports.Send(rec); err != nil {
		log.WithError(err).Warn("report dropped")
	}

	if l.d.Mirror != nil {
		if err := l.d.Mirror.PublishStatus(rec); err != nil {
			log.WithError(err).Debug("mqtt status mirror failed")
		}
	}
}

func (l *Loop) updateTracker() {
	t := l.d.Tracker
	if t == nil {
		return
	}

	if l.haveReading {
		t.UpdateControl(l.lastReading.Temperature, l.lastReading.Humidity,
			l.d.SetPoint.Load(), l.decision, l.stale, l.lastReading.Time)
	} else {
		t.SetSetPoint(l.d.SetPoint.Load())
	}

	pending, has := l.d.Driver.Pending()
	t.SetPending(pending, has)
	t.UpdateCounts(l.counts())

	if l.d.MirrorStatus != nil {
		t.SetMQTTConnected(l.d.MirrorStatus.IsConnected())
	}
}

func (l *Loop) counts() status.Counts {
	return status.Counts{
		IncAccepted:    l.d.IncButton.Accepted(),
		IncSuppressed:  l.d.IncButton.Suppressed(),
		DecAccepted:    l.d.DecButton.Accepted(),
		DecSuppressed:  l.d.DecButton.Suppressed(),
		SensorFailures: l.sensorFailures,
		ReportsSent:    l.d.Reports.Sent(),
		ReportsDropped: l.d.Reports.Dropped(),
		DwellHolds:     l.d.Driver.HeldCount(),
	}
}

// due reports whether a cadence with the given interval should fire at
// now. A zero last time means the cadence has never fired.
func (l *Loop) due(last time.Time, interval time.Duration, now time.Time) bool {
	if interval <= 0 {
		return false
	}
	return last.IsZero() || now.Sub(last) >= interval
}

func (l *Loop) shutdown(now time.Time, reason string) {
	if l.d.Mirror == nil {
		return
	}

	event := mqtt.SystemEvent{
		Timestamp: now,
		Event:     "SHUTDOWN",
		Reason:    reason,
		Retained:  true,
	}
	if l.d.Tracker != nil {
		if l.d.MirrorStatus != nil {
			l.d.Tracker.SetMQTTConnected(l.d.MirrorStatus.IsConnected())
		}
		event.RawPayload = status.FormatStatusEvent(l.d.Tracker.Snapshot(), "SHUTDOWN", reason)
	}
	if err := l.d.Mirror.PublishSystem(event); err != nil {
		log.WithError(err).Warn("failed to publish shutdown event")
	} else {
		log.Info("published shutdown event")
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return "UNKNOWN"
	}
}
