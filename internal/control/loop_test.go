package control

import (
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/dharmor/thermostat/internal/actuator"
	"github.com/dharmor/thermostat/internal/input"
	"github.com/dharmor/thermostat/internal/logic"
	"github.com/dharmor/thermostat/internal/mqtt"
	"github.com/dharmor/thermostat/internal/report"
	"github.com/dharmor/thermostat/internal/sensor"
	"github.com/dharmor/thermostat/internal/status"
)

type fixture struct {
	loop    *Loop
	sensor  *sensor.FakeReader
	outputs *actuator.FakeOutputs
	inc     *input.Debouncer
	dec     *input.Debouncer
	store   *input.Store
	serial  *report.FakeTransport
	mirror  *mqtt.FakePublisher
	tracker *status.Tracker
	start   time.Time
}

func newFixture(samples []sensor.Reading) *fixture {
	f := &fixture{
		sensor:  sensor.NewFakeReader(samples),
		outputs: actuator.NewFakeOutputs(),
		inc:     input.NewDebouncer(200 * time.Millisecond),
		dec:     input.NewDebouncer(200 * time.Millisecond),
		store:   input.NewStore(72, 50, 90),
		serial:  report.NewFakeTransport(),
		mirror:  mqtt.NewFakePublisher(),
		start:   time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	f.tracker = status.NewTracker(f.start, status.Config{})

	f.loop = New(Deps{
		Sensor:       f.sensor,
		Driver:       actuator.New(f.outputs, time.Minute),
		IncButton:    f.inc,
		DecButton:    f.dec,
		SetPoint:     f.store,
		Reports:      report.NewChannel(f.serial),
		Mirror:       f.mirror,
		MirrorStatus: f.mirror,
		Tracker:      f.tracker,
	}, Config{
		SampleInterval:    time.Second,
		ReportInterval:    30 * time.Second,
		HeartbeatInterval: 15 * time.Minute,
		Hysteresis:        1.0,
	})
	return f
}

// tickUntil drives the loop at 100ms poll ticks from start until the
// given offset.
func (f *fixture) tickUntil(offset time.Duration) {
	for d := time.Duration(0); d <= offset; d += 100 * time.Millisecond {
		f.loop.Tick(f.start.Add(d))
	}
}

func readings(temps ...float64) []sensor.Reading {
	rs := make([]sensor.Reading, len(temps))
	for i, t := range temps {
		rs[i] = sensor.Reading{Temperature: t, Humidity: 40}
	}
	return rs
}

func TestLoopInitToRunning(t *testing.T) {
	f := newFixture(readings(70))

	if f.loop.State() != StateInit {
		t.Fatalf("state = %v, want INIT", f.loop.State())
	}
	f.loop.Tick(f.start)
	if f.loop.State() != StateRunning {
		t.Fatalf("state = %v, want RUNNING after first tick", f.loop.State())
	}
}

// TestLoopScenario walks the reference scenario: setPoint=72, temp=70,
// hysteresis=1 → HEATING; one press raises the set point by exactly
// one degree; a double press within the debounce window raises it by
// one degree, not two.
func TestLoopScenario(t *testing.T) {
	f := newFixture(readings(70))

	f.loop.Tick(f.start)
	if got := f.loop.Decision(); got != logic.Heating {
		t.Fatalf("decision = %v, want HEATING", got)
	}
	if !f.outputs.Heat || f.outputs.Cool {
		t.Fatalf("outputs heat=%v cool=%v, want heat only", f.outputs.Heat, f.outputs.Cool)
	}

	// One clean press on "increase".
	f.inc.RawEdge(f.start.Add(50 * time.Millisecond))
	f.loop.Tick(f.start.Add(100 * time.Millisecond))
	if got := f.store.Load(); got != 73 {
		t.Fatalf("after one press: set point = %d, want 73 (not 74)", got)
	}

	// Two raw edges within one debounce window: only one counts.
	f.inc.RawEdge(f.start.Add(500 * time.Millisecond))
	f.inc.RawEdge(f.start.Add(510 * time.Millisecond))
	f.loop.Tick(f.start.Add(600 * time.Millisecond))
	f.loop.Tick(f.start.Add(700 * time.Millisecond))
	if got := f.store.Load(); got != 74 {
		t.Fatalf("after double press: set point = %d, want 74 (one accepted)", got)
	}
}

// TestLoopSensorFailure: a failed read on tick N reports the previous
// reading flagged stale, and the loop keeps running.
func TestLoopSensorFailure(t *testing.T) {
	f := newFixture(readings(70, 70.2, 70.4))
	f.sensor.FailAt[2] = true

	// Tick 0: good read, first report goes out immediately.
	f.loop.Tick(f.start)
	if len(f.serial.Writes) != 1 {
		t.Fatalf("expected 1 report after first tick, got %d", len(f.serial.Writes))
	}
	if line := string(f.serial.Writes[0]); !strings.HasPrefix(line, "70.0,") || !strings.HasSuffix(line, ",0\n") {
		t.Fatalf("first report = %q, want fresh 70.0 record", line)
	}

	// Tick at 1s: good read (70.2).
	f.loop.Tick(f.start.Add(time.Second))

	// Tick at 31s: the sensor fails on a report tick; the decision
	// survives on the stale reading and the report carries it flagged.
	f.loop.Tick(f.start.Add(31 * time.Second))
	if f.loop.Decision() != logic.Heating {
		t.Errorf("decision = %v, want HEATING carried through failure", f.loop.Decision())
	}
	if len(f.serial.Writes) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(f.serial.Writes))
	}
	line := string(f.serial.Writes[1])
	if !strings.HasSuffix(line, ",1\n") {
		t.Errorf("stale report = %q, want stale flag set", line)
	}
	if !strings.HasPrefix(line, "70.2,") {
		t.Errorf("stale report = %q, want previous reading 70.2 carried", line)
	}

	// Recovery: next good read clears staleness.
	f.loop.Tick(f.start.Add(32 * time.Second))
	snap := f.tracker.Snapshot()
	if snap.Stale {
		t.Error("staleness should clear after a good read")
	}
	if snap.Counts.SensorFailures != 1 {
		t.Errorf("sensor failures = %d, want 1", snap.Counts.SensorFailures)
	}
}

// TestLoopSampleCadence: with a 1s sample interval and 100ms poll
// ticks, the sensor is read once per second, not once per tick.
func TestLoopSampleCadence(t *testing.T) {
	f := newFixture(readings(70))

	f.tickUntil(3 * time.Second) // 31 ticks
	if got := f.sensor.Calls(); got != 4 {
		t.Errorf("sensor reads = %d over 3s, want 4 (t=0,1,2,3)", got)
	}
}

// TestLoopReportCadence: reports go out on their own cadence,
// independent of sampling.
func TestLoopReportCadence(t *testing.T) {
	f := newFixture(readings(70))

	f.tickUntil(61 * time.Second)
	// t=0, t=30, t=60.
	if got := len(f.serial.Writes); got != 3 {
		t.Errorf("reports = %d over 61s, want 3", got)
	}
	if got := len(f.mirror.StatusRecords); got != 3 {
		t.Errorf("mqtt mirror records = %d, want 3", got)
	}
}

// TestLoopReportDropNonFatal: a busy transport drops one record and
// the loop carries on reporting.
func TestLoopReportDropNonFatal(t *testing.T) {
	f := newFixture(readings(70))
	f.serial.BusyFor = 1

	f.loop.Tick(f.start)
	if len(f.serial.Writes) != 0 {
		t.Fatalf("expected first report dropped, got %d writes", len(f.serial.Writes))
	}

	f.loop.Tick(f.start.Add(30 * time.Second))
	if len(f.serial.Writes) != 1 {
		t.Fatalf("expected next cadence to send, got %d writes", len(f.serial.Writes))
	}
	if snap := f.tracker.Snapshot(); snap.Counts.ReportsDropped != 1 {
		t.Errorf("reports dropped = %d, want 1", snap.Counts.ReportsDropped)
	}
}

// TestLoopHeartbeat: a HEARTBEAT system event carrying the status
// snapshot goes out one full interval after start, not immediately.
func TestLoopHeartbeat(t *testing.T) {
	f := newFixture(readings(70))

	f.loop.Tick(f.start)
	f.loop.Tick(f.start.Add(14 * time.Minute))
	if len(f.mirror.SystemEvents) != 0 {
		t.Fatalf("expected no heartbeat before the interval, got %d events", len(f.mirror.SystemEvents))
	}

	f.loop.Tick(f.start.Add(15 * time.Minute))
	if len(f.mirror.SystemEvents) != 1 {
		t.Fatalf("expected 1 heartbeat, got %d events", len(f.mirror.SystemEvents))
	}
	se := f.mirror.SystemEvents[0]
	if se.Event != "HEARTBEAT" {
		t.Errorf("event = %q, want HEARTBEAT", se.Event)
	}
	payload := string(f.mirror.SystemPayloads[0])
	if !strings.Contains(payload, `"event":"HEARTBEAT"`) {
		t.Errorf("payload %q should carry the heartbeat snapshot", payload)
	}
	if !strings.Contains(payload, `"decision":"HEATING"`) {
		t.Errorf("payload %q should carry the current decision", payload)
	}

	// Next heartbeat one interval later, not on every tick.
	f.loop.Tick(f.start.Add(16 * time.Minute))
	if len(f.mirror.SystemEvents) != 1 {
		t.Fatalf("heartbeat fired again too early: %d events", len(f.mirror.SystemEvents))
	}
	f.loop.Tick(f.start.Add(30 * time.Minute))
	if len(f.mirror.SystemEvents) != 2 {
		t.Fatalf("expected second heartbeat at 30m, got %d events", len(f.mirror.SystemEvents))
	}
}

// TestLoopDecrementButton: the decrease button lowers the set point and
// the store clamps at its rails.
func TestLoopDecrementButton(t *testing.T) {
	f := newFixture(readings(70))
	f.loop.Tick(f.start)

	ts := f.start
	for i := 0; i < 40; i++ {
		ts = ts.Add(time.Second)
		f.dec.RawEdge(ts)
		f.loop.Tick(ts)
	}
	if got := f.store.Load(); got != 50 {
		t.Errorf("set point = %d, want clamped at 50", got)
	}
}

// TestLoopNoReadingNoReport: until the sensor produces one valid
// reading, nothing is reported and the actuator is left alone.
func TestLoopNoReadingNoReport(t *testing.T) {
	f := newFixture(readings(70))
	f.sensor.ReadError = sensor.ErrUnavailable

	f.tickUntil(2 * time.Second)
	if len(f.serial.Writes) != 0 {
		t.Errorf("expected no reports without a reading, got %d", len(f.serial.Writes))
	}
	if len(f.outputs.History) != 0 {
		t.Errorf("expected no actuator writes without a reading, got %d", len(f.outputs.History))
	}
	if f.loop.State() != StateRunning {
		t.Error("loop should keep running through persistent sensor failure")
	}
}

// TestLoopRunShutdown: a signal stops Run and publishes a SHUTDOWN
// system event carrying the status snapshot.
func TestLoopRunShutdown(t *testing.T) {
	f := newFixture(readings(70))

	tick := make(chan time.Time)
	sig := make(chan os.Signal, 1)
	done := make(chan error, 1)

	go func() {
		done <- f.loop.Run(time.Now, tick, sig)
	}()

	tick <- time.Now()
	sig <- syscall.SIGTERM

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after signal")
	}

	if len(f.mirror.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(f.mirror.SystemEvents))
	}
	ev := f.mirror.SystemEvents[0]
	if ev.Event != "SHUTDOWN" || ev.Reason != "SIGTERM" {
		t.Errorf("system event = %s/%s, want SHUTDOWN/SIGTERM", ev.Event, ev.Reason)
	}
	if ev.RawPayload == nil {
		t.Error("shutdown event should carry a status snapshot payload")
	}
}
