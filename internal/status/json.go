package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event           string     `json:"event,omitempty"`
	Reason          string     `json:"reason,omitempty"`
	Temperature     float64    `json:"temperature_f"`
	Humidity        float64    `json:"humidity_pct"`
	SetPoint        int        `json:"set_point_f"`
	Decision        string     `json:"decision"`
	PendingDecision string     `json:"pending_decision,omitempty"`
	Stale           bool       `json:"stale"`
	Ready           bool       `json:"ready"`
	LastSample      string     `json:"last_sample,omitempty"`
	UptimeSeconds   int64      `json:"uptime_seconds"`
	StartTime       string     `json:"start_time"`
	Timestamp       string     `json:"timestamp"`
	MQTT            MQTTStatus `json:"mqtt"`
	Counts          CountsJSON `json:"counters"`
	Config          ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker,omitempty"`
}

// CountsJSON is the JSON representation of the cumulative counters.
type CountsJSON struct {
	IncAccepted    uint64 `json:"inc_accepted"`
	IncSuppressed  uint64 `json:"inc_suppressed"`
	DecAccepted    uint64 `json:"dec_accepted"`
	DecSuppressed  uint64 `json:"dec_suppressed"`
	SensorFailures uint64 `json:"sensor_failures"`
	ReportsSent    uint64 `json:"reports_sent"`
	ReportsDropped uint64 `json:"reports_dropped"`
	DwellHolds     uint64 `json:"dwell_holds"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs       int64   `json:"poll_ms"`
	SampleMs     int64   `json:"sample_ms"`
	ReportMs     int64   `json:"report_ms"`
	DebounceMs   int64   `json:"debounce_ms"`
	DwellSec     int64   `json:"dwell_sec"`
	Hysteresis   float64 `json:"hysteresis_f"`
	SetPointMin  int     `json:"set_point_min_f"`
	SetPointMax  int     `json:"set_point_max_f"`
	SerialDevice string  `json:"serial_device"`
	SerialBaud   int     `json:"serial_baud"`
	Broker       string  `json:"broker,omitempty"`
	HTTPAddr     string  `json:"http_addr,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Temperature:   snap.Temperature,
		Humidity:      snap.Humidity,
		SetPoint:      snap.SetPoint,
		Decision:      snap.Decision.String(),
		Stale:         snap.Stale,
		Ready:         snap.Ready,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			IncAccepted:    snap.Counts.IncAccepted,
			IncSuppressed:  snap.Counts.IncSuppressed,
			DecAccepted:    snap.Counts.DecAccepted,
			DecSuppressed:  snap.Counts.DecSuppressed,
			SensorFailures: snap.Counts.SensorFailures,
			ReportsSent:    snap.Counts.ReportsSent,
			ReportsDropped: snap.Counts.ReportsDropped,
			DwellHolds:     snap.Counts.DwellHolds,
		},
		Config: ConfigJSON{
			PollMs:       snap.Config.PollMs,
			SampleMs:     snap.Config.SampleMs,
			ReportMs:     snap.Config.ReportMs,
			DebounceMs:   snap.Config.DebounceMs,
			DwellSec:     snap.Config.DwellSec,
			Hysteresis:   snap.Config.Hysteresis,
			SetPointMin:  snap.Config.SetPointMin,
			SetPointMax:  snap.Config.SetPointMax,
			SerialDevice: snap.Config.SerialDevice,
			SerialBaud:   snap.Config.SerialBaud,
			Broker:       snap.Config.Broker,
			HTTPAddr:     snap.Config.HTTPAddr,
		},
	}
	if snap.HasPending {
		inner.PendingDecision = snap.PendingDecision.String()
	}
	if !snap.LastSample.IsZero() {
		inner.LastSample = snap.LastSample.UTC().Format(time.RFC3339)
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
