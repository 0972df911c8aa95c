// Package mqtt mirrors the thermostat's status stream to an MQTT
// broker. The serial link remains the primary reporting channel; the
// mirror is optional and a dead broker never stalls the control loop.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/dharmor/thermostat/internal/report"
)

// TopicStatus is the MQTT topic for periodic status records.
const TopicStatus = "home/thermostat/status"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/thermostat/system"

// Publisher publishes thermostat events to MQTT.
type Publisher interface {
	// PublishStatus sends one status record to the broker.
	// Returns error if publishing fails (must not crash the process).
	PublishStatus(rec report.Record) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event
// (e.g., startup, shutdown, reconnect).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "RECONNECTED"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// StatusPayload is the MQTT message payload for a status record.
type StatusPayload struct {
	Thermostat ThermostatPayload `json:"thermostat"`
}

// ThermostatPayload contains the status record details.
type ThermostatPayload struct {
	Timestamp   string  `json:"timestamp"`
	Temperature float64 `json:"temperature_f"`
	Humidity    float64 `json:"humidity_pct"`
	SetPoint    int     `json:"set_point_f"`
	Decision    string  `json:"decision"`
	Code        int     `json:"decision_code"`
	Stale       bool    `json:"stale"`
}

// FormatStatusPayload creates the JSON payload for a status record.
func FormatStatusPayload(rec report.Record) ([]byte, error) {
	payload := StatusPayload{
		Thermostat: ThermostatPayload{
			Timestamp:   rec.Timestamp.UTC().Format(time.RFC3339),
			Temperature: rec.Temperature,
			Humidity:    rec.Humidity,
			SetPoint:    rec.SetPoint,
			Decision:    rec.Decision.String(),
			Code:        rec.Decision.Code(),
			Stale:       rec.Stale,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the MQTT message payload for simple system events
// that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full
// status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
