package mqtt

import "github.com/dharmor/thermostat/internal/report"

// FakePublisher records published events for test assertions.
type FakePublisher struct {
	// StatusRecords contains all status records that were published.
	StatusRecords []report.Record

	// StatusPayloads contains the JSON payloads for status records.
	StatusPayloads [][]byte

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// PublishStatusError, if set, is returned by PublishStatus.
	PublishStatusError error

	// PublishSystemError, if set, is returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishStatus records the status record.
func (f *FakePublisher) PublishStatus(rec report.Record) error {
	if f.PublishStatusError != nil {
		return f.PublishStatusError
	}

	f.StatusRecords = append(f.StatusRecords, rec)

	payload, err := FormatStatusPayload(rec)
	if err != nil {
		return err
	}
	f.StatusPayloads = append(f.StatusPayloads, payload)
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded events.
func (f *FakePublisher) Reset() {
	f.StatusRecords = nil
	f.StatusPayloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishStatusError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
