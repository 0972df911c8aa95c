package report

// FakeTransport records written payloads for test assertions.
type FakeTransport struct {
	// Writes contains every payload accepted.
	Writes [][]byte

	// WriteError, if set, is returned by Write.
	WriteError error

	// BusyFor refuses the next N writes with ErrBusy.
	BusyFor int

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeTransport creates an empty FakeTransport.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{}
}

// Write records the payload, or fails as scripted.
func (f *FakeTransport) Write(p []byte) error {
	if f.BusyFor > 0 {
		f.BusyFor--
		return ErrBusy
	}
	if f.WriteError != nil {
		return f.WriteError
	}
	cp := make([]byte, len(p))
	copy(cp, p)
	f.Writes = append(f.Writes, cp)
	return nil
}

// Close marks the transport closed.
func (f *FakeTransport) Close() error {
	f.Closed = true
	return nil
}
