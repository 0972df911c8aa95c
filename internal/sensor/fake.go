package sensor

import "errors"

// FakeReader is a test double that returns scripted readings.
type FakeReader struct {
	// Samples contains scripted readings. Each call to Read consumes
	// the next sample; the last sample repeats once exhausted.
	Samples []Reading

	// FailAt contains zero-based call indices at which Read returns
	// ErrUnavailable instead of a sample.
	FailAt map[int]bool

	// ReadError, if set, is returned by every Read call.
	ReadError error

	// Closed tracks if Close was called.
	Closed bool

	calls int
	index int
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Reading) *FakeReader {
	return &FakeReader{Samples: samples, FailAt: map[int]bool{}}
}

// Read returns the next scripted reading, or a scripted failure.
func (f *FakeReader) Read() (Reading, error) {
	call := f.calls
	f.calls++

	if f.ReadError != nil {
		return Reading{}, f.ReadError
	}
	if f.FailAt[call] {
		return Reading{}, ErrUnavailable
	}
	if len(f.Samples) == 0 {
		return Reading{}, errors.New("no samples configured")
	}

	r := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return r, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Calls returns how many times Read was invoked.
func (f *FakeReader) Calls() int {
	return f.calls
}
