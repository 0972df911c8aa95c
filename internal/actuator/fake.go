package actuator

// LineState is one recorded output state.
type LineState struct {
	Heat bool
	Cool bool
}

// FakeOutputs records every physical state written, for test
// assertions about mutual exclusion and switch frequency.
type FakeOutputs struct {
	// Heat and Cool hold the current line states.
	Heat bool
	Cool bool

	// History records every Set call in order.
	History []LineState

	// SetError, if set, is returned by Set.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeOutputs creates a FakeOutputs with both lines de-asserted.
func NewFakeOutputs() *FakeOutputs {
	return &FakeOutputs{}
}

// Set records the new line states.
func (f *FakeOutputs) Set(heat, cool bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Heat = heat
	f.Cool = cool
	f.History = append(f.History, LineState{Heat: heat, Cool: cool})
	return nil
}

// Close de-asserts both lines and marks the outputs closed.
func (f *FakeOutputs) Close() error {
	f.Heat = false
	f.Cool = false
	f.Closed = true
	return nil
}
