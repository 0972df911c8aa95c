package logic

import "testing"

func TestDecideTable(t *testing.T) {
	tests := []struct {
		name       string
		temp       float64
		setPoint   float64
		hysteresis float64
		prev       Decision
		want       Decision
	}{
		{"cold from idle", 70, 72, 1, Idle, Heating},
		{"cold from heating", 70, 72, 1, Heating, Heating},
		{"cold from cooling", 70, 72, 1, Cooling, Heating},
		{"hot from idle", 75, 72, 1, Idle, Cooling},
		{"hot from heating", 75, 72, 1, Heating, Cooling},
		{"hot from cooling", 75, 72, 1, Cooling, Cooling},
		{"in band keeps idle", 72, 72, 1, Idle, Idle},
		{"in band keeps heating", 72, 72, 1, Heating, Heating},
		{"in band keeps cooling", 72, 72, 1, Cooling, Cooling},
		{"lower band edge is in band", 71, 72, 1, Idle, Idle},
		{"upper band edge is in band", 73, 72, 1, Idle, Idle},
		{"just below band", 70.9, 72, 1, Idle, Heating},
		{"just above band", 73.1, 72, 1, Idle, Cooling},
		{"zero hysteresis below", 71.9, 72, 0, Idle, Heating},
		{"zero hysteresis exact", 72, 72, 0, Heating, Heating},
		{"wide band holds", 70, 72, 3, Cooling, Cooling},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.temp, tt.setPoint, tt.hysteresis, tt.prev)
			if got != tt.want {
				t.Errorf("Decide(%v, %v, %v, %v) = %v, want %v",
					tt.temp, tt.setPoint, tt.hysteresis, tt.prev, got, tt.want)
			}
		})
	}
}

// TestDecideDeterministic verifies repeated calls with identical inputs
// always agree.
func TestDecideDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		if got := Decide(70, 72, 1, Idle); got != Heating {
			t.Fatalf("call %d: got %v, want HEATING", i, got)
		}
	}
}

// TestDecideNoChatter feeds a temperature dithering across the set point
// inside the hysteresis band; the decision must never change.
func TestDecideNoChatter(t *testing.T) {
	const (
		setPoint   = 72.0
		hysteresis = 1.0
	)
	dither := []float64{71.9, 72.1, 72.0, 71.5, 72.5, 72.9, 71.1}

	prev := Heating
	for i, temp := range dither {
		got := Decide(temp, setPoint, hysteresis, prev)
		if got != prev {
			t.Fatalf("sample %d (%v°F): decision changed from %v to %v inside band",
				i, temp, prev, got)
		}
		prev = got
	}
}

func TestDecisionCodes(t *testing.T) {
	if Idle.Code() != 0 || Heating.Code() != 1 || Cooling.Code() != 2 {
		t.Errorf("wire codes: got idle=%d heating=%d cooling=%d, want 0 1 2",
			Idle.Code(), Heating.Code(), Cooling.Code())
	}
}

func TestDecisionString(t *testing.T) {
	tests := []struct {
		d    Decision
		want string
	}{
		{Idle, "IDLE"},
		{Heating, "HEATING"},
		{Cooling, "COOLING"},
		{Decision(99), "IDLE"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("Decision(%d).String() = %q, want %q", tt.d, got, tt.want)
		}
	}
}
