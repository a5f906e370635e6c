package snooze

import (
	"testing"
	"time"
)

func TestGate_InitiallyOpen(t *testing.T) {
	g := NewGate()
	now := time.Now()

	if got := g.Check(now); got != Open {
		t.Errorf("Check() = %v, want open", got)
	}
	if g.State().Suppressed {
		t.Error("new gate should not be suppressed")
	}
}

func TestGate_SnoozeLifecycle(t *testing.T) {
	start := time.Date(2024, time.March, 4, 10, 0, 0, 0, time.Local)
	g := NewGate()
	g.Snooze(start, 30*time.Minute)

	state := g.State()
	if !state.Suppressed {
		t.Fatal("gate should be suppressed after Snooze")
	}
	if want := start.Add(30 * time.Minute); !state.ResumeAt.Equal(want) {
		t.Errorf("ResumeAt = %v, want %v", state.ResumeAt, want)
	}

	for _, offset := range []time.Duration{0, time.Minute, 29 * time.Minute, 30*time.Minute - time.Nanosecond} {
		if got := g.Check(start.Add(offset)); got != Blocked {
			t.Errorf("Check(+%v) = %v, want blocked", offset, got)
		}
	}

	if got := g.Check(start.Add(30 * time.Minute)); got != Resumed {
		t.Errorf("Check(+30m) = %v, want resumed", got)
	}
	if g.State().Suppressed {
		t.Error("gate should be active after resuming")
	}

	// The resume transition fires once.
	if got := g.Check(start.Add(31 * time.Minute)); got != Open {
		t.Errorf("Check(+31m) = %v, want open", got)
	}
}

func TestGate_LateTickResumes(t *testing.T) {
	start := time.Now()
	g := NewGate()
	g.Snooze(start, time.Minute)

	if got := g.Check(start.Add(3 * time.Hour)); got != Resumed {
		t.Errorf("Check() = %v, want resumed", got)
	}
}

func TestGate_SnoozeAgainRestartsWindow(t *testing.T) {
	start := time.Now()
	g := NewGate()
	g.Snooze(start, 10*time.Minute)
	g.Snooze(start.Add(5*time.Minute), 10*time.Minute)

	if got := g.Check(start.Add(12 * time.Minute)); got != Blocked {
		t.Errorf("Check(+12m) = %v, want blocked", got)
	}
	if got := g.Check(start.Add(15 * time.Minute)); got != Resumed {
		t.Errorf("Check(+15m) = %v, want resumed", got)
	}
}

func TestDecision_String(t *testing.T) {
	tests := map[Decision]string{
		Open:         "open",
		Blocked:      "blocked",
		Resumed:      "resumed",
		Decision(42): "unknown",
	}
	for d, want := range tests {
		if got := d.String(); got != want {
			t.Errorf("Decision(%d).String() = %q, want %q", int(d), got, want)
		}
	}
}
