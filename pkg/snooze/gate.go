// Package snooze holds the user-initiated suppression state.
package snooze

import "time"

// Decision is the outcome of checking the gate on a tick.
type Decision int

const (
	// Open means notifications may display.
	Open Decision = iota
	// Blocked means the gate is suppressed and the resume time has not passed.
	Blocked
	// Resumed means the suppression just expired; the caller should attempt
	// a catch-up display in the same tick.
	Resumed
)

func (d Decision) String() string {
	switch d {
	case Open:
		return "open"
	case Blocked:
		return "blocked"
	case Resumed:
		return "resumed"
	default:
		return "unknown"
	}
}

// State is a snapshot of the gate.
type State struct {
	Suppressed bool
	ResumeAt   time.Time
}

// Gate is the snooze state machine. It is not safe for concurrent use; the
// scheduler owns it on a single goroutine.
type Gate struct {
	state State
}

// NewGate returns a gate in the active state.
func NewGate() *Gate {
	return &Gate{}
}

// Snooze suppresses display until now+d. Snoozing while already suppressed
// restarts the window from now.
func (g *Gate) Snooze(now time.Time, d time.Duration) {
	g.state = State{Suppressed: true, ResumeAt: now.Add(d)}
}

// Check evaluates the gate at now and performs the resume transition.
func (g *Gate) Check(now time.Time) Decision {
	if !g.state.Suppressed {
		return Open
	}
	if now.Before(g.state.ResumeAt) {
		return Blocked
	}
	g.state = State{}
	return Resumed
}

// State returns the current snapshot.
func (g *Gate) State() State {
	return g.state
}
