package presenter

import "sync/atomic"

// ClickGuard lets a toast's link open at most once. Each shown toast gets
// its own guard.
type ClickGuard struct {
	fired atomic.Bool
}

// NewClickGuard returns an unfired guard.
func NewClickGuard() *ClickGuard {
	return &ClickGuard{}
}

// Claim returns true for the first caller only.
func (g *ClickGuard) Claim() bool {
	return g.fired.CompareAndSwap(false, true)
}

// Fired reports whether the guard has been claimed.
func (g *ClickGuard) Fired() bool {
	return g.fired.Load()
}
