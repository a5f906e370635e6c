package tray

import (
	"sync"
	"time"
)

const (
	// DefaultExitClicks is the number of right clicks that quits the agent.
	DefaultExitClicks = 5
	// DefaultExitGap is the longest pause allowed between counted clicks.
	DefaultExitGap = 20 * time.Second
)

// ExitCounter counts rapid right clicks on the tray icon. A pause of gap
// or more between two clicks starts the count over.
type ExitCounter struct {
	mu        sync.Mutex
	threshold int
	gap       time.Duration
	count     int
	last      time.Time
}

// NewExitCounter creates a counter that trips after threshold clicks.
func NewExitCounter(threshold int, gap time.Duration) *ExitCounter {
	return &ExitCounter{threshold: threshold, gap: gap}
}

// Register records a click at now and reports whether the agent should exit.
func (c *ExitCounter) Register(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last.IsZero() || now.Sub(c.last) >= c.gap {
		c.count = 0
	}
	c.count++
	c.last = now
	return c.count >= c.threshold
}

// Count returns the clicks counted so far.
func (c *ExitCounter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}
