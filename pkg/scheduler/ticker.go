package scheduler

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// CronTicker fires a callback on a fixed interval in local time.
type CronTicker struct {
	interval time.Duration
	logger   zerolog.Logger

	mu sync.Mutex
	c  *cron.Cron
}

// NewCronTicker creates a stopped ticker.
func NewCronTicker(interval time.Duration, logger zerolog.Logger) *CronTicker {
	return &CronTicker{interval: interval, logger: logger}
}

// Spec returns the cron schedule used for the interval.
func (t *CronTicker) Spec() string {
	return "@every " + t.interval.String()
}

// Start schedules fire. Starting a running ticker is a no-op.
func (t *CronTicker) Start(fire func()) error {
	if t.interval < time.Second {
		return fmt.Errorf("tick interval %s is below one second", t.interval)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.c != nil {
		return nil
	}

	c := cron.New(cron.WithLocation(time.Local))
	if _, err := c.AddFunc(t.Spec(), fire); err != nil {
		return fmt.Errorf("failed to schedule ticks: %w", err)
	}
	c.Start()
	t.c = c

	t.logger.Info().Str("schedule", t.Spec()).Msg("ticker started")
	return nil
}

// Stop halts the ticker and waits for a running callback to return.
func (t *CronTicker) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.c == nil {
		return errors.New("ticker not started")
	}
	<-t.c.Stop().Done()
	t.c = nil
	return nil
}
