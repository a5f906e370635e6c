// Package interfaces defines the core interfaces used throughout the application.
package interfaces

import "time"

// IdleTimeSource reports how long the user has been away from the input devices.
type IdleTimeSource interface {
	IdleTime() (time.Duration, error)
}

// RateLimiter limits how often an action may run.
type RateLimiter interface {
	Allow() bool
	Reset()
}

// URLOpener opens a URL with the system's default handler.
type URLOpener interface {
	Open(url string) error
}

// Clock returns the current local time.
type Clock func() time.Time
