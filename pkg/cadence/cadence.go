// Package cadence decides when a reminder may be shown, based on how many
// days have passed since the tracked event.
package cadence

import "time"

// ShouldDisplay reports whether a reminder for diffDays may be shown at now.
// Reminders get more frequent as the event ages: fixed hours on day 1,
// even hours on day 2, hourly on day 3 and every five minutes after that.
// Callers must take a single now per tick.
func ShouldDisplay(diffDays int, now time.Time) bool {
	hour, minute := now.Hour(), now.Minute()

	switch {
	case diffDays == 1:
		return hour == 11 || hour == 13
	case diffDays == 2:
		return hour >= 8 && hour <= 16 && hour%2 == 0 && minute == 0
	case diffDays == 3:
		return minute == 0
	case diffDays >= 4:
		return minute%5 == 0
	default:
		return false
	}
}
