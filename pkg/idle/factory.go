// Package idle reports how long the desktop user has been away from the
// keyboard and mouse, and gates notifications on it.
package idle

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Veraticus/remind-agent/pkg/interfaces"
)

// ErrUnsupported is returned on platforms without an idle-time query.
var ErrUnsupported = errors.New("idle time query not supported on this platform")

// NewIdleTimeSource creates a platform-appropriate idle time source.
// It returns:
// - LinuxIdleDetector on Linux systems (D-Bus, then xprintidle)
// - DarwinIdleDetector on macOS systems (using ioreg)
// - WindowsIdleDetector on Windows (GetLastInputInfo)
// - a source that always fails elsewhere, which keeps notifications off.
func NewIdleTimeSource() interfaces.IdleTimeSource {
	return newPlatformDetector()
}

// Poller answers whether the user is currently at the machine.
type Poller struct {
	source interfaces.IdleTimeSource
	logger zerolog.Logger
}

// NewPoller creates a poller over source.
func NewPoller(source interfaces.IdleTimeSource, logger zerolog.Logger) *Poller {
	return &Poller{
		source: source,
		logger: logger.With().Str("component", "idle").Logger(),
	}
}

// IsUserActive returns true iff the time since the last input event is below
// threshold. A failed platform query counts as inactive.
func (p *Poller) IsUserActive(threshold time.Duration) bool {
	idle, err := p.source.IdleTime()
	if err != nil {
		p.logger.Debug().Err(err).Msg("idle query failed, treating user as inactive")
		return false
	}
	return idle < threshold
}

type unsupportedDetector struct{}

func (unsupportedDetector) IdleTime() (time.Duration, error) {
	return 0, ErrUnsupported
}
