// Package desktop binds the presenter to the host desktop: toast
// notifications, a modal reminder dialog and the default browser.
package desktop

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"

	"github.com/Veraticus/remind-agent/pkg/presenter"
)

// NewToaster returns the best toaster for this platform. It never fails:
// when the native backend is unavailable it falls back to beeep, which
// cannot report clicks.
func NewToaster(appName string, logger zerolog.Logger) presenter.Toaster {
	logger = logger.With().Str("component", "toaster").Logger()

	t, err := newPlatformToaster(appName, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("native notifications unavailable, links in toasts will not be clickable")
		return NewBeeepToaster(appName)
	}
	return t
}

// BeeepToaster shows toasts through beeep. It ignores click handlers.
type BeeepToaster struct {
	notify func(title, message string) error
}

// NewBeeepToaster creates a beeep backed toaster.
func NewBeeepToaster(appName string) *BeeepToaster {
	beeep.AppName = appName
	return &BeeepToaster{notify: func(title, message string) error {
		return beeep.Notify(title, message, "")
	}}
}

// Show implements presenter.Toaster.
func (b *BeeepToaster) Show(toast presenter.Toast, _ func()) error {
	if err := b.notify(toast.Title, toast.Message); err != nil {
		return fmt.Errorf("beeep notify: %w", err)
	}
	return nil
}

// Close implements presenter.Toaster.
func (b *BeeepToaster) Close() error {
	return nil
}
