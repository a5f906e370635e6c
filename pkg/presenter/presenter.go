// Package presenter shows reminders on the desktop as a toast and, when
// requested, a blocking dialog.
package presenter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Veraticus/remind-agent/pkg/interfaces"
	"github.com/Veraticus/remind-agent/pkg/notification"
)

// dialogWidth matches the fixed width of the reminder window.
const dialogWidth = 600

// Toast is a transient notification.
type Toast struct {
	ID      string
	Title   string
	Message string
	Timeout time.Duration
}

// Toaster is the presentation sink for toasts.
type Toaster interface {
	// Show raises a toast. onClick, when non-nil, is called for every click
	// on this toast for as long as the sink can observe it.
	Show(toast Toast, onClick func()) error
	Close() error
}

// Presentation records what Present did with a payload.
type Presentation struct {
	ID          string
	DialogShown bool
	ToastShown  bool
	// Guard is nil when the payload had no link.
	Guard *ClickGuard
}

// Presenter renders payloads. It is owned by the scheduler goroutine.
type Presenter struct {
	toaster  Toaster
	window   *Window
	opener   interfaces.URLOpener
	fontSize int
	logger   zerolog.Logger
	newID    func() string
}

// New creates a presenter.
func New(toaster Toaster, dialog Dialog, opener interfaces.URLOpener, fontSize int, logger zerolog.Logger) *Presenter {
	return &Presenter{
		toaster:  toaster,
		window:   NewWindow(dialog),
		opener:   opener,
		fontSize: fontSize,
		logger:   logger.With().Str("component", "presenter").Logger(),
		newID:    uuid.NewString,
	}
}

// Present shows the dialog when requested, then the toast, and arms a
// one-shot link click when the payload has a URL. Failures are logged and
// otherwise ignored.
func (p *Presenter) Present(ctx context.Context, payload notification.Payload) (pres Presentation) {
	pres.ID = p.newID()
	log := p.logger.With().Str("presentation", pres.ID).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("panic", fmt.Sprint(r)).Msg("presentation aborted")
		}
	}()

	if payload.ShowForm {
		shown, err := p.showDialog(ctx, payload)
		if err != nil {
			log.Warn().Err(err).Msg("dialog failed")
		}
		pres.DialogShown = shown
	}

	toast := Toast{
		ID:      pres.ID,
		Title:   payload.Title,
		Message: payload.Message,
		Timeout: time.Duration(payload.TimeoutMs) * time.Millisecond,
	}

	var onClick func()
	if payload.WebsiteURL != "" {
		guard := NewClickGuard()
		pres.Guard = guard
		url := payload.WebsiteURL
		onClick = func() {
			if !guard.Claim() {
				return
			}
			if err := p.opener.Open(url); err != nil {
				log.Warn().Err(err).Str("url", url).Msg("failed to open link")
			}
		}
	}

	if err := p.toaster.Show(toast, onClick); err != nil {
		log.Warn().Err(err).Msg("toast failed")
		return pres
	}
	pres.ToastShown = true

	log.Info().
		Bool("dialog", pres.DialogShown).
		Bool("link", onClick != nil).
		Msg("reminder shown")
	return pres
}

// ShowDialog shows only the dialog for payload. It reports whether a dialog
// was actually opened.
func (p *Presenter) ShowDialog(ctx context.Context, payload notification.Payload) bool {
	shown, err := p.showDialog(ctx, payload)
	if err != nil {
		p.logger.Warn().Err(err).Msg("dialog failed")
	}
	return shown
}

func (p *Presenter) showDialog(ctx context.Context, payload notification.Payload) (bool, error) {
	if payload.Title == "" || payload.Message == "" {
		return false, nil
	}
	return p.window.Show(ctx, DialogSpec{
		Title:    payload.Title,
		Message:  payload.Message,
		FontSize: p.fontSize,
		Width:    dialogWidth,
	})
}

// Close disposes the dialog, if one is open. Call it once the scheduler
// has stopped.
func (p *Presenter) Close() error {
	return p.window.Close()
}
