// Package tray owns the system tray icon: left click shows the current
// reminder, the context menu snoozes reminders, and a burst of right
// clicks quits the agent.
package tray

import (
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/energye/systray"
	"github.com/rs/zerolog"

	"github.com/Veraticus/remind-agent/pkg/interfaces"
	"github.com/Veraticus/remind-agent/pkg/snooze"
)

// Actions are the commands the tray can issue.
type Actions interface {
	RequestSnooze()
	RequestShowNow()
}

// Config configures the shell.
type Config struct {
	AppName       string
	SnoozeMinutes int
}

// Shell is the tray icon and its menu.
type Shell struct {
	cfg     Config
	actions Actions
	exits   *ExitCounter
	logger  zerolog.Logger
	clock   interfaces.Clock
	quit    func()

	mu    sync.Mutex
	ready bool
	state snooze.State
}

// NewShell creates a shell that forwards user actions.
func NewShell(cfg Config, actions Actions, logger zerolog.Logger) *Shell {
	return &Shell{
		cfg:     cfg,
		actions: actions,
		exits:   NewExitCounter(DefaultExitClicks, DefaultExitGap),
		logger:  logger.With().Str("component", "tray").Logger(),
		clock:   time.Now,
		quit:    systray.Quit,
	}
}

// Run shows the icon and blocks until Quit. onReady runs once the icon is
// up; onExit runs as the tray shuts down. Run must be called from the main
// goroutine.
func (s *Shell) Run(onReady, onExit func()) {
	systray.Run(func() {
		s.setup()
		if onReady != nil {
			onReady()
		}
	}, onExit)
}

// Quit removes the icon and makes Run return.
func (s *Shell) Quit() {
	s.quit()
}

func (s *Shell) setup() {
	systray.SetIcon(iconData)
	systray.SetTitle(s.cfg.AppName)

	snoozeItem := systray.AddMenuItem(SnoozeLabel(s.cfg.SnoozeMinutes), "Pause reminders")
	snoozeItem.Click(s.actions.RequestSnooze)

	systray.SetOnClick(func(systray.IMenu) {
		s.onLeftClick()
	})
	systray.SetOnRClick(func(menu systray.IMenu) {
		if s.onRightClick() {
			return
		}
		if menu != nil {
			if err := menu.ShowMenu(); err != nil {
				s.logger.Debug().Err(err).Msg("failed to show menu")
			}
		}
	})

	s.mu.Lock()
	s.ready = true
	st := s.state
	s.mu.Unlock()
	systray.SetTooltip(Tooltip(s.cfg.AppName, st, s.clock()))

	s.logger.Info().Msg("tray ready")
}

func (s *Shell) onLeftClick() {
	s.actions.RequestShowNow()
}

// onRightClick reports whether the click triggered an exit.
func (s *Shell) onRightClick() bool {
	if !s.exits.Register(s.clock()) {
		return false
	}
	s.logger.Info().Int("clicks", s.exits.Count()).Msg("exit requested from tray")
	s.quit()
	return true
}

// SetSnoozeState updates the tooltip. It is safe to call from any goroutine.
func (s *Shell) SetSnoozeState(st snooze.State) {
	s.mu.Lock()
	s.state = st
	ready := s.ready
	s.mu.Unlock()

	if ready {
		systray.SetTooltip(Tooltip(s.cfg.AppName, st, s.clock()))
	}
}

// SnoozeLabel is the context menu entry for snoozing.
func SnoozeLabel(minutes int) string {
	return fmt.Sprintf("Snooze notifications for %d minutes", minutes)
}

// Tooltip describes the agent's state for the tray icon.
func Tooltip(appName string, st snooze.State, now time.Time) string {
	if !st.Suppressed || !now.Before(st.ResumeAt) {
		return appName
	}
	return fmt.Sprintf("%s - paused, resumes %s (%s)",
		appName, humanize.RelTime(st.ResumeAt, now, "ago", "from now"), st.ResumeAt.Format("15:04"))
}
