package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/rs/zerolog"

	"github.com/Veraticus/remind-agent/pkg/config"
	"github.com/Veraticus/remind-agent/pkg/desktop"
	"github.com/Veraticus/remind-agent/pkg/idle"
	"github.com/Veraticus/remind-agent/pkg/interfaces"
	"github.com/Veraticus/remind-agent/pkg/notification"
	"github.com/Veraticus/remind-agent/pkg/presenter"
	"github.com/Veraticus/remind-agent/pkg/scheduler"
	"github.com/Veraticus/remind-agent/pkg/snooze"
	"github.com/Veraticus/remind-agent/pkg/tray"
)

// Dependencies holds all the dependencies for the application
type Dependencies struct {
	Config      *config.Config
	Logger      zerolog.Logger
	Poller      *idle.Poller
	Source      *notification.Source
	RateLimiter interfaces.RateLimiter
	Toaster     presenter.Toaster
	Dialog      presenter.Dialog
	Opener      interfaces.URLOpener
	Presenter   *presenter.Presenter
	Scheduler   *scheduler.Scheduler
	Ticker      *scheduler.CronTicker
	Tray        *tray.Shell
}

// NewDependencies creates all dependencies with the given configuration
func NewDependencies(cfg *config.Config, logger zerolog.Logger) (*Dependencies, error) {
	return newDependencies(cfg, logger, desktop.NewToaster(cfg.AppName, logger))
}

func newDependencies(cfg *config.Config, logger zerolog.Logger, toaster presenter.Toaster) (*Dependencies, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	deps := &Dependencies{
		Config:  cfg,
		Logger:  logger,
		Toaster: toaster,
		Dialog:  desktop.NewExecDialog(),
		Opener:  desktop.NewBrowserOpener(),
	}

	deps.Poller = idle.NewPoller(idle.NewIdleTimeSource(), logger)
	deps.Source = notification.NewSource(cfg.APIURL, &http.Client{Timeout: cfg.HTTPTimeout}, logger)
	deps.RateLimiter = notification.NewTokenBucketRateLimiter(cfg.ManualShow.Burst, cfg.ManualShow.Per)
	deps.Presenter = presenter.New(deps.Toaster, deps.Dialog, deps.Opener, cfg.FontSizeForm, logger)

	deps.Scheduler = scheduler.New(
		scheduler.Config{
			ActiveThreshold: cfg.ActiveThreshold(),
			SnoozeDuration:  cfg.SnoozeDuration(),
		},
		scheduler.Dependencies{
			Idle:      deps.Poller,
			Source:    deps.Source,
			Presenter: deps.Presenter,
			Limiter:   deps.RateLimiter,
			OnStateChange: func(st snooze.State) {
				if deps.Tray != nil {
					deps.Tray.SetSnoozeState(st)
				}
			},
		},
		logger,
	)
	deps.Ticker = scheduler.NewCronTicker(cfg.TickInterval, logger)
	deps.Tray = tray.NewShell(tray.Config{
		AppName:       cfg.AppName,
		SnoozeMinutes: cfg.DelayMinutes,
	}, deps.Scheduler, logger)

	return deps, nil
}

// Close cleans up all dependencies
func (d *Dependencies) Close() {
	if d.Presenter != nil {
		_ = d.Presenter.Close() // Best effort
	}
	if d.Toaster != nil {
		_ = d.Toaster.Close() // Best effort
		d.Toaster = nil
	}
}

// Application represents the main application
type Application struct {
	deps   *Dependencies
	cancel context.CancelFunc
	done   chan error
}

// NewApplication creates a new application with the given dependencies
func NewApplication(deps *Dependencies) *Application {
	return &Application{
		deps: deps,
	}
}

// Run shows the tray icon and runs the reminder loop until ctx is done or
// the user quits from the tray. It must be called from the main goroutine.
func (a *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var startErr error
	a.deps.Tray.Run(func() {
		if err := a.start(ctx); err != nil {
			startErr = err
			a.deps.Tray.Quit()
			return
		}
		go func() {
			<-ctx.Done()
			a.deps.Tray.Quit()
		}()
	}, cancel)

	if err := a.stop(); err != nil && startErr == nil {
		return err
	}
	return startErr
}

// start launches the scheduler and its ticker.
func (a *Application) start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan error, 1)

	go func() { a.done <- a.deps.Scheduler.Run(ctx) }()

	if err := a.deps.Ticker.Start(a.deps.Scheduler.PostTick); err != nil {
		cancel()
		<-a.done
		a.done = nil
		return err
	}

	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		a.deps.Logger.Debug().Err(err).Msg("sd_notify failed")
	} else if ok {
		a.deps.Logger.Debug().Msg("notified systemd of readiness")
	}

	a.deps.Logger.Info().
		Str("api_url", a.deps.Config.APIURL).
		Dur("tick_interval", a.deps.Config.TickInterval).
		Msg("remind-agent started")
	return nil
}

// stop halts the ticker and waits for the scheduler to return.
func (a *Application) stop() error {
	if a.done == nil {
		return nil
	}
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	_ = a.deps.Ticker.Stop()
	a.cancel()
	err := <-a.done
	a.done = nil

	a.deps.Logger.Info().Msg("remind-agent stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
