// Package scheduler runs the reminder loop: on every tick it checks the
// user's activity and the snooze window, fetches the current payload and
// hands it to the presenter when the cadence allows.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Veraticus/remind-agent/pkg/cadence"
	"github.com/Veraticus/remind-agent/pkg/interfaces"
	"github.com/Veraticus/remind-agent/pkg/notification"
	"github.com/Veraticus/remind-agent/pkg/presenter"
	"github.com/Veraticus/remind-agent/pkg/snooze"
)

// ActivityChecker reports whether the user is at the keyboard.
type ActivityChecker interface {
	IsUserActive(threshold time.Duration) bool
}

// Source fetches the current payload.
type Source interface {
	Fetch(ctx context.Context) (notification.Payload, bool)
}

// Presenter displays payloads.
type Presenter interface {
	Present(ctx context.Context, payload notification.Payload) presenter.Presentation
	ShowDialog(ctx context.Context, payload notification.Payload) bool
}

// Outcome is the result of one tick.
type Outcome int

const (
	// UserInactive means the idle check failed the tick.
	UserInactive Outcome = iota
	// Snoozed means the snooze window is still open.
	Snoozed
	// NoPayload means nothing valid was fetched.
	NoPayload
	// OffCadence means the payload is not due at this time.
	OffCadence
	// Presented means the payload was handed to the presenter.
	Presented
)

func (o Outcome) String() string {
	switch o {
	case UserInactive:
		return "user_inactive"
	case Snoozed:
		return "snoozed"
	case NoPayload:
		return "no_payload"
	case OffCadence:
		return "off_cadence"
	case Presented:
		return "presented"
	default:
		return "unknown"
	}
}

// Config holds the scheduler's tunables.
type Config struct {
	ActiveThreshold time.Duration
	SnoozeDuration  time.Duration
}

// Dependencies are the scheduler's collaborators. Limiter throttles
// manual show-now requests; OnStateChange, when set, is called with the
// snooze state after every change.
type Dependencies struct {
	Idle          ActivityChecker
	Gate          *snooze.Gate
	Source        Source
	Presenter     Presenter
	Limiter       interfaces.RateLimiter
	Clock         interfaces.Clock
	OnStateChange func(snooze.State)
}

type command int

const (
	cmdSnooze command = iota
	cmdShowNow
)

// Scheduler owns the reminder state. Tick, Snooze and ShowNow are not
// safe for concurrent use; callers on other goroutines go through Run via
// PostTick, RequestSnooze and RequestShowNow.
type Scheduler struct {
	cfg    Config
	deps   Dependencies
	logger zerolog.Logger

	ticks    chan struct{}
	commands chan command
}

// New creates a scheduler.
func New(cfg Config, deps Dependencies, logger zerolog.Logger) *Scheduler {
	if deps.Gate == nil {
		deps.Gate = snooze.NewGate()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Scheduler{
		cfg:      cfg,
		deps:     deps,
		logger:   logger.With().Str("component", "scheduler").Logger(),
		ticks:    make(chan struct{}, 1),
		commands: make(chan command, 8),
	}
}

// Run handles ticks and commands one at a time until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info().
		Dur("active_threshold", s.cfg.ActiveThreshold).
		Dur("snooze", s.cfg.SnoozeDuration).
		Msg("scheduler running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.ticks:
			s.Tick(ctx, s.deps.Clock())
		case cmd := <-s.commands:
			switch cmd {
			case cmdSnooze:
				s.Snooze(s.deps.Clock())
			case cmdShowNow:
				s.ShowNow(ctx)
			}
		}
	}
}

// PostTick queues a tick. A tick already pending absorbs this one.
func (s *Scheduler) PostTick() {
	select {
	case s.ticks <- struct{}{}:
	default:
	}
}

// RequestSnooze queues a snooze command.
func (s *Scheduler) RequestSnooze() {
	s.post(cmdSnooze)
}

// RequestShowNow queues a manual show-now command.
func (s *Scheduler) RequestShowNow() {
	s.post(cmdShowNow)
}

func (s *Scheduler) post(cmd command) {
	select {
	case s.commands <- cmd:
	default:
		s.logger.Debug().Int("command", int(cmd)).Msg("command queue full, dropping")
	}
}

// Tick runs one reminder cycle at now.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) Outcome {
	outcome := s.tick(ctx, now)
	s.logger.Debug().Stringer("outcome", outcome).Time("now", now).Msg("tick")
	return outcome
}

func (s *Scheduler) tick(ctx context.Context, now time.Time) Outcome {
	if !s.deps.Idle.IsUserActive(s.cfg.ActiveThreshold) {
		return UserInactive
	}

	switch s.deps.Gate.Check(now) {
	case snooze.Blocked:
		return Snoozed
	case snooze.Resumed:
		s.logger.Info().Msg("snooze expired, resuming reminders")
		s.notifyState()
	}

	payload, ok := s.deps.Source.Fetch(ctx)
	if !ok {
		return NoPayload
	}

	if !cadence.ShouldDisplay(payload.DiffDays, now) {
		return OffCadence
	}

	s.deps.Presenter.Present(ctx, payload)
	return Presented
}

// Snooze suppresses reminders for the configured duration from now.
func (s *Scheduler) Snooze(now time.Time) snooze.State {
	s.deps.Gate.Snooze(now, s.cfg.SnoozeDuration)
	st := s.deps.Gate.State()
	s.logger.Info().Time("resume_at", st.ResumeAt).Msg("reminders snoozed")
	s.notifyState()
	return st
}

// ShowNow fetches the payload and shows its dialog regardless of activity,
// snooze and cadence. It reports whether a dialog was shown.
func (s *Scheduler) ShowNow(ctx context.Context) bool {
	if s.deps.Limiter != nil && !s.deps.Limiter.Allow() {
		s.logger.Debug().Msg("show-now throttled")
		return false
	}

	payload, ok := s.deps.Source.Fetch(ctx)
	if !ok {
		return false
	}
	return s.deps.Presenter.ShowDialog(ctx, payload)
}

// State returns the current snooze state.
func (s *Scheduler) State() snooze.State {
	return s.deps.Gate.State()
}

func (s *Scheduler) notifyState() {
	if s.deps.OnStateChange != nil {
		s.deps.OnStateChange(s.deps.Gate.State())
	}
}
