package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Veraticus/remind-agent/pkg/idle"
	"github.com/Veraticus/remind-agent/pkg/notification"
	"github.com/Veraticus/remind-agent/pkg/presenter"
	"github.com/Veraticus/remind-agent/pkg/snooze"
	"github.com/Veraticus/remind-agent/pkg/testutil"
)

// fakeSource serves a fixed document through the real payload parser.
type fakeSource struct {
	mu    sync.Mutex
	doc   string
	calls int
}

func (f *fakeSource) Fetch(context.Context) (notification.Payload, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	p, err := notification.ParsePayload([]byte(f.doc))
	if err != nil {
		return notification.Payload{}, false
	}
	return p, true
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type harness struct {
	sched   *Scheduler
	idle    *testutil.MockIdleSource
	source  *fakeSource
	toaster *testutil.MockToaster
	dialog  *testutil.MockDialog
	opener  *testutil.MockURLOpener
	limiter *testutil.MockRateLimiter
	states  []snooze.State
}

func newHarness(doc string) *harness {
	h := &harness{
		idle:    testutil.NewMockIdleSource(5 * time.Second),
		source:  &fakeSource{doc: doc},
		toaster: testutil.NewMockToaster(),
		dialog:  testutil.NewMockDialog(),
		opener:  testutil.NewMockURLOpener(),
		limiter: testutil.NewMockRateLimiter(true),
	}
	h.sched = New(
		Config{ActiveThreshold: time.Minute, SnoozeDuration: 30 * time.Minute},
		Dependencies{
			Idle:          idle.NewPoller(h.idle, zerolog.Nop()),
			Source:        h.source,
			Presenter:     presenter.New(h.toaster, h.dialog, h.opener, 14, zerolog.Nop()),
			Limiter:       h.limiter,
			OnStateChange: func(st snooze.State) { h.states = append(h.states, st) },
		},
		zerolog.Nop(),
	)
	return h
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 3, 4, hour, minute, 0, 0, time.Local)
}

func TestScheduler_DayOneToastWithoutLink(t *testing.T) {
	h := newHarness(`{"title":"A","message":"B","timeout":5000,"showForm":false,"websiteUrl":"","diffDays":1}`)

	if got := h.sched.Tick(context.Background(), at(11, 5)); got != Presented {
		t.Fatalf("Tick() = %v, want %v", got, Presented)
	}

	toasts := h.toaster.GetToasts()
	if len(toasts) != 1 {
		t.Fatalf("expected 1 toast, got %d", len(toasts))
	}
	if toasts[0].Title != "A" || toasts[0].Message != "B" || toasts[0].Timeout != 5*time.Second {
		t.Errorf("toast = %+v", toasts[0])
	}
	if len(h.dialog.GetSpecs()) != 0 {
		t.Error("expected no dialog")
	}
	if h.toaster.HasClickHandler(0) {
		t.Error("expected no click handler for an empty link")
	}
}

func TestScheduler_EveryFiveMinutesWithDialog(t *testing.T) {
	doc := `{"title":"A","message":"B","timeout":5000,"showForm":true,"diffDays":5}`

	t.Run("minute 12", func(t *testing.T) {
		h := newHarness(doc)
		if got := h.sched.Tick(context.Background(), at(9, 12)); got != OffCadence {
			t.Errorf("Tick() = %v, want %v", got, OffCadence)
		}
		if len(h.toaster.GetToasts()) != 0 || len(h.dialog.GetSpecs()) != 0 {
			t.Error("expected nothing displayed")
		}
	})

	t.Run("minute 10", func(t *testing.T) {
		h := newHarness(doc)
		if got := h.sched.Tick(context.Background(), at(9, 10)); got != Presented {
			t.Errorf("Tick() = %v, want %v", got, Presented)
		}
		if len(h.dialog.GetSpecs()) != 1 {
			t.Errorf("expected 1 dialog, got %d", len(h.dialog.GetSpecs()))
		}
		if len(h.toaster.GetToasts()) != 1 {
			t.Errorf("expected 1 toast, got %d", len(h.toaster.GetToasts()))
		}
	})
}

func TestScheduler_LinkOpensOnce(t *testing.T) {
	h := newHarness(`{"title":"A","message":"B","timeout":5000,"websiteUrl":"https://example.com","diffDays":3}`)

	h.sched.Tick(context.Background(), at(14, 0))
	h.toaster.Click(0)
	h.toaster.Click(0)

	if got := h.opener.GetOpened(); len(got) != 1 || got[0] != "https://example.com" {
		t.Errorf("opened = %v, want one open", got)
	}
}

func TestScheduler_InactiveUserSkipsFetch(t *testing.T) {
	tests := []struct {
		name string
		idle time.Duration
		err  error
	}{
		{name: "idle past threshold", idle: 2 * time.Minute},
		{name: "idle exactly at threshold", idle: time.Minute},
		{name: "idle query fails", err: errors.New("no session bus")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(`{"title":"A","message":"B","timeout":1,"diffDays":1}`)
			h.idle.SetIdle(tt.idle)
			h.idle.SetError(tt.err)

			if got := h.sched.Tick(context.Background(), at(11, 0)); got != UserInactive {
				t.Errorf("Tick() = %v, want %v", got, UserInactive)
			}
			if h.source.Calls() != 0 {
				t.Errorf("fetched %d times, want 0", h.source.Calls())
			}
		})
	}
}

func TestScheduler_InvalidPayload(t *testing.T) {
	h := newHarness(`{"title":"A","message":"B","timeout":1,"diffDays":"soon"}`)

	if got := h.sched.Tick(context.Background(), at(11, 0)); got != NoPayload {
		t.Errorf("Tick() = %v, want %v", got, NoPayload)
	}
	if len(h.toaster.GetToasts()) != 0 {
		t.Error("expected nothing displayed")
	}
}

func TestScheduler_SnoozeAndResume(t *testing.T) {
	h := newHarness(`{"title":"A","message":"B","timeout":1000,"diffDays":4}`)
	snoozedAt := at(10, 0)

	st := h.sched.Snooze(snoozedAt)
	if !st.Suppressed || !st.ResumeAt.Equal(snoozedAt.Add(30*time.Minute)) {
		t.Fatalf("Snooze() = %+v", st)
	}
	if h.source.Calls() != 0 {
		t.Error("snoozing must not fetch")
	}

	for _, now := range []time.Time{at(10, 5), at(10, 20), snoozedAt.Add(30*time.Minute - time.Second)} {
		if got := h.sched.Tick(context.Background(), now); got != Snoozed {
			t.Errorf("Tick(%s) = %v, want %v", now.Format("15:04:05"), got, Snoozed)
		}
	}
	if h.source.Calls() != 0 {
		t.Errorf("fetched %d times while snoozed, want 0", h.source.Calls())
	}

	if got := h.sched.Tick(context.Background(), at(10, 30)); got != Presented {
		t.Errorf("resume Tick() = %v, want %v", got, Presented)
	}
	if h.source.Calls() != 1 {
		t.Errorf("fetched %d times on resume, want 1", h.source.Calls())
	}
	if h.sched.State().Suppressed {
		t.Error("gate still suppressed after resume")
	}

	if len(h.states) != 2 || !h.states[0].Suppressed || h.states[1].Suppressed {
		t.Errorf("state changes = %+v, want snoozed then resumed", h.states)
	}
}

func TestScheduler_ResumeStillHonorsCadence(t *testing.T) {
	h := newHarness(`{"title":"A","message":"B","timeout":1000,"diffDays":3}`)
	h.sched.Snooze(at(10, 0))

	if got := h.sched.Tick(context.Background(), at(10, 31)); got != OffCadence {
		t.Errorf("Tick() = %v, want %v", got, OffCadence)
	}
	if h.source.Calls() != 1 {
		t.Errorf("fetched %d times, want 1", h.source.Calls())
	}
}

func TestScheduler_ShowNow(t *testing.T) {
	h := newHarness(`{"title":"A","message":"B","timeout":1000,"diffDays":0}`)
	h.idle.SetIdle(time.Hour)
	h.sched.Snooze(at(10, 0))

	if !h.sched.ShowNow(context.Background()) {
		t.Fatal("ShowNow() = false, want true")
	}
	if len(h.dialog.GetSpecs()) != 1 {
		t.Errorf("expected 1 dialog, got %d", len(h.dialog.GetSpecs()))
	}
	if len(h.toaster.GetToasts()) != 0 {
		t.Error("ShowNow should not raise a toast")
	}

	h.limiter.SetAllowResult(false)
	if h.sched.ShowNow(context.Background()) {
		t.Error("ShowNow() = true while throttled")
	}
	if h.source.Calls() != 1 {
		t.Errorf("fetched %d times, want 1", h.source.Calls())
	}
}

func TestScheduler_Run(t *testing.T) {
	h := newHarness(`{"title":"A","message":"B","timeout":1000,"diffDays":1}`)
	now := at(11, 0)
	h.sched.deps.Clock = func() time.Time { return now }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.sched.Run(ctx) }()

	h.sched.PostTick()
	waitFor(t, func() bool { return len(h.toaster.GetToasts()) == 1 })

	// Commands share one queue, so the snooze is handled before show-now.
	h.sched.RequestSnooze()
	h.sched.RequestShowNow()
	waitFor(t, func() bool { return len(h.dialog.GetSpecs()) == 1 })

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if got := len(h.toaster.GetToasts()); got != 1 {
		t.Errorf("toasts = %d, want 1", got)
	}
}

func TestScheduler_PostTickCoalesces(t *testing.T) {
	h := newHarness(`{}`)
	for i := 0; i < 5; i++ {
		h.sched.PostTick()
	}
	if got := len(h.sched.ticks); got != 1 {
		t.Errorf("pending ticks = %d, want 1", got)
	}
}

func TestOutcome_String(t *testing.T) {
	tests := map[Outcome]string{
		UserInactive: "user_inactive",
		Snoozed:      "snoozed",
		NoPayload:    "no_payload",
		OffCadence:   "off_cadence",
		Presented:    "presented",
		Outcome(99):  "unknown",
	}
	for o, want := range tests {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", int(o), got, want)
		}
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
