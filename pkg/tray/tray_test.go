package tray

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Veraticus/remind-agent/pkg/snooze"
)

func TestExitCounter_Register(t *testing.T) {
	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name    string
		offsets []time.Duration
		want    []bool
	}{
		{
			name:    "five quick clicks exit",
			offsets: []time.Duration{0, time.Second, 2 * time.Second, 3 * time.Second, 4 * time.Second},
			want:    []bool{false, false, false, false, true},
		},
		{
			name:    "clicks 19s apart keep counting",
			offsets: []time.Duration{0, 19 * time.Second, 38 * time.Second, 57 * time.Second, 76 * time.Second},
			want:    []bool{false, false, false, false, true},
		},
		{
			name:    "a 20s pause starts over",
			offsets: []time.Duration{0, time.Second, 2 * time.Second, 3 * time.Second, 23 * time.Second},
			want:    []bool{false, false, false, false, false},
		},
		{
			name: "count resumes after reset",
			offsets: []time.Duration{
				0, time.Second,
				time.Minute, time.Minute + time.Second, time.Minute + 2*time.Second,
				time.Minute + 3*time.Second, time.Minute + 4*time.Second,
			},
			want: []bool{false, false, false, false, false, false, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewExitCounter(DefaultExitClicks, DefaultExitGap)
			for i, off := range tt.offsets {
				if got := c.Register(base.Add(off)); got != tt.want[i] {
					t.Errorf("click %d at +%s: Register() = %v, want %v", i+1, off, got, tt.want[i])
				}
			}
		})
	}
}

func TestSnoozeLabel(t *testing.T) {
	if got := SnoozeLabel(45); got != "Snooze notifications for 45 minutes" {
		t.Errorf("SnoozeLabel(45) = %q", got)
	}
}

func TestTooltip(t *testing.T) {
	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.Local)

	if got := Tooltip("Reminder", snooze.State{}, now); got != "Reminder" {
		t.Errorf("active tooltip = %q, want %q", got, "Reminder")
	}

	st := snooze.State{Suppressed: true, ResumeAt: now.Add(30 * time.Minute)}
	got := Tooltip("Reminder", st, now)
	for _, want := range []string{"Reminder", "paused", "30 minutes from now", "10:30"} {
		if !strings.Contains(got, want) {
			t.Errorf("snoozed tooltip %q does not contain %q", got, want)
		}
	}

	if got := Tooltip("Reminder", st, now.Add(time.Hour)); got != "Reminder" {
		t.Errorf("expired snooze tooltip = %q, want %q", got, "Reminder")
	}
}

type recordingActions struct {
	mu      sync.Mutex
	snoozes int
	shows   int
}

func (r *recordingActions) RequestSnooze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snoozes++
}

func (r *recordingActions) RequestShowNow() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shows++
}

func TestShell_Clicks(t *testing.T) {
	actions := &recordingActions{}
	shell := NewShell(Config{AppName: "Reminder", SnoozeMinutes: 60}, actions, zerolog.Nop())

	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.Local)
	shell.clock = func() time.Time { return now }
	quits := 0
	shell.quit = func() { quits++ }

	shell.onLeftClick()
	if actions.shows != 1 {
		t.Errorf("left click requested %d show-nows, want 1", actions.shows)
	}

	for i := 0; i < 4; i++ {
		if shell.onRightClick() {
			t.Fatalf("right click %d triggered exit", i+1)
		}
		now = now.Add(time.Second)
	}
	if !shell.onRightClick() {
		t.Error("fifth right click did not trigger exit")
	}
	if quits != 1 {
		t.Errorf("quit called %d times, want 1", quits)
	}
}

func TestShell_SetSnoozeStateBeforeReady(t *testing.T) {
	shell := NewShell(Config{AppName: "Reminder"}, &recordingActions{}, zerolog.Nop())
	st := snooze.State{Suppressed: true, ResumeAt: time.Now().Add(time.Hour)}

	// Must not touch the tray before it is up.
	shell.SetSnoozeState(st)

	shell.mu.Lock()
	defer shell.mu.Unlock()
	if shell.state != st {
		t.Errorf("state = %+v, want %+v", shell.state, st)
	}
}

func TestIconData(t *testing.T) {
	if len(iconData) == 0 {
		t.Fatal("icon is empty")
	}
}
