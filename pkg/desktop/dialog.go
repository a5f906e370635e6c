package desktop

import (
	"context"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/Veraticus/remind-agent/pkg/presenter"
)

// runFunc runs a dialog helper until it exits or ctx is cancelled.
type runFunc func(ctx context.Context, name string, args ...string) error

func defaultRun(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// ExecDialog shows the reminder window with the platform's dialog helper:
// zenity on Linux, osascript on macOS and PowerShell on Windows.
type ExecDialog struct {
	goos string
	run  runFunc
}

// NewExecDialog creates a dialog for the running platform.
func NewExecDialog() *ExecDialog {
	return &ExecDialog{goos: runtime.GOOS, run: defaultRun}
}

// Open implements presenter.Dialog. The helper runs in the background;
// the handle reports when the user dismisses it.
func (d *ExecDialog) Open(spec presenter.DialogSpec) (presenter.DialogHandle, error) {
	name, args, err := dialogCommand(d.goos, spec)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &execHandle{cancel: cancel, done: make(chan struct{})}
	h.visible.Store(true)

	go func() {
		defer close(h.done)
		defer h.visible.Store(false)
		h.err = d.run(ctx, name, args...)
	}()
	return h, nil
}

type execHandle struct {
	visible atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
}

// Wait implements presenter.DialogHandle. Closing the dialog with the
// window button makes zenity exit non-zero, which is not an error here.
func (h *execHandle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		var exitErr *exec.ExitError
		if h.err != nil && !errors.As(h.err, &exitErr) {
			return h.err
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *execHandle) Visible() bool {
	return h.visible.Load()
}

func (h *execHandle) Close() error {
	h.cancel()
	<-h.done
	return nil
}

// dialogCommand builds the helper invocation for goos.
func dialogCommand(goos string, spec presenter.DialogSpec) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		text := html.EscapeString(spec.Message)
		if spec.FontSize > 0 {
			text = fmt.Sprintf(`<span font="%d">%s</span>`, spec.FontSize, text)
		}
		args := []string{"--info", "--title", spec.Title, "--text", text}
		if spec.Width > 0 {
			args = append(args, "--width", strconv.Itoa(spec.Width))
		}
		return "zenity", args, nil
	case "darwin":
		script := fmt.Sprintf(`display dialog %s with title %s buttons {"OK"} default button "OK"`,
			appleScriptString(spec.Message), appleScriptString(spec.Title))
		return "osascript", []string{"-e", script}, nil
	case "windows":
		script := fmt.Sprintf(
			"Add-Type -AssemblyName PresentationFramework; [System.Windows.MessageBox]::Show(%s, %s) | Out-Null",
			powerShellString(spec.Message), powerShellString(spec.Title))
		return "powershell", []string{"-NoProfile", "-NonInteractive", "-Command", script}, nil
	default:
		return "", nil, fmt.Errorf("no dialog helper for %s", goos)
	}
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func powerShellString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
