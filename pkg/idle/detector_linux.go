//go:build linux
// +build linux

package idle

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
)

// busCaller invokes a D-Bus method and stores its single reply value in out.
type busCaller interface {
	Call(dest string, path dbus.ObjectPath, method string, out interface{}) error
}

// sessionBus calls methods on the shared session bus connection.
type sessionBus struct{}

func (sessionBus) Call(dest string, path dbus.ObjectPath, method string, out interface{}) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("connecting to session bus: %w", err)
	}
	return conn.Object(dest, path).Call(method, 0).Store(out)
}

// LinuxIdleDetector implements idle detection for Linux desktops.
// It asks GNOME's Mutter idle monitor, then the freedesktop ScreenSaver
// service, then the xprintidle command, and uses the first answer.
type LinuxIdleDetector struct {
	bus         busCaller
	cmdExecutor func(name string, args ...string) ([]byte, error)
}

// NewLinuxIdleDetector creates a new Linux idle detector.
func NewLinuxIdleDetector() *LinuxIdleDetector {
	return &LinuxIdleDetector{
		bus:         sessionBus{},
		cmdExecutor: defaultCmdExecutor,
	}
}

// defaultCmdExecutor executes a command and returns its output.
func defaultCmdExecutor(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.Output()
}

// IdleTime returns the time since the last keyboard or mouse input.
func (d *LinuxIdleDetector) IdleTime() (time.Duration, error) {
	var errs []error

	for _, query := range []func() (time.Duration, error){
		d.mutterIdleTime,
		d.screenSaverIdleTime,
		d.xprintidleTime,
	} {
		idle, err := query()
		if err == nil {
			return idle, nil
		}
		errs = append(errs, err)
	}

	return 0, fmt.Errorf("no idle time backend available: %w", errors.Join(errs...))
}

// mutterIdleTime queries GNOME Shell; the reply is in milliseconds.
func (d *LinuxIdleDetector) mutterIdleTime() (time.Duration, error) {
	var ms uint64
	err := d.bus.Call(
		"org.gnome.Mutter.IdleMonitor",
		"/org/gnome/Mutter/IdleMonitor/Core",
		"org.gnome.Mutter.IdleMonitor.GetIdletime",
		&ms,
	)
	if err != nil {
		return 0, fmt.Errorf("mutter idle monitor: %w", err)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// screenSaverIdleTime queries the freedesktop screensaver service (KDE and
// others); the reply is in milliseconds.
func (d *LinuxIdleDetector) screenSaverIdleTime() (time.Duration, error) {
	var ms uint32
	err := d.bus.Call(
		"org.freedesktop.ScreenSaver",
		"/org/freedesktop/ScreenSaver",
		"org.freedesktop.ScreenSaver.GetSessionIdleTime",
		&ms,
	)
	if err != nil {
		return 0, fmt.Errorf("screensaver service: %w", err)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// xprintidleTime asks the X server through xprintidle, which prints milliseconds.
func (d *LinuxIdleDetector) xprintidleTime() (time.Duration, error) {
	output, err := d.cmdExecutor("xprintidle")
	if err != nil {
		return 0, fmt.Errorf("failed to execute xprintidle: %w", err)
	}

	ms, err := strconv.ParseUint(strings.TrimSpace(string(output)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse xprintidle output: %w", err)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
