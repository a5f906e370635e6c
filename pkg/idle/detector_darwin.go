//go:build darwin
// +build darwin

package idle

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// hidIdleKey is the IOHIDSystem property holding nanoseconds since the last
// input event.
const hidIdleKey = `"HIDIdleTime"`

// DarwinIdleDetector reads the HID idle counter from ioreg.
type DarwinIdleDetector struct {
	cmdExecutor func(name string, args ...string) ([]byte, error)
}

// NewDarwinIdleDetector creates a new macOS idle detector.
func NewDarwinIdleDetector() *DarwinIdleDetector {
	return &DarwinIdleDetector{
		cmdExecutor: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).Output()
		},
	}
}

// IdleTime returns the time since the last keyboard or mouse input.
func (d *DarwinIdleDetector) IdleTime() (time.Duration, error) {
	out, err := d.cmdExecutor("ioreg", "-c", "IOHIDSystem", "-d", "4")
	if err != nil {
		return 0, fmt.Errorf("ioreg: %w", err)
	}
	return hidIdleTime(out)
}

// hidIdleTime finds the first HIDIdleTime property in ioreg's tree output.
func hidIdleTime(out []byte) (time.Duration, error) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		_, rest, found := strings.Cut(sc.Text(), hidIdleKey)
		if !found {
			continue
		}
		_, value, found := strings.Cut(rest, "=")
		if !found {
			continue
		}
		nanos, err := strconv.ParseInt(strings.Trim(strings.TrimSpace(value), `"`), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("bad %s value: %w", hidIdleKey, err)
		}
		if nanos < 0 {
			return 0, fmt.Errorf("negative %s %d", hidIdleKey, nanos)
		}
		return time.Duration(nanos), nil
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, errors.New("HIDIdleTime not found in ioreg output")
}
