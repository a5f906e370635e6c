//go:build windows
// +build windows

package idle

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetLastInputInfo = user32.NewProc("GetLastInputInfo")
)

// lastInputInfo mirrors the Win32 LASTINPUTINFO structure.
type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

// WindowsIdleDetector implements idle detection with GetLastInputInfo.
type WindowsIdleDetector struct {
	tickCount func() uint32
}

// NewWindowsIdleDetector creates a new Windows idle detector.
func NewWindowsIdleDetector() *WindowsIdleDetector {
	return &WindowsIdleDetector{
		tickCount: func() uint32 { return uint32(windows.DurationSinceBoot().Milliseconds()) },
	}
}

// IdleTime returns the time since the last keyboard or mouse input.
func (d *WindowsIdleDetector) IdleTime() (time.Duration, error) {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}

	ok, _, err := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if ok == 0 {
		return 0, fmt.Errorf("GetLastInputInfo failed: %w", err)
	}

	return elapsedTicks(d.tickCount(), info.dwTime), nil
}

// elapsedTicks handles the 49.7 day wraparound of the 32-bit tick counter.
func elapsedTicks(now, last uint32) time.Duration {
	return time.Duration(now-last) * time.Millisecond
}
