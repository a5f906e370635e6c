//go:build windows
// +build windows

package idle

import (
	"github.com/Veraticus/remind-agent/pkg/interfaces"
)

// newPlatformDetector creates a Windows-specific idle detector.
func newPlatformDetector() interfaces.IdleTimeSource {
	return NewWindowsIdleDetector()
}
