//go:build linux
// +build linux

package idle

import (
	"github.com/Veraticus/remind-agent/pkg/interfaces"
)

// newPlatformDetector creates a Linux-specific idle detector.
func newPlatformDetector() interfaces.IdleTimeSource {
	return NewLinuxIdleDetector()
}
