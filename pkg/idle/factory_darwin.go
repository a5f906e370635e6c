//go:build darwin
// +build darwin

package idle

import (
	"github.com/Veraticus/remind-agent/pkg/interfaces"
)

// newPlatformDetector creates a macOS-specific idle detector.
func newPlatformDetector() interfaces.IdleTimeSource {
	return NewDarwinIdleDetector()
}
