//go:build !linux && !darwin && !windows
// +build !linux,!darwin,!windows

package idle

import (
	"github.com/Veraticus/remind-agent/pkg/interfaces"
)

// newPlatformDetector returns a source that always fails on unsupported platforms.
func newPlatformDetector() interfaces.IdleTimeSource {
	return unsupportedDetector{}
}
