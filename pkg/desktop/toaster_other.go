//go:build !linux
// +build !linux

package desktop

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/Veraticus/remind-agent/pkg/presenter"
)

func newPlatformToaster(string, zerolog.Logger) (presenter.Toaster, error) {
	return nil, errors.New("no clickable notification backend on this platform")
}
