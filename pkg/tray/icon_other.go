//go:build !windows
// +build !windows

package tray

import _ "embed"

//go:embed assets/icon.png
var iconData []byte
