package desktop

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// startFunc starts a command without waiting for it.
type startFunc func(name string, args ...string) error

func defaultStart(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the launcher.
	go func() { _ = cmd.Wait() }()
	return nil
}

// BrowserOpener opens links in the user's default browser.
type BrowserOpener struct {
	goos  string
	start startFunc
}

// NewBrowserOpener creates an opener for the running platform.
func NewBrowserOpener() *BrowserOpener {
	return &BrowserOpener{goos: runtime.GOOS, start: defaultStart}
}

// Open implements interfaces.URLOpener. Only http and https links are opened.
func (o *BrowserOpener) Open(link string) error {
	u, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("invalid link: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q link", u.Scheme)
	}

	name, args, err := openCommand(o.goos, link)
	if err != nil {
		return err
	}
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	return nil
}

func openCommand(goos, link string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{link}, nil
	case "darwin":
		return "open", []string{link}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", link}, nil
	default:
		return "", nil, fmt.Errorf("opening links is not supported on %s", goos)
	}
}
