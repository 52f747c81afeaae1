// Package browser opens links in the system default browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Validate checks that raw is an absolute http(s) URL.
func Validate(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("url must not be empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}

// command returns the command that opens raw on goos.
func command(goos, raw string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", raw), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", raw), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", raw), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// Open starts the platform opener for raw without waiting for the
// browser.
func Open(raw string) error {
	if err := Validate(raw); err != nil {
		return err
	}

	cmd, err := command(runtime.GOOS, raw)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s: %w", raw, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
